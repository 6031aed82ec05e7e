package importer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadXLSX(t *testing.T) {
	buf := workbook(t, [][]any{
		{ColSerialNumber, ColName, ColLocation, ColCUID, " " + ColTicketNumber + " "},
		{7, "Chidi Eze", "ph", 6001, ""},
		{},
		{8, "Dayo Ola", "Oyo", 6002, 77},
	})

	records, err := ReadXLSX(buf)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Chidi Eze", records[0].String(ColName))
	_, hasTicket := records[0][ColTicketNumber]
	assert.False(t, hasTicket, "blank cells are left out")
	assert.Equal(t, "77", records[1].String(ColTicketNumber))

	b := NewNormalizer().Normalize(records)
	require.Len(t, b.Contacts, 2)
	assert.Equal(t, int64(6001), b.Contacts[0].ID)
	assert.Equal(t, "Rivers", b.Contacts[0].Location)
	assert.Equal(t, int64(8), *b.Interviews[1].ID)
}

func TestReadXLSXNeedsDataRow(t *testing.T) {
	_, err := ReadXLSX(workbook(t, [][]any{{ColSerialNumber}}))
	assert.Error(t, err)
}

func TestReadFileRejectsUnknownExtension(t *testing.T) {
	_, err := ReadFile("/dev/null")
	assert.Error(t, err)
}
