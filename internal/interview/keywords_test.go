package interview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordTableMatches(t *testing.T) {
	table := DefaultKeywordTable().normalized()

	tests := []struct {
		attr Attribute
		text string
		want bool
	}{
		{AttrName, "What is your FULL NAME?", true},
		{AttrPhone, "Mobile number of the respondent", true},
		{AttrCUID, "Customer Unique Identification (STREAM)", true},
		{AttrTicketNumber, "Ticket No.", true},
		{AttrLocation, "Where are you located?", true},
		{AttrSerialNumber, "How satisfied are you?", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Matches(tt.attr, tt.text))
		})
	}
}

func TestLoadKeywordTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keywords:\n  Phone: [\"  GSM Line \", \"\"]\n"), 0o600))

	table, err := LoadKeywordTable(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"gsm line"}, table[AttrPhone])
	assert.Equal(t, DefaultKeywordTable()[AttrName], table[AttrName])
	assert.False(t, table.Matches(AttrPhone, "Phone"))
}

func TestLoadKeywordTableRejectsUnknownAttribute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keywords:\n  shoe_size: [\"shoe\"]\n"), 0o600))

	_, err := LoadKeywordTable(path)
	assert.ErrorContains(t, err, "shoe_size")
}

func TestLoadKeywordTableMissingFile(t *testing.T) {
	_, err := LoadKeywordTable(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestContactValues(t *testing.T) {
	assert.Nil(t, ContactValues(nil))
	v := ContactValues(&model.Contact{Name: "Ada", CUID: "C-1"})
	assert.Equal(t, "Ada", v[AttrName])
	assert.Equal(t, "C-1", v[AttrCUID])
}
