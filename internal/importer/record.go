// Package importer turns flat survey export rows into contacts, completed
// interviews and their responses, and loads them into a store.
package importer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column headers of the survey export.
const (
	ColSerialNumber = "Serial Number"
	ColName         = "Q1F: Name of Customer"
	ColPhone        = "Q1G: Phone Number of the respondent"
	ColLocation     = "Q1H: Location of Respondent (State)"
	ColRound        = "Q1I: Round of interview"
	ColStudyArm     = "Q1J: Study Arm"
	ColCUID         = "Q2A: Customer Unique Identification  - CUID (STREAM)"
	ColTicketNumber = "Q2B: Ticket Number (CUID – H & B)"
	ColCallDate     = "Q1E: Date/start time of the call"
	ColStartTime    = "Q1E: Start Time"
)

// Record is one export row keyed by column header. Values are whatever the
// source produced: JSON numbers arrive as float64, spreadsheet cells as strings.
type Record map[string]any

func (r Record) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// ID reads col as a positive integer id.
func (r Record) ID(col string) (int64, error) {
	s := r.String(col)
	if s == "" {
		return 0, fmt.Errorf("column %q is empty", col)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) {
			return 0, fmt.Errorf("column %q: %q is not an id", col, s)
		}
		id = int64(f)
	}
	if id <= 0 {
		return 0, fmt.Errorf("column %q: %d is not a valid id", col, id)
	}
	return id, nil
}
