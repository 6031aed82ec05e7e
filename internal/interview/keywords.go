package interview

import (
	"fmt"
	"os"
	"strings"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"gopkg.in/yaml.v3"
)

// Attribute is a contact field that can be auto-populated into a question.
type Attribute string

const (
	AttrName         Attribute = "name"
	AttrPhone        Attribute = "phone"
	AttrSerialNumber Attribute = "serial_number"
	AttrCUID         Attribute = "cuid"
	AttrTicketNumber Attribute = "ticket_number"
	AttrLocation     Attribute = "location"
)

// Attributes lists every attribute in the order they are populated.
var Attributes = []Attribute{
	AttrName,
	AttrPhone,
	AttrSerialNumber,
	AttrCUID,
	AttrTicketNumber,
	AttrLocation,
}

// KeywordTable maps each attribute to the phrases that mark a question as
// asking for it. Phrases are matched as lowercase substrings of question text.
type KeywordTable map[Attribute][]string

func DefaultKeywordTable() KeywordTable {
	return KeywordTable{
		AttrName:         {"full name", "name of customer", "customer name", "respondent name", "your name", "name"},
		AttrPhone:        {"phone", "contact number", "mobile", "telephone"},
		AttrSerialNumber: {"serial number", "serial no"},
		AttrCUID:         {"cuid", "customer unique", "unique identification"},
		AttrTicketNumber: {"ticket number", "ticket no"},
		AttrLocation:     {"location", "state", "address", "city", "region", "where are you located"},
	}
}

type keywordFile struct {
	Keywords map[string][]string `yaml:"keywords"`
}

// LoadKeywordTable reads a YAML keyword table of the form
//
//	keywords:
//	  phone: ["phone", "contact number"]
//
// Attributes missing from the file keep their default phrases.
func LoadKeywordTable(path string) (KeywordTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword table: %w", err)
	}
	var f keywordFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse keyword table: %w", err)
	}

	table := DefaultKeywordTable()
	for name, phrases := range f.Keywords {
		attr := Attribute(strings.ToLower(strings.TrimSpace(name)))
		if _, ok := table[attr]; !ok {
			return nil, fmt.Errorf("unknown attribute %q in keyword table", name)
		}
		table[attr] = phrases
	}
	return table.normalized(), nil
}

func (t KeywordTable) normalized() KeywordTable {
	out := make(KeywordTable, len(t))
	for attr, phrases := range t {
		cleaned := make([]string, 0, len(phrases))
		for _, p := range phrases {
			p = strings.ToLower(strings.TrimSpace(p))
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		out[attr] = cleaned
	}
	return out
}

// Matches reports whether text contains any phrase for attr.
func (t KeywordTable) Matches(attr Attribute, text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range t[attr] {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// ContactValues extracts the populatable attributes of a contact.
func ContactValues(c *model.Contact) map[Attribute]string {
	if c == nil {
		return nil
	}
	return map[Attribute]string{
		AttrName:         c.Name,
		AttrPhone:        c.Phone,
		AttrSerialNumber: c.SerialNumber,
		AttrCUID:         c.CUID,
		AttrTicketNumber: c.TicketNumber,
		AttrLocation:     c.Location,
	}
}

func interviewContactValues(c *model.InterviewContact) map[Attribute]string {
	if c == nil {
		return nil
	}
	return map[Attribute]string{
		AttrName:         c.Name,
		AttrPhone:        c.Phone,
		AttrSerialNumber: c.SerialNumber,
		AttrCUID:         c.CUID,
		AttrTicketNumber: c.TicketNumber,
		AttrLocation:     c.Location,
	}
}
