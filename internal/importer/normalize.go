package importer

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"gopkg.in/yaml.v3"
)

// RegionNotProvided is used when a location matches no known region.
const RegionNotProvided = "Not Provided"

// DefaultScaleValue is used for scale answers outside the known wording.
const DefaultScaleValue = 3

// Regions is the canonical list of Nigerian states plus the FCT.
var Regions = []string{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa", "Benue",
	"Borno", "Cross River", "Delta", "Ebonyi", "Edo", "Ekiti", "Enugu", "FCT",
	"Gombe", "Imo", "Jigawa", "Kaduna", "Kano", "Katsina", "Kebbi", "Kogi",
	"Kwara", "Lagos", "Nasarawa", "Niger", "Ogun", "Ondo", "Osun", "Oyo",
	"Plateau", "Rivers", "Sokoto", "Taraba", "Yobe", "Zamfara",
}

// DefaultRegionAliases maps title-cased shorthand and city names to a region.
func DefaultRegionAliases() map[string]string {
	return map[string]string{
		"Fct":           "FCT",
		"Abj":           "FCT",
		"Abuja":         "FCT",
		"Lag":           "Lagos",
		"Ibadan":        "Oyo",
		"Ph":            "Rivers",
		"Port Harcourt": "Rivers",
		"Kd":            "Kaduna",
	}
}

var scaleWords = map[string]int{
	"poor":      1,
	"fair":      2,
	"good":      3,
	"very good": 4,
	"excellent": 5,
}

// Mapping ties an export column to a catalog question.
type Mapping struct {
	Column     string
	QuestionID int64
	Type       model.QuestionType
}

// Identification questions answered from the contact columns.
const (
	QuestionName   int64 = 101
	QuestionPhone  int64 = 102
	QuestionRegion int64 = 103
)

// DefaultMappings lists the scored columns of the export.
var DefaultMappings = []Mapping{
	{"3a: Respecting you as a person .", 301, model.QuestionTypeScale},
	{"3b: Letting you say what matters to you about your family planning method .", 302, model.QuestionTypeScale},
	{"3c: Taking what you prefer seriously .", 303, model.QuestionTypeScale},
	{"3d: Giving you enough information to make the best decision about your method .", 304, model.QuestionTypeScale},
	{"4a: Respecting you as a person", 401, model.QuestionTypeScale},
	{"4b : Letting you say what matters to you about your family planning method .", 402, model.QuestionTypeScale},
	{"4c: Taking what you prefer seriously .", 403, model.QuestionTypeScale},
	{`Q7: Overall, how satisfied have you been with your method? You can say "not satisfied", "somewhat satisfied" or "very satisfied"`, 701, model.QuestionTypeMultipleChoice},
	{"Q8: Are you still using the same method, a different method, or no longer using a method?", 801, model.QuestionTypeMultipleChoice},
}

// Normalizer converts records. The zero value is not usable; use NewNormalizer.
type Normalizer struct {
	aliases  map[string]string
	mappings []Mapping
}

func NewNormalizer() *Normalizer {
	return &Normalizer{aliases: DefaultRegionAliases(), mappings: DefaultMappings}
}

type aliasFile struct {
	Aliases map[string]string `yaml:"region_aliases"`
}

// LoadAliases adds the region aliases of a YAML file on top of the defaults.
func (n *Normalizer) LoadAliases(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read region aliases: %w", err)
	}
	var f aliasFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse region aliases: %w", err)
	}
	for alias, region := range f.Aliases {
		if !isRegion(region) {
			return fmt.Errorf("alias %q points at unknown region %q", alias, region)
		}
		n.aliases[titleCase(alias)] = region
	}
	return nil
}

// Region maps a free-text location onto Regions, then the alias table, and
// falls back to RegionNotProvided.
func (n *Normalizer) Region(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, RegionNotProvided) {
		return RegionNotProvided
	}
	tc := titleCase(raw)
	for _, r := range Regions {
		if strings.EqualFold(r, tc) {
			return r
		}
	}
	if r, ok := n.aliases[tc]; ok {
		return r
	}
	return RegionNotProvided
}

func isRegion(s string) bool {
	for _, r := range Regions {
		if r == s {
			return true
		}
	}
	return false
}

var wordStart = regexp.MustCompile(`\b\w`)

func titleCase(s string) string {
	return wordStart.ReplaceAllStringFunc(strings.ToLower(strings.TrimSpace(s)), strings.ToUpper)
}

// ScaleValue converts a rating word to 1..5.
func ScaleValue(word string) int {
	if v, ok := scaleWords[strings.ToLower(strings.TrimSpace(word))]; ok {
		return v
	}
	return DefaultScaleValue
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// SyntheticEmail derives a placeholder address from a contact name.
func SyntheticEmail(name string) string {
	local := whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), ".")
	return local + "@example.com"
}
