package catalog

import (
	"regexp"
	"strings"
)

// CourseRecord is a single catalog entry as handed to the engine by an
// external ingestion component. Records are immutable for the lifetime of a
// solve.
type CourseRecord struct {
	Code       string
	Name       string
	Credits    *float64
	PrereqText string
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// NormalizeKey normalizes a course name or token for lookup purposes: trims,
// strips quote characters and collapses internal whitespace.
func NormalizeKey(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "'", "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return s
}

// Catalog indexes course records by code and by normalized name.
type Catalog struct {
	records    []CourseRecord
	byCode     map[string]CourseRecord
	codeByName map[string]string
}

func New(records []CourseRecord) *Catalog {
	byCode := make(map[string]CourseRecord, len(records))
	codeByName := make(map[string]string, len(records))
	for _, record := range records {
		byCode[record.Code] = record
		codeByName[NormalizeKey(record.Name)] = record.Code
	}
	return &Catalog{
		records:    records,
		byCode:     byCode,
		codeByName: codeByName,
	}
}

func (c *Catalog) Records() []CourseRecord {
	return c.records
}

func (c *Catalog) ByCode(code string) (CourseRecord, bool) {
	record, ok := c.byCode[code]
	return record, ok
}

// CodeByName returns the code of the course whose normalized name equals the
// given normalized key.
func (c *Catalog) CodeByName(nameKey string) (string, bool) {
	code, ok := c.codeByName[nameKey]
	return code, ok
}

func (c *Catalog) HasCode(code string) bool {
	_, ok := c.byCode[code]
	return ok
}
