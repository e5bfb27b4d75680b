package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// LoadCSV reads catalog records from a header-keyed CSV file. Recognized
// headers (case-insensitive): code, name, credits, prereq_text. Rows missing
// a code or a name are skipped.
func LoadCSV(path string) ([]CourseRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open catalog file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read catalog file %v: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]CourseRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		code := field(row, "code")
		name := field(row, "name")
		if code == "" || name == "" {
			continue
		}

		var credits *float64
		if raw := field(row, "credits"); raw != "" {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				log.Debugf("catalog: ignoring unparseable credits %q for course %v", raw, code)
			} else {
				credits = &value
			}
		}

		records = append(records, CourseRecord{
			Code:       code,
			Name:       NormalizeKey(name),
			Credits:    credits,
			PrereqText: field(row, "prereq_text"),
		})
	}

	return records, nil
}

// LoadDir loads every *.csv file in a directory, deduplicates records by
// (code, name) and returns them sorted by code. Unreadable files are skipped
// with a warning so a single bad file cannot take down the whole catalog.
func LoadDir(directory string) ([]CourseRecord, error) {
	paths, err := filepath.Glob(filepath.Join(directory, "*.csv"))
	if err != nil {
		return nil, err
	}

	unique := make(map[[2]string]CourseRecord)
	for _, path := range paths {
		records, err := LoadCSV(path)
		if err != nil {
			log.Warnf("catalog: skipping %v: %v", filepath.Base(path), err)
			continue
		}
		for _, record := range records {
			unique[[2]string{record.Code, record.Name}] = record
		}
	}

	out := make([]CourseRecord, 0, len(unique))
	for _, record := range unique {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].Name < out[j].Name
	})

	return out, nil
}
