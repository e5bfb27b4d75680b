package req

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strings"

	"courseplan/internal/catalog"
)

// AliasRules maps a normalized prerequisite token alias to a canonical course
// identifier: either a course code (all digits) or a canonical course name as
// it appears in the catalog. Read-only once loaded.
type AliasRules struct {
	aliasToCanonical map[string]string
}

func NewAliasRules(mapping map[string]string) AliasRules {
	normalized := make(map[string]string, len(mapping))
	for alias, canonical := range mapping {
		alias = catalog.NormalizeKey(alias)
		canonical = strings.TrimSpace(canonical)
		if alias == "" || canonical == "" {
			continue
		}
		normalized[alias] = canonical
	}
	return AliasRules{aliasToCanonical: normalized}
}

// Canonical returns the canonical target for a normalized token, if any.
func (r AliasRules) Canonical(token string) (string, bool) {
	canonical, ok := r.aliasToCanonical[token]
	return canonical, ok
}

// LoadAliasRules reads alias rules from a CSV file with "alias" and
// "canonical" headers (extra columns ignored). A missing file yields empty
// rules: aliases are an operational override, not a required input.
func LoadAliasRules(path string) (AliasRules, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewAliasRules(nil), nil
	} else if err != nil {
		return AliasRules{}, fmt.Errorf("cannot open alias rules: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return AliasRules{}, fmt.Errorf("cannot read alias rules %v: %w", path, err)
	}
	if len(rows) == 0 {
		return NewAliasRules(nil), nil
	}

	aliasColumn, canonicalColumn := -1, -1
	for i, header := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(header)) {
		case "alias":
			aliasColumn = i
		case "canonical":
			canonicalColumn = i
		}
	}
	if aliasColumn < 0 || canonicalColumn < 0 {
		return AliasRules{}, fmt.Errorf("alias rules %v: missing alias/canonical headers", path)
	}

	mapping := make(map[string]string)
	for _, row := range rows[1:] {
		if aliasColumn >= len(row) || canonicalColumn >= len(row) {
			continue
		}
		alias := strings.TrimSpace(row[aliasColumn])
		canonical := strings.TrimSpace(row[canonicalColumn])
		if alias == "" || canonical == "" {
			continue
		}
		mapping[alias] = canonical
	}

	return NewAliasRules(mapping), nil
}

// ExternalRules classify prerequisite tokens as external requirements (for
// instance a language exemption): an exact-match set plus regex patterns.
type ExternalRules struct {
	exact    map[string]bool
	patterns []*regexp.Regexp
}

func NewExternalRules(exact []string, patterns []*regexp.Regexp) ExternalRules {
	exactSet := make(map[string]bool, len(exact))
	for _, token := range exact {
		exactSet[catalog.NormalizeKey(token)] = true
	}
	return ExternalRules{exact: exactSet, patterns: patterns}
}

// Matches reports whether a normalized token is an external requirement.
func (r ExternalRules) Matches(token string) bool {
	if r.exact[token] {
		return true
	}
	for _, pattern := range r.patterns {
		if pattern.MatchString(token) {
			return true
		}
	}
	return false
}

// LoadExternalRules reads classification rules from a line-oriented file:
//
//	# comment
//	exact:<token>   exact match after normalization
//	re:<regex>      regex searched after normalization
//	<regex>         bare lines are treated as regexes
//
// Keeping rules in a file makes the engine portable across catalogs without
// code changes. A missing file yields empty rules.
func LoadExternalRules(path string) (ExternalRules, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewExternalRules(nil, nil), nil
	} else if err != nil {
		return ExternalRules{}, fmt.Errorf("cannot read external rules: %w", err)
	}

	var exact []string
	var patterns []*regexp.Regexp
	for _, rawLine := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if after, ok := strings.CutPrefix(line, "exact:"); ok {
			exact = append(exact, strings.TrimSpace(after))
			continue
		}

		expression := line
		if after, ok := strings.CutPrefix(line, "re:"); ok {
			expression = strings.TrimSpace(after)
		}
		pattern, err := regexp.Compile(expression)
		if err != nil {
			return ExternalRules{}, fmt.Errorf("external rules %v: invalid pattern %q: %w", path, expression, err)
		}
		patterns = append(patterns, pattern)
	}

	return NewExternalRules(exact, patterns), nil
}
