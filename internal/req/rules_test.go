package req

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAliasRules(t *testing.T) {
	path := writeTempFile(t, "aliases.csv",
		"alias,canonical,notes\n"+
			"אלגברה,85003,operator override\n"+
			"Intro,Intro to CS,\n"+
			",missing alias,\n"+
			"missing canonical,,\n")

	rules, err := LoadAliasRules(path)
	require.NoError(t, err)

	canonical, ok := rules.Canonical("אלגברה")
	assert.True(t, ok)
	assert.Equal(t, "85003", canonical)

	canonical, ok = rules.Canonical("Intro")
	assert.True(t, ok)
	assert.Equal(t, "Intro to CS", canonical)

	_, ok = rules.Canonical("missing canonical")
	assert.False(t, ok)
}

func TestLoadAliasRulesMissingFile(t *testing.T) {
	rules, err := LoadAliasRules(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)

	_, ok := rules.Canonical("anything")
	assert.False(t, ok)
}

func TestLoadExternalRules(t *testing.T) {
	path := writeTempFile(t, "external.txt",
		"# language requirements\n"+
			"\n"+
			"exact:פטור מאנגלית\n"+
			"re:אנגלית מתקדמים\n"+
			"^math placement\n")

	rules, err := LoadExternalRules(path)
	require.NoError(t, err)

	assert.True(t, rules.Matches("פטור מאנגלית"))
	assert.True(t, rules.Matches("אנגלית מתקדמים ב"))
	assert.True(t, rules.Matches("math placement exam"))
	assert.False(t, rules.Matches("# language requirements"))
	assert.False(t, rules.Matches("data structures"))
}

func TestLoadExternalRulesInvalidPattern(t *testing.T) {
	path := writeTempFile(t, "external.txt", "re:([unbalanced\n")

	_, err := LoadExternalRules(path)
	assert.Error(t, err)
}
