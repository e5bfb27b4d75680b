package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "Intro to CS", NormalizeKey("  Intro   to \t CS "))
	assert.Equal(t, "Data Structures", NormalizeKey(`"Data Structures"`))
	assert.Equal(t, "cant", NormalizeKey("can't"))
	assert.Equal(t, "", NormalizeKey("   "))
}

func TestCatalogLookups(t *testing.T) {
	cat := New([]CourseRecord{
		{Code: "85001", Name: "Intro to CS"},
		{Code: "85002", Name: "Data Structures"},
	})

	assert.True(t, cat.HasCode("85001"))
	assert.False(t, cat.HasCode("99999"))

	record, ok := cat.ByCode("85002")
	require.True(t, ok)
	assert.Equal(t, "Data Structures", record.Name)

	code, ok := cat.CodeByName(NormalizeKey("Data   Structures"))
	require.True(t, ok)
	assert.Equal(t, "85002", code)

	_, ok = cat.CodeByName("unknown course")
	assert.False(t, ok)
}
