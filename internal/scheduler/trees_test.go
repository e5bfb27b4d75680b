package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseplan/internal/catalog"
	"courseplan/internal/req"
)

func TestBuildTrees(t *testing.T) {
	records := []catalog.CourseRecord{
		{Code: "85001", Name: "Intro to CS"},
		{Code: "85002", Name: "Data Structures", PrereqText: "85001"},
		{Code: "85003", Name: "Algorithms", PrereqText: "85001+85002"},
		{Code: "85004", Name: "No Prereqs", PrereqText: "   "},
	}
	cat := catalog.New(records)
	resolver := req.NewResolver(cat, req.NewAliasRules(nil), req.NewExternalRules(nil, nil))

	trees := BuildTrees(cat, resolver, []string{"85001", "85002", "85003", "85004", "not_in_catalog"})

	assert.NotContains(t, trees, "85001")
	assert.NotContains(t, trees, "85004")
	assert.NotContains(t, trees, "not_in_catalog")

	leaf, ok := trees["85002"].(req.Leaf)
	require.True(t, ok)
	assert.Equal(t, "85001", leaf.Code)

	and, ok := trees["85003"].(req.And)
	require.True(t, ok)
	assert.Len(t, and.Items, 2)
}

func TestFormatSemesterLabel(t *testing.T) {
	assert.Equal(t, "Semester 3", FormatSemesterLabel(3, 0))
	assert.Equal(t, "Year 1 - Semester 1", FormatSemesterLabel(1, 2))
	assert.Equal(t, "Year 1 - Semester 2", FormatSemesterLabel(2, 2))
	assert.Equal(t, "Year 2 - Semester 1", FormatSemesterLabel(3, 2))
	assert.Equal(t, "Year 3 - Semester 3", FormatSemesterLabel(9, 3))
}
