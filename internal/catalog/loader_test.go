package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, directory, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(directory, name), []byte(content), 0644))
}

func TestLoadCSV(t *testing.T) {
	directory := t.TempDir()
	writeCatalogFile(t, directory, "catalog.csv",
		"code,name,credits,prereq_text\n"+
			"85001,Intro to CS,4,\n"+
			"85002,Data Structures,3.5,85001\n"+
			"85003,Broken Credits,abc,\n"+
			",Missing Code,3,\n")

	records, err := LoadCSV(filepath.Join(directory, "catalog.csv"))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "85001", records[0].Code)
	require.NotNil(t, records[0].Credits)
	assert.Equal(t, 4.0, *records[0].Credits)

	assert.Equal(t, "85001", records[1].PrereqText)
	require.NotNil(t, records[1].Credits)
	assert.Equal(t, 3.5, *records[1].Credits)

	// unparseable credits are dropped, the record survives
	assert.Nil(t, records[2].Credits)
}

func TestLoadDir(t *testing.T) {
	directory := t.TempDir()
	writeCatalogFile(t, directory, "a.csv",
		"code,name\n85001,Intro to CS\n85002,Data Structures\n")
	writeCatalogFile(t, directory, "b.csv",
		"code,name\n85001,Intro to CS\n85009,Compilers\n")
	writeCatalogFile(t, directory, "notes.txt", "not a catalog")

	records, err := LoadDir(directory)
	require.NoError(t, err)

	codes := make([]string, 0, len(records))
	for _, record := range records {
		codes = append(codes, record.Code)
	}
	assert.Equal(t, []string{"85001", "85002", "85009"}, codes)
}
