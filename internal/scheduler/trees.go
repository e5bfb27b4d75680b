package scheduler

import (
	"fmt"

	"courseplan/internal/catalog"
	"courseplan/internal/req"
)

// BuildTrees derives the requirement tree of every plan course from its
// catalog prerequisite text. Courses absent from the catalog or with empty
// prerequisite text simply have no tree, which means no prerequisite
// constraint.
func BuildTrees(cat *catalog.Catalog, resolver *req.Resolver, courses []string) map[string]req.Req {
	trees := make(map[string]req.Req, len(courses))
	for _, course := range courses {
		record, ok := cat.ByCode(course)
		if !ok {
			continue
		}
		if tree := req.Parse(record.PrereqText, resolver); tree != nil {
			trees[course] = tree
		}
	}
	return trees
}

// FormatSemesterLabel converts a global semester index (1..n) into a
// human-friendly label. With a known semesters-per-year structure the label
// becomes "Year y - Semester t".
func FormatSemesterLabel(semester, semestersPerYear int) string {
	if semestersPerYear < 1 {
		return fmt.Sprintf("Semester %v", semester)
	}

	year := (semester-1)/semestersPerYear + 1
	term := (semester-1)%semestersPerYear + 1
	return fmt.Sprintf("Year %v - Semester %v", year, term)
}
