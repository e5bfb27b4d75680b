package scheduler

import (
	"testing"

	. "github.com/onsi/gomega"

	"courseplan/internal/milp"
	"courseplan/internal/req"
)

func TestDiagnoseMissingOfferings(t *testing.T) {
	g := NewWithT(t)

	input := Input{
		Courses:          []string{"a", "b"},
		AllowedSemesters: map[string][]int{"a": {1}},
	}

	hints := Diagnose(input, milp.StatusInfeasible)
	g.Expect(hints).To(ContainElement(ContainSubstring("no offerings")))
	g.Expect(hints).To(ContainElement(ContainSubstring("b")))
}

func TestDiagnoseImpossibleOrdering(t *testing.T) {
	g := NewWithT(t)

	// The prerequisite is only offered at or after the dependent's last
	// chance: no allowed ordering exists.
	input := Input{
		Courses: []string{"P", "C"},
		Trees:   map[string]req.Req{"C": internalLeaf("P")},
		AllowedSemesters: map[string][]int{
			"P": {3, 4},
			"C": {1, 2, 3},
		},
		UsePrereqs: true,
	}

	hints := Diagnose(input, milp.StatusInfeasible)
	g.Expect(hints).To(ContainElement(ContainSubstring("no offering of P precedes")))
}

func TestDiagnoseCapacityOverflow(t *testing.T) {
	g := NewWithT(t)

	input := Input{
		Courses:               []string{"a", "b"},
		AllowedSemesters:      map[string][]int{"a": {1, 2}, "b": {1, 2}},
		Credits:               map[string]float64{"a": 5, "b": 6},
		MaxCreditsPerSemester: map[int]float64{1: 5, 2: 5},
		UseCreditLimits:       true,
	}

	hints := Diagnose(input, milp.StatusInfeasible)
	g.Expect(hints).To(ContainElement(ContainSubstring("exceed capacity")))

	// An uncapped semester means unbounded capacity: no overflow hint.
	delete(input.MaxCreditsPerSemester, 2)
	hints = Diagnose(input, milp.StatusInfeasible)
	g.Expect(hints).ToNot(ContainElement(ContainSubstring("exceed capacity")))
}

func TestDiagnoseEmitsCoexistingHints(t *testing.T) {
	g := NewWithT(t)

	// A cycle and a missing offering at the same time: both hints must show.
	input := Input{
		Courses: []string{"A", "B", "C"},
		Trees: map[string]req.Req{
			"A": internalLeaf("B"),
			"B": internalLeaf("A"),
		},
		AllowedSemesters: map[string][]int{"A": {1, 2}, "B": {1, 2}},
		UsePrereqs:       true,
	}

	hints := Diagnose(input, milp.StatusInfeasible)
	g.Expect(hints).To(ContainElement(ContainSubstring("cycle")))
	g.Expect(hints).To(ContainElement(ContainSubstring("no offerings")))
}

func TestDiagnoseNotSolvedStatus(t *testing.T) {
	g := NewWithT(t)

	input := Input{
		Courses:          []string{"a"},
		AllowedSemesters: map[string][]int{"a": {1}},
	}

	hints := Diagnose(input, milp.StatusNotSolved)
	g.Expect(hints).To(ContainElement(ContainSubstring("Solver status")))
}

func TestFindCycle(t *testing.T) {
	g := NewWithT(t)

	t.Run("detects a two-course cycle", func(t *testing.T) {
		input := Input{
			Courses: []string{"A", "B"},
			Trees: map[string]req.Req{
				"A": internalLeaf("B"),
				"B": internalLeaf("A"),
			},
			AllowedSemesters: map[string][]int{"A": {1}, "B": {1}},
		}

		_, found := findCycle(input)
		g.Expect(found).To(BeTrue())
	})

	t.Run("a chain is not a cycle", func(t *testing.T) {
		input := Input{
			Courses: []string{"A", "B", "C"},
			Trees: map[string]req.Req{
				"B": internalLeaf("A"),
				"C": req.And{Items: []req.Req{internalLeaf("A"), internalLeaf("B")}},
			},
			AllowedSemesters: map[string][]int{"A": {1}, "B": {2}, "C": {3}},
		}

		_, found := findCycle(input)
		g.Expect(found).To(BeFalse())
	})

	t.Run("edges to courses outside the plan are ignored", func(t *testing.T) {
		input := Input{
			Courses:          []string{"A"},
			Trees:            map[string]req.Req{"A": internalLeaf("Z")},
			AllowedSemesters: map[string][]int{"A": {1}},
		}

		_, found := findCycle(input)
		g.Expect(found).To(BeFalse())
	})
}
