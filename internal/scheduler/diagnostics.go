package scheduler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"courseplan/internal/milp"
	"courseplan/internal/req"
)

// Diagnose produces best-effort hints for a non-optimal solve. The hints
// suggest likely fixes, they do not prove what made the model infeasible.
// Every applicable hint is emitted, in a fixed order, so coexisting problems
// (say a cycle and a missing offering) surface together.
func Diagnose(input Input, status milp.Status) []string {
	var hints []string

	if noOfferings := coursesWithoutOfferings(input); len(noOfferings) > 0 {
		hints = append(hints, fmt.Sprintf(
			"Some courses have no offerings (no allowed semesters). Add offerings for: %v",
			strings.Join(noOfferings, ", ")))
	}

	if input.UsePrereqs {
		hints = append(hints, impossibleOrderings(input)...)
	}
	if input.UseCreditLimits {
		if hint, overflow := capacityOverflow(input); overflow {
			hints = append(hints, hint)
		}
	}
	if input.UsePrereqs {
		if course, found := findCycle(input); found {
			hints = append(hints, fmt.Sprintf(
				"Prerequisite cycle detected involving course %v. Break the cycle or relax prerequisites.", course))
		}
	}

	if status == milp.StatusInfeasible {
		hints = append(hints, "The solver could not find a feasible schedule with the current offerings, constraints, and prerequisites.")
	} else {
		hints = append(hints, fmt.Sprintf("Solver status: %v. Try adjusting offerings/constraints, then solve again.", status))
	}

	return hints
}

func coursesWithoutOfferings(input Input) []string {
	return lo.Filter(input.Courses, func(course string, _ int) bool {
		return len(input.AllowedSemesters[course]) == 0
	})
}

// internalEdges lists the in-plan courses referenced by internal leaves of a
// course's requirement tree. OR alternatives are included too: the edges are
// advisory, not a proof of necessity.
func internalEdges(input Input, course string) []string {
	tree := input.Trees[course]
	if tree == nil {
		return nil
	}

	inPlan := lo.SliceToMap(input.Courses, func(c string) (string, bool) { return c, true })

	var edges []string
	req.Walk(tree, func(node req.Req) {
		if leaf, ok := node.(req.Leaf); ok && leaf.Kind == req.KindInternal && inPlan[leaf.Code] {
			edges = append(edges, leaf.Code)
		}
	})
	return lo.Uniq(edges)
}

// impossibleOrderings reports prerequisite edges that no allowed-semester
// pair can satisfy: the prerequisite's earliest offering is not strictly
// before the dependent's latest one.
func impossibleOrderings(input Input) []string {
	var hints []string
	for _, course := range input.Courses {
		latest := lo.Max(input.AllowedSemesters[course])
		for _, prerequisite := range internalEdges(input, course) {
			earliest := lo.Min(input.AllowedSemesters[prerequisite])
			if earliest == 0 || latest == 0 {
				continue // empty offering sets are reported separately
			}
			if earliest >= latest {
				hints = append(hints, fmt.Sprintf(
					"Course %v requires %v, but no offering of %v precedes any offering of %v.",
					course, prerequisite, prerequisite, course))
			}
		}
	}
	return hints
}

// capacityOverflow compares the plan's total credits against total capacity.
// Only meaningful when every semester in the universe has a configured cap.
func capacityOverflow(input Input) (string, bool) {
	semesters := lo.Uniq(lo.Flatten(lo.Values(input.AllowedSemesters)))
	sort.Ints(semesters)
	if len(semesters) == 0 {
		return "", false
	}

	capacity := 0.0
	for _, semester := range semesters {
		limit, capped := input.MaxCreditsPerSemester[semester]
		if !capped {
			return "", false // an uncapped semester means unbounded capacity
		}
		capacity += limit
	}

	total := lo.SumBy(input.Courses, func(course string) float64 {
		return input.Credits[course]
	})
	if total <= capacity {
		return "", false
	}

	return fmt.Sprintf(
		"Total credits in plan (%g) exceed capacity (%g across %v semesters). Increase semesters/caps or reduce credits.",
		total, capacity, len(semesters)), true
}

// findCycle runs a depth-first traversal over the prerequisite edges with an
// on-stack set and reports the first course found on a cycle. Existence only:
// elaborating every cycle is not worth the noise in a hint.
func findCycle(input Input) (string, bool) {
	const (
		unvisited = iota
		inProgress
		done
	)

	state := make(map[string]int, len(input.Courses))

	var visit func(course string) (string, bool)
	visit = func(course string) (string, bool) {
		state[course] = inProgress
		for _, prerequisite := range internalEdges(input, course) {
			switch state[prerequisite] {
			case inProgress:
				return prerequisite, true
			case unvisited:
				if culprit, found := visit(prerequisite); found {
					return culprit, true
				}
			}
		}
		state[course] = done
		return "", false
	}

	for _, course := range input.Courses {
		if state[course] == unvisited {
			if culprit, found := visit(course); found {
				return culprit, true
			}
		}
	}
	return "", false
}
