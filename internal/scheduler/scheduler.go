package scheduler

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"courseplan/internal/milp"
)

// Result is the solve response. Schedule only contains courses that received
// an assignment; on a non-optimal status it is empty and Hints carries
// best-effort, non-authoritative diagnostics.
type Result struct {
	Status    milp.Status
	Schedule  map[string]int
	Warnings  []Warning
	Hints     []string
	Objective float64
}

// Scheduler compiles a solve request into a MILP, runs the backend and reads
// the assignment back.
type Scheduler interface {
	Solve(Input) (Result, error)
}

func New(solver milp.Solver) Scheduler {
	return &milpScheduler{solver: solver}
}

type milpScheduler struct {
	solver milp.Solver
}

func (scheduler *milpScheduler) Solve(input Input) (Result, error) {
	if err := input.Validate(); err != nil {
		return Result{}, err
	}

	compiled, err := compile(input)
	if err != nil {
		return Result{}, fmt.Errorf("cannot build model: %w", err)
	}

	log.Debugf("scheduler: compiled %v courses into %v variables, %v constraints",
		len(input.Courses), compiled.model.NumVars(), len(compiled.model.Constraints()))

	solution, err := scheduler.solver.Solve(compiled.model)
	if err != nil {
		return Result{}, fmt.Errorf("solver backend failed: %w", err)
	}

	result := Result{
		Status:   solution.Status,
		Schedule: map[string]int{},
		Warnings: compiled.warnings,
	}

	if solution.Status != milp.StatusOptimal {
		result.Hints = Diagnose(input, solution.Status)
		return result, nil
	}

	result.Objective = solution.Objective
	for _, course := range input.Courses {
		if semester, ok := chosenSemester(compiled, solution, course); ok {
			result.Schedule[course] = semester
		}
	}

	return result, nil
}

// chosenSemester scans the course's allowed semesters in order and picks the
// first whose placement variable is set; the 0.5 threshold guards against
// solver floating-point noise.
func chosenSemester(compiled *compiled, solution milp.Solution, course string) (int, bool) {
	for _, semester := range compiled.allowed[course] {
		if solution.Value(compiled.place[course][semester]) > 0.5 {
			return semester, true
		}
	}
	return 0, false
}
