package milp

// Status classifies a solve outcome. Anything a backend reports beyond
// proven optimality or proven infeasibility collapses into NotSolved.
type Status int

const (
	StatusNotSolved Status = iota
	StatusOptimal
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusInfeasible:
		return "Infeasible"
	default:
		return "Not solved"
	}
}

// Solution holds the backend's verdict and, when optimal, a value per model
// variable.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
}

func (s Solution) Value(v Var) float64 {
	if int(v) >= len(s.Values) {
		return 0
	}
	return s.Values[v]
}

// Solver is implemented by MILP backends. Infeasibility is a first-class
// outcome, not an error; errors are reserved for backend failures (missing
// binary, unparseable output).
type Solver interface {
	Solve(*Model) (Solution, error)
}
