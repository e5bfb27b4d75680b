package milp

import (
	"fmt"
	"math"
)

// enumStateLimit caps the assignment space the enumeration backend is willing
// to walk.
const enumStateLimit = 1 << 22

type enumSolver struct{}

// NewEnumSolver returns a pure-Go backend that solves tiny models by
// exhaustive enumeration. It needs no external binary, which makes it the
// hermetic backend of choice for tests and toy plans; larger models belong to
// cbc/highs/glpsol.
func NewEnumSolver() Solver {
	return &enumSolver{}
}

func (solver *enumSolver) Solve(model *Model) (Solution, error) {
	domains := make([][]float64, model.NumVars())
	states := 1
	for i := 0; i < model.NumVars(); i++ {
		lb, ub := model.Bounds(Var(i))
		if math.IsInf(ub, 1) {
			return Solution{}, fmt.Errorf("enum solver requires finite bounds, variable %v is unbounded", model.VarName(Var(i)))
		}

		domain := make([]float64, 0, int(ub-lb)+1)
		for value := math.Ceil(lb); value <= ub; value++ {
			domain = append(domain, value)
		}
		if len(domain) == 0 {
			return Solution{Status: StatusInfeasible}, nil
		}

		domains[i] = domain
		states *= len(domain)
		if states > enumStateLimit {
			return Solution{}, fmt.Errorf("model too large for enum solver: more than %v assignments", enumStateLimit)
		}
	}

	values := make([]float64, model.NumVars())
	best := Solution{Status: StatusInfeasible}

	var walk func(i int)
	walk = func(i int) {
		if i == len(domains) {
			if !AssertSolution(model, values) {
				return
			}
			objective := model.Objective().Eval(values)
			if best.Status != StatusOptimal || objective < best.Objective {
				best = Solution{
					Status:    StatusOptimal,
					Objective: objective,
					Values:    append([]float64(nil), values...),
				}
			}
			return
		}
		for _, value := range domains[i] {
			values[i] = value
			walk(i + 1)
		}
	}
	walk(0)

	return best, nil
}
