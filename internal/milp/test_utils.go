package milp

import "math"

const assertEpsilon = 1e-6

// AssertSolution reports whether a full assignment satisfies every bound,
// integrality requirement and constraint of the model.
func AssertSolution(model *Model, values []float64) bool {
	if len(values) != model.NumVars() {
		return false
	}

	for i := 0; i < model.NumVars(); i++ {
		value := values[i]
		lb, ub := model.Bounds(Var(i))
		if value < lb-assertEpsilon || value > ub+assertEpsilon {
			return false
		}
		if math.Abs(value-math.Round(value)) > assertEpsilon {
			return false
		}
	}

	for _, constraint := range model.Constraints() {
		activity := constraint.Expr.Eval(values)
		switch constraint.Sense {
		case LessEq:
			if activity > constraint.RHS+assertEpsilon {
				return false
			}
		case GreaterEq:
			if activity < constraint.RHS-assertEpsilon {
				return false
			}
		case Equal:
			if math.Abs(activity-constraint.RHS) > assertEpsilon {
				return false
			}
		}
	}

	return true
}
