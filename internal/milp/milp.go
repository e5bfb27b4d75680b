package milp

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

type VarKind int

const (
	Binary VarKind = iota
	Integer
)

// Var is a handle into a model's variable table.
type Var int

type variable struct {
	name string
	kind VarKind
	lb   float64
	ub   float64 // math.Inf(1) when unbounded
}

type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	default:
		return "="
	}
}

type Term struct {
	Coef float64
	Var  Var
}

// Expr is a linear expression: a sum of coefficient*variable terms.
type Expr []Term

type Constraint struct {
	Name  string
	Expr  Expr
	Sense Sense
	RHS   float64
}

// Model is a mixed-integer linear program under a minimization objective: the
// MILP analog of a CNF instance. Constraint and variable names are uniquified
// by a per-model counter, so two compiles of the same input produce identical
// models and nothing leaks across models.
type Model struct {
	name        string
	vars        []variable
	constraints []Constraint
	objective   Expr
	nameCounts  map[string]int
}

func NewModel(name string) *Model {
	return &Model{
		name:       name,
		nameCounts: map[string]int{},
	}
}

var namePattern = regexp.MustCompile(`[^A-Za-z0-9_]+`)

func slug(name string) string {
	s := strings.Trim(namePattern.ReplaceAllString(name, "_"), "_")
	if s == "" {
		return "x"
	}
	return s
}

func (m *Model) uniqueName(name string) string {
	name = slug(name)
	count := m.nameCounts[name]
	m.nameCounts[name] = count + 1
	if count == 0 {
		return name
	}
	return fmt.Sprintf("%v_%v", name, count)
}

func (m *Model) AddBinary(name string) Var {
	m.vars = append(m.vars, variable{
		name: m.uniqueName(name),
		kind: Binary,
		lb:   0,
		ub:   1,
	})
	return Var(len(m.vars) - 1)
}

func (m *Model) AddInteger(name string, lb, ub float64) Var {
	m.vars = append(m.vars, variable{
		name: m.uniqueName(name),
		kind: Integer,
		lb:   lb,
		ub:   ub,
	})
	return Var(len(m.vars) - 1)
}

func (m *Model) AddConstraint(name string, expr Expr, sense Sense, rhs float64) {
	m.constraints = append(m.constraints, Constraint{
		Name:  m.uniqueName(name),
		Expr:  expr,
		Sense: sense,
		RHS:   rhs,
	})
}

func (m *Model) SetObjective(expr Expr) {
	m.objective = expr
}

func (m *Model) Name() string            { return m.name }
func (m *Model) NumVars() int            { return len(m.vars) }
func (m *Model) VarName(v Var) string    { return m.vars[v].name }
func (m *Model) VarKindOf(v Var) VarKind { return m.vars[v].kind }
func (m *Model) Bounds(v Var) (lb, ub float64) {
	return m.vars[v].lb, m.vars[v].ub
}
func (m *Model) Constraints() []Constraint { return m.constraints }
func (m *Model) Objective() Expr           { return m.objective }

// VarByName returns the handle of a named variable; used by solver backends
// to map solution files back onto the model.
func (m *Model) VarByName(name string) (Var, bool) {
	for i, v := range m.vars {
		if v.name == name {
			return Var(i), true
		}
	}
	return 0, false
}

// Eval computes the value of an expression under a full assignment.
func (e Expr) Eval(values []float64) float64 {
	total := 0.0
	for _, term := range e {
		total += term.Coef * values[term.Var]
	}
	return total
}

func (m *Model) writeExpr(builder *strings.Builder, expr Expr) {
	if len(expr) == 0 {
		// LP format has no empty expressions; a zero term keeps it well-formed.
		if len(m.vars) == 0 {
			builder.WriteString("0")
		} else {
			fmt.Fprintf(builder, "0 %v", m.vars[0].name)
		}
		return
	}
	for i, term := range expr {
		if i > 0 {
			builder.WriteString(" ")
		}
		fmt.Fprintf(builder, "%+g %v", term.Coef, m.vars[term.Var].name)
	}
}

// ToLP serializes the model into CPLEX LP text format, the lingua franca of
// cbc, highs and glpsol.
func (m *Model) ToLP() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "\\ %v\n", m.name)
	builder.WriteString("Minimize\n obj: ")
	m.writeExpr(&builder, m.objective)
	builder.WriteString("\nSubject To\n")

	for _, constraint := range m.constraints {
		fmt.Fprintf(&builder, " %v: ", constraint.Name)
		m.writeExpr(&builder, constraint.Expr)
		fmt.Fprintf(&builder, " %v %g\n", constraint.Sense, constraint.RHS)
	}

	var generals []string
	var binaries []string
	var bounds []string
	for _, v := range m.vars {
		switch v.kind {
		case Binary:
			binaries = append(binaries, v.name)
		case Integer:
			generals = append(generals, v.name)
			if math.IsInf(v.ub, 1) {
				bounds = append(bounds, fmt.Sprintf(" %v >= %g", v.name, v.lb))
			} else {
				bounds = append(bounds, fmt.Sprintf(" %g <= %v <= %g", v.lb, v.name, v.ub))
			}
		}
	}

	if len(bounds) > 0 {
		builder.WriteString("Bounds\n")
		for _, bound := range bounds {
			builder.WriteString(bound + "\n")
		}
	}
	if len(generals) > 0 {
		builder.WriteString("Generals\n " + strings.Join(generals, " ") + "\n")
	}
	if len(binaries) > 0 {
		builder.WriteString("Binaries\n " + strings.Join(binaries, " ") + "\n")
	}
	builder.WriteString("End\n")

	return builder.String()
}
