package milp

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLP(t *testing.T) {
	model := NewModel("test")
	x := model.AddBinary("x_a_1")
	y := model.AddBinary("x_a_2")
	last := model.AddInteger("last_sem", 1, 4)

	model.AddConstraint("one_sem_a", Expr{{1, x}, {1, y}}, Equal, 1)
	model.AddConstraint("horizon", Expr{{1, x}, {2, y}, {-1, last}}, LessEq, 0)
	model.SetObjective(Expr{{1, last}})

	lp := model.ToLP()

	assert.Contains(t, lp, "Minimize\n obj: +1 last_sem\n")
	assert.Contains(t, lp, " one_sem_a: +1 x_a_1 +1 x_a_2 = 1\n")
	assert.Contains(t, lp, " horizon: +1 x_a_1 +2 x_a_2 -1 last_sem <= 0\n")
	assert.Contains(t, lp, "Bounds\n 1 <= last_sem <= 4\n")
	assert.Contains(t, lp, "Generals\n last_sem\n")
	assert.Contains(t, lp, "Binaries\n x_a_1 x_a_2\n")
	assert.True(t, strings.HasSuffix(lp, "End\n"))
}

func TestToLPUnboundedInteger(t *testing.T) {
	model := NewModel("test")
	model.AddBinary("x")
	last := model.AddInteger("last", 1, math.Inf(1))
	model.SetObjective(Expr{{1, last}})

	assert.Contains(t, model.ToLP(), " last >= 1\n")
}

func TestNamesAreSluggedAndUnique(t *testing.T) {
	model := NewModel("test")
	a := model.AddBinary("sat 85001/קורס")
	b := model.AddBinary("sat 85001/קורס")

	nameA, nameB := model.VarName(a), model.VarName(b)
	assert.NotEqual(t, nameA, nameB)
	for _, name := range []string{nameA, nameB} {
		assert.Regexp(t, `^[A-Za-z0-9_]+$`, name)
	}

	model.AddConstraint("c", nil, Equal, 0)
	model.AddConstraint("c", nil, Equal, 0)
	constraints := model.Constraints()
	require.Len(t, constraints, 2)
	assert.NotEqual(t, constraints[0].Name, constraints[1].Name)
}

func TestVarByName(t *testing.T) {
	model := NewModel("test")
	x := model.AddBinary("x_a_1")

	found, ok := model.VarByName("x_a_1")
	assert.True(t, ok)
	assert.Equal(t, x, found)

	_, ok = model.VarByName("missing")
	assert.False(t, ok)
}

func TestAssertSolution(t *testing.T) {
	model := NewModel("test")
	x := model.AddBinary("x")
	y := model.AddBinary("y")
	model.AddConstraint("sum", Expr{{1, x}, {1, y}}, Equal, 1)
	model.AddConstraint("order", Expr{{1, x}, {-1, y}}, GreaterEq, 0)

	assert.True(t, AssertSolution(model, []float64{1, 0}))
	assert.False(t, AssertSolution(model, []float64{0, 1}))  // violates order
	assert.False(t, AssertSolution(model, []float64{1, 1}))  // violates sum
	assert.False(t, AssertSolution(model, []float64{2, -1})) // violates bounds
	assert.False(t, AssertSolution(model, []float64{1}))     // wrong arity
}
