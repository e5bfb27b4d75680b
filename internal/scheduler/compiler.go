package scheduler

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"courseplan/internal/milp"
	"courseplan/internal/req"
)

// compiled is the output of a compile pass: the MILP model plus the handles
// needed to read a solution back.
type compiled struct {
	model    *milp.Model
	place    map[string]map[int]milp.Var
	allowed  map[string][]int // sorted copies of the allowed-semester sets
	warnings []Warning
}

type compiler struct {
	input   Input
	model   *milp.Model
	place   map[string]map[int]milp.Var
	allowed map[string][]int

	warnings     []Warning
	seenWarnings map[Warning]bool
}

// compile builds the MILP for a validated input: placement variables, the
// exactly-once constraint, optional credit caps, optional prerequisite
// satisfaction constraints and the objective selected by the flags.
func compile(input Input) (*compiled, error) {
	c := &compiler{
		input:        input,
		model:        milp.NewModel("course_scheduler"),
		place:        make(map[string]map[int]milp.Var, len(input.Courses)),
		allowed:      make(map[string][]int, len(input.Courses)),
		seenWarnings: make(map[Warning]bool),
	}

	if err := c.addPlacementVariables(); err != nil {
		return nil, err
	}
	c.addExactlyOnceConstraints()
	if input.UseCreditLimits {
		c.addCreditConstraints()
	}
	if input.UsePrereqs {
		c.addPrerequisiteConstraints()
	}
	c.setObjective()

	return &compiled{
		model:    c.model,
		place:    c.place,
		allowed:  c.allowed,
		warnings: c.warnings,
	}, nil
}

func (c *compiler) addPlacementVariables() error {
	for _, course := range c.input.Courses {
		semesters := c.input.AllowedSemesters[course]
		if len(semesters) == 0 {
			// Validate catches this before compilation; reaching it here is a
			// programming error, not a solver outcome.
			return fmt.Errorf("course %v has no allowed semesters (offerings)", course)
		}

		sorted := append([]int(nil), semesters...)
		sort.Ints(sorted)
		c.allowed[course] = sorted

		c.place[course] = make(map[int]milp.Var, len(sorted))
		for _, semester := range sorted {
			c.place[course][semester] = c.model.AddBinary(fmt.Sprintf("x_%v_%v", course, semester))
		}
	}
	return nil
}

func (c *compiler) addExactlyOnceConstraints() {
	for _, course := range c.input.Courses {
		expr := lo.Map(c.allowed[course], func(semester int, _ int) milp.Term {
			return milp.Term{Coef: 1, Var: c.place[course][semester]}
		})
		c.model.AddConstraint(fmt.Sprintf("one_sem_%v", course), expr, milp.Equal, 1)
	}
}

// semesters returns the sorted union of all allowed-semester sets.
func (c *compiler) semesters() []int {
	union := lo.Uniq(lo.Flatten(lo.Values(c.allowed)))
	sort.Ints(union)
	return union
}

func (c *compiler) addCreditConstraints() {
	for _, semester := range c.semesters() {
		limit, capped := c.input.MaxCreditsPerSemester[semester]
		if !capped {
			// No cap configured: effectively unbounded, nothing to emit.
			continue
		}

		var expr milp.Expr
		for _, course := range c.input.Courses {
			if variable, offered := c.place[course][semester]; offered {
				expr = append(expr, milp.Term{Coef: c.input.Credits[course], Var: variable})
			}
		}
		if len(expr) == 0 {
			continue
		}
		c.model.AddConstraint(fmt.Sprintf("max_credits_sem_%v", semester), expr, milp.LessEq, limit)
	}
}

func (c *compiler) addPrerequisiteConstraints() {
	for _, course := range c.input.Courses {
		tree := c.input.Trees[course]
		if tree == nil {
			continue
		}
		c.addTreeConstraints(course, tree)
	}
}

// treeNode is one entry of the flattened requirement tree: satisfaction
// variables are memoized by (node index, semester), so shared subtrees are
// encoded once per semester regardless of object identity.
type treeNode struct {
	node     req.Req
	children []int
}

func flatten(root req.Req) []treeNode {
	var nodes []treeNode

	var walk func(node req.Req) int
	walk = func(node req.Req) int {
		index := len(nodes)
		nodes = append(nodes, treeNode{node: node})

		var items []req.Req
		switch typed := node.(type) {
		case req.Leaf:
		case req.And:
			items = typed.Items
		case req.Or:
			items = typed.Items
		default:
			panic(fmt.Sprintf("unknown requirement node %T", node))
		}

		children := make([]int, len(items))
		for i, child := range items {
			children[i] = walk(child)
		}
		nodes[index].children = children
		return index
	}

	walk(root)
	return nodes
}

// addTreeConstraints enforces the requirement tree for one target course: if
// the course is placed in semester s, the root satisfaction variable for s
// must be 1.
func (c *compiler) addTreeConstraints(course string, tree req.Req) {
	nodes := flatten(tree)
	cache := make(map[[2]int]milp.Var)

	for _, semester := range c.allowed[course] {
		root := c.satisfaction(course, nodes, 0, semester, cache)
		c.model.AddConstraint(
			fmt.Sprintf("prereq_%v_%v", course, semester),
			milp.Expr{{Coef: 1, Var: c.place[course][semester]}, {Coef: -1, Var: root}},
			milp.LessEq,
			0,
		)
	}
}

// satisfaction returns the binary variable encoding "subtree at nodes[index]
// holds, given the target course is placed in semester". The encoding is the
// usual boolean-to-linear one:
//
//	internal leaf:  z = sum of the leaf course's placements before semester
//	and:            z <= child_i, z >= sum(children) - (n - 1)
//	or:             z >= child_i, z <= sum(children)
//
// External, unresolved and out-of-plan leaves are vacuously satisfied and
// surface as warnings instead of constraints. Empty And/Or are vacuously
// true.
func (c *compiler) satisfaction(course string, nodes []treeNode, index, semester int, cache map[[2]int]milp.Var) milp.Var {
	key := [2]int{index, semester}
	if variable, ok := cache[key]; ok {
		return variable
	}

	z := c.model.AddBinary(fmt.Sprintf("sat_%v_%v_%v", course, semester, index))
	cache[key] = z

	forceTrue := func(tag string) {
		c.model.AddConstraint(tag, milp.Expr{{Coef: 1, Var: z}}, milp.Equal, 1)
	}

	switch node := nodes[index].node.(type) {
	case req.Leaf:
		if node.Kind != req.KindInternal {
			c.warn(course, node.Raw, WarningKind(node.Kind))
			forceTrue("sat_leaf_ignored")
			return z
		}
		if _, inPlan := c.place[node.Code]; !inPlan {
			c.warn(course, node.Code, WarningMissingCourse)
			forceTrue("sat_leaf_missing")
			return z
		}

		// Equals 1 iff the leaf course is scheduled strictly before this
		// semester; sound because of the exactly-once constraint.
		before := c.scheduledBefore(node.Code, semester)
		c.model.AddConstraint("sat_leaf_le", append(milp.Expr{{Coef: 1, Var: z}}, negate(before)...), milp.LessEq, 0)
		c.model.AddConstraint("sat_leaf_ge", append(milp.Expr{{Coef: 1, Var: z}}, negate(before)...), milp.GreaterEq, 0)

	case req.And:
		if len(nodes[index].children) == 0 {
			forceTrue("sat_and_empty")
			return z
		}
		children := c.childVars(course, nodes, index, semester, cache)
		for _, child := range children {
			c.model.AddConstraint("sat_and_le", milp.Expr{{Coef: 1, Var: z}, {Coef: -1, Var: child}}, milp.LessEq, 0)
		}
		expr := milp.Expr{{Coef: 1, Var: z}}
		for _, child := range children {
			expr = append(expr, milp.Term{Coef: -1, Var: child})
		}
		c.model.AddConstraint("sat_and_ge", expr, milp.GreaterEq, -(float64(len(children) - 1)))

	case req.Or:
		if len(nodes[index].children) == 0 {
			// Not expected in well-formed input; vacuously true as a fallback.
			forceTrue("sat_or_empty")
			return z
		}
		children := c.childVars(course, nodes, index, semester, cache)
		for _, child := range children {
			c.model.AddConstraint("sat_or_ge", milp.Expr{{Coef: 1, Var: z}, {Coef: -1, Var: child}}, milp.GreaterEq, 0)
		}
		expr := milp.Expr{{Coef: 1, Var: z}}
		for _, child := range children {
			expr = append(expr, milp.Term{Coef: -1, Var: child})
		}
		c.model.AddConstraint("sat_or_le", expr, milp.LessEq, 0)

	default:
		panic(fmt.Sprintf("unknown requirement node %T", nodes[index].node))
	}

	return z
}

func (c *compiler) childVars(course string, nodes []treeNode, index, semester int, cache map[[2]int]milp.Var) []milp.Var {
	return lo.Map(nodes[index].children, func(child int, _ int) milp.Var {
		return c.satisfaction(course, nodes, child, semester, cache)
	})
}

// scheduledBefore builds the expression summing the placements of a course in
// semesters strictly before the given one.
func (c *compiler) scheduledBefore(course string, semester int) milp.Expr {
	var expr milp.Expr
	for _, t := range c.allowed[course] {
		if t < semester {
			expr = append(expr, milp.Term{Coef: 1, Var: c.place[course][t]})
		}
	}
	return expr
}

func negate(expr milp.Expr) milp.Expr {
	out := make(milp.Expr, len(expr))
	for i, term := range expr {
		out[i] = milp.Term{Coef: -term.Coef, Var: term.Var}
	}
	return out
}

// warn records a data-quality warning, suppressing the repeats that the
// per-semester encoding would otherwise emit. Empty raw text carries no
// information and is dropped.
func (c *compiler) warn(course, raw string, kind WarningKind) {
	if raw == "" {
		return
	}
	warning := Warning{Course: course, Raw: raw, Kind: kind}
	if c.seenWarnings[warning] {
		return
	}
	c.seenWarnings[warning] = true
	c.warnings = append(c.warnings, warning)
}

// semesterExpr is the linear expression equal to the semester number the
// course is placed in.
func (c *compiler) semesterExpr(course string) milp.Expr {
	return lo.Map(c.allowed[course], func(semester int, _ int) milp.Term {
		return milp.Term{Coef: float64(semester), Var: c.place[course][semester]}
	})
}

func (c *compiler) setObjective() {
	if !c.input.MinimizeLastSemester {
		var objective milp.Expr
		for _, course := range c.input.Courses {
			objective = append(objective, c.semesterExpr(course)...)
		}
		c.model.SetObjective(objective)
		return
	}

	// The horizon variable needs a finite upper bound anyway (it can never
	// exceed the latest allowed semester), and bounded models keep the
	// enumeration backend total.
	semesters := c.semesters()
	horizon := semesters[len(semesters)-1]
	last := c.model.AddInteger("last_sem", 1, float64(horizon))
	for _, course := range c.input.Courses {
		expr := append(c.semesterExpr(course), milp.Term{Coef: -1, Var: last})
		c.model.AddConstraint(fmt.Sprintf("last_sem_after_%v", course), expr, milp.LessEq, 0)
	}
	c.model.SetObjective(milp.Expr{{Coef: 1, Var: last}})
}
