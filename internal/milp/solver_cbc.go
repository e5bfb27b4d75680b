package milp

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

const cbcPath = "cbc"

type cbcSolver struct{}

func NewCbcSolver() Solver {
	return &cbcSolver{}
}

func (solver *cbcSolver) Solve(model *Model) (Solution, error) {
	directory, err := os.MkdirTemp("", "courseplan-cbc-")
	if err != nil {
		return Solution{}, err
	}
	defer os.RemoveAll(directory)

	modelFile := filepath.Join(directory, "model.lp")
	solutionFile := filepath.Join(directory, "solution.txt")
	if err := os.WriteFile(modelFile, []byte(model.ToLP()), 0644); err != nil {
		return Solution{}, err
	}

	log.Debugf("cbc: solving %v (%v variables, %v constraints)", model.Name(), model.NumVars(), len(model.Constraints()))

	cmd := exec.Command(cbcPath, modelFile, "solve", "solution", solutionFile)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Solution{}, fmt.Errorf("an error occurred during cbc execution: %v : %v", err.Error(), stderr.String())
	}

	content, err := os.ReadFile(solutionFile)
	if err != nil {
		return Solution{}, fmt.Errorf("cbc produced no solution file: %w", err)
	}

	return parseCbcSolution(model, string(content))
}

// parseCbcSolution reads a CBC solution file. The first line carries the
// status ("Optimal - objective value 4.0", "Infeasible - ..."); every other
// line is "<index> <name> <value> <reduced cost>", possibly prefixed with
// "**" for values outside tolerance.
func parseCbcSolution(model *Model, content string) (Solution, error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 {
		return Solution{}, fmt.Errorf("empty cbc solution file")
	}

	header := strings.ToLower(lines[0])
	solution := Solution{Status: StatusNotSolved}
	switch {
	case strings.Contains(header, "infeasible"):
		solution.Status = StatusInfeasible
		return solution, nil
	case strings.Contains(header, "optimal"):
		solution.Status = StatusOptimal
	default:
		return solution, nil
	}

	if i := strings.LastIndex(header, "value"); i >= 0 {
		if objective, err := strconv.ParseFloat(strings.TrimSpace(header[i+len("value"):]), 64); err == nil {
			solution.Objective = objective
		}
	}

	solution.Values = make([]float64, model.NumVars())
	for _, line := range lines[1:] {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "**"))
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}

		variable, ok := model.VarByName(fields[1])
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return Solution{}, fmt.Errorf("invalid value in cbc output: %v", err)
		}
		solution.Values[variable] = value
	}

	return solution, nil
}
