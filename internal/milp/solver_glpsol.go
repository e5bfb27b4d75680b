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

const glpsolPath = "glpsol"

type glpsolSolver struct{}

func NewGlpsolSolver() Solver {
	return &glpsolSolver{}
}

func (solver *glpsolSolver) Solve(model *Model) (Solution, error) {
	directory, err := os.MkdirTemp("", "courseplan-glpsol-")
	if err != nil {
		return Solution{}, err
	}
	defer os.RemoveAll(directory)

	modelFile := filepath.Join(directory, "model.lp")
	solutionFile := filepath.Join(directory, "solution.txt")
	if err := os.WriteFile(modelFile, []byte(model.ToLP()), 0644); err != nil {
		return Solution{}, err
	}

	log.Debugf("glpsol: solving %v (%v variables, %v constraints)", model.Name(), model.NumVars(), len(model.Constraints()))

	cmd := exec.Command(glpsolPath, "--lp", modelFile, "-o", solutionFile)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Solution{}, fmt.Errorf("an error occurred during glpsol execution: %v : %v", err.Error(), stderr.String())
	}

	content, err := os.ReadFile(solutionFile)
	if err != nil {
		return Solution{}, fmt.Errorf("glpsol produced no solution file: %w", err)
	}

	return parseGlpsolSolution(model, string(content))
}

// parseGlpsolSolution reads a glpsol plain-text report: a "Status:" line
// ("INTEGER OPTIMAL", "INTEGER EMPTY", ...) and a column table whose second
// field is the variable name and whose first numeric field is the activity.
// Long names wrap onto their own line with the values following on the next.
func parseGlpsolSolution(model *Model, content string) (Solution, error) {
	lines := strings.Split(content, "\n")

	solution := Solution{Status: StatusNotSolved}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "Status:") {
			continue
		}
		status := strings.ToUpper(trimmed)
		switch {
		case strings.Contains(status, "EMPTY"), strings.Contains(status, "INFEASIBLE"):
			solution.Status = StatusInfeasible
		case strings.Contains(status, "OPTIMAL"):
			solution.Status = StatusOptimal
		}
		break
	}

	if solution.Status != StatusOptimal {
		return solution, nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Objective:") {
			fields := strings.Fields(trimmed)
			// "Objective:  obj = 4 (MINimum)"
			for i, field := range fields {
				if field == "=" && i+1 < len(fields) {
					if objective, err := strconv.ParseFloat(fields[i+1], 64); err == nil {
						solution.Objective = objective
					}
				}
			}
			break
		}
	}

	solution.Values = make([]float64, model.NumVars())

	var pending Var
	pendingValue := false
	inColumns := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.Contains(trimmed, "Column name") {
			inColumns = true
			continue
		}
		if !inColumns || trimmed == "" || strings.HasPrefix(trimmed, "---") {
			continue
		}

		fields := strings.Fields(trimmed)

		if pendingValue {
			if value, ok := firstNumeric(fields); ok {
				solution.Values[pending] = value
			}
			pendingValue = false
			continue
		}

		if len(fields) < 2 {
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			// Past the column table (KKT report etc.).
			continue
		}

		variable, ok := model.VarByName(fields[1])
		if !ok {
			continue
		}
		if value, found := firstNumeric(fields[2:]); found {
			solution.Values[variable] = value
		} else {
			// Wrapped row: the activity is on the following line.
			pending = variable
			pendingValue = true
		}
	}

	return solution, nil
}

// firstNumeric returns the first field that parses as a number, skipping
// basis-status markers like "*" and "NU".
func firstNumeric(fields []string) (float64, bool) {
	for _, field := range fields {
		if value, err := strconv.ParseFloat(field, 64); err == nil {
			return value, true
		}
	}
	return 0, false
}
