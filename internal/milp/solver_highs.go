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

const highsPath = "highs"

type highsSolver struct{}

func NewHighsSolver() Solver {
	return &highsSolver{}
}

func (solver *highsSolver) Solve(model *Model) (Solution, error) {
	directory, err := os.MkdirTemp("", "courseplan-highs-")
	if err != nil {
		return Solution{}, err
	}
	defer os.RemoveAll(directory)

	modelFile := filepath.Join(directory, "model.lp")
	solutionFile := filepath.Join(directory, "solution.txt")
	if err := os.WriteFile(modelFile, []byte(model.ToLP()), 0644); err != nil {
		return Solution{}, err
	}

	log.Debugf("highs: solving %v (%v variables, %v constraints)", model.Name(), model.NumVars(), len(model.Constraints()))

	cmd := exec.Command(highsPath, "--solution_file", solutionFile, modelFile)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Solution{}, fmt.Errorf("an error occurred during highs execution: %v : %v", err.Error(), stderr.String())
	}

	content, err := os.ReadFile(solutionFile)
	if err != nil {
		return Solution{}, fmt.Errorf("highs produced no solution file: %w", err)
	}

	return parseHighsSolution(model, string(content))
}

// parseHighsSolution reads a HiGHS solution file: a "Model status" header
// followed by a "# Columns <n>" section of "<name> <value>" pairs.
func parseHighsSolution(model *Model, content string) (Solution, error) {
	lines := strings.Split(content, "\n")

	solution := Solution{Status: StatusNotSolved}
	for i, line := range lines {
		if strings.TrimSpace(line) != "Model status" {
			continue
		}
		for _, statusLine := range lines[i+1:] {
			status := strings.ToLower(strings.TrimSpace(statusLine))
			if status == "" {
				continue
			}
			switch {
			case strings.Contains(status, "infeasible"):
				solution.Status = StatusInfeasible
			case strings.Contains(status, "optimal"):
				solution.Status = StatusOptimal
			}
			break
		}
		break
	}

	if solution.Status != StatusOptimal {
		return solution, nil
	}

	solution.Values = make([]float64, model.NumVars())
	inColumns := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# Columns") {
			inColumns = true
			continue
		}
		if inColumns && strings.HasPrefix(trimmed, "#") {
			break
		}
		if !inColumns || trimmed == "" {
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			continue
		}
		if strings.HasPrefix(trimmed, "Objective") {
			continue
		}

		variable, ok := model.VarByName(fields[0])
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return Solution{}, fmt.Errorf("invalid value in highs output: %v", err)
		}
		solution.Values[variable] = value
	}

	if objective, ok := highsObjective(lines); ok {
		solution.Objective = objective
	}

	return solution, nil
}

func highsObjective(lines []string) (float64, bool) {
	for _, line := range lines {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 2 && fields[0] == "Objective" {
			objective, err := strconv.ParseFloat(fields[1], 64)
			if err == nil {
				return objective, true
			}
		}
	}
	return 0, false
}
