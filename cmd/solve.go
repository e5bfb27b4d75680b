package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"courseplan/internal/milp"
	"courseplan/internal/scheduler"
)

const infeasibleExitCode = 20

type placementJSON struct {
	Semester int    `json:"semester"`
	Label    string `json:"label"`
}

type solveResponseJSON struct {
	Status    string                   `json:"status"`
	Objective float64                  `json:"objective"`
	Schedule  map[string]placementJSON `json:"schedule"`
	Warnings  []scheduler.Warning      `json:"warnings"`
	Hints     []string                 `json:"hints,omitempty"`
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Schedule a plan file into semesters",
	Long: `Reads a plan request (courses, allowed semesters, credits, per-semester
credit caps) from a JSON file, derives each course's prerequisite tree from the
catalog and runs the selected MILP solver. The resulting schedule is printed as
JSON. Exit code is 0 when an optimal schedule was found, 20 when the plan is
infeasible and 1 on any other failure.`,
	Run: func(cmd *cobra.Command, args []string) {
		planFile, _ := cmd.Flags().GetString("plan")
		solverName, _ := cmd.Flags().GetString("solver")

		solver, err := newSolver(solverName)
		if err != nil {
			log.Fatal(err)
		}

		cat, resolver, err := loadResolver()
		if err != nil {
			log.Fatal(err)
		}

		request, err := scheduler.RequestFromJSON(planFile)
		if err != nil {
			log.Fatalf("cannot read plan file: %v", err)
		}

		trees := scheduler.BuildTrees(cat, resolver, request.Courses)
		result, err := scheduler.New(solver).Solve(request.Input(trees))
		if err != nil {
			log.Fatal(err)
		}

		response := solveResponseJSON{
			Status:    result.Status.String(),
			Objective: result.Objective,
			Schedule:  map[string]placementJSON{},
			Warnings:  result.Warnings,
			Hints:     result.Hints,
		}
		for course, semester := range result.Schedule {
			response.Schedule[course] = placementJSON{
				Semester: semester,
				Label:    scheduler.FormatSemesterLabel(semester, request.SemestersPerYear),
			}
		}

		encoded, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(encoded))

		switch result.Status {
		case milp.StatusOptimal:
		case milp.StatusInfeasible:
			os.Exit(infeasibleExitCode)
		default:
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringP("plan", "p", "", "Plan request JSON file")
	solveCmd.Flags().StringP("solver", "s", "cbc", "MILP solver backend. Available: cbc, highs, glpsol, enum")
	solveCmd.MarkFlagRequired("plan")
}
