package scheduler

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"courseplan/internal/req"
)

type WarningKind string

const (
	WarningExternal      WarningKind = "external"
	WarningUnresolved    WarningKind = "unresolved"
	WarningMissingCourse WarningKind = "missing_course"
)

// Warning is a non-fatal data-quality note attached to a solve: an ignored
// external requirement, an unresolved token or a prerequisite referencing a
// course outside the plan. Deduplicated by the full triple within one solve.
type Warning struct {
	Course string      `json:"course"`
	Raw    string      `json:"raw"`
	Kind   WarningKind `json:"kind"`
}

// Input is the complete solve request. All maps are read-only snapshots owned
// by the caller; the engine never mutates them.
type Input struct {
	Courses               []string
	Trees                 map[string]req.Req
	AllowedSemesters      map[string][]int
	Credits               map[string]float64
	MaxCreditsPerSemester map[int]float64
	UseCreditLimits       bool
	UsePrereqs            bool
	MinimizeLastSemester  bool
}

// ValidationError reports input precondition violations found before model
// construction. These are caller errors, never solver outcomes.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid solver input: %v", strings.Join(e.Problems, "; "))
}

// Validate checks the fatal preconditions of a solve. A course with no
// allowed semesters must be rejected here, not discovered mid-solve.
func (input Input) Validate() error {
	var problems []string

	if len(input.Courses) == 0 {
		problems = append(problems, "plan has no courses")
	}

	seen := make(map[string]bool, len(input.Courses))
	for _, course := range input.Courses {
		if seen[course] {
			problems = append(problems, fmt.Sprintf("course %v appears more than once", course))
			continue
		}
		seen[course] = true

		if len(input.AllowedSemesters[course]) == 0 {
			problems = append(problems, fmt.Sprintf("course %v has no allowed semesters (offerings)", course))
		}
		for _, semester := range input.AllowedSemesters[course] {
			if semester < 1 {
				problems = append(problems, fmt.Sprintf("course %v has invalid semester %v", course, semester))
				break
			}
		}
		if input.Credits[course] < 0 {
			problems = append(problems, fmt.Sprintf("course %v has negative credits", course))
		}
	}

	for semester, limit := range input.MaxCreditsPerSemester {
		if limit < 0 {
			problems = append(problems, fmt.Sprintf("semester %v has a negative credit cap", semester))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// PlanRequest is the JSON shape of a solve request as read by the CLI.
// Requirement trees are not part of the wire format: they are derived from
// catalog prerequisite text at solve time.
type PlanRequest struct {
	Courses               []string           `mapstructure:"courses"`
	AllowedSemesters      map[string][]int   `mapstructure:"allowedSemesters"`
	Credits               map[string]float64 `mapstructure:"credits"`
	MaxCreditsPerSemester map[string]float64 `mapstructure:"maxCreditsPerSemester"`
	UseCreditLimits       *bool              `mapstructure:"useCreditLimits"`
	UsePrereqs            *bool              `mapstructure:"usePrereqs"`
	MinimizeLastSemester  *bool              `mapstructure:"minimizeLastSemester"`
	SemestersPerYear      int                `mapstructure:"semestersPerYear"`
}

// GetMaxCreditsPerSemester converts the JSON string keys back to semester
// numbers.
func (request PlanRequest) GetMaxCreditsPerSemester() map[int]float64 {
	result := make(map[int]float64, len(request.MaxCreditsPerSemester))
	for k, v := range request.MaxCreditsPerSemester {
		key, err := strconv.Atoi(k)
		if err != nil {
			panic(fmt.Sprintf("cannot transform dictionary: %v", err))
		}
		result[key] = v
	}
	return result
}

// Input converts a request into a solver input using the given requirement
// trees. Unset enforcement flags default to the safe behavior: everything
// enforced, earliest finish preferred.
func (request PlanRequest) Input(trees map[string]req.Req) Input {
	enabled := func(flag *bool) bool {
		return flag == nil || *flag
	}

	return Input{
		Courses:               request.Courses,
		Trees:                 trees,
		AllowedSemesters:      request.AllowedSemesters,
		Credits:               request.Credits,
		MaxCreditsPerSemester: request.GetMaxCreditsPerSemester(),
		UseCreditLimits:       enabled(request.UseCreditLimits),
		UsePrereqs:            enabled(request.UsePrereqs),
		MinimizeLastSemester:  enabled(request.MinimizeLastSemester),
	}
}

func RequestFromJSON(file string) (PlanRequest, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return PlanRequest{}, err
	}

	var requestJSON map[string]any
	if err := json.Unmarshal(content, &requestJSON); err != nil {
		return PlanRequest{}, err
	}

	var request PlanRequest
	if err := mapstructure.Decode(requestJSON, &request); err != nil {
		return PlanRequest{}, err
	}

	return request, nil
}
