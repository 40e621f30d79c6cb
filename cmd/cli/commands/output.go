package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Mohamed-004/scheduler/pkg/core/assignment"
	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/core/validation"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func severityMarker(severity model.Severity) string {
	switch severity {
	case model.SeverityError:
		return colorRed + "✗" + colorReset
	case model.SeverityWarning:
		return colorYellow + "!" + colorReset
	default:
		return colorDim + "i" + colorReset
	}
}

func printValidation(w io.Writer, result validation.Result) {
	if result.Valid {
		fmt.Fprintf(w, "\n%s✓ Job can be scheduled%s\n\n", colorGreen, colorReset)
	} else {
		fmt.Fprintf(w, "\n%s✗ Job cannot be scheduled%s\n\n", colorRed, colorReset)
	}

	for _, issue := range result.Issues {
		fmt.Fprintf(w, "  %s %s [%s]\n", severityMarker(issue.Severity), issue.Title, issue.Code)
		fmt.Fprintf(w, "    %s\n", issue.Message)
		for _, suggestion := range issue.Suggestions {
			fmt.Fprintf(w, "    %s- %s%s\n", colorDim, suggestion, colorReset)
		}
	}

	if estimate := result.PayEstimate; estimate != nil {
		fmt.Fprintf(w, "\nEstimated pay: %.2f for %.1f hours", estimate.Total, estimate.Hours)
		if estimate.Unpriced > 0 {
			fmt.Fprintf(w, " (%d without a rate)", estimate.Unpriced)
		}
		fmt.Fprintln(w)
	}

	if len(result.Suggestions.BestTimes) > 0 {
		times := make([]string, len(result.Suggestions.BestTimes))
		for i, slot := range result.Suggestions.BestTimes {
			times[i] = slot.String()
		}
		fmt.Fprintf(w, "Best times: %s\n", strings.Join(times, ", "))
	}
	fmt.Fprintln(w)
}

func printSuggestions(w io.Writer, suggestions []assignment.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "No assignment suggestions.")
		return
	}

	fmt.Fprintf(w, "Suggestions:\n\n")
	for i, s := range suggestions {
		label := "Individual workers"
		if s.Strategy == assignment.StrategyCrew {
			label = "Crew " + s.CrewName
		}
		status := colorGreen + "complete" + colorReset
		if !s.Complete() {
			status = colorYellow + "partial" + colorReset
		}
		fmt.Fprintf(w, "  %d. %s (%s) score %.2f, cost %.2f\n", i+1, label, status, s.TotalScore, s.EstimatedCost)

		for _, m := range s.Workers {
			lead := ""
			if m.IsLead {
				lead = " (lead)"
			}
			fmt.Fprintf(w, "     - %s as %s at %.2f/h%s\n", m.Name, m.RoleID, m.Rate, lead)
		}
		for _, conflict := range s.Conflicts {
			fmt.Fprintf(w, "     %s! %s%s\n", colorYellow, conflict, colorReset)
		}
	}
	fmt.Fprintln(w)
}
