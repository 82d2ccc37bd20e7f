package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DurationUnknown is the sentinel stored in the artifact when no numeric
	// duration could be determined for an assessment.
	DurationUnknown = -1

	// NotAvailable is the sentinel used for missing descriptions and for
	// rendering unknown durations at the API boundary.
	NotAvailable = "N/A"
)

// Assessment is a single catalog record as produced by the crawler.
// Records are immutable after load.
type Assessment struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	URL             string   `json:"url"`
	Duration        int      `json:"duration"`
	Description     string   `json:"description"`
	RemoteSupport   string   `json:"remote_support"`
	AdaptiveSupport string   `json:"adaptive_support"`
	TestType        []string `json:"test_type"`
}

// DurationLabel renders the duration in minutes, or "N/A" when unknown.
func (a *Assessment) DurationLabel() string {
	if a.Duration == DurationUnknown {
		return NotAvailable
	}
	return strconv.Itoa(a.Duration)
}

// Format renders the record as the text block fed to the relevance oracle.
func (a *Assessment) Format() string {
	return fmt.Sprintf(
		"Assessment: %s\nTypes: %s\nDuration: %s mins\nRemote: %s\nAdaptive: %s\nDescription: %s",
		a.Name,
		strings.Join(a.TestType, ", "),
		a.DurationLabel(),
		a.RemoteSupport,
		a.AdaptiveSupport,
		a.Description,
	)
}

var testTypeLabels = map[string]string{
	"A": "Ability & Aptitude",
	"B": "Biodata & Situational Judgement",
	"C": "Competencies",
	"D": "Development & 360",
	"E": "Assessment Exercises",
	"K": "Knowledge & Skills",
	"P": "Personality & Behaviour",
	"S": "Simulations",
}

// TestTypeLabel expands a single-letter test-type code to its human-readable
// category label.
func TestTypeLabel(letter string) string {
	if label, ok := testTypeLabels[letter]; ok {
		return label
	}
	return fmt.Sprintf("Unknown (%s)", letter)
}
