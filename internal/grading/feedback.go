package grading

import (
	"fmt"
	"sort"
	"strings"

	"emtsim/internal/model"
)

// categoryTips point the trainee at the protocol family the scenario drew
// from. Appended to recommendations on a failed encounter.
var categoryTips = map[model.Category]string{
	model.CategoryCardiac:     "Review chest pain care: early aspirin and oxygen, and watch the pressure before nitroglycerin.",
	model.CategoryRespiratory: "Review respiratory distress care: oxygen first, then upright positioning.",
	model.CategoryTrauma:      "Review trauma care: control bleeding early and keep fluids in mind for falling pressure.",
	model.CategoryNeurologic:  "Review neurologic assessment: stroke screening and early oxygen support.",
	model.CategoryMetabolic:   "Review metabolic emergencies: check glucose and start fluids early.",
	model.CategoryGeneral:     "Review the standard medical assessment sequence from scene survey to handover.",
}

// BuildReport derives the human-readable feedback from a graded result.
// Purely derived: same result and scenario always produce the same report.
func BuildReport(result model.RubricResult, meta model.Scenario) model.FeedbackReport {
	var report model.FeedbackReport

	for _, id := range sortedKeys(result.CheckboxItems) {
		if item := result.CheckboxItems[id]; !item.Completed {
			report.MissingItems = append(report.MissingItems, item.Description)
		}
	}

	allChecked := len(report.MissingItems) == 0 && len(result.CheckboxItems) > 0
	for _, id := range sortedSectionKeys(result.ScoredSections) {
		section := result.ScoredSections[id]
		switch {
		case section.Score < 2:
			report.LowSections = append(report.LowSections, section.Criteria)
		case section.Score == 3:
			report.Strengths = append(report.Strengths, section.Criteria)
		}
	}
	if allChecked {
		report.Strengths = append(report.Strengths, "Completed every critical action item")
	}
	if result.TimeManagement.Passed {
		report.Strengths = append(report.Strengths, "Finished within the time limit")
	}

	for _, missed := range report.MissingItems {
		report.Recommendations = append(report.Recommendations, "Make sure to address: "+lowerFirst(missed)+".")
	}
	for _, low := range report.LowSections {
		report.Recommendations = append(report.Recommendations, "Build depth in: "+lowerFirst(low)+".")
	}
	if !result.TimeManagement.Passed {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("Work on pacing: the encounter took %.1f minutes against a %.0f minute limit.",
				result.TimeManagement.TimeSpentMinutes, result.TimeManagement.TimeLimitMinutes))
	}
	if !result.OverallPass {
		if tip, ok := categoryTips[meta.Normalized().Category]; ok {
			report.Recommendations = append(report.Recommendations, tip)
		}
	}

	report.Text = renderText(result, report)
	return report
}

func renderText(result model.RubricResult, report model.FeedbackReport) string {
	var b strings.Builder

	if result.OverallPass {
		b.WriteString("Result: pass. ")
	} else {
		b.WriteString("Result: not yet passing. ")
	}
	fmt.Fprintf(&b, "Section score %d of %d.", result.TotalScore, 3*len(result.ScoredSections))

	if len(report.Strengths) > 0 {
		b.WriteString("\n\nStrengths: ")
		b.WriteString(strings.Join(report.Strengths, "; "))
		b.WriteString(".")
	}
	if len(report.MissingItems) > 0 {
		b.WriteString("\n\nMissed critical actions: ")
		b.WriteString(strings.Join(report.MissingItems, "; "))
		b.WriteString(".")
	}
	if len(report.LowSections) > 0 {
		b.WriteString("\n\nNeeds more depth: ")
		b.WriteString(strings.Join(report.LowSections, "; "))
		b.WriteString(".")
	}
	if len(report.Recommendations) > 0 {
		b.WriteString("\n\nRecommendations:\n- ")
		b.WriteString(strings.Join(report.Recommendations, "\n- "))
	}
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func sortedKeys(m map[string]model.CheckboxResult) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSectionKeys(m map[string]model.SectionResult) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
