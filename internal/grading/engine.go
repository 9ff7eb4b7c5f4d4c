// Package grading scores an ended encounter against the fixed EMT skills
// rubric: binary checkbox items, ten 0-3 sections, and the time gate.
package grading

import (
	"math"
	"strings"

	"emtsim/internal/model"
	"emtsim/internal/textnorm"
)

// Engine evaluates transcripts against an injected rubric. The rubric is
// read-only and shared; every Grade call is independent, so one engine
// serves all sessions concurrently.
type Engine struct {
	checkboxes []CheckboxItem
	sections   []SectionSpec
}

// NewEngine builds an engine over the built-in rubric
func NewEngine() *Engine {
	return NewEngineWithRubric(DefaultCheckboxes(), DefaultSections())
}

// NewEngineWithRubric injects a custom rubric
func NewEngineWithRubric(checkboxes []CheckboxItem, sections []SectionSpec) *Engine {
	return &Engine{checkboxes: checkboxes, sections: sections}
}

// Grade scores the transcript. Only trainee-authored turns count; patient
// and system turns are ignored. Pure and idempotent: identical inputs yield
// an identical result, and an empty transcript yields a complete all-zero
// result rather than an error.
func (e *Engine) Grade(transcript []model.TranscriptTurn, meta model.Scenario, timeSpentMinutes float64, examResult *model.ExamResult) model.RubricResult {
	norm := textnorm.Normalize(traineeText(transcript))

	items := make(map[string]model.CheckboxResult, len(e.checkboxes))
	allChecked := true
	for _, cb := range e.checkboxes {
		completed := textnorm.ContainsAny(norm, cb.Keywords)
		if !completed {
			allChecked = false
		}
		items[cb.ID] = model.CheckboxResult{
			Description: cb.Description,
			Completed:   completed,
			Category:    cb.Category,
		}
	}

	sections := make(map[string]model.SectionResult, len(e.sections))
	total := 0
	minScore := 3
	for _, spec := range e.sections {
		score := scoreByCount(countElements(norm, spec.Elements), spec.Low, spec.High)
		if spec.ID == SectionPhysicalExam && examResult != nil {
			score = blendExamScore(score, examResult.OverallPercent)
		}
		sections[spec.ID] = model.SectionResult{
			Score:    score,
			MaxScore: 3,
			Criteria: spec.Criteria,
			Feedback: sectionFeedback(spec.Criteria, score),
		}
		total += score
		if score < minScore {
			minScore = score
		}
	}
	if len(e.sections) == 0 {
		minScore = 0
	}

	timePassed := timeSpentMinutes <= model.TimeLimitMinutes
	return model.RubricResult{
		CheckboxItems:  items,
		ScoredSections: sections,
		TimeManagement: model.TimeManagement{
			TimeSpentMinutes: timeSpentMinutes,
			TimeLimitMinutes: model.TimeLimitMinutes,
			Passed:           timePassed,
		},
		OverallPass: allChecked && minScore >= 2 && timePassed,
		TotalScore:  total,
	}
}

// traineeText joins trainee turns newline separated
func traineeText(transcript []model.TranscriptTurn) string {
	var b strings.Builder
	for _, turn := range transcript {
		if turn.Role != model.RoleTrainee {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(turn.Text)
	}
	return b.String()
}

func countElements(norm string, elements []Element) int {
	found := 0
	for _, el := range elements {
		if textnorm.ContainsAny(norm, el.Keywords) {
			found++
		}
	}
	return found
}

// blendExamScore folds the oral assessment percentage into the transcript
// exam score, weighted 60/40 in the assessment's favor, rounded and clamped
// onto the 0-3 band.
func blendExamScore(transcriptScore int, examPercent float64) int {
	assessment := examPercent / 100 * 3
	blended := math.Round(0.6*assessment + 0.4*float64(transcriptScore))
	if blended < 0 {
		return 0
	}
	if blended > 3 {
		return 3
	}
	return int(blended)
}
