package model

// TimeLimitMinutes is the encounter time allowance shared by the lifecycle
// timeout and the grading time-management gate.
const TimeLimitMinutes = 20.0

// CheckboxResult is one binary rubric criterion
type CheckboxResult struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Category    string `json:"category"`
}

// SectionResult is one 0-3 scored rubric section
type SectionResult struct {
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
	Criteria string `json:"criteria"`
	Feedback string `json:"feedback"`
}

// TimeManagement is the elapsed-time gate of the rubric
type TimeManagement struct {
	TimeSpentMinutes float64 `json:"timeSpentMinutes"`
	TimeLimitMinutes float64 `json:"timeLimitMinutes"`
	Passed           bool    `json:"passed"`
}

// RubricResult is the complete score for one ended encounter. Computed once
// from the full transcript, never mutated afterward. OverallPass is true iff
// every checkbox is completed, every section scores at least 2, and the time
// gate passed.
type RubricResult struct {
	CheckboxItems  map[string]CheckboxResult `json:"checkboxItems"`
	ScoredSections map[string]SectionResult  `json:"scoredSections"`
	TimeManagement TimeManagement            `json:"timeManagement"`
	OverallPass    bool                      `json:"overallPass"`
	TotalScore     int                       `json:"totalScore"`
}

// FeedbackReport is the human-readable companion to a RubricResult
type FeedbackReport struct {
	MissingItems    []string `json:"missingItems"`
	LowSections     []string `json:"lowSections"`
	Strengths       []string `json:"strengths"`
	Recommendations []string `json:"recommendations"`
	Text            string   `json:"text"`
}

// SessionReport bundles everything returned to the caller when an encounter
// ends: the rubric, the feedback report, and handover quality when applicable.
type SessionReport struct {
	SessionID       string         `json:"sessionId"`
	EndReason       EndReason      `json:"endReason"`
	Rubric          RubricResult   `json:"rubric"`
	Feedback        FeedbackReport `json:"feedback"`
	HandoverQuality *int           `json:"handoverQuality,omitempty"`
	ExamResult      *ExamResult    `json:"examResult,omitempty"`
}
