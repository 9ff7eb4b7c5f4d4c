package model

import "errors"

var (
	ErrExamNotStarted     = errors.New("exam assessment not started")
	ErrExamAlreadyStarted = errors.New("exam assessment already started")
	ErrExamComplete       = errors.New("exam assessment already complete")
	ErrExamIncomplete     = errors.New("exam assessment not yet complete")
)

// ExamCategory groups focused-exam questions by what they probe
type ExamCategory string

const (
	ExamAnatomy   ExamCategory = "anatomy"
	ExamPathology ExamCategory = "pathology"
	ExamTechnique ExamCategory = "technique"
)

// ExamQuestion is one entry in the focused-exam question bank
type ExamQuestion struct {
	ID               string       `json:"id" bson:"_id,omitempty"`
	Category         ExamCategory `json:"category" bson:"category"`
	Prompt           string       `json:"prompt" bson:"prompt"`
	ExpectedElements []string     `json:"expectedElements" bson:"expectedElements"`
}

// ExamAnswer records one graded answer
type ExamAnswer struct {
	QuestionID string `json:"questionId"`
	Text       string `json:"text"`
	Score      int    `json:"score"`
}

// ExamAssessment is the short-lived focused-exam sub-session
type ExamAssessment struct {
	SessionID string         `json:"sessionId"`
	Questions []ExamQuestion `json:"questions"`
	Answers   []ExamAnswer   `json:"answers"`
	Index     int            `json:"index"`
	Completed bool           `json:"completed"`
}

// ExamResult aggregates a completed assessment. Percentages are 0-100.
type ExamResult struct {
	PerCategory    map[ExamCategory]float64 `json:"perCategory"`
	OverallPercent float64                  `json:"overallPercent"`
	Completed      bool                     `json:"completed"`
}
