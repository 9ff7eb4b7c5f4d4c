package model

import (
	"time"
)

// ConsciousnessLevel is the patient responsiveness state. Transitions are
// one-directional toward worse states except the documented oxygen recovery.
type ConsciousnessLevel string

const (
	ConsciousnessAlert       ConsciousnessLevel = "alert"
	ConsciousnessAltered     ConsciousnessLevel = "altered"
	ConsciousnessUnconscious ConsciousnessLevel = "unconscious"
)

type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionEnded  SessionStatus = "ended"
)

// EndReason records why an encounter ended
type EndReason string

const (
	EndReasonHandover EndReason = "handover"
	EndReasonManual   EndReason = "manual"
	EndReasonTimeout  EndReason = "timeout"
)

// Role of a transcript turn author
type Role string

const (
	RoleTrainee Role = "trainee"
	RolePatient Role = "patient"
	RoleSystem  Role = "system"
)

// TranscriptTurn is one utterance in the encounter transcript
type TranscriptTurn struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// InterventionRecord is an append-only log entry of a treatment the trainee
// performed. Descriptions are built from recognized actions, so critical
// intervention checks match on canonical keywords.
type InterventionRecord struct {
	Description    string    `json:"description"`
	Timestamp      time.Time `json:"timestamp"`
	ElapsedMinutes float64   `json:"elapsedMinutes"`
}

// ScenarioSession is the aggregate for one active patient encounter. It is
// mutated strictly sequentially, one utterance at a time, and shares no state
// with other sessions.
type ScenarioSession struct {
	ID        string        `json:"id"`
	TraineeID string        `json:"traineeId"`
	Status    SessionStatus `json:"status"`

	Scenario Scenario `json:"scenario"`

	StartedAt     time.Time          `json:"startedAt"`
	EndedAt       *time.Time         `json:"endedAt,omitempty"`
	EndReason     EndReason          `json:"endReason,omitempty"`
	Consciousness ConsciousnessLevel `json:"consciousness"`

	VitalsHistory []VitalsSnapshot     `json:"vitalsHistory"`
	Interventions []InterventionRecord `json:"interventions"`
	Transcript    []TranscriptTurn     `json:"transcript"`

	// ExamResult is set once a focused-exam round completes; the in-flight
	// assessment itself lives in the exam manager and may be lost on restart.
	ExamResult *ExamResult `json:"examResult,omitempty"`
}

// CurrentVitals returns the latest recorded snapshot. An uninitialized
// session reads as a normal resting patient rather than failing.
func (s *ScenarioSession) CurrentVitals() VitalsSnapshot {
	if len(s.VitalsHistory) == 0 {
		return DefaultVitals()
	}
	return s.VitalsHistory[len(s.VitalsHistory)-1]
}

// ElapsedMinutes since the session started, at the given instant
func (s *ScenarioSession) ElapsedMinutes(now time.Time) float64 {
	return now.Sub(s.StartedAt).Minutes()
}

// TraineeText concatenates all trainee-authored turns, newline separated.
// Patient and system turns never count toward grading.
func (s *ScenarioSession) TraineeText() string {
	out := ""
	for _, t := range s.Transcript {
		if t.Role != RoleTrainee {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += t.Text
	}
	return out
}
