package model

// StartScenarioRequest is the request body for starting an encounter.
// Both fields are optional; missing or unknown values resolve to defaults.
type StartScenarioRequest struct {
	Category   string `json:"category,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	ScenarioID string `json:"scenarioId,omitempty"`
}

// StartScenarioResponse returns the new session and the opening narrative
type StartScenarioResponse struct {
	SessionID     string             `json:"sessionId"`
	Scenario      Scenario           `json:"scenario"`
	Vitals        VitalsSnapshot     `json:"vitals"`
	Consciousness ConsciousnessLevel `json:"consciousness"`
	Intro         string             `json:"intro"`
}

// MessageRequest carries one trainee utterance
type MessageRequest struct {
	Text string `json:"text"`
}

// EncounterUpdate is returned after processing one trainee utterance: the
// recognized action, the resulting patient state, the in-character reply, and
// the end-of-encounter report when the lifecycle detector fired.
type EncounterUpdate struct {
	Action        Action             `json:"action"`
	Vitals        VitalsSnapshot     `json:"vitals"`
	Consciousness ConsciousnessLevel `json:"consciousness"`
	Reply         string             `json:"reply"`
	ReplyRole     Role               `json:"replyRole"`
	Ended         bool               `json:"ended"`
	EndReason     EndReason          `json:"endReason,omitempty"`
	Report        *SessionReport     `json:"report,omitempty"`
}

// ExamAnswerRequest carries one focused-exam answer
type ExamAnswerRequest struct {
	Text string `json:"text"`
}

// ExamStepResponse is returned after starting an exam or submitting an answer
type ExamStepResponse struct {
	Question  *ExamQuestion `json:"question,omitempty"`
	LastScore *int          `json:"lastScore,omitempty"`
	Completed bool          `json:"completed"`
	Result    *ExamResult   `json:"result,omitempty"`
}
