package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"emtsim/internal/config"
	"emtsim/internal/model"
	"emtsim/internal/patient"
)

// DialogueService produces patient-facing text: in-character replies,
// contraindication refusals, and scenario intros. With a Gemini key it
// phrases replies via the API; without one, or on any API failure, it falls
// back to the deterministic canned dialogue so training still works offline.
type DialogueService struct {
	config *config.AIConfig
	client *http.Client
}

// NewDialogueService creates a new dialogue service
func NewDialogueService() *DialogueService {
	cfg := config.DefaultAIConfig()
	return &DialogueService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// PatientReply answers one recognized action. Vital checks return the
// numeric reading as narration; everything else is patient speech.
func (s *DialogueService) PatientReply(ctx context.Context, session *model.ScenarioSession, action model.Action, utterance, seed string) (string, model.Role) {
	if action.Type == model.ActionVitalCheck {
		return patient.VitalReading(session.CurrentVitals(), action.Details.VitalType), model.RoleSystem
	}

	canned := patient.Reply(session.Scenario, action, session.Consciousness, seed)
	if session.Consciousness == model.ConsciousnessUnconscious || !s.config.IsEnabled() {
		return canned, model.RolePatient
	}

	prompt := s.buildPatientPrompt(session, action, utterance)
	response, err := s.callGemini(ctx, s.config.Models.Dialogue, prompt)
	if err != nil {
		return canned, model.RolePatient
	}

	var out struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal([]byte(response), &out); err != nil || strings.TrimSpace(out.Reply) == "" {
		return canned, model.RolePatient
	}
	return out.Reply, model.RolePatient
}

// RefusalReply words a contraindication veto as patient dialogue
func (s *DialogueService) RefusalReply(contra model.Contraindication, seed string) string {
	line := patient.RefusalReply(seed)
	if contra.Message != "" {
		return line + " " + contra.Message
	}
	return line
}

// Intro narrates the dispatch/arrival moment for a starting scenario
func (s *DialogueService) Intro(ctx context.Context, scenario model.Scenario) string {
	if !s.config.IsEnabled() {
		return scenario.Presentation
	}

	response, err := s.callGemini(ctx, s.config.Models.Narrative, s.buildIntroPrompt(scenario))
	if err != nil {
		return scenario.Presentation
	}

	var out struct {
		Intro string `json:"intro"`
	}
	if err := json.Unmarshal([]byte(response), &out); err != nil || strings.TrimSpace(out.Intro) == "" {
		return scenario.Presentation
	}
	return out.Intro
}

func (s *DialogueService) callGemini(ctx context.Context, modelName, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(modelName), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

// Prompt builders
func (s *DialogueService) buildPatientPrompt(session *model.ScenarioSession, action model.Action, utterance string) string {
	v := session.CurrentVitals()
	p := session.Scenario.Patient
	return fmt.Sprintf(`You are role-playing a patient in an EMT training simulation. Return ONLY valid JSON matching this schema:
{"reply": "one or two sentences the patient says out loud"}

Patient: %d year old %s. Presentation: %s (category %s).
Consciousness: %s. If altered, speak in confused fragments. Never break character, never give medical advice, never state numeric vitals.
Current state for tone only: heart rate %d, breathing rate %d, SpO2 %d.
The trainee just said: %q
The simulation classified it as: %s.

Reply as the patient would, matching the severity of their condition.`,
		p.Age, p.Gender, session.Scenario.Presentation, session.Scenario.Category,
		session.Consciousness, v.HeartRate, v.RespiratoryRate, v.SpO2,
		utterance, action.Type)
}

func (s *DialogueService) buildIntroPrompt(scenario model.Scenario) string {
	return fmt.Sprintf(`You are narrating the opening of an EMT training scenario. Return ONLY valid JSON matching this schema:
{"intro": "two to three sentences describing what the responding crew sees on arrival"}

Scenario: %s. Category: %s, difficulty: %s.
Patient: %d year old %s.
Dispatch notes: %s

Describe the scene on arrival without revealing the diagnosis or vitals.`,
		scenario.Title, scenario.Category, scenario.Difficulty,
		scenario.Patient.Age, scenario.Patient.Gender, scenario.Presentation)
}
