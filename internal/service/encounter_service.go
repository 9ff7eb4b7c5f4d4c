package service

import (
	"context"
	"fmt"
	"time"

	"emtsim/internal/cache"
	"emtsim/internal/model"
	"emtsim/internal/patient"
	"emtsim/internal/recognizer"

	"github.com/rs/zerolog"
)

// EncounterService runs the message pipeline for active sessions: recognize
// the utterance, vet medications, update the patient, answer in character,
// and close the encounter when an end condition fires.
type EncounterService struct {
	sessions    cache.SessionCache
	recognizer  *recognizer.Recognizer
	dialogue    *DialogueService
	reports     *ReportService
	broadcaster Broadcaster
	logger      zerolog.Logger
}

// NewEncounterService creates a new encounter service
func NewEncounterService(
	sessions cache.SessionCache,
	rec *recognizer.Recognizer,
	dialogue *DialogueService,
	reports *ReportService,
	broadcaster Broadcaster,
	logger zerolog.Logger,
) *EncounterService {
	return &EncounterService{
		sessions:    sessions,
		recognizer:  rec,
		dialogue:    dialogue,
		reports:     reports,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// ProcessMessage handles one trainee utterance end to end. Sessions are
// mutated strictly sequentially; callers serialize per session.
func (s *EncounterService) ProcessMessage(ctx context.Context, sessionID, text string, now time.Time) (*model.EncounterUpdate, error) {
	session, err := loadActiveSession(ctx, s.sessions, sessionID)
	if err != nil {
		return nil, err
	}

	session.Transcript = append(session.Transcript, model.TranscriptTurn{
		Role: model.RoleTrainee,
		Text: text,
		At:   now,
	})
	seed := fmt.Sprintf("%s:%d", session.ID, len(session.Transcript))

	action := s.recognizer.Recognize(text)
	sim := patient.New(session)

	// Vet medications before any physiological effect. A veto is surfaced as
	// in-character refusal, not an error.
	var refusal string
	if action.Type == model.ActionMedicationAdmin && !action.NeedsClarification {
		if contra := recognizer.Validate(action, session.Scenario.Patient); !contra.Valid {
			refusal = s.dialogue.RefusalReply(contra, seed)
			s.logger.Info().
				Str("session_id", session.ID).
				Str("medication", action.Details.Medication).
				Str("reason", contra.Reason).
				Msg("medication contraindicated")
		}
	}

	clarification, needsClarification := s.recognizer.ClarificationRequest(action)

	if refusal == "" && !needsClarification {
		if desc := describeAction(action); desc != "" {
			sim.RecordIntervention(desc, now)
		}
	}

	// Time moves for every message, even a clarification round
	vitals, _ := sim.ProgressTime(now)
	consciousness := sim.UpdateConsciousness()

	var reply string
	var replyRole model.Role
	switch {
	case refusal != "":
		reply, replyRole = refusal, model.RolePatient
	case needsClarification:
		reply, replyRole = clarification, model.RoleSystem
	default:
		reply, replyRole = s.dialogue.PatientReply(ctx, session, action, text, seed)
	}
	session.Transcript = append(session.Transcript, model.TranscriptTurn{
		Role: replyRole,
		Text: reply,
		At:   now,
	})

	update := &model.EncounterUpdate{
		Action:        action,
		Vitals:        vitals,
		Consciousness: consciousness,
		Reply:         reply,
		ReplyRole:     replyRole,
	}

	status := sim.CheckScenarioEnd(text, now)
	if status.Ended {
		s.finish(ctx, session, status.Reason, now, update)
	} else {
		if err := s.sessions.Set(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
		s.broadcaster.BroadcastToSession(session.ID, "encounter_update", update)
	}

	return update, nil
}

// EndSession ends an encounter on explicit request, outside the utterance flow
func (s *EncounterService) EndSession(ctx context.Context, sessionID string, now time.Time) (*model.EncounterUpdate, error) {
	session, err := loadActiveSession(ctx, s.sessions, sessionID)
	if err != nil {
		return nil, err
	}

	sim := patient.New(session)
	vitals, _ := sim.ProgressTime(now)

	update := &model.EncounterUpdate{
		Vitals:        vitals,
		Consciousness: sim.UpdateConsciousness(),
	}
	s.finish(ctx, session, model.EndReasonManual, now, update)
	return update, nil
}

// finish marks the session ended, persists it, grades it, and tells observers
func (s *EncounterService) finish(ctx context.Context, session *model.ScenarioSession, reason model.EndReason, now time.Time, update *model.EncounterUpdate) {
	session.Status = model.SessionEnded
	session.EndReason = reason
	endedAt := now
	session.EndedAt = &endedAt

	if err := s.sessions.Set(ctx, session); err != nil {
		s.logger.Error().Err(err).Str("session_id", session.ID).Msg("failed to save ended session")
	}

	update.Ended = true
	update.EndReason = reason
	update.Report = s.reports.Finalize(ctx, session, now)

	s.logger.Info().
		Str("session_id", session.ID).
		Str("reason", string(reason)).
		Bool("passed", update.Report.Rubric.OverallPass).
		Float64("minutes", update.Report.Rubric.TimeManagement.TimeSpentMinutes).
		Msg("encounter ended")

	s.broadcaster.BroadcastToSession(session.ID, "encounter_end", update)
	s.broadcaster.DisconnectSession(session.ID)
}

// loadActiveSession fetches a session that must still be running
func loadActiveSession(ctx context.Context, sessions cache.SessionCache, sessionID string) (*model.ScenarioSession, error) {
	session, err := sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Status != model.SessionActive {
		return nil, ErrSessionEnded
	}
	return session, nil
}

// describeAction builds the canonical intervention description for an action,
// or "" when the action has no physiological effect. Descriptions carry the
// keywords the simulator and the critical-intervention tables match on.
func describeAction(action model.Action) string {
	d := action.Details
	switch action.Type {
	case model.ActionMedicationAdmin:
		desc := "administered " + d.Medication
		if d.Dosage != "" {
			desc += " " + d.Dosage
		}
		if d.Route != "" {
			desc += " " + d.Route
		}
		return desc
	case model.ActionEquipmentUse:
		switch d.Equipment {
		case "oxygen":
			return "administered oxygen"
		case "nasal cannula", "non-rebreather mask", "bag valve mask":
			return "oxygen via " + d.Equipment
		case "iv line":
			return "started iv fluids"
		default:
			return "applied " + d.Equipment
		}
	case model.ActionPositioning:
		if d.Position == model.Unspecified {
			return ""
		}
		return "positioned patient " + d.Position
	}
	return ""
}
