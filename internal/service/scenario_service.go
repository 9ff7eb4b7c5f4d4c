package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"emtsim/internal/cache"
	"emtsim/internal/model"
	"emtsim/internal/patient"
	"emtsim/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionEnded     = errors.New("session already ended")
)

// adHocPresentations back the catalogue-less path: starting by category alone
// still yields a playable scene.
var adHocPresentations = map[model.Category]string{
	model.CategoryCardiac:     "A middle-aged patient sits clutching their chest, pale and sweating.",
	model.CategoryRespiratory: "The patient leans forward on a kitchen chair, speaking in short broken phrases.",
	model.CategoryTrauma:      "The patient lies at the foot of a ladder, holding a deformed forearm.",
	model.CategoryNeurologic:  "A family member says the patient suddenly slumped and started slurring words.",
	model.CategoryMetabolic:   "The patient is found confused and shaky; a relative mentions diabetes.",
	model.CategoryGeneral:     "The patient reports feeling generally unwell since this morning.",
}

// ScenarioService starts encounters from the catalogue and owns session
// lookup for the other services.
type ScenarioService struct {
	scenarioRepo repository.ScenarioRepo
	sessions     cache.SessionCache
	dialogue     *DialogueService
	logger       zerolog.Logger
}

// NewScenarioService creates a new scenario service
func NewScenarioService(
	scenarioRepo repository.ScenarioRepo,
	sessions cache.SessionCache,
	dialogue *DialogueService,
	logger zerolog.Logger,
) *ScenarioService {
	return &ScenarioService{
		scenarioRepo: scenarioRepo,
		sessions:     sessions,
		dialogue:     dialogue,
		logger:       logger,
	}
}

// Start creates a session for the trainee and seeds the patient baseline
func (s *ScenarioService) Start(ctx context.Context, traineeID string, req model.StartScenarioRequest, now time.Time) (*model.StartScenarioResponse, error) {
	scenario, err := s.resolveScenario(ctx, req)
	if err != nil {
		return nil, err
	}

	session := &model.ScenarioSession{
		ID:        uuid.New().String(),
		TraineeID: traineeID,
		Status:    model.SessionActive,
		Scenario:  *scenario,
		StartedAt: now,
	}

	sim := patient.New(session)
	vitals := sim.Initialize(now)

	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to cache session: %w", err)
	}

	s.logger.Info().
		Str("session_id", session.ID).
		Str("trainee_id", traineeID).
		Str("category", string(session.Scenario.Category)).
		Str("difficulty", string(session.Scenario.Difficulty)).
		Msg("scenario started")

	return &model.StartScenarioResponse{
		SessionID:     session.ID,
		Scenario:      session.Scenario,
		Vitals:        vitals,
		Consciousness: session.Consciousness,
		Intro:         s.dialogue.Intro(ctx, session.Scenario),
	}, nil
}

// GetSession loads an active or ended session
func (s *ScenarioService) GetSession(ctx context.Context, id string) (*model.ScenarioSession, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// ListScenarios filters the catalogue for browsing
func (s *ScenarioService) ListScenarios(ctx context.Context, category, difficulty string) ([]*model.Scenario, error) {
	return s.scenarioRepo.Find(ctx, model.Category(category), model.Difficulty(difficulty))
}

// resolveScenario picks a catalogue entry, or builds an ad-hoc scenario when
// nothing matches, so a bare category request always starts an encounter.
func (s *ScenarioService) resolveScenario(ctx context.Context, req model.StartScenarioRequest) (*model.Scenario, error) {
	if req.ScenarioID != "" {
		scenario, err := s.scenarioRepo.GetByID(ctx, req.ScenarioID)
		if err != nil {
			return nil, fmt.Errorf("failed to get scenario: %w", err)
		}
		if scenario == nil {
			return nil, ErrScenarioNotFound
		}
		return scenario, nil
	}

	// Unknown category or difficulty words degrade to defaults here, once
	resolved := model.Scenario{
		Category:   model.Category(req.Category),
		Difficulty: model.Difficulty(req.Difficulty),
	}.Normalized()
	category := resolved.Category
	difficulty := resolved.Difficulty
	if req.Category == "" {
		category = ""
	}
	if req.Difficulty == "" {
		difficulty = ""
	}

	matches, err := s.scenarioRepo.Find(ctx, category, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	if len(matches) > 0 {
		return matches[rand.Intn(len(matches))], nil
	}

	adHoc := model.Scenario{
		ID:           "adhoc-" + uuid.New().String()[:8],
		Title:        fmt.Sprintf("Unscripted %s drill", resolved.Category),
		Category:     resolved.Category,
		Difficulty:   resolved.Difficulty,
		Presentation: adHocPresentations[resolved.Category],
		Patient: model.PatientProfile{
			Age:    52,
			Gender: "female",
		},
	}.Normalized()
	return &adHoc, nil
}
