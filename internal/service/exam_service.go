package service

import (
	"context"
	"fmt"

	"emtsim/internal/cache"
	"emtsim/internal/exam"
	"emtsim/internal/model"

	"github.com/rs/zerolog"
)

// ExamService runs focused-exam rounds for active sessions and folds the
// final result back into the session for grading.
type ExamService struct {
	manager  *exam.Manager
	sessions cache.SessionCache
	logger   zerolog.Logger
}

// NewExamService creates a new exam service
func NewExamService(manager *exam.Manager, sessions cache.SessionCache, logger zerolog.Logger) *ExamService {
	return &ExamService{
		manager:  manager,
		sessions: sessions,
		logger:   logger,
	}
}

// Start begins the focused-exam round for an active session
func (s *ExamService) Start(ctx context.Context, sessionID string) (*model.ExamStepResponse, error) {
	if _, err := loadActiveSession(ctx, s.sessions, sessionID); err != nil {
		return nil, err
	}
	if _, err := s.manager.Start(sessionID); err != nil {
		return nil, err
	}
	question, err := s.manager.CurrentQuestion(sessionID)
	if err != nil {
		return nil, err
	}
	return &model.ExamStepResponse{Question: clientQuestion(question)}, nil
}

// Answer grades one answer and advances the round. Completing the round
// stores the result on the session, where grading picks it up.
func (s *ExamService) Answer(ctx context.Context, sessionID, text string) (*model.ExamStepResponse, error) {
	session, err := loadActiveSession(ctx, s.sessions, sessionID)
	if err != nil {
		return nil, err
	}

	answer, done, err := s.manager.SubmitAnswer(sessionID, text)
	if err != nil {
		return nil, err
	}

	resp := &model.ExamStepResponse{LastScore: &answer.Score, Completed: done}
	if !done {
		question, err := s.manager.CurrentQuestion(sessionID)
		if err != nil {
			return nil, err
		}
		resp.Question = clientQuestion(question)
		return resp, nil
	}

	result, err := s.manager.Result(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate exam result: %w", err)
	}
	session.ExamResult = result
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	s.manager.Abandon(sessionID)

	s.logger.Info().
		Str("session_id", sessionID).
		Float64("overall_percent", result.OverallPercent).
		Msg("focused exam completed")

	resp.Result = result
	return resp, nil
}

// Abandon drops an in-flight round without producing a result
func (s *ExamService) Abandon(ctx context.Context, sessionID string) {
	s.manager.Abandon(sessionID)
}

// clientQuestion strips the expected elements so the prompt does not ship
// with its own answer key.
func clientQuestion(q model.ExamQuestion) *model.ExamQuestion {
	q.ExpectedElements = nil
	return &q
}
