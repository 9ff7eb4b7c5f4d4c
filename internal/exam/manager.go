package exam

import (
	"errors"
	"hash/fnv"
	"math/rand"
	"sync"

	"emtsim/internal/model"
	"emtsim/internal/textnorm"
)

// ErrBankEmpty is returned when an assessment is started against a manager
// with no questions to draw from.
var ErrBankEmpty = errors.New("exam question bank is empty")

const (
	minQuestions = 3
	maxQuestions = 5
)

// categoryOrder fixes the coverage pass so selection stays deterministic.
var categoryOrder = []model.ExamCategory{
	model.ExamAnatomy,
	model.ExamPathology,
	model.ExamTechnique,
}

// Manager tracks the in-flight focused-exam assessment per session. The bank
// is read-only after construction; the active map is guarded for concurrent
// sessions.
type Manager struct {
	bank   []model.ExamQuestion
	active map[string]*model.ExamAssessment
	mu     sync.RWMutex
}

// NewManager builds a manager over the built-in bank
func NewManager() *Manager {
	return NewManagerWithBank(DefaultBank())
}

// NewManagerWithBank injects a custom question bank
func NewManagerWithBank(bank []model.ExamQuestion) *Manager {
	return &Manager{
		bank:   bank,
		active: make(map[string]*model.ExamAssessment),
	}
}

// Start opens an assessment for the session and selects its questions: one
// per category first, then extras up to a seeded target of 3 to 5. Selection
// is derived from the session ID, so restarts of the same session see the
// same questions.
func (m *Manager) Start(sessionID string) (model.ExamAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.active[sessionID]; ok {
		return model.ExamAssessment{}, model.ErrExamAlreadyStarted
	}
	if len(m.bank) == 0 {
		return model.ExamAssessment{}, ErrBankEmpty
	}

	a := &model.ExamAssessment{
		SessionID: sessionID,
		Questions: m.selectQuestions(sessionID),
	}
	m.active[sessionID] = a
	return snapshot(a), nil
}

// CurrentQuestion returns the question awaiting an answer
func (m *Manager) CurrentQuestion(sessionID string) (model.ExamQuestion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.active[sessionID]
	if !ok {
		return model.ExamQuestion{}, model.ErrExamNotStarted
	}
	if a.Completed {
		return model.ExamQuestion{}, model.ErrExamComplete
	}
	return a.Questions[a.Index], nil
}

// SubmitAnswer grades the answer against the current question, records it,
// and advances. The returned flag is true once the last question has been
// answered.
func (m *Manager) SubmitAnswer(sessionID, answer string) (model.ExamAnswer, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.active[sessionID]
	if !ok {
		return model.ExamAnswer{}, false, model.ErrExamNotStarted
	}
	if a.Completed {
		return model.ExamAnswer{}, false, model.ErrExamComplete
	}

	q := a.Questions[a.Index]
	graded := model.ExamAnswer{
		QuestionID: q.ID,
		Text:       answer,
		Score:      scoreAnswer(answer, q.ExpectedElements),
	}
	a.Answers = append(a.Answers, graded)
	a.Index++
	if a.Index >= len(a.Questions) {
		a.Completed = true
	}
	return graded, a.Completed, nil
}

// Result aggregates a completed assessment into per-category and overall
// percentages. The assessment stays registered so reads are repeatable;
// callers drop it with Abandon when the encounter ends.
func (m *Manager) Result(sessionID string) (*model.ExamResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.active[sessionID]
	if !ok {
		return nil, model.ErrExamNotStarted
	}
	if !a.Completed {
		return nil, model.ErrExamIncomplete
	}

	catScore := make(map[model.ExamCategory]int)
	catMax := make(map[model.ExamCategory]int)
	total, possible := 0, 0
	for i, q := range a.Questions {
		catScore[q.Category] += a.Answers[i].Score
		catMax[q.Category] += 3
		total += a.Answers[i].Score
		possible += 3
	}

	perCategory := make(map[model.ExamCategory]float64, len(catMax))
	for cat, cmax := range catMax {
		perCategory[cat] = float64(catScore[cat]) / float64(cmax) * 100
	}
	return &model.ExamResult{
		PerCategory:    perCategory,
		OverallPercent: float64(total) / float64(possible) * 100,
		Completed:      true,
	}, nil
}

// Abandon drops the session's assessment, completed or not
func (m *Manager) Abandon(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, sessionID)
}

// selectQuestions draws one question per represented category, then fills to
// the seeded target from the shuffled remainder. Caller holds the lock.
func (m *Manager) selectQuestions(sessionID string) []model.ExamQuestion {
	h := fnv.New64a()
	h.Write([]byte(sessionID))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	byCategory := make(map[model.ExamCategory][]model.ExamQuestion)
	for _, q := range m.bank {
		byCategory[q.Category] = append(byCategory[q.Category], q)
	}

	var picked, rest []model.ExamQuestion
	for _, cat := range categoryOrder {
		group := byCategory[cat]
		if len(group) == 0 {
			continue
		}
		i := rng.Intn(len(group))
		picked = append(picked, group[i])
		rest = append(rest, group[:i]...)
		rest = append(rest, group[i+1:]...)
	}

	target := minQuestions + rng.Intn(maxQuestions-minQuestions+1)
	if target > len(m.bank) {
		target = len(m.bank)
	}
	rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
	for len(picked) < target {
		picked = append(picked, rest[0])
		rest = rest[1:]
	}
	return picked
}

// scoreAnswer maps the fraction of expected elements present in the answer
// onto the 0-3 band.
func scoreAnswer(answer string, expected []string) int {
	if len(expected) == 0 {
		return 0
	}
	norm := textnorm.Normalize(answer)
	found := 0
	for _, el := range expected {
		if textnorm.ContainsWord(norm, el) {
			found++
		}
	}
	fraction := float64(found) / float64(len(expected))
	switch {
	case fraction >= 0.8:
		return 3
	case fraction >= 0.6:
		return 2
	case fraction >= 0.4:
		return 1
	}
	return 0
}

// snapshot copies the assessment so callers cannot reach the tracked state
func snapshot(a *model.ExamAssessment) model.ExamAssessment {
	out := *a
	out.Questions = append([]model.ExamQuestion(nil), a.Questions...)
	out.Answers = append([]model.ExamAnswer(nil), a.Answers...)
	return out
}
