package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"emtsim/internal/model"
	"emtsim/internal/patient"
)

var testStart = time.Unix(1700000000, 0)

// memSessions stands in for the Redis session cache. Entries round-trip
// through JSON so aliasing between service calls surfaces in tests the same
// way it would against a real store.
type memSessions struct {
	mu     sync.Mutex
	data   map[string][]byte
	setErr error
}

func newMemSessions() *memSessions {
	return &memSessions{data: make(map[string][]byte)}
}

func (m *memSessions) Set(ctx context.Context, session *model.ScenarioSession) error {
	if m.setErr != nil {
		return m.setErr
	}
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[session.ID] = b
	return nil
}

func (m *memSessions) Get(ctx context.Context, id string) (*model.ScenarioSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[id]
	if !ok {
		return nil, nil
	}
	var session model.ScenarioSession
	if err := json.Unmarshal(b, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (m *memSessions) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

type memReports struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemReports() *memReports {
	return &memReports{data: make(map[string][]byte)}
}

func (m *memReports) Set(ctx context.Context, report *model.SessionReport) error {
	b, err := json.Marshal(report)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[report.SessionID] = b
	return nil
}

func (m *memReports) Get(ctx context.Context, sessionID string) (*model.SessionReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[sessionID]
	if !ok {
		return nil, nil
	}
	var report model.SessionReport
	if err := json.Unmarshal(b, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (m *memReports) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

func (m *memReports) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

type memPDFs struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemPDFs() *memPDFs {
	return &memPDFs{data: make(map[string][]byte)}
}

func (m *memPDFs) Set(ctx context.Context, sessionID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = append([]byte(nil), data...)
	return nil
}

func (m *memPDFs) Get(ctx context.Context, sessionID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[sessionID]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), b...), nil
}

func (m *memPDFs) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

// recordingBroadcaster captures hub traffic as "msgType:sessionID" strings
type recordingBroadcaster struct {
	events       []string
	disconnected []string
}

func (b *recordingBroadcaster) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	b.events = append(b.events, msgType+":"+sessionID)
}

func (b *recordingBroadcaster) DisconnectSession(sessionID string) {
	b.disconnected = append(b.disconnected, sessionID)
}

func testScenario() model.Scenario {
	return model.Scenario{
		ID:           "chest-pain-001",
		Title:        "Crushing chest pain at home",
		Category:     model.CategoryCardiac,
		Difficulty:   model.DifficultyIntermediate,
		Presentation: "You arrive to find a 58 year old slumped in an armchair, pale and clutching his chest.",
		Patient: model.PatientProfile{
			Age:       58,
			Gender:    "male",
			Allergies: []string{"aspirin"},
		},
	}
}

func seedActiveSession(t *testing.T, sessions *memSessions, id string) *model.ScenarioSession {
	t.Helper()
	session := &model.ScenarioSession{
		ID:        id,
		TraineeID: "trainee_test0001",
		Status:    model.SessionActive,
		Scenario:  testScenario(),
		StartedAt: testStart,
	}
	patient.New(session).Initialize(testStart)
	if err := sessions.Set(context.Background(), session); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return session
}
