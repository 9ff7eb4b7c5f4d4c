package service

import (
	"context"
	"errors"
	"testing"

	"emtsim/internal/config"
	"emtsim/internal/model"

	"github.com/rs/zerolog"
)

type fakeScenarioRepo struct {
	scenarios []*model.Scenario
	findErr   error
}

func (r *fakeScenarioRepo) Create(ctx context.Context, scenario *model.Scenario) (string, error) {
	r.scenarios = append(r.scenarios, scenario)
	return scenario.ID, nil
}

func (r *fakeScenarioRepo) GetByID(ctx context.Context, id string) (*model.Scenario, error) {
	for _, s := range r.scenarios {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeScenarioRepo) Find(ctx context.Context, category model.Category, difficulty model.Difficulty) ([]*model.Scenario, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []*model.Scenario
	for _, s := range r.scenarios {
		if category != "" && s.Category != category {
			continue
		}
		if difficulty != "" && s.Difficulty != difficulty {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeScenarioRepo) GetAll(ctx context.Context) ([]*model.Scenario, error) {
	return r.Find(ctx, "", "")
}

func (r *fakeScenarioRepo) Update(ctx context.Context, scenario *model.Scenario) error { return nil }
func (r *fakeScenarioRepo) Delete(ctx context.Context, id string) error                { return nil }

func newTestScenarioService(repo *fakeScenarioRepo) (*ScenarioService, *memSessions) {
	sessions := newMemSessions()
	dialogue := &DialogueService{config: &config.AIConfig{}}
	return NewScenarioService(repo, sessions, dialogue, zerolog.Nop()), sessions
}

func TestStartByScenarioID(t *testing.T) {
	catalogue := testScenario()
	svc, sessions := newTestScenarioService(&fakeScenarioRepo{scenarios: []*model.Scenario{&catalogue}})
	ctx := context.Background()

	resp, err := svc.Start(ctx, "trainee_abc", model.StartScenarioRequest{ScenarioID: "chest-pain-001"}, testStart)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("missing session id")
	}
	if resp.Scenario.ID != "chest-pain-001" {
		t.Errorf("scenario id = %s", resp.Scenario.ID)
	}
	if resp.Vitals.HeartRate != 110 || resp.Vitals.SpO2 != 93 {
		t.Errorf("baseline vitals = %+v", resp.Vitals)
	}
	if resp.Consciousness != model.ConsciousnessAlert {
		t.Errorf("consciousness = %s", resp.Consciousness)
	}
	if resp.Intro != catalogue.Presentation {
		t.Errorf("intro = %q, want scenario presentation", resp.Intro)
	}

	stored, err := sessions.Get(ctx, resp.SessionID)
	if err != nil || stored == nil {
		t.Fatalf("session not cached: %v", err)
	}
	if stored.TraineeID != "trainee_abc" || stored.Status != model.SessionActive {
		t.Errorf("stored session = %+v", stored)
	}
	if len(stored.VitalsHistory) != 1 || stored.VitalsHistory[0].Reason != model.ReasonBaseline {
		t.Errorf("vitals history = %+v", stored.VitalsHistory)
	}
}

func TestStartUnknownScenarioID(t *testing.T) {
	svc, _ := newTestScenarioService(&fakeScenarioRepo{})
	_, err := svc.Start(context.Background(), "trainee_abc", model.StartScenarioRequest{ScenarioID: "missing"}, testStart)
	if !errors.Is(err, ErrScenarioNotFound) {
		t.Errorf("err = %v, want ErrScenarioNotFound", err)
	}
}

func TestStartByCategory(t *testing.T) {
	cardiac := testScenario()
	trauma := testScenario()
	trauma.ID = "fall-001"
	trauma.Category = model.CategoryTrauma
	svc, _ := newTestScenarioService(&fakeScenarioRepo{scenarios: []*model.Scenario{&cardiac, &trauma}})

	resp, err := svc.Start(context.Background(), "trainee_abc", model.StartScenarioRequest{Category: "trauma"}, testStart)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if resp.Scenario.ID != "fall-001" {
		t.Errorf("scenario id = %s, want the trauma entry", resp.Scenario.ID)
	}
}

func TestStartAdHocFallback(t *testing.T) {
	svc, sessions := newTestScenarioService(&fakeScenarioRepo{})

	resp, err := svc.Start(context.Background(), "trainee_abc", model.StartScenarioRequest{Category: "zebra"}, testStart)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if resp.Scenario.Category != model.CategoryGeneral {
		t.Errorf("category = %s, unknown input must degrade to general", resp.Scenario.Category)
	}
	if resp.Scenario.Difficulty != model.DifficultyIntermediate {
		t.Errorf("difficulty = %s, want default", resp.Scenario.Difficulty)
	}
	if resp.Intro == "" {
		t.Error("ad-hoc scenario needs a presentation")
	}
	if stored, _ := sessions.Get(context.Background(), resp.SessionID); stored == nil {
		t.Error("session not cached")
	}
}

func TestStartRepoFailure(t *testing.T) {
	svc, _ := newTestScenarioService(&fakeScenarioRepo{findErr: errors.New("no reachable servers")})
	_, err := svc.Start(context.Background(), "trainee_abc", model.StartScenarioRequest{Category: "cardiac"}, testStart)
	if err == nil {
		t.Fatal("want error on repo failure")
	}
}

func TestGetSessionMissing(t *testing.T) {
	svc, _ := newTestScenarioService(&fakeScenarioRepo{})
	if _, err := svc.GetSession(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestListScenariosFilters(t *testing.T) {
	cardiac := testScenario()
	trauma := testScenario()
	trauma.ID = "fall-001"
	trauma.Category = model.CategoryTrauma
	svc, _ := newTestScenarioService(&fakeScenarioRepo{scenarios: []*model.Scenario{&cardiac, &trauma}})

	all, err := svc.ListScenarios(context.Background(), "", "")
	if err != nil || len(all) != 2 {
		t.Fatalf("all = %d err = %v", len(all), err)
	}
	cardiacOnly, err := svc.ListScenarios(context.Background(), "cardiac", "")
	if err != nil || len(cardiacOnly) != 1 {
		t.Fatalf("cardiac = %d err = %v", len(cardiacOnly), err)
	}
}
