package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"emtsim/internal/config"
	"emtsim/internal/grading"
	"emtsim/internal/model"
	"emtsim/internal/recognizer"

	"github.com/rs/zerolog"
)

func newTestEncounter(t *testing.T) (*EncounterService, *memSessions, *memReports, *recordingBroadcaster) {
	t.Helper()
	sessions := newMemSessions()
	reports := newMemReports()
	bc := &recordingBroadcaster{}
	dialogue := &DialogueService{config: &config.AIConfig{}}
	reportSvc := NewReportService(reports, newMemPDFs(), sessions, grading.NewEngine(), zerolog.Nop())
	enc := NewEncounterService(sessions, recognizer.NewDefaultRecognizer(), dialogue, reportSvc, bc, zerolog.Nop())
	return enc, sessions, reports, bc
}

func TestProcessMessageVitalCheck(t *testing.T) {
	enc, sessions, _, bc := newTestEncounter(t)
	seedActiveSession(t, sessions, "sess-vitals")
	ctx := context.Background()

	update, err := enc.ProcessMessage(ctx, "sess-vitals", "check the blood pressure", testStart.Add(time.Minute))
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if update.Action.Type != model.ActionVitalCheck {
		t.Fatalf("action type = %s, want vital_check", update.Action.Type)
	}
	if update.Action.Details.VitalType != model.VitalBloodPressure {
		t.Errorf("vital type = %q", update.Action.Details.VitalType)
	}
	if update.ReplyRole != model.RoleSystem {
		t.Errorf("reply role = %s, want system", update.ReplyRole)
	}
	if update.Reply != "Blood pressure is 150 over 95." {
		t.Errorf("reply = %q", update.Reply)
	}
	if update.Ended {
		t.Error("session should not have ended")
	}

	reloaded, err := sessions.Get(ctx, "sess-vitals")
	if err != nil || reloaded == nil {
		t.Fatalf("reload session: %v", err)
	}
	if len(reloaded.Transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(reloaded.Transcript))
	}
	if reloaded.Transcript[0].Role != model.RoleTrainee || reloaded.Transcript[1].Role != model.RoleSystem {
		t.Errorf("transcript roles = %s, %s", reloaded.Transcript[0].Role, reloaded.Transcript[1].Role)
	}
	if len(bc.events) != 1 || bc.events[0] != "encounter_update:sess-vitals" {
		t.Errorf("broadcast events = %v", bc.events)
	}
}

func TestProcessMessageOxygenImprovesVitals(t *testing.T) {
	enc, sessions, _, _ := newTestEncounter(t)
	seedActiveSession(t, sessions, "sess-oxy")
	ctx := context.Background()

	update, err := enc.ProcessMessage(ctx, "sess-oxy", "place the patient on a non-rebreather mask at 15 liters", testStart.Add(time.Minute))
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if update.Action.Type != model.ActionEquipmentUse {
		t.Fatalf("action type = %s, want equipment_use", update.Action.Type)
	}
	if update.Vitals.SpO2 != 96 {
		t.Errorf("SpO2 = %d, want 96 after oxygen", update.Vitals.SpO2)
	}
	if update.Vitals.RespiratoryRate != 20 {
		t.Errorf("respiratory rate = %d, want 20", update.Vitals.RespiratoryRate)
	}
	if update.ReplyRole != model.RolePatient || update.Reply == "" {
		t.Errorf("reply = %q role = %s", update.Reply, update.ReplyRole)
	}

	reloaded, _ := sessions.Get(ctx, "sess-oxy")
	if len(reloaded.Interventions) != 1 {
		t.Fatalf("interventions = %d, want 1", len(reloaded.Interventions))
	}
	if reloaded.Interventions[0].Description != "oxygen via non-rebreather mask" {
		t.Errorf("intervention description = %q", reloaded.Interventions[0].Description)
	}
}

func TestProcessMessageAllergyRefusal(t *testing.T) {
	enc, sessions, _, _ := newTestEncounter(t)
	seedActiveSession(t, sessions, "sess-allergy")
	ctx := context.Background()

	update, err := enc.ProcessMessage(ctx, "sess-allergy", "give 324 mg of aspirin", testStart.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if update.Action.Type != model.ActionMedicationAdmin {
		t.Fatalf("action type = %s", update.Action.Type)
	}
	if update.ReplyRole != model.RolePatient {
		t.Errorf("reply role = %s, want patient", update.ReplyRole)
	}
	if !strings.Contains(update.Reply, "The patient is allergic to aspirin.") {
		t.Errorf("reply = %q, want allergy message", update.Reply)
	}
	if update.Vitals.HeartRate != 110 {
		t.Errorf("heart rate = %d, vetoed aspirin must not act", update.Vitals.HeartRate)
	}

	reloaded, _ := sessions.Get(ctx, "sess-allergy")
	if len(reloaded.Interventions) != 0 {
		t.Errorf("interventions = %v, want none", reloaded.Interventions)
	}
}

func TestProcessMessageClarification(t *testing.T) {
	enc, sessions, _, _ := newTestEncounter(t)
	seedActiveSession(t, sessions, "sess-clarify")
	ctx := context.Background()

	update, err := enc.ProcessMessage(ctx, "sess-clarify", "administer the medication", testStart.Add(time.Minute))
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if update.ReplyRole != model.RoleSystem {
		t.Errorf("reply role = %s, want system", update.ReplyRole)
	}
	if update.Reply != "Which medication do you want to give, and at what dose?" {
		t.Errorf("reply = %q", update.Reply)
	}

	reloaded, _ := sessions.Get(ctx, "sess-clarify")
	if len(reloaded.Interventions) != 0 {
		t.Errorf("clarification round must not record an intervention")
	}
}

func TestProcessMessageGeneralComplaint(t *testing.T) {
	enc, sessions, _, _ := newTestEncounter(t)
	seedActiveSession(t, sessions, "sess-talk")
	ctx := context.Background()

	update, err := enc.ProcessMessage(ctx, "sess-talk", "tell me about your chest", testStart.Add(time.Minute))
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if update.Action.Type != model.ActionGeneralMedical {
		t.Fatalf("action type = %s, want general_medical", update.Action.Type)
	}
	if update.ReplyRole != model.RolePatient || update.Reply == "" {
		t.Errorf("reply = %q role = %s", update.Reply, update.ReplyRole)
	}
}

func TestProcessMessageUnconsciousPatient(t *testing.T) {
	enc, sessions, _, _ := newTestEncounter(t)
	session := seedActiveSession(t, sessions, "sess-unresponsive")
	session.Consciousness = model.ConsciousnessUnconscious
	if err := sessions.Set(context.Background(), session); err != nil {
		t.Fatal(err)
	}

	update, err := enc.ProcessMessage(context.Background(), "sess-unresponsive", "can you squeeze my hand", testStart.Add(time.Minute))
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if update.Reply != "(The patient does not respond.)" {
		t.Errorf("reply = %q", update.Reply)
	}
}

func TestProcessMessageHandoverEnds(t *testing.T) {
	enc, sessions, reports, bc := newTestEncounter(t)
	seedActiveSession(t, sessions, "sess-handover")
	ctx := context.Background()

	handover := "I'm ready to give my handover. This is a 58 year old male with chest pain, vitals are stable, we gave oxygen."
	update, err := enc.ProcessMessage(ctx, "sess-handover", handover, testStart.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if !update.Ended || update.EndReason != model.EndReasonHandover {
		t.Fatalf("ended = %v reason = %s, want handover end", update.Ended, update.EndReason)
	}
	if update.Report == nil {
		t.Fatal("report missing on ended encounter")
	}
	if update.Report.HandoverQuality == nil {
		t.Error("handover quality missing on handover end")
	} else if *update.Report.HandoverQuality < 0 || *update.Report.HandoverQuality > 5 {
		t.Errorf("handover quality = %d, out of range", *update.Report.HandoverQuality)
	}
	if reports.len() != 1 {
		t.Errorf("cached reports = %d, want 1", reports.len())
	}

	foundEnd := false
	for _, e := range bc.events {
		if e == "encounter_end:sess-handover" {
			foundEnd = true
		}
	}
	if !foundEnd {
		t.Errorf("broadcast events = %v, want encounter_end", bc.events)
	}
	if len(bc.disconnected) != 1 || bc.disconnected[0] != "sess-handover" {
		t.Errorf("disconnected = %v", bc.disconnected)
	}

	reloaded, _ := sessions.Get(ctx, "sess-handover")
	if reloaded.Status != model.SessionEnded || reloaded.EndedAt == nil {
		t.Errorf("session status = %s endedAt = %v", reloaded.Status, reloaded.EndedAt)
	}

	if _, err := enc.ProcessMessage(ctx, "sess-handover", "check pulse", testStart.Add(11*time.Minute)); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("message after end: err = %v, want ErrSessionEnded", err)
	}
}

func TestProcessMessageTimeout(t *testing.T) {
	enc, sessions, _, _ := newTestEncounter(t)
	seedActiveSession(t, sessions, "sess-timeout")

	update, err := enc.ProcessMessage(context.Background(), "sess-timeout", "hello", testStart.Add(20*time.Minute))
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if !update.Ended || update.EndReason != model.EndReasonTimeout {
		t.Fatalf("ended = %v reason = %s, want timeout", update.Ended, update.EndReason)
	}
	if update.Report == nil || update.Report.Rubric.OverallPass {
		t.Error("near-empty encounter must not pass")
	}
}

func TestProcessMessageSessionMissing(t *testing.T) {
	enc, _, _, _ := newTestEncounter(t)
	if _, err := enc.ProcessMessage(context.Background(), "nope", "check pulse", testStart); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestProcessMessageSaveFailure(t *testing.T) {
	enc, sessions, _, _ := newTestEncounter(t)
	seedActiveSession(t, sessions, "sess-down")
	sessions.setErr = errors.New("connection refused")

	_, err := enc.ProcessMessage(context.Background(), "sess-down", "check pulse", testStart.Add(time.Minute))
	if err == nil || !strings.Contains(err.Error(), "failed to save session") {
		t.Errorf("err = %v, want save failure", err)
	}
}

func TestEndSessionManual(t *testing.T) {
	enc, sessions, _, _ := newTestEncounter(t)
	seedActiveSession(t, sessions, "sess-manual")
	ctx := context.Background()

	update, err := enc.EndSession(ctx, "sess-manual", testStart.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	if !update.Ended || update.EndReason != model.EndReasonManual {
		t.Fatalf("ended = %v reason = %s, want manual", update.Ended, update.EndReason)
	}
	if update.Report == nil {
		t.Fatal("report missing")
	}

	reloaded, _ := sessions.Get(ctx, "sess-manual")
	if reloaded.Status != model.SessionEnded {
		t.Errorf("status = %s, want ended", reloaded.Status)
	}
	if _, err := enc.EndSession(ctx, "sess-manual", testStart.Add(6*time.Minute)); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("second end: err = %v, want ErrSessionEnded", err)
	}
}
