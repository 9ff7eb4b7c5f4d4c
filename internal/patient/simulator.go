// Package patient simulates the physiological state of one scenario patient:
// baseline vitals, intervention responses, time-driven deterioration, and
// consciousness transitions.
package patient

import (
	"fmt"
	"strings"
	"time"

	"emtsim/internal/lifecycle"
	"emtsim/internal/model"
	"emtsim/internal/textnorm"
)

// Consciousness thresholds. Transitions only move toward worse states unless
// the oxygen recovery condition holds.
const (
	alteredSpO2     = 80
	alteredSystolic = 80
	unconsciousSpO2 = 75
	recoverySpO2    = 90
)

// Simulator drives one session's patient state. It mutates the session
// strictly sequentially; every time-dependent method takes the clock instant
// explicitly so tests never wait on a wall clock.
type Simulator struct {
	session *model.ScenarioSession
	tables  Tables
}

// New builds a simulator over the built-in physiology tables
func New(session *model.ScenarioSession) *Simulator {
	return NewWithTables(session, DefaultTables())
}

// NewWithTables injects custom physiology tables
func NewWithTables(session *model.ScenarioSession, tables Tables) *Simulator {
	return &Simulator{session: session, tables: tables}
}

// Initialize seeds the baseline snapshot and resets intervention history.
// Scenario-provided vitals win over the category and difficulty table; the
// scenario's declared consciousness level (default alert) is restored.
func (s *Simulator) Initialize(now time.Time) model.VitalsSnapshot {
	scenario := s.session.Scenario.Normalized()
	s.session.Scenario = scenario

	var base model.VitalsSnapshot
	if scenario.BaselineVitals != nil {
		base = scenario.BaselineVitals.Clamped()
	} else {
		base = BaselineFor(scenario.Category, scenario.Difficulty)
	}
	base.Timestamp = now
	base.Reason = model.ReasonBaseline

	s.session.Consciousness = scenario.Consciousness
	s.session.VitalsHistory = []model.VitalsSnapshot{base}
	s.session.Interventions = nil
	return base
}

// RecordIntervention appends the intervention and derives the next snapshot
// by applying every matching keyword effect cumulatively in table order.
// Descriptions are stored normalized so later critical-care checks match on
// plain substrings.
func (s *Simulator) RecordIntervention(description string, now time.Time) model.VitalsSnapshot {
	norm := textnorm.Normalize(description)
	s.session.Interventions = append(s.session.Interventions, model.InterventionRecord{
		Description:    norm,
		Timestamp:      now,
		ElapsedMinutes: s.session.ElapsedMinutes(now),
	})

	vitals := s.session.CurrentVitals()
	for _, ie := range s.tables.Interventions {
		if strings.Contains(norm, ie.Keyword) {
			vitals = applyEffect(vitals, ie.Effect)
		}
	}
	vitals.Timestamp = now
	vitals.Reason = model.ReasonInterventionPrefix + norm
	s.session.VitalsHistory = append(s.session.VitalsHistory, vitals)
	return vitals
}

// ProgressTime worsens vitals for every critical intervention still missing
// once the onset has passed, scaling with elapsed time up to the cap.
// Advanced difficulty drifts slightly even under correct care. A snapshot is
// recorded only when some field moves significantly; the returned bool
// reports whether one was.
func (s *Simulator) ProgressTime(now time.Time) (model.VitalsSnapshot, bool) {
	elapsed := s.session.ElapsedMinutes(now)
	factor := deteriorationFactor(elapsed)

	var delta Effect
	if factor > 0 {
		for _, keyword := range s.criticalSet() {
			if s.HasIntervention(keyword) {
				continue
			}
			penalty, ok := s.tables.Penalties[textnorm.Normalize(keyword)]
			if !ok {
				continue
			}
			delta = delta.add(penalty.scaled(factor))
		}
	}
	if s.session.Scenario.Difficulty == model.DifficultyAdvanced && elapsed > advancedDriftOnsetMinutes {
		delta = delta.add(s.tables.AdvancedDrift)
	}
	if delta.isZero() {
		return s.session.CurrentVitals(), false
	}

	current := s.session.CurrentVitals()
	next := applyEffect(current, delta)
	if !significantChange(current, next) {
		return current, false
	}
	next.Timestamp = now
	next.Reason = fmt.Sprintf("%s%.1f", model.ReasonTimeProgressPrefix, elapsed)
	s.session.VitalsHistory = append(s.session.VitalsHistory, next)
	return next, true
}

// criticalSet is the list of interventions whose absence drives
// deterioration. A scenario override replaces the category defaults.
func (s *Simulator) criticalSet() []string {
	if len(s.session.Scenario.CriticalOverride) > 0 {
		return s.session.Scenario.CriticalOverride
	}
	return s.tables.Critical[s.session.Scenario.Category]
}

// UpdateConsciousness applies the threshold transitions to the current
// vitals and returns the resulting level. Alert degrades to altered on low
// SpO2 or pressure; altered degrades to unconscious on critically low SpO2,
// and recovers to alert only after oxygen with SpO2 above the recovery bar.
func (s *Simulator) UpdateConsciousness() model.ConsciousnessLevel {
	if s.session.Consciousness == "" {
		s.session.Consciousness = model.ConsciousnessAlert
	}
	v := s.session.CurrentVitals()
	switch s.session.Consciousness {
	case model.ConsciousnessAlert:
		if v.SpO2 < alteredSpO2 || v.SystolicBP < alteredSystolic {
			s.session.Consciousness = model.ConsciousnessAltered
		}
	case model.ConsciousnessAltered:
		if v.SpO2 < unconsciousSpO2 {
			s.session.Consciousness = model.ConsciousnessUnconscious
		} else if v.SpO2 > recoverySpO2 && s.HasIntervention("oxygen") {
			s.session.Consciousness = model.ConsciousnessAlert
		}
	}
	return s.session.Consciousness
}

// CurrentVitals returns the latest snapshot
func (s *Simulator) CurrentVitals() model.VitalsSnapshot {
	return s.session.CurrentVitals()
}

// SpecificVital returns one named vital's numeric value. Blood pressure
// reads as the systolic number; the paired reading is formatted by the
// dialogue layer. Unknown names report false.
func (s *Simulator) SpecificVital(vitalType string) (float64, bool) {
	v := s.session.CurrentVitals()
	switch vitalType {
	case model.VitalHeartRate:
		return float64(v.HeartRate), true
	case model.VitalRespiratoryRate:
		return float64(v.RespiratoryRate), true
	case model.VitalBloodPressure:
		return float64(v.SystolicBP), true
	case model.VitalOxygenSaturation:
		return float64(v.SpO2), true
	case model.VitalTemperature:
		return v.Temperature, true
	}
	return 0, false
}

// HasIntervention reports whether any recorded intervention mentions the
// keyword.
func (s *Simulator) HasIntervention(keyword string) bool {
	k := textnorm.Normalize(keyword)
	for _, rec := range s.session.Interventions {
		if strings.Contains(rec.Description, k) {
			return true
		}
	}
	return false
}

// IsTimeExpired reports whether the encounter limit has elapsed
func (s *Simulator) IsTimeExpired(now time.Time) bool {
	return lifecycle.NewDetector(s.session.StartedAt).TimeExpired(now)
}

// RemainingTime until the encounter limit
func (s *Simulator) RemainingTime(now time.Time) time.Duration {
	return lifecycle.NewDetector(s.session.StartedAt).Remaining(now)
}

// CheckScenarioEnd evaluates the lifecycle end conditions for one utterance
func (s *Simulator) CheckScenarioEnd(utterance string, now time.Time) lifecycle.Status {
	return lifecycle.NewDetector(s.session.StartedAt).Check(utterance, now)
}
