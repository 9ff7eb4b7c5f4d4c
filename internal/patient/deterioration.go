package patient

import (
	"math"

	"emtsim/internal/model"
)

// Effect is a signed delta applied onto a vitals snapshot
type Effect struct {
	HeartRate       int
	RespiratoryRate int
	SystolicBP      int
	DiastolicBP     int
	SpO2            int
	Temperature     float64
}

// InterventionEffect couples one canonical description keyword with its
// physiological response. Keywords matching one description apply
// cumulatively in table order.
type InterventionEffect struct {
	Keyword string
	Effect  Effect
}

// Tables is the read-only configuration a simulator runs on. Shared across
// sessions; never mutated after construction.
type Tables struct {
	Interventions []InterventionEffect
	Critical      map[model.Category][]string
	Penalties     map[string]Effect
	AdvancedDrift Effect
}

// DefaultTables returns the built-in physiology tables
func DefaultTables() Tables {
	return Tables{
		Interventions: []InterventionEffect{
			{Keyword: "oxygen", Effect: Effect{SpO2: 3, RespiratoryRate: -2}},
			{Keyword: "aspirin", Effect: Effect{HeartRate: -5}},
			{Keyword: "albuterol", Effect: Effect{RespiratoryRate: -4, SpO2: 4, HeartRate: 8}},
			{Keyword: "upright", Effect: Effect{RespiratoryRate: -2, SpO2: 2}},
			{Keyword: "iv fluids", Effect: Effect{SystolicBP: 5, HeartRate: -3}},
			{Keyword: "epinephrine", Effect: Effect{HeartRate: 15, SystolicBP: 20, SpO2: 5, RespiratoryRate: -3}},
		},
		Critical: map[model.Category][]string{
			model.CategoryCardiac:     {"oxygen", "aspirin"},
			model.CategoryRespiratory: {"oxygen", "upright"},
			model.CategoryTrauma:      {"oxygen", "iv fluids"},
			model.CategoryNeurologic:  {"oxygen"},
			model.CategoryMetabolic:   {"iv fluids"},
			model.CategoryGeneral:     {"oxygen"},
		},
		Penalties: map[string]Effect{
			"oxygen":      {SpO2: -4, RespiratoryRate: 3},
			"aspirin":     {HeartRate: 8},
			"upright":     {RespiratoryRate: 3, SpO2: -2},
			"iv fluids":   {SystolicBP: -12, HeartRate: 6},
			"epinephrine": {SystolicBP: -14, SpO2: -4, HeartRate: 8},
		},
		AdvancedDrift: Effect{HeartRate: 2, RespiratoryRate: 1, SpO2: -2},
	}
}

// Deterioration timing. Untreated patients start worsening after five
// minutes; the factor grows linearly and caps at ten.
const (
	deteriorationOnsetMinutes = 5.0
	deteriorationCapMinutes   = 10.0
	advancedDriftOnsetMinutes = 8.0
)

// Per-field significance thresholds. A progression snapshot is recorded only
// when at least one field moves by this much, keeping history free of noise.
const (
	sigHeartRate       = 5
	sigRespiratoryRate = 2
	sigSystolicBP      = 10
	sigDiastolicBP     = 5
	sigSpO2            = 2
	sigTemperature     = 0.5
)

// deteriorationFactor scales penalties by elapsed time: zero before onset,
// then elapsed/cap up to 1.0.
func deteriorationFactor(elapsedMinutes float64) float64 {
	if elapsedMinutes <= deteriorationOnsetMinutes {
		return 0
	}
	if elapsedMinutes >= deteriorationCapMinutes {
		return 1
	}
	return elapsedMinutes / deteriorationCapMinutes
}

func (e Effect) scaled(factor float64) Effect {
	return Effect{
		HeartRate:       roundInt(float64(e.HeartRate) * factor),
		RespiratoryRate: roundInt(float64(e.RespiratoryRate) * factor),
		SystolicBP:      roundInt(float64(e.SystolicBP) * factor),
		DiastolicBP:     roundInt(float64(e.DiastolicBP) * factor),
		SpO2:            roundInt(float64(e.SpO2) * factor),
		Temperature:     e.Temperature * factor,
	}
}

func (e Effect) add(other Effect) Effect {
	e.HeartRate += other.HeartRate
	e.RespiratoryRate += other.RespiratoryRate
	e.SystolicBP += other.SystolicBP
	e.DiastolicBP += other.DiastolicBP
	e.SpO2 += other.SpO2
	e.Temperature += other.Temperature
	return e
}

func (e Effect) isZero() bool {
	return e == Effect{}
}

// applyEffect adds the delta and clamps every field into its valid range
func applyEffect(v model.VitalsSnapshot, e Effect) model.VitalsSnapshot {
	v.HeartRate += e.HeartRate
	v.RespiratoryRate += e.RespiratoryRate
	v.SystolicBP += e.SystolicBP
	v.DiastolicBP += e.DiastolicBP
	v.SpO2 += e.SpO2
	v.Temperature += e.Temperature
	return v.Clamped()
}

// significantChange reports whether any field moved by at least its
// significance threshold between two snapshots.
func significantChange(prev, next model.VitalsSnapshot) bool {
	switch {
	case absInt(next.HeartRate-prev.HeartRate) >= sigHeartRate:
		return true
	case absInt(next.RespiratoryRate-prev.RespiratoryRate) >= sigRespiratoryRate:
		return true
	case absInt(next.SystolicBP-prev.SystolicBP) >= sigSystolicBP:
		return true
	case absInt(next.DiastolicBP-prev.DiastolicBP) >= sigDiastolicBP:
		return true
	case absInt(next.SpO2-prev.SpO2) >= sigSpO2:
		return true
	case math.Abs(next.Temperature-prev.Temperature) >= sigTemperature:
		return true
	}
	return false
}

func roundInt(f float64) int {
	return int(math.Round(f))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
