package model

import "time"

// Enforced vitals ranges. Updates clamp to these bounds rather than reject.
const (
	HeartRateMin       = 40
	HeartRateMax       = 200
	RespiratoryRateMin = 8
	RespiratoryRateMax = 50
	SystolicBPMin      = 60
	SystolicBPMax      = 250
	DiastolicBPMin     = 40
	DiastolicBPMax     = 150
	SpO2Min            = 70
	SpO2Max            = 100
	TemperatureMin     = 95.0
	TemperatureMax     = 106.0
)

// Snapshot reasons
const (
	ReasonBaseline           = "baseline"
	ReasonInterventionPrefix = "intervention:"
	ReasonTimeProgressPrefix = "time progression:"
)

// VitalsSnapshot is one immutable reading of the patient's vital signs.
// A session owns an ordered append-only history of these.
type VitalsSnapshot struct {
	HeartRate       int       `json:"heartRate" bson:"heartRate"`
	RespiratoryRate int       `json:"respiratoryRate" bson:"respiratoryRate"`
	SystolicBP      int       `json:"systolicBp" bson:"systolicBp"`
	DiastolicBP     int       `json:"diastolicBp" bson:"diastolicBp"`
	SpO2            int       `json:"spo2" bson:"spo2"`
	Temperature     float64   `json:"temperature" bson:"temperature"`
	Timestamp       time.Time `json:"timestamp" bson:"timestamp"`
	Reason          string    `json:"reason" bson:"reason"`
}

// DefaultVitals returns a normal resting set, used when a session has no
// recorded history yet.
func DefaultVitals() VitalsSnapshot {
	return VitalsSnapshot{
		HeartRate:       80,
		RespiratoryRate: 16,
		SystolicBP:      120,
		DiastolicBP:     80,
		SpO2:            98,
		Temperature:     98.6,
	}
}

// Clamped returns a copy with every field forced into its enforced range.
func (v VitalsSnapshot) Clamped() VitalsSnapshot {
	v.HeartRate = clampInt(v.HeartRate, HeartRateMin, HeartRateMax)
	v.RespiratoryRate = clampInt(v.RespiratoryRate, RespiratoryRateMin, RespiratoryRateMax)
	v.SystolicBP = clampInt(v.SystolicBP, SystolicBPMin, SystolicBPMax)
	v.DiastolicBP = clampInt(v.DiastolicBP, DiastolicBPMin, DiastolicBPMax)
	v.SpO2 = clampInt(v.SpO2, SpO2Min, SpO2Max)
	v.Temperature = clampFloat(v.Temperature, TemperatureMin, TemperatureMax)
	return v
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
