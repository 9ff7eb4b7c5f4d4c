package model

import "time"

// Category is the clinical presentation family of a scenario
type Category string

const (
	CategoryCardiac     Category = "cardiac"
	CategoryRespiratory Category = "respiratory"
	CategoryTrauma      Category = "trauma"
	CategoryNeurologic  Category = "neurologic"
	CategoryMetabolic   Category = "metabolic"
	CategoryGeneral     Category = "general"
)

// Difficulty tiers widen or clamp baseline vitals and tune deterioration
type Difficulty string

const (
	DifficultyNovice       Difficulty = "novice"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Defaults applied when scenario metadata is missing or malformed
const (
	DefaultCategory   = CategoryGeneral
	DefaultDifficulty = DifficultyIntermediate
)

// PatientProfile is read-only background on the simulated patient. Used for
// contraindication checks and dialogue flavoring only.
type PatientProfile struct {
	Age            int      `json:"age" bson:"age"`
	Gender         string   `json:"gender" bson:"gender"`
	MedicalHistory []string `json:"medicalHistory" bson:"medicalHistory"`
	Medications    []string `json:"medications" bson:"medications"`
	Allergies      []string `json:"allergies" bson:"allergies"`
}

// Scenario is one catalogue entry: the metadata a session is started from.
// BaselineVitals, when present, wins over the category/difficulty table.
type Scenario struct {
	ID             string             `json:"id" bson:"_id,omitempty"`
	Title          string             `json:"title" bson:"title"`
	Category       Category           `json:"category" bson:"category"`
	Difficulty     Difficulty         `json:"difficulty" bson:"difficulty"`
	Presentation   string             `json:"presentation" bson:"presentation"`
	Patient        PatientProfile     `json:"patient" bson:"patient"`
	BaselineVitals *VitalsSnapshot    `json:"baselineVitals,omitempty" bson:"baselineVitals,omitempty"`
	Consciousness  ConsciousnessLevel `json:"consciousness,omitempty" bson:"consciousness,omitempty"`
	// CriticalOverride replaces the category's default critical-intervention
	// set, e.g. an anaphylaxis scenario requiring epinephrine.
	CriticalOverride []string  `json:"criticalOverride,omitempty" bson:"criticalOverride,omitempty"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Normalized resolves defaults once at session start: unknown category or
// difficulty values degrade to the documented defaults instead of failing.
func (s Scenario) Normalized() Scenario {
	switch s.Category {
	case CategoryCardiac, CategoryRespiratory, CategoryTrauma, CategoryNeurologic, CategoryMetabolic, CategoryGeneral:
	default:
		s.Category = DefaultCategory
	}
	switch s.Difficulty {
	case DifficultyNovice, DifficultyIntermediate, DifficultyAdvanced:
	default:
		s.Difficulty = DefaultDifficulty
	}
	switch s.Consciousness {
	case ConsciousnessAlert, ConsciousnessAltered, ConsciousnessUnconscious:
	default:
		s.Consciousness = ConsciousnessAlert
	}
	return s
}
