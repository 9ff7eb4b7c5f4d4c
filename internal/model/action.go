package model

// ActionType classifies a trainee utterance into a clinical intent
type ActionType string

const (
	ActionVitalCheck         ActionType = "vital_check"
	ActionMedicationAdmin    ActionType = "medication_admin"
	ActionEquipmentUse       ActionType = "equipment_use"
	ActionPhysicalAssessment ActionType = "physical_assessment"
	ActionPositioning        ActionType = "positioning"
	ActionTransportDecision  ActionType = "transport_decision"
	ActionGeneralMedical     ActionType = "general_medical"
	ActionUnknown            ActionType = "unknown"
)

// Unspecified marks a detail the recognizer could not extract from the utterance
const Unspecified = "unspecified"

// Canonical vital sign identifiers used in ActionDetails.VitalType
const (
	VitalHeartRate        = "heartRate"
	VitalRespiratoryRate  = "respiratoryRate"
	VitalBloodPressure    = "bloodPressure"
	VitalOxygenSaturation = "oxygenSaturation"
	VitalTemperature      = "temperature"
)

// ActionDetails carries the variant-specific parameters extracted from the
// utterance. Only the fields relevant to the action type are populated.
type ActionDetails struct {
	VitalType  string   `json:"vitalType,omitempty"`
	BodyRegion string   `json:"bodyRegion,omitempty"`
	Medication string   `json:"medication,omitempty"`
	Dosage     string   `json:"dosage,omitempty"`
	Route      string   `json:"route,omitempty"`
	Equipment  string   `json:"equipment,omitempty"`
	Technique  string   `json:"technique,omitempty"`
	Position   string   `json:"position,omitempty"`
	Urgency    string   `json:"urgency,omitempty"`
	Terms      []string `json:"terms,omitempty"`
}

// Action is the structured classification of a single trainee utterance.
// Created per utterance, immutable, consumed once.
type Action struct {
	Type               ActionType    `json:"type"`
	Priority           int           `json:"priority"`
	MatchedText        string        `json:"matchedText"`
	Details            ActionDetails `json:"details"`
	NeedsClarification bool          `json:"needsClarification"`
}

// Contraindication is the outcome of vetting a medication action against a
// patient profile. Valid=false blocks the physiological effect but is not an
// error; the reason is surfaced as in-character dialogue.
type Contraindication struct {
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

const (
	ContraReasonAllergy = "allergy"
	ContraReasonHistory = "history"
)
