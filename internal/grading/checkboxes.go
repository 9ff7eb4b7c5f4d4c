package grading

// CheckboxItem is one binary rubric criterion. An item is completed when any
// of its keywords appears in the trainee-authored transcript text.
type CheckboxItem struct {
	ID          string
	Description string
	Category    string
	Keywords    []string
}

// Rubric item categories
const (
	CategorySafety     = "safety"
	CategoryAssessment = "assessment"
	CategoryTreatment  = "treatment"
	CategoryTransport  = "transport"
)

// DefaultCheckboxes returns the fixed binary rubric. Shared read-only across
// sessions.
func DefaultCheckboxes() []CheckboxItem {
	return []CheckboxItem{
		{
			ID:          "ppe",
			Description: "Takes or verbalizes body substance isolation precautions",
			Category:    CategorySafety,
			Keywords:    []string{"ppe", "gloves", "bsi", "body substance", "mask and gloves"},
		},
		{
			ID:          "scene_survey",
			Description: "Determines the scene is safe and surveys it",
			Category:    CategorySafety,
			Keywords: []string{
				"scene is safe", "scene safety", "scene survey", "survey the scene",
				"scene size up", "mechanism of injury", "nature of illness",
			},
		},
		{
			ID:          "spinal",
			Description: "Considers spinal stabilization",
			Category:    CategoryAssessment,
			Keywords: []string{
				"spinal", "c spine", "c-spine", "cervical", "manual stabilization",
				"stabilize the head", "hold c-spine",
			},
		},
		{
			ID:          "responsiveness",
			Description: "Determines responsiveness and obtains consent",
			Category:    CategoryAssessment,
			Keywords: []string{
				"avpu", "responsive", "unresponsive", "can you hear me",
				"are you okay", "alert and oriented", "consent",
			},
		},
		{
			ID:          "hemorrhage",
			Description: "Checks for and controls major hemorrhage",
			Category:    CategoryAssessment,
			Keywords: []string{
				"bleeding", "hemorrhage", "blood sweep", "major bleed",
				"pressure on the wound", "tourniquet",
			},
		},
		{
			ID:          "airway",
			Description: "Assesses and manages the airway",
			Category:    CategoryAssessment,
			Keywords:    []string{"airway", "opa", "npa", "head tilt", "jaw thrust"},
		},
		{
			ID:          "breathing",
			Description: "Assesses breathing",
			Category:    CategoryAssessment,
			Keywords: []string{
				"breathing", "breath sounds", "lung sounds", "respirations",
				"respiratory rate", "auscultate",
			},
		},
		{
			ID:          "oxygen",
			Description: "Checks oxygen saturation and administers oxygen when indicated",
			Category:    CategoryTreatment,
			Keywords: []string{
				"oxygen", "spo2", "pulse ox", "o2 sat", "oxygen saturation",
				"non-rebreather", "nasal cannula",
			},
		},
		{
			ID:          "pulse",
			Description: "Checks the pulse",
			Category:    CategoryAssessment,
			Keywords:    []string{"pulse", "heart rate", "radial", "carotid"},
		},
		{
			ID:          "skin",
			Description: "Assesses skin signs",
			Category:    CategoryAssessment,
			Keywords: []string{
				"skin", "pale", "diaphoretic", "cyanotic", "clammy",
				"capillary refill",
			},
		},
		{
			ID:          "cpr_recognition",
			Description: "Recognizes whether CPR is indicated",
			Category:    CategoryAssessment,
			Keywords: []string{
				"cpr", "compressions", "cardiac arrest", "has a pulse",
				"pulse is present", "no cpr",
			},
		},
		{
			ID:          "transport_urgency",
			Description: "States a transport decision with urgency",
			Category:    CategoryTransport,
			Keywords: []string{
				"transport", "load and go", "code 3", "priority", "hospital",
				"emergency department",
			},
		},
	}
}
