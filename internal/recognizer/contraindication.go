package recognizer

import (
	"fmt"
	"strings"

	"emtsim/internal/model"
	"emtsim/internal/textnorm"
)

// contraRule blocks one medication when a patient history entry carries all
// of the listed keywords.
type contraRule struct {
	medication string
	keywords   []string
	message    string
}

// contraindicationTable is checked in order after the allergy scan. The first
// failing rule short-circuits.
var contraindicationTable = []contraRule{
	{
		medication: "aspirin",
		keywords:   []string{"bleeding"},
		message:    "Aspirin is contraindicated with a bleeding history.",
	},
	{
		medication: "aspirin",
		keywords:   []string{"ulcer"},
		message:    "Aspirin is contraindicated with an ulcer history.",
	},
	{
		medication: "nitroglycerin",
		keywords:   []string{"sildenafil"},
		message:    "Nitroglycerin is contraindicated with recent erectile dysfunction medication.",
	},
	{
		medication: "nitroglycerin",
		keywords:   []string{"viagra"},
		message:    "Nitroglycerin is contraindicated with recent erectile dysfunction medication.",
	},
	{
		medication: "nitroglycerin",
		keywords:   []string{"tadalafil"},
		message:    "Nitroglycerin is contraindicated with recent erectile dysfunction medication.",
	},
	{
		medication: "nitroglycerin",
		keywords:   []string{"cialis"},
		message:    "Nitroglycerin is contraindicated with recent erectile dysfunction medication.",
	},
	{
		medication: "nitroglycerin",
		keywords:   []string{"erectile"},
		message:    "Nitroglycerin is contraindicated with recent erectile dysfunction medication.",
	},
	{
		medication: "albuterol",
		keywords:   []string{"severe", "heart"},
		message:    "Albuterol is contraindicated with severe heart disease.",
	},
}

// Validate vets a recognized medication action against the patient profile.
// Allergies are checked first by case-insensitive substring in either
// direction, then the fixed per-medication history table. Validate never
// mutates the session and always returns a result; a veto is a normal
// outcome, not an error.
func Validate(action model.Action, profile model.PatientProfile) model.Contraindication {
	if action.Type != model.ActionMedicationAdmin || action.Details.Medication == model.Unspecified {
		return model.Contraindication{Valid: true}
	}

	med := textnorm.Normalize(action.Details.Medication)

	for _, allergy := range profile.Allergies {
		a := textnorm.Normalize(allergy)
		if a == "" {
			continue
		}
		if strings.Contains(a, med) || strings.Contains(med, a) {
			return model.Contraindication{
				Valid:   false,
				Reason:  model.ContraReasonAllergy,
				Message: fmt.Sprintf("The patient is allergic to %s.", allergy),
			}
		}
	}

	for _, rule := range contraindicationTable {
		if rule.medication != med {
			continue
		}
		for _, entry := range profile.MedicalHistory {
			h := textnorm.Normalize(entry)
			if containsAll(h, rule.keywords) {
				return model.Contraindication{
					Valid:   false,
					Reason:  model.ContraReasonHistory,
					Message: rule.message,
				}
			}
		}
	}

	return model.Contraindication{Valid: true}
}

func containsAll(s string, keywords []string) bool {
	for _, k := range keywords {
		if !strings.Contains(s, k) {
			return false
		}
	}
	return true
}
