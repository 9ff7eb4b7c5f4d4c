package recognizer

import (
	"testing"

	"emtsim/internal/model"
)

func medicationAction(med string) model.Action {
	return model.Action{
		Type:    model.ActionMedicationAdmin,
		Details: model.ActionDetails{Medication: med},
	}
}

func TestValidateAllergyVeto(t *testing.T) {
	profile := model.PatientProfile{Allergies: []string{"aspirin"}}

	result := Validate(medicationAction("aspirin"), profile)

	if result.Valid {
		t.Fatal("Valid = true, want false for an allergic patient")
	}
	if result.Reason != model.ContraReasonAllergy {
		t.Errorf("reason = %q, want %q", result.Reason, model.ContraReasonAllergy)
	}
	if result.Message == "" {
		t.Error("message is empty, want an explanation")
	}
}

func TestValidateAllergySubstringBothDirections(t *testing.T) {
	tests := []struct {
		name    string
		allergy string
		med     string
	}{
		{"allergy entry longer", "aspirin (anaphylaxis)", "aspirin"},
		{"medication name longer", "sulfa", "sulfamethoxazole"},
		{"case folded", "ASPIRIN", "aspirin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := model.PatientProfile{Allergies: []string{tt.allergy}}
			result := Validate(medicationAction(tt.med), profile)
			if result.Valid {
				t.Errorf("Valid = true for allergy %q vs med %q, want false", tt.allergy, tt.med)
			}
			if result.Reason != model.ContraReasonAllergy {
				t.Errorf("reason = %q, want %q", result.Reason, model.ContraReasonAllergy)
			}
		})
	}
}

func TestValidateHistoryVeto(t *testing.T) {
	tests := []struct {
		name    string
		med     string
		history []string
	}{
		{"aspirin with GI bleeding", "aspirin", []string{"GI bleeding last month"}},
		{"aspirin with ulcer", "aspirin", []string{"peptic ulcer disease"}},
		{"nitroglycerin with sildenafil", "nitroglycerin", []string{"took sildenafil this morning"}},
		{"nitroglycerin with viagra", "nitroglycerin", []string{"takes Viagra"}},
		{"albuterol with severe heart disease", "albuterol", []string{"severe heart disease"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := model.PatientProfile{MedicalHistory: tt.history}
			result := Validate(medicationAction(tt.med), profile)
			if result.Valid {
				t.Fatalf("Valid = true for %s with history %v, want false", tt.med, tt.history)
			}
			if result.Reason != model.ContraReasonHistory {
				t.Errorf("reason = %q, want %q", result.Reason, model.ContraReasonHistory)
			}
			if result.Message == "" {
				t.Error("message is empty, want an explanation")
			}
		})
	}
}

// Keywords of a multi-keyword rule must all land in the same history entry.
func TestValidateMultiKeywordRuleNeedsSingleEntry(t *testing.T) {
	split := model.PatientProfile{MedicalHistory: []string{"severe arthritis", "mild heart murmur"}}
	if result := Validate(medicationAction("albuterol"), split); !result.Valid {
		t.Errorf("Valid = false with keywords split across entries, want true (%+v)", result)
	}

	together := model.PatientProfile{MedicalHistory: []string{"severe heart failure"}}
	if result := Validate(medicationAction("albuterol"), together); result.Valid {
		t.Error("Valid = true with both keywords in one entry, want false")
	}
}

func TestValidateAllergyCheckedBeforeHistory(t *testing.T) {
	profile := model.PatientProfile{
		Allergies:      []string{"aspirin"},
		MedicalHistory: []string{"GI bleeding"},
	}

	result := Validate(medicationAction("aspirin"), profile)

	if result.Valid {
		t.Fatal("Valid = true, want false")
	}
	if result.Reason != model.ContraReasonAllergy {
		t.Errorf("reason = %q, want allergy to win over history", result.Reason)
	}
}

func TestValidatePassThrough(t *testing.T) {
	profile := model.PatientProfile{
		Allergies:      []string{"penicillin"},
		MedicalHistory: []string{"hypertension", "type 2 diabetes"},
	}

	tests := []struct {
		name   string
		action model.Action
	}{
		{"clean medication", medicationAction("aspirin")},
		{"non-medication action", model.Action{Type: model.ActionVitalCheck}},
		{"unspecified medication", medicationAction(model.Unspecified)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.action, profile)
			if !result.Valid {
				t.Errorf("Valid = false, want true (%+v)", result)
			}
			if result.Reason != "" {
				t.Errorf("reason = %q, want empty", result.Reason)
			}
		})
	}
}

func TestValidateEmptyProfile(t *testing.T) {
	result := Validate(medicationAction("nitroglycerin"), model.PatientProfile{})
	if !result.Valid {
		t.Errorf("Valid = false with an empty profile, want true (%+v)", result)
	}
}
