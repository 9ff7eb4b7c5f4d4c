package patient

import (
	"fmt"

	"emtsim/internal/model"
	"emtsim/internal/textnorm"
)

// VitalReading formats one measured vital for the trainee. "all" and unknown
// names read out the full set.
func VitalReading(v model.VitalsSnapshot, vitalType string) string {
	switch vitalType {
	case model.VitalHeartRate:
		return fmt.Sprintf("Heart rate is %d beats per minute.", v.HeartRate)
	case model.VitalRespiratoryRate:
		return fmt.Sprintf("Respiratory rate is %d breaths per minute.", v.RespiratoryRate)
	case model.VitalBloodPressure:
		return fmt.Sprintf("Blood pressure is %d over %d.", v.SystolicBP, v.DiastolicBP)
	case model.VitalOxygenSaturation:
		return fmt.Sprintf("SpO2 is %d percent.", v.SpO2)
	case model.VitalTemperature:
		return fmt.Sprintf("Temperature is %.1f degrees Fahrenheit.", v.Temperature)
	}
	return fmt.Sprintf(
		"Heart rate %d, respiratory rate %d, blood pressure %d over %d, SpO2 %d percent, temperature %.1f.",
		v.HeartRate, v.RespiratoryRate, v.SystolicBP, v.DiastolicBP, v.SpO2, v.Temperature,
	)
}

// complaint lines per scenario category, spoken when the trainee talks to
// the patient without a recognizable action
var complaintLines = map[model.Category][]string{
	model.CategoryCardiac: {
		"My chest feels really tight, like something heavy is sitting on it.",
		"The pain is squeezing, right in the middle of my chest.",
		"It started about an hour ago and it's not letting up.",
	},
	model.CategoryRespiratory: {
		"I can't... catch my breath...",
		"It's so hard to breathe right now.",
		"Talking makes it worse... I need a second.",
	},
	model.CategoryTrauma: {
		"It hurts so much, please don't move me.",
		"My whole side is throbbing where I landed.",
		"I think something is broken.",
	},
	model.CategoryNeurologic: {
		"Everything looks... blurry. Where am I?",
		"My head is pounding and my arm feels strange.",
		"I can't quite find the words I want.",
	},
	model.CategoryMetabolic: {
		"I feel so weak and shaky.",
		"Everything is spinning a little.",
		"I haven't felt right since this morning.",
	},
	model.CategoryGeneral: {
		"I just don't feel right.",
		"Something is wrong, I can't explain it.",
		"I've been feeling worse all day.",
	},
}

var cooperativeLines = []string{
	"Okay.",
	"Alright, go ahead.",
	"Whatever you think is best.",
	"Okay, I'll try to hold still.",
}

var medicationLines = []string{
	"Okay, I'll take it.",
	"If you think it'll help.",
	"Alright... here goes.",
}

var refusalLines = []string{
	"Wait, I can't take that!",
	"No, that's not safe for me!",
	"Didn't I tell you? I can't have that.",
}

var alteredPrefixes = []string{
	"Wh... what? ",
	"I'm so tired... ",
	"Huh...? ",
}

const unresponsiveLine = "(The patient does not respond.)"

// Reply produces the deterministic in-character response to a recognized
// action. The seed keeps phrasing stable for identical inputs while varying
// it across sessions.
func Reply(scenario model.Scenario, action model.Action, level model.ConsciousnessLevel, seed string) string {
	if level == model.ConsciousnessUnconscious {
		return unresponsiveLine
	}

	var line string
	switch action.Type {
	case model.ActionMedicationAdmin:
		line = textnorm.Pick(seed+"med", medicationLines)
	case model.ActionEquipmentUse, model.ActionPositioning,
		model.ActionPhysicalAssessment, model.ActionTransportDecision:
		line = textnorm.Pick(seed+"coop", cooperativeLines)
	default:
		lines, ok := complaintLines[scenario.Category]
		if !ok {
			lines = complaintLines[model.CategoryGeneral]
		}
		line = textnorm.Pick(seed+"complaint", lines)
	}

	if level == model.ConsciousnessAltered {
		line = textnorm.Pick(seed+"altered", alteredPrefixes) + line
	}
	return line
}

// RefusalReply is the in-character line for a vetoed medication
func RefusalReply(seed string) string {
	return textnorm.Pick(seed+"refusal", refusalLines)
}
