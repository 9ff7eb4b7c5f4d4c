package patient

import "emtsim/internal/model"

// baselineTable holds the presenting vitals per scenario category at
// intermediate difficulty. Scenario-provided vitals always win over this.
var baselineTable = map[model.Category]model.VitalsSnapshot{
	model.CategoryCardiac: {
		HeartRate: 110, RespiratoryRate: 22, SystolicBP: 150, DiastolicBP: 95,
		SpO2: 93, Temperature: 98.2,
	},
	model.CategoryRespiratory: {
		HeartRate: 105, RespiratoryRate: 28, SystolicBP: 135, DiastolicBP: 85,
		SpO2: 88, Temperature: 98.9,
	},
	model.CategoryTrauma: {
		HeartRate: 118, RespiratoryRate: 24, SystolicBP: 100, DiastolicBP: 65,
		SpO2: 94, Temperature: 97.8,
	},
	model.CategoryNeurologic: {
		HeartRate: 88, RespiratoryRate: 18, SystolicBP: 165, DiastolicBP: 100,
		SpO2: 95, Temperature: 98.6,
	},
	model.CategoryMetabolic: {
		HeartRate: 112, RespiratoryRate: 26, SystolicBP: 95, DiastolicBP: 60,
		SpO2: 96, Temperature: 99.1,
	},
	model.CategoryGeneral: {
		HeartRate: 96, RespiratoryRate: 20, SystolicBP: 130, DiastolicBP: 82,
		SpO2: 95, Temperature: 98.6,
	},
}

// BaselineFor looks up the category baseline and applies the difficulty
// adjustment. Unknown categories fall back to the general presentation.
func BaselineFor(category model.Category, difficulty model.Difficulty) model.VitalsSnapshot {
	v, ok := baselineTable[category]
	if !ok {
		v = baselineTable[model.CategoryGeneral]
	}
	return applyDifficulty(v, difficulty).Clamped()
}

// applyDifficulty widens or softens the presentation per tier. Novice eases
// the patient toward stability; advanced clamps SpO2 at or below 85 and HR
// at or above 105 and worsens pressure and breathing.
func applyDifficulty(v model.VitalsSnapshot, difficulty model.Difficulty) model.VitalsSnapshot {
	switch difficulty {
	case model.DifficultyNovice:
		if v.SpO2 < 92 {
			v.SpO2 = 92
		}
		if v.HeartRate > 110 {
			v.HeartRate = 110
		}
		if v.RespiratoryRate > 24 {
			v.RespiratoryRate = 24
		}
	case model.DifficultyAdvanced:
		if v.SpO2 > 85 {
			v.SpO2 = 85
		}
		if v.HeartRate < 105 {
			v.HeartRate = 105
		}
		v.RespiratoryRate += 4
		v.SystolicBP -= 10
		v.DiastolicBP -= 5
	}
	return v
}
