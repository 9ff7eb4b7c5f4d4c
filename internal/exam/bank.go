// Package exam runs the optional focused-exam question rounds a proctor can
// open inside an encounter. Answers are scored against expected-element
// keyword lists and the aggregate feeds the physical-exam rubric section.
package exam

import "emtsim/internal/model"

// DefaultBank returns the built-in question bank. Expected elements are
// stored in normalized form so answer scoring can match them directly.
func DefaultBank() []model.ExamQuestion {
	return []model.ExamQuestion{
		{
			ID:       "anat-central-pulses",
			Category: model.ExamAnatomy,
			Prompt:   "Which arteries do you palpate for a central pulse, and where do you find them?",
			ExpectedElements: []string{
				"carotid", "neck", "femoral", "groin",
			},
		},
		{
			ID:       "anat-lung-fields",
			Category: model.ExamAnatomy,
			Prompt:   "Where do you place the stethoscope to auscultate all lung fields?",
			ExpectedElements: []string{
				"apices", "bases", "midaxillary", "anterior", "posterior",
			},
		},
		{
			ID:       "anat-abdominal-quadrants",
			Category: model.ExamAnatomy,
			Prompt:   "Name the four abdominal quadrants you examine and palpate.",
			ExpectedElements: []string{
				"right upper", "left upper", "right lower", "left lower",
			},
		},
		{
			ID:       "anat-trauma-landmarks",
			Category: model.ExamAnatomy,
			Prompt:   "What bony structures do you assess during a rapid trauma exam of the torso?",
			ExpectedElements: []string{
				"clavicle", "sternum", "ribs", "pelvis", "iliac",
			},
		},
		{
			ID:       "path-poor-perfusion",
			Category: model.ExamPathology,
			Prompt:   "What physical findings suggest the patient is not perfusing well?",
			ExpectedElements: []string{
				"pale", "diaphoretic", "capillary refill", "weak pulse", "altered",
			},
		},
		{
			ID:       "path-tension-pneumo",
			Category: model.ExamPathology,
			Prompt:   "What exam findings point toward a tension pneumothorax?",
			ExpectedElements: []string{
				"tracheal deviation", "absent breath sounds", "jugular venous distension", "hypotension",
			},
		},
		{
			ID:       "path-unequal-pupils",
			Category: model.ExamPathology,
			Prompt:   "What conditions should unequal pupils make you consider?",
			ExpectedElements: []string{
				"head injury", "stroke", "intracranial pressure", "herniation",
			},
		},
		{
			ID:       "path-wheeze-stridor",
			Category: model.ExamPathology,
			Prompt:   "What is the difference between wheezing and stridor, and what does each suggest?",
			ExpectedElements: []string{
				"lower airway", "bronchoconstriction", "upper airway", "obstruction",
			},
		},
		{
			ID:       "tech-manual-bp",
			Category: model.ExamTechnique,
			Prompt:   "Describe how you take a manual blood pressure.",
			ExpectedElements: []string{
				"cuff", "brachial", "inflate", "deflate", "systolic",
			},
		},
		{
			ID:       "tech-pupil-exam",
			Category: model.ExamTechnique,
			Prompt:   "Describe how you assess the pupils.",
			ExpectedElements: []string{
				"penlight", "equal", "round", "reactive", "light",
			},
		},
		{
			ID:       "tech-trauma-airway",
			Category: model.ExamTechnique,
			Prompt:   "How do you open the airway of an unresponsive patient with suspected spinal injury?",
			ExpectedElements: []string{
				"jaw thrust", "cervical", "manual stabilization", "suction",
			},
		},
		{
			ID:       "tech-distal-csm",
			Category: model.ExamTechnique,
			Prompt:   "How do you assess circulation, sensation, and movement in an injured limb?",
			ExpectedElements: []string{
				"distal pulse", "capillary refill", "color", "sensation", "movement",
			},
		},
	}
}
