package recognizer

import (
	"regexp"

	"emtsim/internal/model"
)

// PatternGroup is one entry in the ordered action catalogue. Every group is
// evaluated against each utterance; the lowest priority number wins, ties
// broken by catalogue order.
type PatternGroup struct {
	Type     model.ActionType
	Priority int
	Patterns []*regexp.Regexp
}

// Priorities for results produced outside the pattern catalogue
const (
	vocabularyPriority = 90
	unknownPriority    = 99
)

// DefaultCatalogue returns the built-in action pattern catalogue. The
// returned slice and its groups are never mutated; they are shared across
// every recognizer and safe for concurrent reads.
func DefaultCatalogue() []PatternGroup {
	return []PatternGroup{
		{
			Type:     model.ActionMedicationAdmin,
			Priority: 1,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(give|administer|push|assist with|deliver)\b.*\b(aspirin|asa|nitroglycerin|nitro|albuterol|epinephrine|epi[ -]?pen|oral glucose|glucose|naloxone|narcan)\b`),
				regexp.MustCompile(`\b(aspirin|nitroglycerin|albuterol|epinephrine|naloxone|glucose)\b.*\b\d+(\.\d+)?\s*(mg|mcg|g|units|ml)\b`),
				regexp.MustCompile(`\b(give|administer)\b.*\b(medication|meds|a drug|something for)\b`),
			},
		},
		{
			Type:     model.ActionVitalCheck,
			Priority: 2,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(check|take|get|measure|obtain|assess|recheck|reassess)\b.*\b(pulse ox\w*|oxygen saturation|spo2|o2 sat\w*|blood pressure|bp|pulse|heart rate|respiratory rate|respirations?|breathing rate|temperature|temp|vitals?|vital signs)\b`),
				regexp.MustCompile(`\bwhat('s| is| are)\b.*\b(blood pressure|heart rate|pulse|spo2|o2 sat\w*|respiratory rate|temperature|vitals)\b`),
				regexp.MustCompile(`\b(check|take|get|measure)\b.*\b(his|her|their|the patient'?s?)\b.*\b(reading|levels|numbers)\b`),
			},
		},
		{
			Type:     model.ActionEquipmentUse,
			Priority: 3,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(apply|place|put|use|attach|hook up|set up|start|grab|give|administer)\b.*\b(oxygen|non[ -]?rebreather|nasal cannula|bag[ -]?valve[ -]?mask|bvm|aed|defibrillator|cardiac monitor|monitor|c[ -]?collar|cervical collar|splint|backboard|stretcher|tourniquet|opa|npa|oral airway|nasal airway)\b`),
				regexp.MustCompile(`\bstart (an? )?(iv|intravenous line|saline lock|fluids)\b`),
				regexp.MustCompile(`\b(set up|prepare|get)\b.*\bequipment\b`),
			},
		},
		{
			Type:     model.ActionPositioning,
			Priority: 4,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(position|sit|lay|place|put|move|keep)\b.*\b(upright|sitting up|semi[ -]?fowler\w*|fowler\w*|supine|flat|recovery position|on (his|her|their) side|trendelenburg|legs? (elevated|raised|up))\b`),
				regexp.MustCompile(`\bsit (him|her|them|the patient) up\b`),
				regexp.MustCompile(`\b(elevate|raise)\b.*\b(legs?|feet|head)\b`),
			},
		},
		{
			Type:     model.ActionPhysicalAssessment,
			Priority: 5,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(palpate|auscultate|percuss|inspect|examine|look at|listen to|feel|press on|check|assess)\b.*\b(chest|lungs?|abdomen|belly|stomach|head|neck|back|pelvis|hips?|arms?|legs?|extremit\w+|pupils?|airway|breath sounds|ankles?|wrists?)\b`),
				regexp.MustCompile(`\b(palpate|auscultate|percuss)\b`),
				regexp.MustCompile(`\b(do|perform|start)\b.*\b(head[ -]?to[ -]?toe|secondary (assessment|survey)|physical exam\w*|rapid (trauma )?assessment)\b`),
			},
		},
		{
			Type:     model.ActionTransportDecision,
			Priority: 6,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(transport|load and go|load (him|her|them)|take (him|her|them|the patient) to|head (to|for) the hospital|begin transport|initiate transport)\b`),
				regexp.MustCompile(`\b(code [13]|priority [12]|lights and sirens|emergent transport|non[ -]?emergent|rapid transport)\b`),
				regexp.MustCompile(`\b(stay and play|refus\w+ transport)\b`),
			},
		},
	}
}

// Vocabulary is the flat term catalogue scanned when no action pattern fires.
// Every matched term is carried on the resulting GeneralMedical action.
type Vocabulary struct {
	Vitals      []string
	Equipment   []string
	Medications []string
	Assessment  []string
	BodyRegions []string
}

// DefaultVocabulary returns the built-in medical term vocabulary
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Vitals: []string{
			"blood pressure", "heart rate", "pulse", "respiratory rate",
			"respirations", "spo2", "pulse ox", "oxygen saturation",
			"temperature", "capillary refill", "blood glucose", "vitals",
		},
		Equipment: []string{
			"oxygen", "non-rebreather", "nasal cannula", "bvm", "aed",
			"defibrillator", "monitor", "cervical collar", "splint",
			"backboard", "stretcher", "tourniquet", "stethoscope",
		},
		Medications: []string{
			"aspirin", "nitroglycerin", "albuterol", "epinephrine",
			"glucose", "naloxone", "narcan",
		},
		Assessment: []string{
			"airway", "breathing", "circulation", "avpu", "opqrst", "sample",
			"breath sounds", "skin color", "pupils", "responsiveness",
		},
		BodyRegions: []string{
			"head", "neck", "chest", "abdomen", "pelvis", "back",
			"arm", "leg", "extremities", "wrist", "ankle",
		},
	}
}

// terms returns the flattened term list in catalogue order
func (v Vocabulary) terms() []string {
	out := make([]string, 0, len(v.Vitals)+len(v.Equipment)+len(v.Medications)+len(v.Assessment)+len(v.BodyRegions))
	out = append(out, v.Vitals...)
	out = append(out, v.Equipment...)
	out = append(out, v.Medications...)
	out = append(out, v.Assessment...)
	out = append(out, v.BodyRegions...)
	return out
}
