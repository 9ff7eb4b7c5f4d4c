package grading

// Section identifiers
const (
	SectionHPI          = "hpi"
	SectionPMH          = "pmh"
	SectionVitals       = "vitals"
	SectionPhysicalExam = "physical_exam"
	SectionManagement   = "management"
	SectionInteraction  = "interaction"
	SectionRadio        = "radio"
	SectionHandover     = "handover"
	SectionDisposition  = "disposition"
	SectionLeadership   = "leadership"
)

// Element is one countable sub-criterion of a scored section
type Element struct {
	Name     string
	Keywords []string
}

// SectionSpec scores one rubric section by counting which elements appear in
// the trainee text. Thresholds: zero elements score 0, fewer than Low score
// 1, fewer than High score 2, otherwise 3.
type SectionSpec struct {
	ID       string
	Criteria string
	Elements []Element
	Low      int
	High     int
}

// DefaultSections returns the ten scored rubric sections. Shared read-only
// across sessions.
func DefaultSections() []SectionSpec {
	return []SectionSpec{
		{
			ID:       SectionHPI,
			Criteria: "History of present illness using OPQRST",
			Low:      3,
			High:     6,
			Elements: []Element{
				{Name: "onset", Keywords: []string{"onset", "when did", "when it started", "start", "begin"}},
				{Name: "provocation", Keywords: []string{"provocation", "makes it worse", "makes it better", "worse or better", "provoke"}},
				{Name: "quality", Keywords: []string{"quality", "describe the pain", "feel like", "sharp", "dull", "squeezing", "pressure"}},
				{Name: "radiation", Keywords: []string{"radiate", "radiating", "radiation", "spread", "go anywhere", "down your arm"}},
				{Name: "severity", Keywords: []string{"severity", "scale of", "out of ten", "out of 10", "1 to 10", "how bad"}},
				{Name: "time", Keywords: []string{"how long", "duration", "constant", "come and go", "since when"}},
			},
		},
		{
			ID:       SectionPMH,
			Criteria: "Past medical history, medications, allergies, and events",
			Low:      2,
			High:     4,
			Elements: []Element{
				{Name: "history", Keywords: []string{"medical history", "past medical", "medical conditions", "diagnosed"}},
				{Name: "medications", Keywords: []string{"medications", "meds", "prescriptions", "what do you take"}},
				{Name: "allergies", Keywords: []string{"allergies", "allergic"}},
				{Name: "intake", Keywords: []string{"last ate", "last eat", "last meal", "oral intake", "eaten today"}},
				{Name: "events", Keywords: []string{"events leading", "what were you doing", "before this happened", "what happened"}},
			},
		},
		{
			ID:       SectionVitals,
			Criteria: "Obtains and trends a full set of vital signs",
			Low:      3,
			High:     5,
			Elements: []Element{
				{Name: "blood pressure", Keywords: []string{"blood pressure", "bp"}},
				{Name: "pulse", Keywords: []string{"pulse", "heart rate"}},
				{Name: "respirations", Keywords: []string{"respiratory rate", "respirations", "breathing rate"}},
				{Name: "oxygenation", Keywords: []string{"spo2", "pulse ox", "oxygen saturation", "o2 sat"}},
				{Name: "skin and temperature", Keywords: []string{"temperature", "temp", "skin"}},
				{Name: "reassessment", Keywords: []string{"reassess", "recheck", "second set", "trending"}},
			},
		},
		{
			ID:       SectionPhysicalExam,
			Criteria: "Performs a focused physical examination",
			Low:      3,
			High:     5,
			Elements: []Element{
				{Name: "inspection", Keywords: []string{"inspect", "look at", "looking for", "deformity", "swelling"}},
				{Name: "palpation", Keywords: []string{"palpate", "tenderness", "feel for", "press on"}},
				{Name: "auscultation", Keywords: []string{"auscultate", "listen to", "breath sounds", "lung sounds"}},
				{Name: "regions", Keywords: []string{"head to toe", "chest", "abdomen", "extremities", "pelvis"}},
				{Name: "pupils", Keywords: []string{"pupils", "perrl"}},
			},
		},
		{
			ID:       SectionManagement,
			Criteria: "Delivers indicated treatment and reassesses its effect",
			Low:      2,
			High:     4,
			Elements: []Element{
				{Name: "oxygen therapy", Keywords: []string{"oxygen", "non-rebreather", "nasal cannula"}},
				{Name: "medication", Keywords: []string{"aspirin", "nitroglycerin", "albuterol", "epinephrine", "glucose", "naloxone"}},
				{Name: "positioning", Keywords: []string{"position", "upright", "sit him up", "sit her up", "elevate", "supine"}},
				{Name: "reassessment", Keywords: []string{"reassess", "any better", "response to", "improving"}},
				{Name: "protocol", Keywords: []string{"protocol", "indicated", "contraindicated", "medical direction"}},
			},
		},
		{
			ID:       SectionInteraction,
			Criteria: "Communicates with the patient clearly and with empathy",
			Low:      2,
			High:     4,
			Elements: []Element{
				{Name: "introduction", Keywords: []string{"my name is", "i am an emt", "i'm an emt", "here to help"}},
				{Name: "explanation", Keywords: []string{"i'm going to", "going to check", "let me explain", "what i'm doing"}},
				{Name: "reassurance", Keywords: []string{"stay calm", "you're doing great", "we've got you", "try to relax", "take it easy"}},
				{Name: "consent", Keywords: []string{"is that okay", "may i", "can i check", "alright with you"}},
				{Name: "empathy", Keywords: []string{"i understand", "i'm sorry", "that sounds", "i know this is"}},
			},
		},
		{
			ID:       SectionRadio,
			Criteria: "Delivers a structured hospital radio report",
			Low:      2,
			High:     3,
			Elements: []Element{
				{Name: "unit identification", Keywords: []string{"this is medic", "this is unit", "ambulance", "radio report"}},
				{Name: "patient demographics", Keywords: []string{"year old", "years old", "male", "female"}},
				{Name: "complaint", Keywords: []string{"chief complaint", "complaining of", "presents with"}},
				{Name: "vitals report", Keywords: []string{"vitals are", "blood pressure is", "heart rate is", "spo2 is"}},
				{Name: "eta", Keywords: []string{"eta", "minutes out", "en route", "inbound"}},
			},
		},
		{
			ID:       SectionHandover,
			Criteria: "Gives a complete verbal handover at transfer of care",
			Low:      2,
			High:     4,
			Elements: []Element{
				{Name: "age", Keywords: []string{"year old", "years old"}},
				{Name: "complaint", Keywords: []string{"chief complaint", "complaining of", "complains of", "found with"}},
				{Name: "history", Keywords: []string{"history of", "allergic to", "takes", "medications include"}},
				{Name: "vitals", Keywords: []string{"vitals", "blood pressure", "heart rate", "pulse", "spo2"}},
				{Name: "treatments", Keywords: []string{"gave", "administered", "applied", "treated with", "placed on"}},
			},
		},
		{
			ID:       SectionDisposition,
			Criteria: "Makes and justifies a disposition decision",
			Low:      2,
			High:     3,
			Elements: []Element{
				{Name: "decision", Keywords: []string{"transport", "refusal", "treat and release"}},
				{Name: "destination", Keywords: []string{"hospital", "emergency department", "trauma center", "cath lab"}},
				{Name: "urgency", Keywords: []string{"code 3", "code 1", "priority", "emergent", "lights and sirens", "non-emergent"}},
				{Name: "justification", Keywords: []string{"because", "due to", "given the", "concerned about"}},
			},
		},
		{
			ID:       SectionLeadership,
			Criteria: "Directs the team and controls the scene",
			Low:      2,
			High:     4,
			Elements: []Element{
				{Name: "directing", Keywords: []string{"partner", "you take the", "can you get", "i need you to", "grab the"}},
				{Name: "prioritizing", Keywords: []string{"first", "priority", "next we", "then we"}},
				{Name: "scene control", Keywords: []string{"bystanders", "clear the area", "give us room", "step back"}},
				{Name: "resources", Keywords: []string{"als", "backup", "dispatch", "additional unit", "second ambulance"}},
				{Name: "time awareness", Keywords: []string{"minutes", "quickly", "let's move", "we need to go"}},
			},
		},
	}
}

// scoreByCount maps an element count onto the 0-3 band
func scoreByCount(found, low, high int) int {
	switch {
	case found == 0:
		return 0
	case found < low:
		return 1
	case found < high:
		return 2
	default:
		return 3
	}
}

// sectionFeedback words the band for the report
func sectionFeedback(criteria string, score int) string {
	switch score {
	case 3:
		return "Strong: " + criteria + "."
	case 2:
		return "Adequate: " + criteria + "."
	case 1:
		return "Limited: " + criteria + "."
	}
	return "Not addressed: " + criteria + "."
}
