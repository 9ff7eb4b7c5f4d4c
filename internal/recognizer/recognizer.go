// Package recognizer classifies normalized trainee utterances into typed
// clinical actions and vets medication actions against patient profiles.
package recognizer

import (
	"regexp"
	"strings"

	"emtsim/internal/model"
	"emtsim/internal/textnorm"
)

// Recognizer evaluates the ordered action catalogue against utterances.
// It holds only immutable catalogue data and is safe for concurrent use.
type Recognizer struct {
	catalogue  []PatternGroup
	vocabTerms []vocabTerm
}

type vocabTerm struct {
	term    string
	pattern *regexp.Regexp
}

// NewRecognizer builds a recognizer over the given catalogue and vocabulary
func NewRecognizer(catalogue []PatternGroup, vocab Vocabulary) *Recognizer {
	terms := vocab.terms()
	compiled := make([]vocabTerm, 0, len(terms))
	for _, t := range terms {
		compiled = append(compiled, vocabTerm{
			term:    t,
			pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`),
		})
	}
	return &Recognizer{catalogue: catalogue, vocabTerms: compiled}
}

// NewDefaultRecognizer builds a recognizer over the built-in catalogues
func NewDefaultRecognizer() *Recognizer {
	return NewRecognizer(DefaultCatalogue(), DefaultVocabulary())
}

// Recognize classifies one utterance. It is a total function: every input
// yields an action, falling through to GeneralMedical on vocabulary hits and
// Unknown when nothing matches at all.
func (r *Recognizer) Recognize(utterance string) model.Action {
	norm := textnorm.Normalize(utterance)

	// Collect every matching group, then pick the lowest priority number.
	// Strict less-than keeps the earliest catalogue entry on ties.
	best := -1
	for i, g := range r.catalogue {
		if !matchesAny(g.Patterns, norm) {
			continue
		}
		if best == -1 || g.Priority < r.catalogue[best].Priority {
			best = i
		}
	}

	if best >= 0 {
		g := r.catalogue[best]
		action := model.Action{
			Type:        g.Type,
			Priority:    g.Priority,
			MatchedText: firstMatch(g.Patterns, norm),
			Details:     extractDetails(g.Type, norm),
		}
		action.NeedsClarification = needsClarification(action)
		return action
	}

	// Vocabulary fallback: collect every matched term
	var terms []string
	for _, vt := range r.vocabTerms {
		if vt.pattern.MatchString(norm) {
			terms = append(terms, vt.term)
		}
	}
	if len(terms) > 0 {
		return model.Action{
			Type:        model.ActionGeneralMedical,
			Priority:    vocabularyPriority,
			MatchedText: terms[0],
			Details:     model.ActionDetails{Terms: terms},
		}
	}

	return model.Action{Type: model.ActionUnknown, Priority: unknownPriority}
}

// ClarificationRequest returns the canned follow-up question for an action
// missing a required detail, or false when nothing is missing.
func (r *Recognizer) ClarificationRequest(action model.Action) (string, bool) {
	if !action.NeedsClarification {
		return "", false
	}
	d := action.Details
	switch {
	case action.Type == model.ActionVitalCheck && d.VitalType == model.Unspecified:
		return "Which vital sign do you want to check?", true
	case action.Type == model.ActionMedicationAdmin && d.Medication == model.Unspecified:
		return "Which medication do you want to give, and at what dose?", true
	case action.Type == model.ActionEquipmentUse && d.Equipment == model.Unspecified:
		return "What equipment do you want to use?", true
	case action.Type == model.ActionPhysicalAssessment && d.BodyRegion == model.Unspecified:
		return "Which part of the body do you want to examine?", true
	}
	return "", false
}

func matchesAny(patterns []*regexp.Regexp, norm string) bool {
	for _, p := range patterns {
		if p.MatchString(norm) {
			return true
		}
	}
	return false
}

func firstMatch(patterns []*regexp.Regexp, norm string) string {
	for _, p := range patterns {
		if m := p.FindString(norm); m != "" {
			return m
		}
	}
	return ""
}

func needsClarification(a model.Action) bool {
	d := a.Details
	switch a.Type {
	case model.ActionVitalCheck:
		return d.VitalType == model.Unspecified
	case model.ActionMedicationAdmin:
		return d.Medication == model.Unspecified
	case model.ActionEquipmentUse:
		return d.Equipment == model.Unspecified
	case model.ActionPhysicalAssessment:
		return d.BodyRegion == model.Unspecified
	}
	return false
}

// extractDetails dispatches to the per-type detail extractor
func extractDetails(t model.ActionType, norm string) model.ActionDetails {
	switch t {
	case model.ActionVitalCheck:
		return extractVitalCheck(norm)
	case model.ActionMedicationAdmin:
		return extractMedication(norm)
	case model.ActionEquipmentUse:
		return extractEquipment(norm)
	case model.ActionPositioning:
		return extractPositioning(norm)
	case model.ActionPhysicalAssessment:
		return extractAssessment(norm)
	case model.ActionTransportDecision:
		return extractTransport(norm)
	}
	return model.ActionDetails{}
}

// ---- vital check ----

// vitalAliases maps utterance phrasing to canonical vital identifiers.
// Order matters: "pulse ox" must resolve before the bare "pulse".
var vitalAliases = []struct {
	aliases   []string
	vitalType string
}{
	{[]string{"pulse ox", "pulse oximetry", "oxygen saturation", "spo2", "o2 sat"}, model.VitalOxygenSaturation},
	{[]string{"blood pressure", "bp"}, model.VitalBloodPressure},
	{[]string{"respiratory rate", "respiration", "breathing rate"}, model.VitalRespiratoryRate},
	{[]string{"heart rate", "pulse"}, model.VitalHeartRate},
	{[]string{"temperature", "temp"}, model.VitalTemperature},
	{[]string{"vitals", "vital signs"}, "all"},
}

func extractVitalCheck(norm string) model.ActionDetails {
	d := model.ActionDetails{VitalType: model.Unspecified}
	for _, va := range vitalAliases {
		if textnorm.ContainsAny(norm, va.aliases) {
			d.VitalType = va.vitalType
			break
		}
	}
	d.BodyRegion = findBodyRegion(norm)
	return d
}

// ---- medication ----

var knownMedications = []string{
	"aspirin", "nitroglycerin", "nitro", "albuterol", "epinephrine",
	"glucose", "naloxone", "narcan",
}

// canonicalMedication folds aliases onto one name
var canonicalMedication = map[string]string{
	"nitro":  "nitroglycerin",
	"narcan": "naloxone",
}

var dosagePattern = regexp.MustCompile(`(\d+(\.\d+)?)\s*(mg|mcg|g|grams|units|ml|l|lpm|liters?)\b`)

// routeKeywords maps phrasing to administration routes, checked in order
var routeKeywords = []struct {
	keywords []string
	route    string
}{
	{[]string{"sublingual", "under the tongue", "under his tongue", "under her tongue"}, "sublingual"},
	{[]string{"intramuscular", "into the thigh", "im injection"}, "intramuscular"},
	{[]string{"intravenous", "through the iv", "iv push"}, "intravenous"},
	{[]string{"nebulizer", "nebulize", "inhaler", "puff", "inhale"}, "inhaled"},
	{[]string{"intranasal", "nasal spray", "up the nose"}, "intranasal"},
	{[]string{"by mouth", "oral", "chew", "swallow"}, "oral"},
}

// defaultRoutes supplies the usual route when the utterance names none
var defaultRoutes = map[string]string{
	"aspirin":       "oral",
	"nitroglycerin": "sublingual",
	"albuterol":     "inhaled",
	"epinephrine":   "intramuscular",
	"glucose":       "oral",
	"naloxone":      "intranasal",
}

func extractMedication(norm string) model.ActionDetails {
	d := model.ActionDetails{Medication: model.Unspecified}

	for _, med := range knownMedications {
		if textnorm.ContainsWord(norm, med) {
			name := med
			if canonical, ok := canonicalMedication[med]; ok {
				name = canonical
			}
			d.Medication = name
			break
		}
	}

	if m := dosagePattern.FindStringSubmatch(norm); m != nil {
		d.Dosage = m[1] + " " + m[3]
	}

	for _, rk := range routeKeywords {
		if textnorm.ContainsAny(norm, rk.keywords) {
			d.Route = rk.route
			break
		}
	}
	if d.Route == "" && d.Medication != model.Unspecified {
		d.Route = defaultRoutes[d.Medication]
	}

	return d
}

// ---- equipment ----

var equipmentAliases = []struct {
	aliases   []string
	canonical string
}{
	{[]string{"non rebreather", "non-rebreather", "nonrebreather", "nrb"}, "non-rebreather mask"},
	{[]string{"nasal cannula"}, "nasal cannula"},
	{[]string{"bag valve mask", "bag-valve-mask", "bvm"}, "bag valve mask"},
	{[]string{"aed", "defibrillator"}, "aed"},
	{[]string{"cardiac monitor", "monitor"}, "cardiac monitor"},
	{[]string{"cervical collar", "c collar", "c-collar"}, "cervical collar"},
	{[]string{"splint"}, "splint"},
	{[]string{"backboard"}, "backboard"},
	{[]string{"stretcher"}, "stretcher"},
	{[]string{"tourniquet"}, "tourniquet"},
	{[]string{"oral airway", "opa"}, "oral airway"},
	{[]string{"nasal airway", "npa"}, "nasal airway"},
	{[]string{"iv", "intravenous line", "saline lock", "fluids"}, "iv line"},
	{[]string{"oxygen"}, "oxygen"},
}

func extractEquipment(norm string) model.ActionDetails {
	d := model.ActionDetails{Equipment: model.Unspecified}
	for _, ea := range equipmentAliases {
		if textnorm.ContainsAny(norm, ea.aliases) {
			d.Equipment = ea.canonical
			break
		}
	}
	return d
}

// ---- positioning ----

var positionAliases = []struct {
	aliases  []string
	position string
}{
	{[]string{"upright", "sitting up", "sit up", "semi fowler", "semi-fowler", "fowler"}, "upright"},
	{[]string{"supine", "flat", "lay down", "lying down"}, "supine"},
	{[]string{"recovery position", "on his side", "on her side", "on their side"}, "recovery"},
	{[]string{"trendelenburg", "legs elevated", "legs raised", "legs up", "feet up", "elevate the legs", "raise the legs"}, "legs elevated"},
}

// covers "sit him up" and similar phrasings with the object in the middle
var sitUpPattern = regexp.MustCompile(`\bsit\b.*\bup\b`)

func extractPositioning(norm string) model.ActionDetails {
	d := model.ActionDetails{Position: model.Unspecified}
	for _, pa := range positionAliases {
		if textnorm.ContainsAny(norm, pa.aliases) {
			d.Position = pa.position
			break
		}
	}
	if d.Position == model.Unspecified && sitUpPattern.MatchString(norm) {
		d.Position = "upright"
	}
	return d
}

// ---- physical assessment ----

var techniqueAliases = []struct {
	aliases   []string
	technique string
}{
	{[]string{"palpate", "feel", "press on"}, "palpation"},
	{[]string{"auscultate", "listen to"}, "auscultation"},
	{[]string{"percuss"}, "percussion"},
	{[]string{"inspect", "examine", "look at"}, "inspection"},
}

var bodyRegionTerms = []string{
	"chest", "lungs", "lung", "abdomen", "belly", "stomach", "head", "neck",
	"back", "pelvis", "hips", "hip", "arms", "arm", "legs", "leg",
	"extremities", "pupils", "airway", "breath sounds", "ankle", "wrist",
}

func extractAssessment(norm string) model.ActionDetails {
	d := model.ActionDetails{BodyRegion: model.Unspecified}
	if region := findBodyRegion(norm); region != "" {
		d.BodyRegion = region
	}
	// Head-to-toe style surveys cover every region
	if strings.Contains(norm, "head to toe") || strings.Contains(norm, "secondary") || strings.Contains(norm, "rapid") {
		d.BodyRegion = "full body"
	}
	for _, ta := range techniqueAliases {
		if textnorm.ContainsAny(norm, ta.aliases) {
			d.Technique = ta.technique
			break
		}
	}
	return d
}

func findBodyRegion(norm string) string {
	for _, region := range bodyRegionTerms {
		if textnorm.ContainsWord(norm, region) {
			return region
		}
	}
	return ""
}

// ---- transport ----

var urgentTransportTerms = []string{
	"code 3", "priority 1", "lights and sirens", "rapid transport",
	"load and go", "emergent",
}

func extractTransport(norm string) model.ActionDetails {
	d := model.ActionDetails{Urgency: "routine"}
	if textnorm.ContainsAny(norm, urgentTransportTerms) {
		d.Urgency = "emergent"
	}
	return d
}

