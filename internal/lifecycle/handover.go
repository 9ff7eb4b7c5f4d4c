package lifecycle

import (
	"regexp"
	"strings"

	"emtsim/internal/textnorm"
)

// ExtractHandoverContent slices the report text following the first handover
// trigger phrase. Best effort: an utterance with no trigger yields "".
func ExtractHandoverContent(utterance string) string {
	norm := textnorm.Normalize(utterance)
	for _, trigger := range handoverTriggers {
		idx := strings.Index(norm, trigger)
		if idx < 0 {
			continue
		}
		content := norm[idx+len(trigger):]
		return strings.TrimLeft(content, " .,:;-")
	}
	return ""
}

// Handover completeness markers, one group per report element. Each group
// found contributes one point toward the 0-5 quality score.
var agePattern = regexp.MustCompile(`\b\d{1,3}\s*(years? old|year-old|yo|y/o)\b`)

var chiefComplaintMarkers = []string{
	"chief complaint", "complaining of", "complains of", "presents with",
	"called for", "found with",
}

var examFindingMarkers = []string{
	"exam", "assessment", "breath sounds", "tenderness", "skin", "pupils",
	"auscultation", "found",
}

var vitalsMarkers = []string{
	"blood pressure", "heart rate", "pulse", "respiratory rate", "spo2",
	"pulse ox", "bp", "vitals", "o2 sat",
}

var treatmentMarkers = []string{
	"administered", "gave", "given", "applied", "treated with", "oxygen",
	"aspirin", "nitroglycerin", "albuterol", "epinephrine", "splint",
}

// AnalyzeHandoverQuality scores extracted handover content 0-5 by the
// presence of age, chief complaint, exam findings, vitals, and treatments.
// Feedback only; the score never gates pass or fail.
func AnalyzeHandoverQuality(content string) int {
	norm := textnorm.Normalize(content)
	if norm == "" {
		return 0
	}

	score := 0
	if agePattern.MatchString(norm) || strings.Contains(norm, "age") {
		score++
	}
	for _, group := range [][]string{
		chiefComplaintMarkers, examFindingMarkers, vitalsMarkers, treatmentMarkers,
	} {
		for _, marker := range group {
			if strings.Contains(norm, marker) {
				score++
				break
			}
		}
	}
	return score
}
