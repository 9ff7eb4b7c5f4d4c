// Package lifecycle decides when an encounter ends: a handover phrase, an
// explicit stop request, or the time limit running out.
package lifecycle

import (
	"strings"
	"time"

	"emtsim/internal/model"
	"emtsim/internal/textnorm"
)

// TimeLimit is the fixed encounter length
const TimeLimit = 20 * time.Minute

// Status is the decision for one utterance
type Status struct {
	Ended  bool
	Reason model.EndReason
}

var handoverTriggers = []string{
	"ready to give my handover",
	"ready to hand over",
	"ready for handover",
	"here is my handover",
	"here's my handover",
	"handover report",
	"handoff report",
	"transfer of care",
	"giving my report",
}

// "force end scenario" is kept as an unconditional override for scripted
// drills; the rest are the phrasings trainees actually use.
var manualTriggers = []string{
	"force end scenario",
	"end the scenario",
	"end scenario",
	"stop the scenario",
	"stop scenario",
	"terminate the scenario",
	"terminate scenario",
	"quit the scenario",
}

// Detector evaluates the end conditions for one session. It holds only the
// start instant, so it is cheap to rebuild per check.
type Detector struct {
	start time.Time
	limit time.Duration
}

// NewDetector builds a detector over the session start instant
func NewDetector(start time.Time) *Detector {
	return &Detector{start: start, limit: TimeLimit}
}

// NewDetectorWithLimit overrides the time limit
func NewDetectorWithLimit(start time.Time, limit time.Duration) *Detector {
	return &Detector{start: start, limit: limit}
}

// Check evaluates one utterance against the end conditions, in order:
// handover phrases, manual stop phrases, then the time limit. The timeout
// comparison runs in milliseconds so the exact boundary instant ends the
// session deterministically.
func (d *Detector) Check(utterance string, now time.Time) Status {
	norm := textnorm.Normalize(utterance)

	for _, trigger := range handoverTriggers {
		if strings.Contains(norm, trigger) {
			return Status{Ended: true, Reason: model.EndReasonHandover}
		}
	}
	for _, trigger := range manualTriggers {
		if strings.Contains(norm, trigger) {
			return Status{Ended: true, Reason: model.EndReasonManual}
		}
	}
	if d.TimeExpired(now) {
		return Status{Ended: true, Reason: model.EndReasonTimeout}
	}
	return Status{}
}

// TimeExpired reports whether the limit has elapsed, millisecond precision
func (d *Detector) TimeExpired(now time.Time) bool {
	return now.Sub(d.start).Milliseconds() >= d.limit.Milliseconds()
}

// Remaining returns the time left before timeout, floored at zero
func (d *Detector) Remaining(now time.Time) time.Duration {
	left := d.limit - now.Sub(d.start)
	if left < 0 {
		return 0
	}
	return left
}
