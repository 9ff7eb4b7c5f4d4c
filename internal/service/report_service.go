package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"emtsim/internal/cache"
	"emtsim/internal/grading"
	"emtsim/internal/lifecycle"
	"emtsim/internal/model"

	"github.com/rs/zerolog"
	"github.com/signintech/gopdf"
)

var ErrReportNotReady = errors.New("report not available until the encounter ends")

// pdfFontPaths covers the usual Debian and Alpine font locations
var pdfFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
}

// ReportService grades ended encounters and serves the resulting reports
type ReportService struct {
	reports  cache.ReportCache
	pdfs     cache.PDFCache
	sessions cache.SessionCache
	engine   *grading.Engine
	logger   zerolog.Logger
}

// NewReportService creates a new report service
func NewReportService(
	reports cache.ReportCache,
	pdfs cache.PDFCache,
	sessions cache.SessionCache,
	engine *grading.Engine,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{
		reports:  reports,
		pdfs:     pdfs,
		sessions: sessions,
		engine:   engine,
		logger:   logger,
	}
}

// Finalize grades an ended session and caches the report. Grading is a pure
// function of the session, so a failed cache write only costs a regrade on
// the next read; it never loses the report.
func (s *ReportService) Finalize(ctx context.Context, session *model.ScenarioSession, now time.Time) *model.SessionReport {
	report := s.build(session, now)
	if err := s.reports.Set(ctx, report); err != nil {
		s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to cache report")
	}
	return report
}

// Get returns the report for an ended session, regrading on a cache miss
func (s *ReportService) Get(ctx context.Context, sessionID string) (*model.SessionReport, error) {
	report, err := s.reports.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	if report != nil {
		return report, nil
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Status != model.SessionEnded {
		return nil, ErrReportNotReady
	}
	return s.Finalize(ctx, session, time.Now()), nil
}

func (s *ReportService) build(session *model.ScenarioSession, now time.Time) *model.SessionReport {
	endedAt := now
	if session.EndedAt != nil {
		endedAt = *session.EndedAt
	}
	timeSpent := session.ElapsedMinutes(endedAt)

	rubric := s.engine.Grade(session.Transcript, session.Scenario, timeSpent, session.ExamResult)
	report := &model.SessionReport{
		SessionID:  session.ID,
		EndReason:  session.EndReason,
		Rubric:     rubric,
		Feedback:   grading.BuildReport(rubric, session.Scenario),
		ExamResult: session.ExamResult,
	}

	if session.EndReason == model.EndReasonHandover {
		// The handover is the last trainee turn carrying a trigger phrase
		for i := len(session.Transcript) - 1; i >= 0; i-- {
			turn := session.Transcript[i]
			if turn.Role != model.RoleTrainee {
				continue
			}
			if content := lifecycle.ExtractHandoverContent(turn.Text); content != "" {
				quality := lifecycle.AnalyzeHandoverQuality(content)
				report.HandoverQuality = &quality
				break
			}
		}
	}

	return report
}

// RenderPDF renders the report as a printable PDF document. Rendered bytes
// are cached beside the report; repeat downloads skip the render.
func (s *ReportService) RenderPDF(ctx context.Context, sessionID string) ([]byte, error) {
	if cached, err := s.pdfs.Get(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("pdf cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	report, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	fontLoaded := false
	var fontErr error
	for _, path := range pdfFontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load pdf font: %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", 18); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Patient Encounter Report")
	pdf.Br(26)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("Session: %s", report.SessionID))
	pdf.Br(14)
	pdf.Cell(nil, fmt.Sprintf("Ended by: %s    Generated: %s", report.EndReason, time.Now().Format("2006-01-02 15:04")))
	pdf.Br(14)

	outcome := "FAIL"
	if report.Rubric.OverallPass {
		outcome = "PASS"
	}
	tm := report.Rubric.TimeManagement
	pdf.Cell(nil, fmt.Sprintf("Result: %s    Total score: %d    Time: %.1f of %.0f minutes",
		outcome, report.Rubric.TotalScore, tm.TimeSpentMinutes, tm.TimeLimitMinutes))
	pdf.Br(22)

	if err := pdf.SetFont("DejaVu", "", 13); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Critical actions")
	pdf.Br(15)
	if err := pdf.SetFont("DejaVu", "", 10); err != nil {
		return nil, err
	}
	for _, id := range sortedReportKeys(report.Rubric.CheckboxItems) {
		item := report.Rubric.CheckboxItems[id]
		mark := "[ ]"
		if item.Completed {
			mark = "[x]"
		}
		writeWrapped(&pdf, fmt.Sprintf("%s %s", mark, item.Description))
	}
	pdf.Br(10)

	if err := pdf.SetFont("DejaVu", "", 13); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Section scores")
	pdf.Br(15)
	if err := pdf.SetFont("DejaVu", "", 10); err != nil {
		return nil, err
	}
	sectionIDs := make([]string, 0, len(report.Rubric.ScoredSections))
	for id := range report.Rubric.ScoredSections {
		sectionIDs = append(sectionIDs, id)
	}
	sort.Strings(sectionIDs)
	for _, id := range sectionIDs {
		section := report.Rubric.ScoredSections[id]
		writeWrapped(&pdf, fmt.Sprintf("%d/%d  %s", section.Score, section.MaxScore, section.Criteria))
	}
	pdf.Br(10)

	if report.HandoverQuality != nil {
		if err := pdf.SetFont("DejaVu", "", 10); err != nil {
			return nil, err
		}
		pdf.Cell(nil, fmt.Sprintf("Handover quality: %d/5", *report.HandoverQuality))
		pdf.Br(16)
	}

	if err := pdf.SetFont("DejaVu", "", 13); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Feedback")
	pdf.Br(15)
	if err := pdf.SetFont("DejaVu", "", 10); err != nil {
		return nil, err
	}
	for _, line := range report.Feedback.Strengths {
		writeWrapped(&pdf, "+ "+line)
	}
	for _, line := range report.Feedback.Recommendations {
		writeWrapped(&pdf, "- "+line)
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	if err := s.pdfs.Set(ctx, sessionID, buf.Bytes()); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to cache pdf")
	}
	return buf.Bytes(), nil
}

func writeWrapped(pdf *gopdf.GoPdf, text string) {
	lines, err := pdf.SplitText(text, 500)
	if err != nil {
		lines = []string{text}
	}
	for _, l := range lines {
		pdf.Cell(nil, l)
		pdf.Br(13)
	}
}

func sortedReportKeys(m map[string]model.CheckboxResult) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
