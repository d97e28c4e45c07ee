// Package export writes rankings and reports to files.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/skillmatch/internal/analytics"
	"github.com/spigell/skillmatch/internal/matching"
	"github.com/spigell/skillmatch/internal/skills"
)

const (
	SummarySheet    = "Summary"
	CandidatesSheet = "Ranked Candidates"
	GapsSheet       = "Skill Gaps"
	AnalyticsSheet  = "Pool Analytics"
)

const (
	colorHeader = "4472C4"
	colorGood   = "C6EFCE"
	colorFair   = "FFEB9C"
	colorPoor   = "FFC7CE"
)

var candidateHeaders = []string{
	"Rank", "Candidate", "ID", "Role", "Overall", "Skill Match", "Experience", "Role Fit", "Location", "Suggestions", "AI Summary",
}

var gapHeaders = []string{
	"Candidate", "Skill", "Candidate Score", "Target Score", "Gap", "Severity",
}

type styles struct {
	header int
	label  int
	good   int
	fair   int
	poor   int
}

// RankingToExcel writes the ranking to an .xlsx workbook with a summary, the
// ranked candidates, their skill gaps and the pool analytics. The extension is
// added when missing.
func RankingToExcel(r *matching.Ranking, outputPath string, now time.Time) (string, error) {
	if r == nil {
		return "", fmt.Errorf("ranking is required")
	}

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return "", err
	}
	for _, name := range []string{CandidatesSheet, GapsSheet, AnalyticsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return "", fmt.Errorf("create sheet %q: %w", name, err)
		}
	}

	st, err := newStyles(f)
	if err != nil {
		return "", fmt.Errorf("create styles: %w", err)
	}

	if err := writeSummary(f, st, r, now); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeCandidates(f, st, r); err != nil {
		return "", fmt.Errorf("failed to create ranked candidates sheet: %w", err)
	}
	if err := writeGaps(f, st, r); err != nil {
		return "", fmt.Errorf("failed to create skill gaps sheet: %w", err)
	}

	if err := writeAnalytics(f, st, r); err != nil {
		return "", fmt.Errorf("failed to create pool analytics sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("save workbook %q: %w", outputPath, err)
	}

	return outputPath, nil
}

func newStyles(f *excelize.File) (*styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	fill := func(color string) (int, error) {
		return f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: border,
		})
	}

	var (
		st  styles
		err error
	)

	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorHeader}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return nil, err
	}
	if st.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, err
	}
	if st.good, err = fill(colorGood); err != nil {
		return nil, err
	}
	if st.fair, err = fill(colorFair); err != nil {
		return nil, err
	}
	if st.poor, err = fill(colorPoor); err != nil {
		return nil, err
	}

	return &st, nil
}

func (s *styles) forScore(score int) int {
	switch {
	case score >= 80:
		return s.good
	case score >= 60:
		return s.fair
	default:
		return s.poor
	}
}

func (s *styles) forSeverity(severity skills.Severity) int {
	switch severity {
	case skills.SeverityHigh:
		return s.poor
	case skills.SeverityMedium:
		return s.fair
	default:
		return s.good
	}
}

func writeSummary(f *excelize.File, st *styles, r *matching.Ranking, now time.Time) error {
	if err := f.SetColWidth(SummarySheet, "A", "A", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 50); err != nil {
		return err
	}

	total := 0
	for _, item := range r.Items {
		total += item.Analysis.OverallScore
	}

	rows := [][2]any{
		{"Job", r.Job.Title},
		{"Job ID", r.Job.ID},
		{"Department", r.Job.Department},
		{"Location", r.Job.Location},
		{"Generated At", now.UTC().Format(time.RFC3339)},
		{"Ranked Candidates", r.Len()},
	}
	if r.Len() > 0 {
		rows = append(rows,
			[2]any{"Average Overall Score", total / r.Len()},
			[2]any{"Top Candidate", fmt.Sprintf("%s (%d)", r.Items[0].Candidate.Name, r.Items[0].Analysis.OverallScore)},
		)
	}

	row := 1
	if err := setRow(f, SummarySheet, row, []any{"Skill Match Report", ""}); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", st.header); err != nil {
		return err
	}

	for _, kv := range rows {
		row++
		if err := setRow(f, SummarySheet, row, kv[:]); err != nil {
			return err
		}
		if err := styleCell(f, SummarySheet, 1, row, st.label); err != nil {
			return err
		}
	}

	row += 2
	if err := setRow(f, SummarySheet, row, []any{"Required Skill", "Level"}); err != nil {
		return err
	}
	if err := styleRange(f, SummarySheet, row, 2, st.header); err != nil {
		return err
	}
	for _, name := range r.Job.RequiredSkills.Names() {
		row++
		if err := setRow(f, SummarySheet, row, []any{name, r.Job.RequiredSkills[name]}); err != nil {
			return err
		}
	}

	return nil
}

func writeCandidates(f *excelize.File, st *styles, r *matching.Ranking) error {
	widths := []float64{8, 25, 14, 25, 10, 12, 12, 10, 10, 60, 60}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(CandidatesSheet, col, col, width); err != nil {
			return err
		}
	}

	if err := writeHeader(f, st, CandidatesSheet, candidateHeaders); err != nil {
		return err
	}

	for i, item := range r.Items {
		row := i + 2
		summary := ""
		if item.AI != nil {
			summary = item.AI.Text
		}

		values := []any{
			i + 1,
			item.Candidate.Name,
			item.Candidate.ID,
			item.Candidate.Role,
			item.Analysis.OverallScore,
			item.Analysis.Details.SkillMatch,
			item.Analysis.Details.ExperienceMatch,
			item.Analysis.Details.RoleFit,
			item.Analysis.Details.LocationMatch,
			strings.Join(item.Analysis.Suggestions, "\n"),
			summary,
		}
		if err := setRow(f, CandidatesSheet, row, values); err != nil {
			return err
		}
		if err := styleRange(f, CandidatesSheet, row, len(values), st.forScore(item.Analysis.OverallScore)); err != nil {
			return err
		}
	}

	return f.SetPanes(CandidatesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeGaps(f *excelize.File, st *styles, r *matching.Ranking) error {
	if err := f.SetColWidth(GapsSheet, "A", "B", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(GapsSheet, "C", "F", 15); err != nil {
		return err
	}

	if err := writeHeader(f, st, GapsSheet, gapHeaders); err != nil {
		return err
	}

	row := 1
	for _, item := range r.Items {
		analysis := skills.Analyze(item.Candidate.Skills, r.Job.RequiredSkills)
		for _, gap := range analysis.PerSkill {
			row++
			values := []any{item.Candidate.Name, gap.Skill, gap.CandidateScore, gap.TargetScore, gap.Gap, string(gap.Severity)}
			if err := setRow(f, GapsSheet, row, values); err != nil {
				return err
			}
			if err := styleCell(f, GapsSheet, len(values), row, st.forSeverity(gap.Severity)); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeAnalytics(f *excelize.File, st *styles, r *matching.Ranking) error {
	if err := f.SetColWidth(AnalyticsSheet, "A", "A", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(AnalyticsSheet, "B", "B", 15); err != nil {
		return err
	}

	candidates := make([]matching.Candidate, 0, r.Len())
	for _, item := range r.Items {
		candidates = append(candidates, item.Candidate)
	}
	summary := analytics.Summarize(candidates)

	if err := writeHeader(f, st, AnalyticsSheet, []string{"Metric", "Value"}); err != nil {
		return err
	}

	row := 1
	for _, kv := range [][]any{
		{"Total Candidates", summary.TotalCandidates},
		{"Average Employability", summary.AverageEmployability},
		{"Remote/Hybrid Share (%)", summary.FlexibleShare},
		{"Burnout Risk", summary.AtRisk},
	} {
		row++
		if err := setRow(f, AnalyticsSheet, row, kv); err != nil {
			return err
		}
		if err := styleCell(f, AnalyticsSheet, 1, row, st.label); err != nil {
			return err
		}
	}

	row += 2
	if err := setRow(f, AnalyticsSheet, row, []any{"Work Preference", "Candidates"}); err != nil {
		return err
	}
	if err := styleRange(f, AnalyticsSheet, row, 2, st.header); err != nil {
		return err
	}
	for _, p := range summary.WorkPreferences {
		row++
		if err := setRow(f, AnalyticsSheet, row, []any{p.Name, p.Value}); err != nil {
			return err
		}
	}

	row += 2
	if err := setRow(f, AnalyticsSheet, row, []any{"Top Skill", "Candidates"}); err != nil {
		return err
	}
	if err := styleRange(f, AnalyticsSheet, row, 2, st.header); err != nil {
		return err
	}
	for _, s := range summary.TopSkills {
		row++
		if err := setRow(f, AnalyticsSheet, row, []any{s.Name, s.Count}); err != nil {
			return err
		}
	}

	return nil
}

func writeHeader(f *excelize.File, st *styles, sheet string, headers []string) error {
	values := make([]any, 0, len(headers))
	for _, h := range headers {
		values = append(values, h)
	}
	if err := setRow(f, sheet, 1, values); err != nil {
		return err
	}
	return styleRange(f, sheet, 1, len(headers), st.header)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func styleRange(f *excelize.File, sheet string, row, columns, style int) error {
	from, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(columns, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

func styleCell(f *excelize.File, sheet string, col, row, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}
