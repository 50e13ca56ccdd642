package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/pavelanni/scorecard/internal/aggregate"
	"github.com/pavelanni/scorecard/internal/i18n"
)

const chartsPerPage = 2

// BuildPDF lays the parsed narrative blocks and the per-subject difficulty
// charts out into a paginated PDF. Charts are inserted on their own pages
// once both Performance Breakdown tables have been rendered, mirroring the
// report's fixed section order. subjects fixes the chart order.
func BuildPDF(ctx context.Context, blocks []Block, chartData map[string]map[string]aggregate.LevelOutcome, subjects []string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(19, 19, 19)
	pdf.SetAutoPageBreak(true, 19)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	// Main title.
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 128)
	pdf.CellFormat(0, 10, tr(i18n.T(ctx, "report.title")), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	var (
		current     Section
		inBreakdown bool
		tableCount  int
		chartsAdded bool
	)

	for _, b := range blocks {
		switch b.Kind {
		case BlockHeading:
			if inBreakdown && tableCount >= 2 && !chartsAdded {
				addCharts(ctx, pdf, chartData, subjects)
				chartsAdded = true
			}
			pdf.SetFont("Helvetica", "B", 14)
			pdf.SetTextColor(0, 0, 139)
			pdf.CellFormat(0, 8, tr(b.Text), "", 1, "L", false, 0, "")
			pdf.Ln(1)
			current = b.Section
			inBreakdown = current == SectionBreakdown
			tableCount = 0

		case BlockTable:
			if current != SectionBreakdown {
				continue
			}
			writeTableTitle(ctx, pdf, tr, b.TableKind)
			writeTable(pdf, tr, b, usable)
			tableCount++

		case BlockText:
			writeText(ctx, pdf, tr, b, subjects)
		}
	}

	// A narrative ending inside Performance Breakdown still gets its charts.
	if inBreakdown && tableCount >= 2 && !chartsAdded {
		addCharts(ctx, pdf, chartData, subjects)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("build PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTableTitle(ctx context.Context, pdf *fpdf.Fpdf, tr func(string) string, kind TableKind) {
	msgID := "report.difficulty_table"
	if kind == TableSubject {
		msgID = "report.subject_table"
	}
	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetTextColor(47, 79, 79)
	pdf.CellFormat(0, 6, tr(i18n.T(ctx, msgID)), "", 1, "L", false, 0, "")
}

func writeTable(pdf *fpdf.Fpdf, tr func(string) string, b Block, usable float64) {
	rows := b.Table
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}
	colW := usable / float64(len(rows[0]))

	for i, row := range rows {
		if i == 0 {
			pdf.SetFont("Helvetica", "B", 9)
			pdf.SetFillColor(173, 216, 230)
		} else {
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetTextColor(0, 0, 0)
		for _, cell := range row {
			if i == 0 && b.TableKind == TableDifficulty {
				cell = strings.ReplaceAll(cell, "Avg Time (seconds)", "Avg Time(s)")
			}
			pdf.CellFormat(colW, 7, tr(cell), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(2)
}

func writeText(ctx context.Context, pdf *fpdf.Fpdf, tr func(string) string, b Block, subjects []string) {
	switch b.Section {
	case SectionTimeAccuracy:
		// Each sentence becomes its own bullet.
		line := strings.TrimLeft(b.Text, "-• ")
		pdf.SetFont("Times", "", 8)
		pdf.SetTextColor(0, 0, 0)
		for _, sentence := range splitSentences(line) {
			pdf.MultiCell(0, 4, tr("• "+sentence+"."), "", "L", false)
		}
		return
	case SectionConcepts:
		for _, subject := range subjects {
			if b.Text == subject+":" {
				pdf.SetFont("Helvetica", "I", 10)
				pdf.SetTextColor(47, 79, 79)
				pdf.CellFormat(0, 6, tr(subject), "", 1, "L", false, 0, "")
				return
			}
		}
		if strings.Contains(b.Text, ":") {
			pdf.SetFont("Times", "", 8)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(0, 4, tr("• "+b.Text), "", "L", false)
			return
		}
	}

	pdf.SetFont("Times", "", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 4, tr(b.Text), "", "L", false)
	pdf.Ln(1)
}

func addCharts(ctx context.Context, pdf *fpdf.Fpdf, chartData map[string]map[string]aggregate.LevelOutcome, subjects []string) {
	pageW, _ := pdf.GetPageSize()
	imgW := 140.0

	placed := 0
	for _, subject := range subjects {
		byLevel, ok := chartData[subject]
		if !ok {
			continue
		}
		png, description, err := RenderSubjectChart(ctx, subject, byLevel)
		if err != nil {
			slog.Error("chart rendering failed, skipping subject", "subject", subject, "error", err)
			continue
		}
		if placed%chartsPerPage == 0 {
			pdf.AddPage()
		}
		tr := pdf.UnicodeTranslatorFromDescriptor("")
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(47, 79, 79)
		pdf.CellFormat(0, 6, tr(i18n.Td(ctx, "report.chart_heading", map[string]any{"Subject": subject})), "", 1, "L", false, 0, "")

		name := "chart-" + subject
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		pdf.ImageOptions(name, (pageW-imgW)/2, pdf.GetY(), imgW, 0, true, opts, 0, "")

		pdf.SetFont("Times", "", 8)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, 4, tr(description), "", "L", false)
		pdf.Ln(2)
		placed++
	}
}
