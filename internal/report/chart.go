package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pavelanni/scorecard/internal/aggregate"
	"github.com/pavelanni/scorecard/internal/i18n"
)

var outcomeColors = map[string]drawing.Color{
	"correct":     drawing.ColorFromHex("36A2EB"),
	"incorrect":   drawing.ColorFromHex("FF6384"),
	"unattempted": drawing.ColorFromHex("FFCE56"),
}

var chartLevelOrder = []string{"Easy", "Medium", "Tough"}

// RenderSubjectChart renders one subject's grouped difficulty bar chart as a
// PNG, and returns it with a one-line description of the level totals.
func RenderSubjectChart(ctx context.Context, subject string, byLevel map[string]aggregate.LevelOutcome) ([]byte, string, error) {
	var bars []chart.Value
	maxTotal := 0
	for _, level := range chartLevelOrder {
		cell := byLevel[level]
		if cell.Total > maxTotal {
			maxTotal = cell.Total
		}
		bars = append(bars,
			barValue(level+" "+i18n.T(ctx, "chart.correct"), cell.Correct, outcomeColors["correct"]),
			barValue(level+" "+i18n.T(ctx, "chart.incorrect"), cell.Incorrect, outcomeColors["incorrect"]),
			barValue(level+" "+i18n.T(ctx, "chart.unattempted"), cell.Unattempted, outcomeColors["unattempted"]),
		)
	}

	graph := chart.BarChart{
		Title:      i18n.Td(ctx, "chart.title", map[string]any{"Subject": subject}),
		Width:      640,
		Height:     384,
		BarWidth:   40,
		BarSpacing: 16,
		Background: chart.Style{
			Padding: chart.Box{Top: 48},
		},
		XAxis: chart.Style{
			TextRotationDegrees: 45,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxTotal) + 2},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, "", fmt.Errorf("render chart for %s: %w", subject, err)
	}

	description := i18n.Td(ctx, "chart.totals", map[string]any{
		"Easy":   byLevel["Easy"].Total,
		"Medium": byLevel["Medium"].Total,
		"Tough":  byLevel["Tough"].Total,
	})
	return buf.Bytes(), description, nil
}

func barValue(label string, count int, color drawing.Color) chart.Value {
	return chart.Value{
		Label: label,
		Value: float64(count),
		Style: chart.Style{
			FillColor:   color,
			StrokeColor: color,
		},
	}
}
