package report

import (
	"reflect"
	"testing"
)

const sampleNarrative = `## Overall Performance
You scored **133.0 out of 300** marks.

## Performance Breakdown

| Subject | Accuracy | Marks |
|---------|----------|-------|
| Physics | 76.6% | 55 |
| Chemistry | 52.0% | 40 |

| Difficulty | Total | Avg Time (seconds) |
|------------|-------|--------------------|
| Easy | 20 | 45.5 |

## Time vs. Accuracy Insights
You spent 45.5 seconds per question. Accuracy stayed near 76.6% throughout.

## Chapter-wise Concept Analysis
Physics:
Electrostatics: revise Gauss Law and Electric flux.

## Actionable Suggestions
Practice numericals daily.
`

func TestParseNarrativeSections(t *testing.T) {
	blocks := ParseNarrative(sampleNarrative)

	var headings []Section
	for _, b := range blocks {
		if b.Kind == BlockHeading {
			headings = append(headings, b.Section)
		}
	}
	want := []Section{SectionOverall, SectionBreakdown, SectionTimeAccuracy, SectionConcepts, SectionSuggestions}
	if !reflect.DeepEqual(headings, want) {
		t.Fatalf("heading sections = %v, want %v", headings, want)
	}
}

func TestParseNarrativeTables(t *testing.T) {
	blocks := ParseNarrative(sampleNarrative)

	var tables []Block
	for _, b := range blocks {
		if b.Kind == BlockTable {
			tables = append(tables, b)
		}
	}
	if len(tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(tables))
	}
	if tables[0].TableKind != TableSubject {
		t.Errorf("first table kind = %v, want TableSubject", tables[0].TableKind)
	}
	if tables[1].TableKind != TableDifficulty {
		t.Errorf("second table kind = %v, want TableDifficulty", tables[1].TableKind)
	}
	for i, tb := range tables {
		if tb.Section != SectionBreakdown {
			t.Errorf("table %d section = %v, want SectionBreakdown", i, tb.Section)
		}
	}

	wantSubject := [][]string{
		{"Subject", "Accuracy", "Marks"},
		{"Physics", "76.6%", "55"},
		{"Chemistry", "52.0%", "40"},
	}
	if !reflect.DeepEqual(tables[0].Table, wantSubject) {
		t.Errorf("subject table = %v, want %v", tables[0].Table, wantSubject)
	}
	wantDifficulty := [][]string{
		{"Difficulty", "Total", "Avg Time (seconds)"},
		{"Easy", "20", "45.5"},
	}
	if !reflect.DeepEqual(tables[1].Table, wantDifficulty) {
		t.Errorf("difficulty table = %v, want %v", tables[1].Table, wantDifficulty)
	}
}

func TestParseNarrativeStripsEmphasis(t *testing.T) {
	blocks := ParseNarrative("## Overall Performance\nYou scored **133.0** marks.")
	for _, b := range blocks {
		if b.Kind == BlockText && b.Text != "You scored 133.0 marks." {
			t.Errorf("text = %q, want emphasis stripped", b.Text)
		}
	}
}

func TestParseNarrativeTextInheritsSection(t *testing.T) {
	blocks := ParseNarrative(sampleNarrative)
	for _, b := range blocks {
		if b.Kind == BlockText && b.Text == "Practice numericals daily." {
			if b.Section != SectionSuggestions {
				t.Errorf("suggestion text section = %v, want SectionSuggestions", b.Section)
			}
			return
		}
	}
	t.Fatal("suggestion text block not found")
}

func TestSectionTitle(t *testing.T) {
	if got := SectionBreakdown.Title(); got != "Performance Breakdown" {
		t.Errorf("Title() = %q, want %q", got, "Performance Breakdown")
	}
	if got := SectionNone.Title(); got != "" {
		t.Errorf("Title() for SectionNone = %q, want empty", got)
	}
}

func TestSplitTableRow(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"three cells", "| Physics | 76.6% | 55 |", []string{"Physics", "76.6%", "55"}},
		{"single pipe", "|", nil},
		{"empty cells kept", "| | |", []string{"", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitTableRow(tt.line); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitTableRow(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			"plain sentences",
			"First point. Second point.",
			[]string{"First point", "Second point"},
		},
		{
			"decimal guarded",
			"You spent 45.5 seconds per question. Accuracy stayed near 76.6% throughout.",
			[]string{"You spent 45.5 seconds per question", "Accuracy stayed near 76.6% throughout"},
		},
		{
			"trailing fragment kept",
			"No terminal period here",
			[]string{"No terminal period here"},
		},
		{
			"empty",
			"",
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitSentences(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitSentences(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
