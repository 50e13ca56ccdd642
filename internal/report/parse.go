// Package report lays out the generated narrative, summary tables and
// per-subject difficulty charts into a paginated PDF document.
package report

import "strings"

// Section identifies a report section. Section identity is an explicit tag
// resolved once during parsing; layout decisions branch on it instead of
// re-matching header strings.
type Section int

const (
	SectionNone Section = iota
	SectionOverall
	SectionIntroduction
	SectionBreakdown
	SectionTimeAccuracy
	SectionConcepts
	SectionSuggestions
)

var sectionHeaders = map[string]Section{
	"Overall Performance":           SectionOverall,
	"Motivating Introduction":       SectionIntroduction,
	"Performance Breakdown":         SectionBreakdown,
	"Time vs. Accuracy Insights":    SectionTimeAccuracy,
	"Chapter-wise Concept Analysis": SectionConcepts,
	"Actionable Suggestions":        SectionSuggestions,
}

// Title returns the section's display header.
func (s Section) Title() string {
	for title, sec := range sectionHeaders {
		if sec == s {
			return title
		}
	}
	return ""
}

// BlockKind discriminates parsed narrative blocks.
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockHeading
	BlockTable
)

// TableKind discriminates the two tables of the Performance Breakdown
// section: the first table is the subject table, any later one the
// difficulty table.
type TableKind int

const (
	TableSubject TableKind = iota
	TableDifficulty
)

// Block is one parsed unit of the narrative: a section heading, a text line,
// or a markdown table. Section is the section the block belongs to (for a
// heading, the section it opens).
type Block struct {
	Kind      BlockKind
	Section   Section
	Text      string
	Table     [][]string
	TableKind TableKind
}

// ParseNarrative splits the generated narrative into typed blocks. Markdown
// emphasis markers are stripped, pipe tables are collected row by row with
// separator rows dropped, and known section headers become heading blocks.
func ParseNarrative(content string) []Block {
	content = strings.ReplaceAll(content, "*", "")

	var (
		blocks     []Block
		table      [][]string
		current    Section
		tableCount int
	)

	flushTable := func() {
		rows := dropSeparatorRows(table)
		table = nil
		if len(rows) == 0 {
			return
		}
		kind := TableDifficulty
		if tableCount == 0 {
			kind = TableSubject
		}
		tableCount++
		blocks = append(blocks, Block{Kind: BlockTable, Section: current, Table: rows, TableKind: kind})
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flushTable()
			continue
		}
		if strings.HasPrefix(line, "|") {
			table = append(table, splitTableRow(line))
			continue
		}
		flushTable()

		// Models emit headers both bare and as markdown headings.
		header := strings.TrimSpace(strings.TrimLeft(line, "#"))
		if sec, ok := sectionHeaders[header]; ok {
			current = sec
			blocks = append(blocks, Block{Kind: BlockHeading, Section: sec, Text: header})
			continue
		}
		blocks = append(blocks, Block{Kind: BlockText, Section: current, Text: line})
	}
	flushTable()

	return blocks
}

func splitTableRow(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) <= 2 {
		return nil
	}
	cells := make([]string, 0, len(parts)-2)
	for _, p := range parts[1 : len(parts)-1] {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

// dropSeparatorRows removes markdown alignment rows such as |---|---|.
func dropSeparatorRows(rows [][]string) [][]string {
	var out [][]string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		separator := true
		for _, cell := range row {
			cell = strings.TrimSpace(cell)
			if !strings.HasPrefix(cell, "-") || len(cell) <= 1 {
				separator = false
				break
			}
		}
		if !separator {
			out = append(out, row)
		}
	}
	return out
}

// splitSentences breaks a line into sentences at periods that are not part
// of a decimal number, for bulleted rendering.
func splitSentences(s string) []string {
	var sentences []string
	var sb strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		sb.WriteRune(r)
		if r != '.' {
			continue
		}
		prevDigit := i > 0 && runes[i-1] >= '0' && runes[i-1] <= '9'
		nextDigit := i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9'
		if prevDigit && nextDigit {
			continue
		}
		if sentence := strings.TrimSpace(strings.TrimSuffix(sb.String(), ".")); sentence != "" {
			sentences = append(sentences, sentence)
		}
		sb.Reset()
	}
	if sentence := strings.TrimSpace(sb.String()); sentence != "" {
		sentences = append(sentences, sentence)
	}
	return sentences
}
