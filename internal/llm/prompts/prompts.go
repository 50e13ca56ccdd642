// Package prompts renders the natural-language analysis block submitted to
// the generation service. The layout is fixed; only the numbers come from the
// aggregate result.
package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/pavelanni/scorecard/internal/aggregate"
	"github.com/pavelanni/scorecard/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	loadOnce     sync.Once
	loadErr      error
	feedbackTmpl *template.Template
)

func loadTemplates() error {
	loadOnce.Do(func() {
		feedbackTmpl, loadErr = template.ParseFS(templateFS, "templates/feedback.tmpl")
	})
	return loadErr
}

// feedbackData holds template data for the feedback prompt.
type feedbackData struct {
	StrongMin float64
	WeakMax   float64
	Context   string
}

// RenderContext renders the full performance-analysis context in markdown:
// overall and subject summaries, difficulty breakdowns (overall and per
// subject), chapter-wise concept analysis, and the cross-subject insight
// roll-up.
func RenderContext(res *model.Result, cfg aggregate.Config) string {
	var sb strings.Builder

	sb.WriteString("# Test Performance Analysis Report\n\n")
	writeOverall(&sb, res)

	subjects := aggregate.SubjectOrder(res, cfg)

	sb.WriteString("## Subject-wise Performance\n\n")
	for _, subject := range subjects {
		stats := res.Subjects[subject]
		if stats == nil {
			continue
		}
		fmt.Fprintf(&sb, "### %s\n", subject)
		fmt.Fprintf(&sb, "- Score: %g/%g marks\n", stats.MarksScored, stats.TotalMarksPossible)
		fmt.Fprintf(&sb, "- Questions: %d/%d attempted\n", stats.Attempted, stats.TotalQuestions)
		fmt.Fprintf(&sb, "- Correct: %d | Incorrect: %d\n", stats.Correct, stats.Incorrect)
		fmt.Fprintf(&sb, "- Accuracy: %.1f%%\n", stats.AccuracyPercent)
		fmt.Fprintf(&sb, "- Avg Time/Question: %.1f seconds\n\n", stats.AvgTimePerAttemptedQSeconds)
	}

	sb.WriteString("## Overall Difficulty-wise Analysis\n\n")
	writeDifficultyStats(&sb, aggregate.DifficultySummary(res), "###")

	sb.WriteString("## Subject-wise Difficulty Analysis\n\n")
	bySubject := aggregate.SubjectDifficultySummary(res)
	for _, subject := range subjects {
		stats, ok := bySubject[subject]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "### %s\n\n", subject)
		writeDifficultyStats(&sb, stats, "####")
		sb.WriteString("\n")
	}

	sb.WriteString("## Chapter-wise Analysis with Concepts\n\n")
	for _, subject := range subjects {
		if len(res.Chapters[subject]) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "### %s\n\n", subject)
		for _, chapter := range aggregate.ChapterOrder(res, subject) {
			writeChapter(&sb, res, cfg, subject, chapter)
		}
	}

	writeInsights(&sb, res, cfg)

	return sb.String()
}

// FeedbackPrompt wraps the rendered context with the tutor instructions for
// the generation service.
func FeedbackPrompt(res *model.Result, cfg aggregate.Config) (string, error) {
	if err := loadTemplates(); err != nil {
		return "", fmt.Errorf("load prompt templates: %w", err)
	}

	var buf bytes.Buffer
	err := feedbackTmpl.Execute(&buf, feedbackData{
		StrongMin: cfg.StrongMin,
		WeakMax:   cfg.WeakMax,
		Context:   strings.TrimRight(RenderContext(res, cfg), "\n"),
	})
	if err != nil {
		return "", fmt.Errorf("render feedback prompt: %w", err)
	}
	return buf.String(), nil
}

func writeOverall(sb *strings.Builder, res *model.Result) {
	o := res.Overall
	sb.WriteString("## Overall Test Summary\n")
	fmt.Fprintf(sb, "- **Total Score**: %g/%g marks\n", o.TotalMarksScored, o.TotalMarksPossible)
	fmt.Fprintf(sb, "- **Questions Attempted**: %d/%d\n", o.FinalAttempted, o.TotalQuestionsInTest)
	fmt.Fprintf(sb, "- **Correct Answers**: %d\n", o.FinalCorrect)
	fmt.Fprintf(sb, "- **Overall Accuracy**: %.1f%%\n", o.OverallAccuracyPercent)
	fmt.Fprintf(sb, "- **Time Taken**: %.1f minutes\n\n", o.TimeTakenMinutes)
}

func writeDifficultyStats(sb *strings.Builder, stats map[model.Level]*model.DifficultyStats, heading string) {
	for _, level := range aggregate.Levels() {
		st := stats[level]
		if st == nil || st.Total == 0 {
			continue
		}
		label, _ := aggregate.LevelLabel(level)
		fmt.Fprintf(sb, "%s %s Level Questions\n", heading, label)
		fmt.Fprintf(sb, "- Total Questions: %d\n", st.Total)
		fmt.Fprintf(sb, "- Attempted: %d | Correct: %d | Incorrect: %d\n", st.Answered, st.Correct, st.Incorrect)
		fmt.Fprintf(sb, "- Not Attempted: %d | Marked for Review: %d\n", st.NotAnswered, st.MarkedReview)
		fmt.Fprintf(sb, "- Accuracy: %.1f%%\n", st.AccuracyPercent)
		fmt.Fprintf(sb, "- Average Time per Attempted Question: %.1f seconds\n", st.AvgTimeSeconds)
		fmt.Fprintf(sb, "- Total Time Spent: %g seconds\n\n", st.TotalTime)
	}
}

func writeChapter(sb *strings.Builder, res *model.Result, cfg aggregate.Config, subject, chapter string) {
	st := res.Chapters[subject][chapter]
	fmt.Fprintf(sb, "**%s**\n", chapter)
	fmt.Fprintf(sb, "- Total Questions: %d\n", st.QuestionsTotal)
	fmt.Fprintf(sb, "- Attempted: %d | Not Attempted: %d | Marked for Review: %d\n", st.Answered, st.NotAnswered, st.MarkedReview)
	fmt.Fprintf(sb, "- Performance: %d correct, %d incorrect\n", st.Correct, st.Incorrect)
	fmt.Fprintf(sb, "- Accuracy: %.1f%%\n", st.AccuracyOnAnsweredPercent)
	fmt.Fprintf(sb, "- Avg Time/Answered: %.1f seconds\n", st.AvgTimePerAnsweredQSeconds)
	fmt.Fprintf(sb, "- Difficulty Distribution: Easy(%d), Medium(%d), Tough(%d)\n\n",
		st.DifficultyCounts[model.LevelEasy],
		st.DifficultyCounts[model.LevelMedium],
		st.DifficultyCounts[model.LevelTough])

	key := model.ChapterKey{Subject: subject, Chapter: chapter}
	bands := aggregate.ConceptBandsFor(res, cfg, key)
	if bands.Empty() {
		sb.WriteString("*No concepts attempted in this chapter*\n\n")
		return
	}

	writeBand(sb, fmt.Sprintf("**Strong Concepts (>=%.0f%% accuracy):**", cfg.StrongMin), bands.Strong)
	writeBand(sb, fmt.Sprintf("**Moderate Concepts (%.0f-%.0f%% accuracy):**", cfg.WeakMax, cfg.StrongMin), bands.Moderate)
	writeBand(sb, fmt.Sprintf("**Weak Concepts (<=%.0f%% accuracy):**", cfg.WeakMax), bands.Weak)
}

func writeBand(sb *strings.Builder, header string, entries []model.ConceptBandEntry) {
	if len(entries) == 0 {
		return
	}
	sb.WriteString(header + "\n")
	for _, e := range entries {
		fmt.Fprintf(sb, "  - %s: %d/%d (%.1f%%)\n", e.Concept, e.Correct, e.Total, e.Accuracy)
	}
	sb.WriteString("\n")
}

func writeInsights(sb *strings.Builder, res *model.Result, cfg aggregate.Config) {
	sb.WriteString("## Key Insights\n\n### Overall Concept Performance:\n")

	var strong, weak []string
	for _, subject := range aggregate.SubjectOrder(res, cfg) {
		for _, chapter := range aggregate.ChapterOrder(res, subject) {
			key := model.ChapterKey{Subject: subject, Chapter: chapter}
			bands := aggregate.ConceptBandsFor(res, cfg, key)
			for _, e := range bands.Strong {
				strong = append(strong, fmt.Sprintf("- %s (%s): %s - %.1f%%", subject, chapter, e.Concept, e.Accuracy))
			}
			for _, e := range bands.Weak {
				weak = append(weak, fmt.Sprintf("- %s (%s): %s - %.1f%%", subject, chapter, e.Concept, e.Accuracy))
			}
		}
	}

	sb.WriteString("\n**Strong Concepts Across All Subjects:**\n")
	if len(strong) > 0 {
		sb.WriteString(strings.Join(strong, "\n"))
	} else {
		fmt.Fprintf(sb, "- No concepts with >=%.0f%% accuracy\n", cfg.StrongMin)
	}

	sb.WriteString("\n\n**Weak Concepts Needing Improvement:**\n")
	if len(weak) > 0 {
		sb.WriteString(strings.Join(weak, "\n"))
	} else {
		fmt.Fprintf(sb, "- No concepts with <=%.0f%% accuracy\n", cfg.WeakMax)
	}
}
