package prompts

import (
	"strings"
	"testing"

	"github.com/pavelanni/scorecard/internal/aggregate"
	"github.com/pavelanni/scorecard/internal/model"
)

func sampleResult(t *testing.T) *model.Result {
	t.Helper()
	rec := model.Attempt{
		TotalMarkScored: 133,
		TotalTimeTaken:  4980,
		TotalAttempted:  47,
		TotalCorrect:    36,
		Accuracy:        76.6,
		Test:            model.TestInfo{TotalQuestions: 75},
		Subjects: []model.SubjectEntry{{
			SubjectID:       model.ObjectID{OID: "607018ee404ae53194e73d92"},
			TotalMarkScored: 44,
			TotalTimeTaken:  2984,
			TotalAttempted:  16,
			TotalCorrect:    12,
			Accuracy:        75,
		}},
		Sections: []model.SectionEntry{{
			SectionID: model.SectionInfo{Title: "Physics Single Correct"},
			Questions: []model.QuestionEntry{
				question("Electrostatics", "easy", model.StatusAnswered, true, 50, "Gauss theorem"),
				question("Electrostatics", "medium", model.StatusAnswered, false, 70, "Coulombs Law"),
				question("Capacitance", "tough", model.StatusNotAnswered, false, 0),
			},
		}},
	}
	res, err := aggregate.Aggregate([]model.Attempt{rec}, aggregate.DefaultConfig())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	return res
}

func question(chapter, level string, status model.Status, correct bool, timeTaken float64, concepts ...string) model.QuestionEntry {
	q := model.QuestionEntry{Status: status, TimeTaken: timeTaken}
	q.QuestionID.Chapters = []model.TitleRef{{Title: chapter}}
	q.QuestionID.Level = model.Level(level)
	for _, c := range concepts {
		q.QuestionID.Concepts = append(q.QuestionID.Concepts, model.TitleRef{Title: c})
	}
	if status == model.StatusAnswered {
		q.MarkedOptions = []model.MarkedOption{{IsCorrect: correct}}
	}
	return q
}

func TestRenderContext(t *testing.T) {
	res := sampleResult(t)
	ctx := RenderContext(res, aggregate.DefaultConfig())

	wantFragments := []string{
		"# Test Performance Analysis Report",
		"- **Total Score**: 133/300 marks",
		"- **Questions Attempted**: 47/75",
		"- **Overall Accuracy**: 76.6%",
		"- **Time Taken**: 83.0 minutes",
		"### Physics",
		"- Questions: 16/3 attempted", // chapter-filtered total, not upstream attempted
		"## Overall Difficulty-wise Analysis",
		"### Easy Level Questions",
		"## Subject-wise Difficulty Analysis",
		"#### Medium Level Questions",
		"## Chapter-wise Analysis with Concepts",
		"**Electrostatics**",
		"- Difficulty Distribution: Easy(1), Medium(1), Tough(0)",
		"**Strong Concepts (>=80% accuracy):**",
		"  - Gauss theorem: 1/1 (100.0%)",
		"**Weak Concepts (<=60% accuracy):**",
		"  - Coulombs Law: 0/1 (0.0%)",
		"**Capacitance**",
		"*No concepts attempted in this chapter*",
		"## Key Insights",
		"- Physics (Electrostatics): Gauss theorem - 100.0%",
		"- Physics (Electrostatics): Coulombs Law - 0.0%",
	}
	for _, f := range wantFragments {
		if !strings.Contains(ctx, f) {
			t.Errorf("context missing fragment %q", f)
		}
	}
}

func TestRenderContextDeterministic(t *testing.T) {
	res := sampleResult(t)
	cfg := aggregate.DefaultConfig()
	if RenderContext(res, cfg) != RenderContext(res, cfg) {
		t.Error("RenderContext is not deterministic")
	}
}

func TestFeedbackPrompt(t *testing.T) {
	res := sampleResult(t)
	prompt, err := FeedbackPrompt(res, aggregate.DefaultConfig())
	if err != nil {
		t.Fatalf("FeedbackPrompt: %v", err)
	}

	for _, f := range []string{
		"You are an expert tutor",
		"strong (>=80% accuracy) and weak (<=60% accuracy)",
		"# Test Performance Analysis Report",
		"'Overall Performance', 'Motivating Introduction'",
		"'Actionable Suggestions'",
	} {
		if !strings.Contains(prompt, f) {
			t.Errorf("prompt missing fragment %q", f)
		}
	}
}
