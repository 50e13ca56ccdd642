package model

// ChapterKey identifies one retained chapter within a subject.
type ChapterKey struct {
	Subject string
	Chapter string
}

// OverallSummary holds the attempt-level totals, copied from the record's
// top-level scalar fields.
type OverallSummary struct {
	TotalMarksScored         float64 `json:"total_marks_scored"`
	TotalMarksPossible       float64 `json:"total_marks_possible"`
	TotalTimeTakenSeconds    float64 `json:"total_time_taken_seconds"`
	TotalQuestionsInTest     int     `json:"total_questions_in_test"`
	FinalAttempted           int     `json:"final_attempted"`
	FinalCorrect             int     `json:"final_correct"`
	OverallAccuracyPercent   float64 `json:"overall_accuracy_percent"`
	TimeTakenMinutes         float64 `json:"time_taken_minutes"`
	TotalQuestionsCalculated int     `json:"total_questions_calculated"`
}

// SubjectSummary holds one subject's pre-aggregated totals plus the derived
// incorrect count, per-question average and the total question count across
// the subject's retained chapters. TotalQuestions may differ from Attempted
// because of the chapter allow-list; that divergence is expected.
type SubjectSummary struct {
	MarksScored                 float64 `json:"marks_scored"`
	TotalMarksPossible          float64 `json:"total_marks_possible"`
	TimeSeconds                 float64 `json:"time_seconds"`
	Attempted                   int     `json:"attempted"`
	Correct                     int     `json:"correct"`
	Incorrect                   int     `json:"incorrect"`
	AccuracyPercent             float64 `json:"accuracy_percent"`
	AvgTimePerAttemptedQSeconds float64 `json:"avg_time_per_attempted_q_seconds"`
	TotalQuestions              int     `json:"total_questions"`
}

// OutcomeCounts buckets answered outcomes plus unattempted questions at one
// difficulty level within a chapter. Feeds the per-subject charts.
type OutcomeCounts struct {
	Correct     int `json:"correct"`
	Incorrect   int `json:"incorrect"`
	Unattempted int `json:"unattempted"`
}

// ChapterStats holds the running counts for one retained chapter. The derived
// percentage and average fields are filled in once, after all questions are
// folded.
type ChapterStats struct {
	QuestionsTotal             int                      `json:"questions_total"`
	Answered                   int                      `json:"answered"`
	Correct                    int                      `json:"correct"`
	Incorrect                  int                      `json:"incorrect"`
	MarkedReview               int                      `json:"marked_review"`
	NotAnswered                int                      `json:"not_answered"`
	TotalTimeSeconds           float64                  `json:"total_time_seconds"`
	DifficultyCounts           map[Level]int            `json:"difficulty_counts"`
	DifficultyOutcomes         map[Level]*OutcomeCounts `json:"difficulty_stats"`
	AccuracyOnAnsweredPercent  float64                  `json:"accuracy_on_answered_percent"`
	AvgTimePerAnsweredQSeconds float64                  `json:"avg_time_per_answered_q_seconds"`
}

// ConceptStats counts answered questions carrying one concept tag within one
// chapter. A question with N concept tags contributes to N concept rows.
type ConceptStats struct {
	Total     int `json:"total"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// Accuracy returns correct/total as a percentage, 0 when no questions were
// counted.
func (c *ConceptStats) Accuracy() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Total) * 100
}

// QuestionLogEntry is one row of the flat per-question classification log.
// Correct is nil for questions that were not answered.
type QuestionLogEntry struct {
	Status    Status   `json:"status"`
	TimeTaken float64  `json:"time_taken"`
	Level     Level    `json:"level"`
	Concepts  []string `json:"concepts"`
	Subject   string   `json:"subject"`
	Correct   *bool    `json:"correct,omitempty"`
}

// DifficultyStats aggregates the flat question log at one difficulty level.
type DifficultyStats struct {
	Total           int     `json:"total"`
	Answered        int     `json:"answered"`
	Correct         int     `json:"correct"`
	Incorrect       int     `json:"incorrect"`
	MarkedReview    int     `json:"marked_review"`
	NotAnswered     int     `json:"not_answered"`
	TotalTime       float64 `json:"total_time"`
	AccuracyPercent float64 `json:"accuracy_percent"`
	AvgTimeSeconds  float64 `json:"avg_time_seconds"`
}

// Result is the aggregate view of one attempt. Build-once, read-only after
// aggregation.
type Result struct {
	Overall  OverallSummary                          `json:"overall_summary"`
	Subjects map[string]*SubjectSummary              `json:"subject_summary"`
	Chapters map[string]map[string]*ChapterStats     `json:"chapter_details"`
	Concepts map[ChapterKey]map[string]*ConceptStats `json:"-"`
	Log      map[ChapterKey][]QuestionLogEntry       `json:"-"`
}

// Band classifies a concept row by accuracy.
type Band string

const (
	BandStrong   Band = "strong"
	BandModerate Band = "moderate"
	BandWeak     Band = "weak"
)

// ConceptBandEntry is one classified concept row for reporting.
type ConceptBandEntry struct {
	Concept  string  `json:"concept"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}
