// Package aggregate turns one raw test-attempt record into the normalized
// statistical summaries the rest of the pipeline projects from: overall and
// per-subject totals, per-chapter and per-concept counts, and a flat
// per-question log for difficulty breakdowns.
package aggregate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pavelanni/scorecard/internal/model"
)

// ErrInvalidInput marks a malformed top-level input: not JSON-array shaped,
// an empty array, or an element that is not a JSON object. Every other
// irregularity degrades to a documented default instead of failing.
var ErrInvalidInput = errors.New("invalid attempt input")

const (
	defaultTotalMarks   = 300
	defaultSubjectMarks = 100
	secondsPerMinute    = 60
)

// Decode parses raw bytes into the array-of-attempts input shape. Elements
// that are not JSON objects (including null) are rejected rather than
// unmarshalled into zero-value records.
func Decode(data []byte) ([]model.Attempt, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	records := make([]model.Attempt, len(raws))
	for i, raw := range raws {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrInvalidInput, i)
		}
		if err := json.Unmarshal(raw, &records[i]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return records, nil
}

// Aggregate folds the first attempt of the input into a fresh Result. It is a
// pure function of its input: no shared state, no I/O beyond log lines, and
// re-running it on the same input yields identical output.
func Aggregate(records []model.Attempt, cfg Config) (*model.Result, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty record list", ErrInvalidInput)
	}
	// The input shape models a collection of attempts, but only the first is
	// ever analyzed.
	rec := records[0]

	res := &model.Result{
		Subjects: make(map[string]*model.SubjectSummary),
		Chapters: make(map[string]map[string]*model.ChapterStats),
		Concepts: make(map[model.ChapterKey]map[string]*model.ConceptStats),
		Log:      make(map[model.ChapterKey][]model.QuestionLogEntry),
	}

	res.Overall = overallSummary(rec)

	for _, s := range rec.Subjects {
		name := cfg.SubjectName(s.SubjectID.OID)
		res.Subjects[name] = subjectSummary(s)
	}

	chapterStats := make(map[model.ChapterKey]*model.ChapterStats)
	for _, sec := range rec.Sections {
		subject := cfg.SectionSubject(sec.SectionID.Title)
		for _, q := range sec.Questions {
			foldQuestion(res, chapterStats, cfg, subject, q)
		}
	}

	// Derived percentages and averages are computed only after every
	// question has been folded in.
	for key, st := range chapterStats {
		if st.Answered > 0 {
			st.AccuracyOnAnsweredPercent = float64(st.Correct) / float64(st.Answered) * 100
			st.AvgTimePerAnsweredQSeconds = st.TotalTimeSeconds / float64(st.Answered)
		}
		if res.Chapters[key.Subject] == nil {
			res.Chapters[key.Subject] = make(map[string]*model.ChapterStats)
		}
		res.Chapters[key.Subject][key.Chapter] = st
	}

	// Per-subject question totals come from the retained chapters, not from
	// the subject's own attempted count. The two can diverge because of the
	// allow-list; that is expected.
	totalCalculated := 0
	for subject, chapters := range res.Chapters {
		total := 0
		for _, st := range chapters {
			total += st.QuestionsTotal
		}
		summary := res.Subjects[subject]
		if summary == nil {
			summary = &model.SubjectSummary{}
			res.Subjects[subject] = summary
		}
		summary.TotalQuestions = total
		totalCalculated += total
	}
	res.Overall.TotalQuestionsCalculated = totalCalculated

	return res, nil
}

func overallSummary(rec model.Attempt) model.OverallSummary {
	marks := float64(defaultTotalMarks)
	if rec.TotalMarks != nil {
		marks = *rec.TotalMarks
	}
	return model.OverallSummary{
		TotalMarksScored:       rec.TotalMarkScored,
		TotalMarksPossible:     marks,
		TotalTimeTakenSeconds:  rec.TotalTimeTaken,
		TotalQuestionsInTest:   rec.Test.TotalQuestions,
		FinalAttempted:         rec.TotalAttempted,
		FinalCorrect:           rec.TotalCorrect,
		OverallAccuracyPercent: rec.Accuracy,
		TimeTakenMinutes:       rec.TotalTimeTaken / secondsPerMinute,
	}
}

func subjectSummary(s model.SubjectEntry) *model.SubjectSummary {
	marks := float64(defaultSubjectMarks)
	if s.TotalMarks != nil {
		marks = *s.TotalMarks
	}
	summary := &model.SubjectSummary{
		MarksScored:        s.TotalMarkScored,
		TotalMarksPossible: marks,
		TimeSeconds:        s.TotalTimeTaken,
		Attempted:          s.TotalAttempted,
		Correct:            s.TotalCorrect,
		Incorrect:          s.TotalAttempted - s.TotalCorrect,
		AccuracyPercent:    s.Accuracy,
	}
	if s.TotalAttempted > 0 {
		summary.AvgTimePerAttemptedQSeconds = s.TotalTimeTaken / float64(s.TotalAttempted)
	}
	return summary
}

// foldQuestion folds one question into the chapter, concept and log
// accumulators. Questions whose (subject, chapter) is filtered out touch no
// counters at all.
func foldQuestion(res *model.Result, chapterStats map[model.ChapterKey]*model.ChapterStats, cfg Config, subject string, q model.QuestionEntry) {
	chapter := q.Chapter()
	if !cfg.ChapterAllowed(subject, chapter) {
		return
	}

	key := model.ChapterKey{Subject: subject, Chapter: chapter}
	st := chapterStats[key]
	if st == nil {
		st = &model.ChapterStats{
			DifficultyCounts:   make(map[model.Level]int),
			DifficultyOutcomes: make(map[model.Level]*model.OutcomeCounts),
		}
		chapterStats[key] = st
	}

	level := q.NormalizedLevel()
	st.QuestionsTotal++
	st.TotalTimeSeconds += q.TimeTaken
	st.DifficultyCounts[level]++
	outcome := st.DifficultyOutcomes[level]
	if outcome == nil {
		outcome = &model.OutcomeCounts{}
		st.DifficultyOutcomes[level] = outcome
	}

	entry := model.QuestionLogEntry{
		Status:    q.NormalizedStatus(),
		TimeTaken: q.TimeTaken,
		Level:     level,
		Concepts:  q.ConceptTitles(),
		Subject:   subject,
	}

	switch entry.Status {
	case model.StatusAnswered:
		st.Answered++
		correct, ok := q.IsCorrect()
		if !ok {
			// Answered question with no marked options and no input value:
			// counted incorrect rather than dropped.
			slog.Warn("answered question has no correctness source, counting incorrect",
				"subject", subject, "chapter", chapter)
			correct = false
		}
		if correct {
			st.Correct++
			outcome.Correct++
		} else {
			st.Incorrect++
			outcome.Incorrect++
		}
		c := correct
		entry.Correct = &c

		for _, concept := range entry.Concepts {
			byConcept := res.Concepts[key]
			if byConcept == nil {
				byConcept = make(map[string]*model.ConceptStats)
				res.Concepts[key] = byConcept
			}
			cs := byConcept[concept]
			if cs == nil {
				cs = &model.ConceptStats{}
				byConcept[concept] = cs
			}
			cs.Total++
			if correct {
				cs.Correct++
			} else {
				cs.Incorrect++
			}
		}
	case model.StatusMarkedReview:
		st.MarkedReview++
		outcome.Unattempted++
	case model.StatusNotAnswered:
		st.NotAnswered++
		outcome.Unattempted++
	}

	res.Log[key] = append(res.Log[key], entry)
}
