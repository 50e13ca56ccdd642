package aggregate

import (
	"sort"

	"github.com/pavelanni/scorecard/internal/model"
)

// chartLevels are the difficulty levels the downstream views report on, in
// display order. Questions at any other level stay counted in chapter details
// but are dropped from these views.
var chartLevels = []model.Level{model.LevelEasy, model.LevelMedium, model.LevelTough}

// LevelLabel returns the capitalized display name for a reportable level and
// whether the level is reportable at all.
func LevelLabel(l model.Level) (string, bool) {
	switch l {
	case model.LevelEasy:
		return "Easy", true
	case model.LevelMedium:
		return "Medium", true
	case model.LevelTough:
		return "Tough", true
	}
	return "", false
}

// Levels returns the reportable difficulty levels in display order.
func Levels() []model.Level {
	return chartLevels
}

// DifficultySummary re-walks the flat question log and buckets it by
// difficulty level across all subjects. Derived fields follow the chapter
// formulas: accuracy over answered, average time as total time over answered.
func DifficultySummary(res *model.Result) map[model.Level]*model.DifficultyStats {
	stats := newLevelStats()
	for _, entries := range res.Log {
		for _, e := range entries {
			foldLogEntry(stats, e)
		}
	}
	deriveLevelStats(stats)
	return stats
}

// SubjectDifficultySummary buckets the flat question log by subject and then
// by difficulty level.
func SubjectDifficultySummary(res *model.Result) map[string]map[model.Level]*model.DifficultyStats {
	bySubject := make(map[string]map[model.Level]*model.DifficultyStats)
	for _, entries := range res.Log {
		for _, e := range entries {
			stats := bySubject[e.Subject]
			if stats == nil {
				stats = newLevelStats()
				bySubject[e.Subject] = stats
			}
			foldLogEntry(stats, e)
		}
	}
	for _, stats := range bySubject {
		deriveLevelStats(stats)
	}
	return bySubject
}

func newLevelStats() map[model.Level]*model.DifficultyStats {
	stats := make(map[model.Level]*model.DifficultyStats, len(chartLevels))
	for _, l := range chartLevels {
		stats[l] = &model.DifficultyStats{}
	}
	return stats
}

func foldLogEntry(stats map[model.Level]*model.DifficultyStats, e model.QuestionLogEntry) {
	st, ok := stats[e.Level]
	if !ok {
		return
	}
	st.Total++
	st.TotalTime += e.TimeTaken
	switch e.Status {
	case model.StatusAnswered:
		st.Answered++
		if e.Correct != nil && *e.Correct {
			st.Correct++
		} else {
			st.Incorrect++
		}
	case model.StatusMarkedReview:
		st.MarkedReview++
	case model.StatusNotAnswered:
		st.NotAnswered++
	}
}

func deriveLevelStats(stats map[model.Level]*model.DifficultyStats) {
	for _, st := range stats {
		if st.Answered > 0 {
			st.AccuracyPercent = float64(st.Correct) / float64(st.Answered) * 100
			st.AvgTimeSeconds = st.TotalTime / float64(st.Answered)
		}
	}
}

// LevelOutcome is one cell of the chart data: answered outcomes plus
// unattempted and total counts for a subject at one difficulty level.
type LevelOutcome struct {
	Correct     int `json:"correct"`
	Incorrect   int `json:"incorrect"`
	Unattempted int `json:"unattempted"`
	Total       int `json:"total"`
}

// ChartData reshapes the per-chapter difficulty outcomes into per-subject,
// per-level tuples for chart rendering. Keys of the inner map are the
// capitalized level names.
func ChartData(res *model.Result) map[string]map[string]LevelOutcome {
	data := make(map[string]map[string]LevelOutcome, len(res.Chapters))
	for subject, chapters := range res.Chapters {
		byLevel := make(map[string]LevelOutcome, len(chartLevels))
		for _, level := range chartLevels {
			label, _ := LevelLabel(level)
			cell := LevelOutcome{}
			for _, st := range chapters {
				if oc := st.DifficultyOutcomes[level]; oc != nil {
					cell.Correct += oc.Correct
					cell.Incorrect += oc.Incorrect
					cell.Unattempted += oc.Unattempted
				}
				cell.Total += st.DifficultyCounts[level]
			}
			byLevel[label] = cell
		}
		data[subject] = byLevel
	}
	return data
}

// SubjectOrder returns the subjects present in the result in display order:
// configured subjects first, anything else alphabetically after them.
func SubjectOrder(res *model.Result, cfg Config) []string {
	seen := make(map[string]bool, len(res.Subjects))
	for s := range res.Subjects {
		seen[s] = true
	}
	for s := range res.Chapters {
		seen[s] = true
	}

	var order []string
	for _, s := range cfg.SubjectOrder {
		if seen[s] {
			order = append(order, s)
			delete(seen, s)
		}
	}
	var rest []string
	for s := range seen {
		rest = append(rest, s)
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// ChapterOrder returns a subject's retained chapters sorted by name.
func ChapterOrder(res *model.Result, subject string) []string {
	chapters := make([]string, 0, len(res.Chapters[subject]))
	for ch := range res.Chapters[subject] {
		chapters = append(chapters, ch)
	}
	sort.Strings(chapters)
	return chapters
}
