package model

// Status represents the marked state of a question in an attempt.
type Status string

const (
	StatusAnswered     Status = "answered"
	StatusMarkedReview Status = "markedReview"
	StatusNotAnswered  Status = "notAnswered"
)

// Level represents question difficulty level as tagged upstream.
type Level string

const (
	LevelEasy    Level = "easy"
	LevelMedium  Level = "medium"
	LevelTough   Level = "tough"
	LevelUnknown Level = "unknown"
)

// ObjectID mirrors the MongoDB extended-JSON id wrapper used in attempt exports.
type ObjectID struct {
	OID string `json:"$oid"`
}

// TitleRef is a named reference (chapter or concept tag) attached to a question.
type TitleRef struct {
	Title string `json:"title"`
}

// Attempt is one exam attempt as exported upstream. The input document is an
// array of these; only the first element is ever analyzed. All fields are
// read-only for this system.
type Attempt struct {
	TotalMarkScored float64        `json:"totalMarkScored"`
	TotalMarks      *float64       `json:"totalMarks"`
	TotalTimeTaken  float64        `json:"totalTimeTaken"`
	TotalAttempted  int            `json:"totalAttempted"`
	TotalCorrect    int            `json:"totalCorrect"`
	Accuracy        float64        `json:"accuracy"`
	Test            TestInfo       `json:"test"`
	Subjects        []SubjectEntry `json:"subjects"`
	Sections        []SectionEntry `json:"sections"`
}

// TestInfo carries test-level metadata from the attempt record.
type TestInfo struct {
	TotalQuestions int `json:"totalQuestions"`
}

// SubjectEntry holds the pre-aggregated per-subject totals supplied by the
// input. These are copied, never derived.
type SubjectEntry struct {
	SubjectID       ObjectID `json:"subjectId"`
	TotalMarkScored float64  `json:"totalMarkScored"`
	TotalMarks      *float64 `json:"totalMarks"`
	TotalTimeTaken  float64  `json:"totalTimeTaken"`
	TotalAttempted  int      `json:"totalAttempted"`
	TotalCorrect    int      `json:"totalCorrect"`
	Accuracy        float64  `json:"accuracy"`
}

// SectionEntry groups the questions of one test section.
type SectionEntry struct {
	SectionID SectionInfo     `json:"sectionId"`
	Questions []QuestionEntry `json:"questions"`
}

// SectionInfo identifies a section by title. Titles map to subjects via the
// configured section-subject table.
type SectionInfo struct {
	Title string `json:"title"`
}

// QuestionEntry is one answered/unanswered item within a section.
type QuestionEntry struct {
	QuestionID    QuestionInfo   `json:"questionId"`
	Status        Status         `json:"status"`
	TimeTaken     float64        `json:"timeTaken"`
	MarkedOptions []MarkedOption `json:"markedOptions"`
	InputValue    *InputValue    `json:"inputValue"`
}

// QuestionInfo carries the question's classification: chapters (first is
// authoritative), difficulty level, and concept tags.
type QuestionInfo struct {
	Chapters []TitleRef `json:"chapters"`
	Level    Level      `json:"level"`
	Concepts []TitleRef `json:"concepts"`
}

// MarkedOption is one selected answer choice with its correctness flag.
type MarkedOption struct {
	IsCorrect bool `json:"isCorrect"`
}

// InputValue is a free-response numeric answer with its correctness flag.
// Value is a pointer so an absent value can be told apart from zero.
type InputValue struct {
	Value     *float64 `json:"value"`
	IsCorrect bool     `json:"isCorrect"`
}

// IsCorrect derives correctness for an answered question. Marked options take
// precedence: any correct option makes the answer correct. Otherwise a present
// input value decides. A question with neither source is not gradable and
// reports ok=false.
func (q QuestionEntry) IsCorrect() (correct, ok bool) {
	if len(q.MarkedOptions) > 0 {
		for _, opt := range q.MarkedOptions {
			if opt.IsCorrect {
				return true, true
			}
		}
		return false, true
	}
	if q.InputValue != nil && q.InputValue.Value != nil {
		return q.InputValue.IsCorrect, true
	}
	return false, false
}

// Chapter returns the authoritative chapter for the question: the first
// chapter tag's title, or "Unknown" when none is present.
func (q QuestionEntry) Chapter() string {
	if len(q.QuestionID.Chapters) == 0 || q.QuestionID.Chapters[0].Title == "" {
		return "Unknown"
	}
	return q.QuestionID.Chapters[0].Title
}

// NormalizedStatus returns the question status, defaulting to notAnswered
// when the field is absent.
func (q QuestionEntry) NormalizedStatus() Status {
	if q.Status == "" {
		return StatusNotAnswered
	}
	return q.Status
}

// NormalizedLevel returns the difficulty level, defaulting to unknown when
// the field is absent.
func (q QuestionEntry) NormalizedLevel() Level {
	if q.QuestionID.Level == "" {
		return LevelUnknown
	}
	return q.QuestionID.Level
}

// ConceptTitles returns the question's concept tags, substituting "Unknown"
// for tags with no title.
func (q QuestionEntry) ConceptTitles() []string {
	if len(q.QuestionID.Concepts) == 0 {
		return nil
	}
	titles := make([]string, 0, len(q.QuestionID.Concepts))
	for _, c := range q.QuestionID.Concepts {
		t := c.Title
		if t == "" {
			t = "Unknown"
		}
		titles = append(titles, t)
	}
	return titles
}
