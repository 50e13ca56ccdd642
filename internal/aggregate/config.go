package aggregate

// Config carries the lookup tables and thresholds the aggregation depends on.
// DefaultConfig reproduces the reference test configuration; serve and CLI
// modes may override pieces of it from the config file.
type Config struct {
	// SubjectIDs resolves the opaque per-record subject id to a subject name.
	SubjectIDs map[string]string
	// SectionSubjects resolves a section title to its subject.
	SectionSubjects map[string]string
	// Chapters is the per-subject chapter allow-list. A subject present in
	// the map keeps only the listed chapters; a subject absent from the map
	// is not filtered at all. The filter is chapter-keyed, so questions from
	// unmapped ("Unknown") sections still pass through.
	Chapters map[string][]string
	// SubjectOrder fixes the display order of known subjects in rendered
	// output. Subjects not listed sort alphabetically after these.
	SubjectOrder []string
	// StrongMin and WeakMax are the concept band thresholds: accuracy >=
	// StrongMin is strong, <= WeakMax is weak, anything between is moderate.
	StrongMin float64
	WeakMax   float64
}

// DefaultConfig returns the reference configuration: the JEE subject id map,
// the six section titles, two retained chapters per subject, and the 80/60
// concept band thresholds.
func DefaultConfig() Config {
	return Config{
		SubjectIDs: map[string]string{
			"607018ee404ae53194e73d92": "Physics",
			"607018ee404ae53194e73d90": "Chemistry",
			"607018ee404ae53194e73d91": "Mathematics",
		},
		SectionSubjects: map[string]string{
			"Physics Single Correct":     "Physics",
			"Physics Numerical":          "Physics",
			"Chemistry Single Correct":   "Chemistry",
			"Chemistry Numerical":        "Chemistry",
			"Mathematics Single Correct": "Mathematics",
			"Mathematics Numerical":      "Mathematics",
		},
		Chapters: map[string][]string{
			"Physics":     {"Electrostatics", "Capacitance"},
			"Chemistry":   {"Solutions", "Electrochemistry"},
			"Mathematics": {"Functions", "Sets and Relations"},
		},
		SubjectOrder: []string{"Physics", "Chemistry", "Mathematics"},
		StrongMin:    80,
		WeakMax:      60,
	}
}

// SubjectName resolves a subject id, falling back to "Unknown".
func (c Config) SubjectName(id string) string {
	if name, ok := c.SubjectIDs[id]; ok {
		return name
	}
	return "Unknown"
}

// SectionSubject resolves a section title, falling back to "Unknown".
func (c Config) SectionSubject(title string) string {
	if subject, ok := c.SectionSubjects[title]; ok {
		return subject
	}
	return "Unknown"
}

// ChapterAllowed reports whether a (subject, chapter) pair survives the
// allow-list filter.
func (c Config) ChapterAllowed(subject, chapter string) bool {
	allowed, ok := c.Chapters[subject]
	if !ok {
		return true
	}
	for _, ch := range allowed {
		if ch == chapter {
			return true
		}
	}
	return false
}
