package aggregate

import (
	"sort"

	"github.com/pavelanni/scorecard/internal/model"
)

// ConceptBands groups one chapter's concept rows by accuracy band, each band
// sorted by concept name.
type ConceptBands struct {
	Strong   []model.ConceptBandEntry
	Moderate []model.ConceptBandEntry
	Weak     []model.ConceptBandEntry
}

// Empty reports whether the chapter had no answered concepts at all.
func (b ConceptBands) Empty() bool {
	return len(b.Strong) == 0 && len(b.Moderate) == 0 && len(b.Weak) == 0
}

// WeakTwoBand collapses the three-band view into two: consumers that report
// only strong/weak treat moderate concepts as weak.
func (b ConceptBands) WeakTwoBand() []model.ConceptBandEntry {
	merged := make([]model.ConceptBandEntry, 0, len(b.Moderate)+len(b.Weak))
	merged = append(merged, b.Moderate...)
	merged = append(merged, b.Weak...)
	sort.Slice(merged, func(i, j int) bool { return merged[i].Concept < merged[j].Concept })
	return merged
}

// Band classifies an accuracy percentage against the configured thresholds.
func (c Config) Band(accuracy float64) model.Band {
	switch {
	case accuracy >= c.StrongMin:
		return model.BandStrong
	case accuracy <= c.WeakMax:
		return model.BandWeak
	default:
		return model.BandModerate
	}
}

// ConceptBandsFor classifies one chapter's concept rows. Rows with zero total
// cannot exist after aggregation, so every row lands in exactly one band.
func ConceptBandsFor(res *model.Result, cfg Config, key model.ChapterKey) ConceptBands {
	byConcept := res.Concepts[key]
	names := make([]string, 0, len(byConcept))
	for name := range byConcept {
		names = append(names, name)
	}
	sort.Strings(names)

	var bands ConceptBands
	for _, name := range names {
		cs := byConcept[name]
		entry := model.ConceptBandEntry{
			Concept:  name,
			Total:    cs.Total,
			Correct:  cs.Correct,
			Accuracy: cs.Accuracy(),
		}
		switch cfg.Band(entry.Accuracy) {
		case model.BandStrong:
			bands.Strong = append(bands.Strong, entry)
		case model.BandWeak:
			bands.Weak = append(bands.Weak, entry)
		default:
			bands.Moderate = append(bands.Moderate, entry)
		}
	}
	return bands
}
