// Package besthit resolves one best alignment per read from a stream of
// domain-table records. Reading-frame translations of the same read compete
// against each other: grouping is by canonical id with the frame marker
// stripped.
package besthit

import (
	"hmmtally/internal/common"
	"hmmtally/internal/domtab"
)

// Selected is the winning record for one canonical target id.
type Selected struct {
	Target string // canonical read id, frame marker stripped
	Rec    domtab.Record
}

// Selector keeps the highest-scoring record per canonical target id.
// Strictly greater score replaces the incumbent; ties keep the first-seen
// record. A NaN score never beats anything, including another NaN, so a
// first-seen NaN can survive. That mirrors the parser's leniency and is
// deliberate.
type Selector struct {
	minCoverage float64 // <= 0 disables the filter
	maxEValue   float64 // <= 0 disables the filter
	best        map[string]domtab.Record
	order       []string // first-seen order of canonical ids
	filtered    int
}

// NewSelector returns a Selector. minCoverage <= 0 disables coverage
// filtering; otherwise records spanning less than that fraction of the
// model are excluded before score comparison. maxEValue <= 0 disables
// E-value filtering; otherwise records above the cutoff (or with an
// unparsable E-value) are excluded the same way.
func NewSelector(minCoverage, maxEValue float64) *Selector {
	return &Selector{
		minCoverage: minCoverage,
		maxEValue:   maxEValue,
		best:        make(map[string]domtab.Record),
	}
}

// Coverage is the fraction of the model length spanned by the alignment.
func Coverage(rec domtab.Record) float64 {
	if rec.ModelLen <= 0 {
		return 0
	}
	return float64(rec.HmmTo-rec.HmmFrom+1) / float64(rec.ModelLen)
}

// Add offers a record for candidacy. It reports whether the record became
// (or stayed) the incumbent for its canonical id.
func (s *Selector) Add(rec domtab.Record) bool {
	// NaN E-values fail the <= and are excluded once the filter is on.
	if s.maxEValue > 0 && !(rec.EValue <= s.maxEValue) {
		s.filtered++
		return false
	}
	if s.minCoverage > 0 && Coverage(rec) < s.minCoverage {
		s.filtered++
		return false
	}
	id := common.CanonicalID(rec.TargetID)
	cur, seen := s.best[id]
	if !seen {
		s.best[id] = rec
		s.order = append(s.order, id)
		return true
	}
	if rec.Score > cur.Score {
		s.best[id] = rec
		return true
	}
	return false
}

// AddAll drains a reader into the selector.
func (s *Selector) AddAll(r *domtab.Reader) {
	for {
		rec, ok := r.Next()
		if !ok {
			return
		}
		s.Add(rec)
	}
}

// Filtered reports how many records the coverage filter excluded.
func (s *Selector) Filtered() int { return s.filtered }

// Hits returns the winners, one per canonical id, in first-seen order.
func (s *Selector) Hits() []Selected {
	out := make([]Selected, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, Selected{Target: id, Rec: s.best[id]})
	}
	return out
}
