// Package regions converts resolved hits into 0-based half-open intervals
// for downstream sub-sequence extraction.
package regions

import (
	"fmt"
	"io"
	"strconv"

	"hmmtally/internal/besthit"
)

// Region is a 0-based half-open interval on a target sequence.
// The search tool reports 1-based inclusive ali coordinates, so
// Start = ali_from - 1 and End = ali_to.
type Region struct {
	Target string  `json:"target"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Score  float64 `json:"score"`
}

// FromHit derives the extraction interval for a selected hit. The interval
// targets the raw record id (frame marker intact): ali coordinates are
// positions into that specific translation, not into the canonical read.
func FromHit(h besthit.Selected) Region {
	return Region{
		Target: h.Rec.TargetID,
		Start:  h.Rec.AliFrom - 1,
		End:    h.Rec.AliTo,
		Score:  h.Rec.Score,
	}
}

// FromHits maps FromHit over a hit list, preserving order.
func FromHits(hits []besthit.Selected) []Region {
	out := make([]Region, len(hits))
	for i, h := range hits {
		out[i] = FromHit(h)
	}
	return out
}

// Len is the number of target positions the region covers.
func (r Region) Len() int { return r.End - r.Start }

// FormatBED renders one BED row (no trailing newline).
func FormatBED(r Region) string {
	return fmt.Sprintf("%s\t%d\t%d\t%s",
		r.Target, r.Start, r.End, strconv.FormatFloat(r.Score, 'g', -1, 64))
}

// WriteBED writes tab-separated target/start/end/score rows.
func WriteBED(w io.Writer, regs []Region) error {
	for _, r := range regs {
		if _, err := fmt.Fprintln(w, FormatBED(r)); err != nil {
			return err
		}
	}
	return nil
}
