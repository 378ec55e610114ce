package besthit

import (
	"math"
	"testing"

	"hmmtally/internal/domtab"
)

func rec(target string, score float64, modelLen, hmmFrom, hmmTo int) domtab.Record {
	return domtab.Record{
		TargetID: target, Score: score,
		ModelLen: modelLen, HmmFrom: hmmFrom, HmmTo: hmmTo,
		AliFrom: 1, AliTo: 10,
	}
}

func TestFramesCollapseAndMaxWins(t *testing.T) {
	s := NewSelector(0, 0)
	s.Add(rec("readA_frame=1", 12.3, 10, 1, 10))
	s.Add(rec("readA_frame=4", 9.8, 10, 1, 10))

	hits := s.Hits()
	if len(hits) != 1 {
		t.Fatalf("want 1 hit, got %d", len(hits))
	}
	if hits[0].Target != "readA" {
		t.Errorf("canonical id = %q, want readA", hits[0].Target)
	}
	if hits[0].Rec.Score != 12.3 {
		t.Errorf("score = %v, want 12.3", hits[0].Rec.Score)
	}
}

func TestMaximumSelectionProperty(t *testing.T) {
	scores := []float64{3.1, 9.9, 2.0, 9.9, 7.5}
	s := NewSelector(0, 0)
	for _, sc := range scores {
		s.Add(rec("readX_frame=2", sc, 10, 1, 10))
	}
	hits := s.Hits()
	if len(hits) != 1 {
		t.Fatalf("want exactly one hit, got %d", len(hits))
	}
	for _, sc := range scores {
		if hits[0].Rec.Score < sc {
			t.Fatalf("selected score %v < candidate %v", hits[0].Rec.Score, sc)
		}
	}
}

func TestTieKeepsFirstSeen(t *testing.T) {
	s := NewSelector(0, 0)
	first := rec("r", 5.0, 10, 1, 10)
	first.AliFrom = 2
	second := rec("r", 5.0, 10, 1, 10)
	second.AliFrom = 7
	s.Add(first)
	s.Add(second)
	if got := s.Hits()[0].Rec.AliFrom; got != 2 {
		t.Fatalf("tie should keep first-seen record, got AliFrom=%d", got)
	}
}

func TestCoverageFilterBeforeScoring(t *testing.T) {
	s := NewSelector(0.5, 0)
	// coverage 0.6: retained
	if !s.Add(rec("r1", 1.0, 10, 1, 6)) {
		t.Fatal("coverage 0.6 should pass a 0.5 threshold")
	}
	// coverage 0.4: dropped even with a huge score
	if s.Add(rec("r1", 99.0, 10, 1, 4)) {
		t.Fatal("coverage 0.4 must be excluded before score comparison")
	}
	if s.Filtered() != 1 {
		t.Fatalf("filtered = %d, want 1", s.Filtered())
	}
	if got := s.Hits()[0].Rec.Score; got != 1.0 {
		t.Fatalf("winner score = %v, want 1.0", got)
	}
}

func TestEValueFilter(t *testing.T) {
	s := NewSelector(0, 1e-5)
	good := rec("r1", 3.0, 10, 1, 10)
	good.EValue = 1e-10
	weak := rec("r1", 99.0, 10, 1, 10)
	weak.EValue = 0.5
	if !s.Add(good) {
		t.Fatal("E-value 1e-10 should pass a 1e-5 cutoff")
	}
	if s.Add(weak) {
		t.Fatal("E-value 0.5 must be excluded before score comparison")
	}
	if got := s.Hits()[0].Rec.Score; got != 3.0 {
		t.Fatalf("winner score = %v, want 3.0", got)
	}

	nan := rec("r2", 1.0, 10, 1, 10)
	nan.EValue = math.NaN()
	if s.Add(nan) {
		t.Fatal("unparsable E-value must be excluded once the filter is on")
	}
	if s.Filtered() != 2 {
		t.Fatalf("filtered = %d, want 2", s.Filtered())
	}
}

func TestAllRecordsFilteredYieldsNoOutput(t *testing.T) {
	s := NewSelector(0.9, 0)
	s.Add(rec("r", 50.0, 10, 1, 4))
	if len(s.Hits()) != 0 {
		t.Fatal("targets with zero passing records must produce no output")
	}
}

func TestNaNScoreNeverReplaces(t *testing.T) {
	s := NewSelector(0, 0)
	s.Add(rec("r", 5.0, 10, 1, 10))
	s.Add(rec("r", math.NaN(), 10, 1, 10))
	if got := s.Hits()[0].Rec.Score; got != 5.0 {
		t.Fatalf("NaN must not replace a real score, got %v", got)
	}

	// A first-seen NaN survives real challengers: NaN comparisons are
	// always false, matching the parser's pass-through leniency.
	s2 := NewSelector(0, 0)
	s2.Add(rec("r", math.NaN(), 10, 1, 10))
	s2.Add(rec("r", 5.0, 10, 1, 10))
	if got := s2.Hits()[0].Rec.Score; !math.IsNaN(got) {
		t.Fatalf("incumbent NaN should survive, got %v", got)
	}
}
