// Package domtab reads the per-domain tabular output of a profile search
// (hmmsearch --domtblout and compatible tools): comment lines start with
// '#', data lines carry >= 23 whitespace-separated fields with fixed column
// semantics.
package domtab

import (
	"bufio"
	"io"
	"math"
	"strconv"
)

// ScoreColumn selects which score field drives best-hit competition.
type ScoreColumn int

const (
	// ScoreFullSequence is the full-sequence bit score (field 7).
	ScoreFullSequence ScoreColumn = iota
	// ScoreBestDomain is the per-domain bit score (field 13).
	ScoreBestDomain
)

const minFields = 23

// Record is one data line of a domain table. Ali coordinates are 1-based
// inclusive positions into the target sequence, as the search tool reports
// them.
type Record struct {
	TargetID string
	ModelLen int
	EValue   float64
	Score    float64
	HmmFrom  int
	HmmTo    int
	AliFrom  int
	AliTo    int
}

// Reader yields Records lazily from a domain-table stream. Lines that are
// comments, too short, or carry unparsable integer coordinates are skipped
// silently; the count is kept so callers can surface it. Float fields that
// fail to parse become NaN and propagate into score comparisons downstream.
type Reader struct {
	sc      *bufio.Scanner
	col     ScoreColumn
	skipped int
}

func NewReader(r io.Reader, col ScoreColumn) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	return &Reader{sc: sc, col: col}
}

// Next returns the next Record, or ok=false at end of stream.
func (r *Reader) Next() (Record, bool) {
	for r.sc.Scan() {
		line := r.sc.Bytes()
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		f := fields(string(line))
		if len(f) < minFields {
			r.skipped++
			continue
		}
		scoreField := 7
		if r.col == ScoreBestDomain {
			scoreField = 13
		}
		rec := Record{
			TargetID: f[0],
			EValue:   parseFloat(f[6]),
			Score:    parseFloat(f[scoreField]),
		}
		var ok bool
		if rec.ModelLen, ok = parseInt(f[5]); !ok {
			r.skipped++
			continue
		}
		if rec.HmmFrom, ok = parseInt(f[15]); !ok {
			r.skipped++
			continue
		}
		if rec.HmmTo, ok = parseInt(f[16]); !ok {
			r.skipped++
			continue
		}
		if rec.AliFrom, ok = parseInt(f[17]); !ok {
			r.skipped++
			continue
		}
		if rec.AliTo, ok = parseInt(f[18]); !ok {
			r.skipped++
			continue
		}
		return rec, true
	}
	return Record{}, false
}

// Skipped reports how many data lines were dropped as malformed.
func (r *Reader) Skipped() int { return r.skipped }

// Err returns the first underlying scan error, if any.
func (r *Reader) Err() error { return r.sc.Err() }

// ReadAll drains the stream.
func ReadAll(src io.Reader, col ScoreColumn) ([]Record, int, error) {
	r := NewReader(src, col)
	var out []Record
	for {
		rec, ok := r.Next()
		if !ok {
			break
		}
		out = append(out, rec)
	}
	return out, r.Skipped(), r.Err()
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseInt(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	return v, err == nil
}

// fields splits on runs of spaces and tabs without allocating a regexp.
func fields(s string) []string {
	out := make([]string, 0, minFields)
	i := 0
	for i < len(s) {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		start := i
		for i < len(s) && s[i] != ' ' && s[i] != '\t' {
			i++
		}
		if i > start {
			out = append(out, s[start:i])
		}
	}
	return out
}
