// Package match performs approximate lookup of query sequences against a
// reference frequency table by Levenshtein edit distance.
package match

import (
	"sort"

	"hmmtally/internal/freq"
)

// Query pairs the sequence to compare with the untrimmed original carried
// through for reporting. Original may equal Trimmed.
type Query struct {
	Original string
	Trimmed  string
}

// Candidate is one reference row within range of a query.
type Candidate struct {
	OriginalQuery string  `json:"original_query_seq"`
	TrimmedQuery  string  `json:"trimmed_query_seq"`
	MatchedSeq    string  `json:"matched_seq"`
	Distance      int     `json:"levenshtein_dist"`
	Count         int     `json:"count"`
	TotalCount    int     `json:"total_count"`
	Frequency     float64 `json:"frequency"`
}

// Distance is the classic dynamic-programming Levenshtein distance:
// insertion, deletion, and substitution each cost 1.
func Distance(a, b string) int {
	n, m := len(a), len(b)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	d := make([][]int, n+1)
	for i := range d {
		d[i] = make([]int, m+1)
		d[i][0] = i
	}
	for j := 1; j <= m; j++ {
		d[0][j] = j
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := d[i-1][j] + 1
			ins := d[i][j-1] + 1
			sub := d[i-1][j-1] + cost
			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			d[i][j] = best
		}
	}
	return d[n][m]
}

// Rank scans every reference row for one query. maxDist < 0 means
// unbounded. Results come back ascending by distance; ties keep the
// reference table's row order (the sort is stable and rows are scanned in
// order, so identical inputs always rank identically).
func Rank(q Query, ref []freq.RefRow, maxDist int) []Candidate {
	var out []Candidate
	for _, row := range ref {
		dist := Distance(q.Trimmed, row.Seq)
		if maxDist >= 0 && dist > maxDist {
			continue
		}
		out = append(out, Candidate{
			OriginalQuery: q.Original,
			TrimmedQuery:  q.Trimmed,
			MatchedSeq:    row.Seq,
			Distance:      dist,
			Count:         row.Count,
			TotalCount:    row.TotalCount,
			Frequency:     row.Frequency,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}
