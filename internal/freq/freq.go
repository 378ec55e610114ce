// Package freq counts occurrences of each unique cross-model sequence
// combination and finalizes them into a ranked, immutable table.
package freq

import (
	"sort"
	"strings"

	"hmmtally/internal/aggregate"
)

// Placeholder renders a missing sequence value in persisted tables; cells
// are never left empty.
const Placeholder = "NA"

// Row is one unique combination with its counts. Frequency is computed
// exactly once, at finalization.
type Row struct {
	Entries    []aggregate.Entry `json:"entries"`
	Count      int               `json:"count"`
	TotalCount int               `json:"total_count"`
	Frequency  float64           `json:"frequency"`
}

// Table is the finalized snapshot: rows sorted by descending count, ties in
// first-seen order.
type Table struct {
	Models []string `json:"models"`
	Rows   []Row    `json:"rows"`
	Total  int      `json:"total_count"`
}

// Key is the combination identity: model:seq pairs joined in the entries'
// fixed order. Two combinations over the same model set collide exactly
// when every per-model sequence matches.
func Key(entries []aggregate.Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(e.Model)
		b.WriteByte(':')
		b.WriteString(e.Seq)
	}
	return b.String()
}

// Counter accumulates combination counts. It is an owned value, not
// process-wide state; Finalize produces the snapshot.
type Counter struct {
	counts  map[string]int
	entries map[string][]aggregate.Entry
	order   []string
}

func NewCounter() *Counter {
	return &Counter{
		counts:  make(map[string]int),
		entries: make(map[string][]aggregate.Entry),
	}
}

// Add records one occurrence of a combination.
func (c *Counter) Add(comb aggregate.Combination) {
	k := Key(comb.Entries)
	if _, seen := c.counts[k]; !seen {
		c.entries[k] = comb.Entries
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

// AddAll records every combination in the slice.
func (c *Counter) AddAll(combos []aggregate.Combination) {
	for _, comb := range combos {
		c.Add(comb)
	}
}

// Finalize ranks the accumulated counts. models fixes the column order of
// the resulting table (normally aggregate.Aggregator.Models()).
func (c *Counter) Finalize(models []string) Table {
	total := 0
	for _, k := range c.order {
		total += c.counts[k]
	}

	rows := make([]Row, 0, len(c.order))
	for _, k := range c.order {
		n := c.counts[k]
		rows = append(rows, Row{
			Entries:    c.entries[k],
			Count:      n,
			TotalCount: total,
			Frequency:  frequency(n, total),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })

	return Table{Models: models, Rows: rows, Total: total}
}

// SortLexical reorders equal-count rows by combination key, making row
// order independent of batch arrival order. Counts stay descending.
func (t *Table) SortLexical() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		if t.Rows[i].Count != t.Rows[j].Count {
			return t.Rows[i].Count > t.Rows[j].Count
		}
		return Key(t.Rows[i].Entries) < Key(t.Rows[j].Entries)
	})
}

func frequency(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
