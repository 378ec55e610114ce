// Package output renders the persisted tables: BED intervals, the
// combination frequency table, and the match-result table. TSV headers are
// kept as single sources of truth here.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"hmmtally/internal/freq"
	"hmmtally/internal/match"
	"hmmtally/internal/regions"
)

// Output formats accepted by the CLIs.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidFormat reports whether s names a supported output format.
func ValidFormat(s string) bool { return s == FormatText || s == FormatJSON }

// BEDHeader is the optional header row for interval output.
const BEDHeader = "target_id\tstart\tend\tscore"

// MatchTSVHeader is the canonical header row for match-result output.
const MatchTSVHeader = "Original_Query_Seq\tTrimmed_Query_Seq\tMatched_Seq\tLevenshtein_Dist\tCount\tTotal_Count\tFrequency"

// FreqHeader builds the frequency-table header: one column per model in
// table order, then the count columns.
func FreqHeader(models []string) string {
	cols := append(append([]string(nil), models...),
		freq.ColCount, freq.ColTotalCount, freq.ColFrequency)
	return strings.Join(cols, "\t")
}

// FormatFreqRowTSV renders one frequency row (no trailing newline). A model
// with no sequence renders the placeholder, never an empty cell.
func FormatFreqRowTSV(models []string, row freq.Row) string {
	byModel := make(map[string]string, len(row.Entries))
	for _, e := range row.Entries {
		byModel[e.Model] = e.Seq
	}
	cols := make([]string, 0, len(models)+3)
	for _, m := range models {
		seq, ok := byModel[m]
		if !ok || seq == "" {
			seq = freq.Placeholder
		}
		cols = append(cols, seq)
	}
	cols = append(cols,
		strconv.Itoa(row.Count),
		strconv.Itoa(row.TotalCount),
		FormatFloat(row.Frequency),
	)
	return strings.Join(cols, "\t")
}

// WriteFreqTSV writes the whole finalized table.
func WriteFreqTSV(w io.Writer, table freq.Table, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, FreqHeader(table.Models)); err != nil {
			return err
		}
	}
	for _, row := range table.Rows {
		if _, err := fmt.Fprintln(w, FormatFreqRowTSV(table.Models, row)); err != nil {
			return err
		}
	}
	return nil
}

// WriteFreqJSON writes the finalized table as indented JSON.
func WriteFreqJSON(w io.Writer, table freq.Table) error {
	return encodePretty(w, table)
}

// FormatMatchRowTSV renders one match candidate (no trailing newline).
func FormatMatchRowTSV(c match.Candidate) string {
	return fmt.Sprintf("%s\t%s\t%s\t%d\t%d\t%d\t%s",
		c.OriginalQuery, c.TrimmedQuery, c.MatchedSeq,
		c.Distance, c.Count, c.TotalCount, FormatFloat(c.Frequency))
}

// WriteMatchTSV writes candidates in order.
func WriteMatchTSV(w io.Writer, list []match.Candidate, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, MatchTSVHeader); err != nil {
			return err
		}
	}
	for _, c := range list {
		if _, err := fmt.Fprintln(w, FormatMatchRowTSV(c)); err != nil {
			return err
		}
	}
	return nil
}

// WriteMatchJSON writes candidates as indented JSON.
func WriteMatchJSON(w io.Writer, list []match.Candidate) error {
	if list == nil {
		list = []match.Candidate{}
	}
	return encodePretty(w, list)
}

// WriteRegionsJSON writes intervals as indented JSON.
func WriteRegionsJSON(w io.Writer, regs []regions.Region) error {
	if regs == nil {
		regs = []regions.Region{}
	}
	return encodePretty(w, regs)
}

// FormatFloat renders scores and frequencies compactly and losslessly.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func encodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
