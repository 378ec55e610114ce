package freq

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RefRow is one reference-table row viewed through a single sequence
// column, the shape the approximate matcher consumes.
type RefRow struct {
	Seq        string  `json:"seq"`
	Count      int     `json:"count"`
	TotalCount int     `json:"total_count"`
	Frequency  float64 `json:"frequency"`
}

// Fixed count column names in persisted tables.
const (
	ColCount      = "Count"
	ColTotalCount = "Total_Count"
	ColFrequency  = "Frequency"
)

// LoadRef reads a persisted frequency table and projects it onto the named
// sequence column. Rows too short to carry the column, or carrying the
// missing-value placeholder, are skipped and counted rather than failing
// the load; source order is preserved.
func LoadRef(r io.Reader, seqColumn string) ([]RefRow, int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, 0, err
		}
		return nil, 0, errors.New("reference table is empty")
	}
	header := strings.Split(sc.Text(), "\t")
	seqIdx := -1
	countIdx, totalIdx, freqIdx := -1, -1, -1
	for i, name := range header {
		switch name {
		case seqColumn:
			seqIdx = i
		case ColCount:
			countIdx = i
		case ColTotalCount:
			totalIdx = i
		case ColFrequency:
			freqIdx = i
		}
	}
	if seqIdx == -1 {
		return nil, 0, errors.Errorf("reference table has no %q column", seqColumn)
	}
	if countIdx == -1 || totalIdx == -1 || freqIdx == -1 {
		return nil, 0, errors.New("reference table is missing count columns")
	}

	var (
		rows    []RefRow
		skipped int
	)
	for sc.Scan() {
		f := strings.Split(sc.Text(), "\t")
		if len(f) <= seqIdx || len(f) <= countIdx || len(f) <= totalIdx || len(f) <= freqIdx {
			skipped++
			continue
		}
		seq := f[seqIdx]
		if seq == "" || seq == Placeholder {
			skipped++
			continue
		}
		count, err := strconv.Atoi(f[countIdx])
		if err != nil {
			skipped++
			continue
		}
		total, err := strconv.Atoi(f[totalIdx])
		if err != nil {
			skipped++
			continue
		}
		frequency, err := strconv.ParseFloat(f[freqIdx], 64)
		if err != nil {
			skipped++
			continue
		}
		rows = append(rows, RefRow{Seq: seq, Count: count, TotalCount: total, Frequency: frequency})
	}
	return rows, skipped, sc.Err()
}
