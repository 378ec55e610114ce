package writers

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"hmmtally/internal/match"
	"hmmtally/internal/regions"
)

func TestStartRegionWriterText(t *testing.T) {
	var buf bytes.Buffer
	in, errCh := StartRegionWriter(&buf, "text", true, 0)
	in <- regions.Region{Target: "readA", Start: 2, End: 33, Score: 42.5}
	in <- regions.Region{Target: "readB", Start: 0, End: 9, Score: 7}
	close(in)
	if err := <-errCh; err != nil {
		t.Fatalf("writer: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header + 2 rows, got %d lines", len(lines))
	}
	if lines[1] != "readA\t2\t33\t42.5" {
		t.Fatalf("row: %q", lines[1])
	}
}

func TestStartMatchWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	in, errCh := StartMatchWriter(&buf, "json", true, 0)
	in <- match.Candidate{TrimmedQuery: "ACD", MatchedSeq: "ACD", Distance: 0, Count: 3, TotalCount: 4, Frequency: 0.75}
	close(in)
	if err := <-errCh; err != nil {
		t.Fatalf("writer: %v", err)
	}
	var got []match.Candidate
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil || len(got) != 1 || got[0].MatchedSeq != "ACD" {
		t.Fatalf("json round trip: %v %+v", err, got)
	}
}

func TestUnknownFormatDrains(t *testing.T) {
	var buf bytes.Buffer
	in, errCh := StartMatchWriter(&buf, "yaml", true, 1)
	in <- match.Candidate{}
	close(in)
	if err := <-errCh; err == nil {
		t.Fatal("unknown format must error")
	}
}
