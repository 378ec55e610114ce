package freq

import (
	"math"
	"strings"
	"testing"

	"hmmtally/internal/aggregate"
)

func combo(read string, seqs ...string) aggregate.Combination {
	entries := make([]aggregate.Entry, len(seqs))
	for i, s := range seqs {
		entries[i] = aggregate.Entry{Model: "M" + string(rune('1'+i)), Seq: s}
	}
	return aggregate.Combination{Read: read, Entries: entries}
}

func TestCountsSumToTotal(t *testing.T) {
	c := NewCounter()
	c.AddAll([]aggregate.Combination{
		combo("r1", "AAA", "CCC"),
		combo("r2", "AAA", "CCC"),
		combo("r3", "GGG", "CCC"),
		combo("r4", "AAA", "CCC"),
		combo("r5", "TTT", "CCC"),
	})
	table := c.Finalize([]string{"M1", "M2"})

	sum := 0
	for _, row := range table.Rows {
		sum += row.Count
		if row.TotalCount != table.Total {
			t.Fatalf("row total %d != table total %d", row.TotalCount, table.Total)
		}
		if got, want := row.Frequency, float64(row.Count)/float64(table.Total); math.Abs(got-want) > 0 {
			t.Fatalf("frequency %v, want exactly %v", got, want)
		}
	}
	if sum != table.Total {
		t.Fatalf("sum of counts %d != total %d", sum, table.Total)
	}
	if table.Total != 5 {
		t.Fatalf("total = %d, want 5", table.Total)
	}
}

func TestRankingDescendingStable(t *testing.T) {
	c := NewCounter()
	// tieA first seen before tieB; both count 1; "big" counted twice.
	c.Add(combo("r1", "tieA"))
	c.Add(combo("r2", "big"))
	c.Add(combo("r3", "tieB"))
	c.Add(combo("r4", "big"))
	table := c.Finalize([]string{"M1"})

	if table.Rows[0].Entries[0].Seq != "big" {
		t.Fatalf("row 0 = %q, want big", table.Rows[0].Entries[0].Seq)
	}
	if table.Rows[1].Entries[0].Seq != "tieA" || table.Rows[2].Entries[0].Seq != "tieB" {
		t.Fatalf("ties must keep first-seen order: %q then %q",
			table.Rows[1].Entries[0].Seq, table.Rows[2].Entries[0].Seq)
	}
}

func TestSortLexicalBreaksTiesByKey(t *testing.T) {
	c := NewCounter()
	c.Add(combo("r1", "tieB"))
	c.Add(combo("r2", "big"))
	c.Add(combo("r3", "tieA"))
	c.Add(combo("r4", "big"))
	table := c.Finalize([]string{"M1"})
	table.SortLexical()

	if table.Rows[0].Entries[0].Seq != "big" {
		t.Fatalf("row 0 = %q, count order must survive", table.Rows[0].Entries[0].Seq)
	}
	if table.Rows[1].Entries[0].Seq != "tieA" || table.Rows[2].Entries[0].Seq != "tieB" {
		t.Fatalf("equal counts must sort by key: %q then %q",
			table.Rows[1].Entries[0].Seq, table.Rows[2].Entries[0].Seq)
	}
}

func TestKeyIdentity(t *testing.T) {
	a := []aggregate.Entry{{Model: "M1", Seq: "AAA"}, {Model: "M2", Seq: "CCC"}}
	b := []aggregate.Entry{{Model: "M1", Seq: "AAA"}, {Model: "M2", Seq: "CCC"}}
	d := []aggregate.Entry{{Model: "M1", Seq: "AAA"}, {Model: "M2", Seq: "CCG"}}
	if Key(a) != Key(b) {
		t.Fatal("equal combinations must share a key")
	}
	if Key(a) == Key(d) {
		t.Fatal("different sequences must not share a key")
	}
}

func TestLoadRef(t *testing.T) {
	table := strings.Join([]string{
		"CDR1\tCDR3\tCount\tTotal_Count\tFrequency",
		"AAA\tACD\t3\t4\t0.75",
		"CCC\tACE\t1\t4\t0.25",
		"short-row",
		"GGG\tNA\t1\t4\t0.25",
	}, "\n") + "\n"

	rows, skipped, err := LoadRef(strings.NewReader(table), "CDR3")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	if skipped != 2 {
		t.Fatalf("want 2 skipped (short row + placeholder), got %d", skipped)
	}
	if rows[0].Seq != "ACD" || rows[0].Count != 3 || rows[0].TotalCount != 4 || rows[0].Frequency != 0.75 {
		t.Fatalf("row 0: %+v", rows[0])
	}
	if rows[1].Seq != "ACE" {
		t.Fatal("source order must be preserved")
	}
}

func TestLoadRefMissingColumn(t *testing.T) {
	table := "CDR1\tCount\tTotal_Count\tFrequency\nAAA\t1\t1\t1\n"
	if _, _, err := LoadRef(strings.NewReader(table), "CDR3"); err == nil {
		t.Fatal("missing sequence column must fail the load")
	}
}
