// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"hmmtally/internal/app"
	"hmmtally/internal/besthitapp"
	"hmmtally/internal/matchapp"
)

func write(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func domLine(target string, qlen int, score float64, hmmFrom, hmmTo, aliFrom, aliTo int) string {
	return domLineE(target, "1e-10", qlen, score, hmmFrom, hmmTo, aliFrom, aliTo)
}

func domLineE(target, evalue string, qlen int, score float64, hmmFrom, hmmTo, aliFrom, aliTo int) string {
	s := strconv.FormatFloat(score, 'g', -1, 64)
	f := []string{
		target, "-", "300", "model", "-", strconv.Itoa(qlen),
		evalue, s, "0.1",
		"1", "1", "1e-5", "2e-5", s, "0.1",
		strconv.Itoa(hmmFrom), strconv.Itoa(hmmTo),
		strconv.Itoa(aliFrom), strconv.Itoa(aliTo),
		"1", "100", "0.95", "-",
	}
	return strings.Join(f, " ")
}

func TestTallyEndToEnd(t *testing.T) {
	dir := t.TempDir()
	fa := write(t, dir, "sample1.fa",
		">readA_frame=1\nACDEFGHIKL\n>readB_frame=1\nACDEFGHIKL\n")
	tbl1 := write(t, dir, "cdr1.domtbl",
		domLine("readA_frame=1", 10, 42.5, 1, 10, 1, 3)+"\n"+
			domLine("readB_frame=1", 10, 40.0, 1, 10, 1, 3)+"\n")
	tbl2 := write(t, dir, "cdr3.domtbl",
		domLine("readA_frame=1", 10, 12.0, 1, 10, 6, 9)+"\n"+
			domLine("readB_frame=1", 10, 11.0, 1, 10, 6, 9)+"\n")

	var out, errBuf bytes.Buffer
	code := app.Run([]string{
		"--reads", fa,
		"--domtbl", "sample1:cdr1:" + tbl1,
		"--domtbl", "sample1:cdr3:" + tbl2,
	}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errBuf.String())
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("want header + 1 row, got %d lines:\n%s", len(lines), out.String())
	}
	if lines[0] != "cdr1\tcdr3\tCount\tTotal_Count\tFrequency" {
		t.Fatalf("header: %q", lines[0])
	}
	// Both reads share one combination: ACD + GHIK, count 2 of 2.
	if lines[1] != "ACD\tGHIK\t2\t2\t1" {
		t.Fatalf("row: %q", lines[1])
	}
}

func TestTallyNoRowsExitCode(t *testing.T) {
	dir := t.TempDir()
	fa := write(t, dir, "s.fa", ">readA_frame=1\nACDEFGHIKL\n")
	tbl := write(t, dir, "m.domtbl", "# only comments\n")

	var out, errBuf bytes.Buffer
	code := app.Run([]string{
		"--reads", fa,
		"--domtbl", "s:m:" + tbl,
		"--no-header",
	}, &out, &errBuf)
	if code != 1 {
		t.Fatalf("empty table should exit 1, got %d (stderr=%s)", code, errBuf.String())
	}
}

func TestTallyUnreferencedReadsFileIsUsageError(t *testing.T) {
	dir := t.TempDir()
	fa := write(t, dir, "sample1.fa", ">readA_frame=1\nACDEFGHIKL\n")
	extra := write(t, dir, "sample2.fa", ">readB_frame=1\nACDEFGHIKL\n")
	tbl := write(t, dir, "m.domtbl",
		domLine("readA_frame=1", 10, 42.5, 1, 10, 1, 3)+"\n")

	var out, errBuf bytes.Buffer
	code := app.Run([]string{
		"--reads", fa,
		"--reads", extra,
		"--domtbl", "sample1:m:" + tbl,
	}, &out, &errBuf)
	if code != 2 {
		t.Fatalf("unreferenced reads file should exit 2, got %d", code)
	}
	if !strings.Contains(errBuf.String(), "sample2") {
		t.Fatalf("error must name the dropped batch: %s", errBuf.String())
	}
}

func TestBestHitEndToEnd(t *testing.T) {
	dir := t.TempDir()
	tbl := write(t, dir, "m.domtbl",
		domLine("readA_frame=1", 10, 12.3, 1, 6, 3, 33)+"\n"+
			domLine("readA_frame=2", 10, 9.8, 1, 6, 4, 20)+"\n"+
			domLine("lowcov_frame=1", 10, 50.0, 1, 4, 1, 10)+"\n"+
			domLineE("weak_frame=1", "0.9", 10, 80.0, 1, 10, 1, 10)+"\n")

	var out, errBuf bytes.Buffer
	code := besthitapp.Run([]string{
		"--domtbl", tbl,
		"--min-coverage", "0.5",
		"--max-evalue", "1e-5",
		"--no-header",
	}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errBuf.String())
	}
	want := "readA_frame=1\t2\t33\t12.3\n"
	if out.String() != want {
		t.Fatalf("got %q want %q", out.String(), want)
	}
}

func TestMatchEndToEnd(t *testing.T) {
	dir := t.TempDir()
	table := write(t, dir, "table.tsv", strings.Join([]string{
		"CDR3\tCount\tTotal_Count\tFrequency",
		"ACD\t3\t4\t0.75",
		"ACE\t1\t4\t0.25",
	}, "\n")+"\n")
	queries := write(t, dir, "q.fa", ">q1\nACD\n")

	var out, errBuf bytes.Buffer
	code := matchapp.Run([]string{
		"--queries", queries,
		"--table", table,
		"--seq-column", "CDR3",
		"--max-dist", "1",
		"--quiet",
	}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errBuf.String())
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header + 2 rows:\n%s", out.String())
	}
	if lines[1] != "ACD\tACD\tACD\t0\t3\t4\t0.75" {
		t.Fatalf("row 1: %q", lines[1])
	}
	if lines[2] != "ACD\tACD\tACE\t1\t1\t4\t0.25" {
		t.Fatalf("row 2: %q", lines[2])
	}
}

func TestMatchParallelMatchesSerial(t *testing.T) {
	dir := t.TempDir()
	var rows []string
	rows = append(rows, "CDR3\tCount\tTotal_Count\tFrequency")
	for i := 0; i < 50; i++ {
		rows = append(rows, fmt.Sprintf("SEQ%02dACDEF\t1\t50\t0.02", i))
	}
	table := write(t, dir, "table.tsv", strings.Join(rows, "\n")+"\n")
	queries := write(t, dir, "q.fa",
		">q1\nSEQ01ACDEF\n>q2\nSEQ9ACDEF\n>q3\nTOTALLYOTHER\n")

	run := func(threads int) string {
		var out, errBuf bytes.Buffer
		code := matchapp.Run([]string{
			"--queries", queries,
			"--table", table,
			"--seq-column", "CDR3",
			"--threads", fmt.Sprint(threads),
			"--quiet",
		}, &out, &errBuf)
		if code != 0 {
			t.Fatalf("exit %d err %s", code, errBuf.String())
		}
		return out.String()
	}

	if serial, parallel := run(1), run(8); serial != parallel {
		t.Fatalf("parallel output differs from serial\nserial:\n%s\nparallel:\n%s", serial, parallel)
	}
}

func TestMatchOriginalsReported(t *testing.T) {
	dir := t.TempDir()
	table := write(t, dir, "table.tsv",
		"CDR3\tCount\tTotal_Count\tFrequency\nACD\t1\t1\t1\n")
	queries := write(t, dir, "q.fa", ">q1\nACD\n")
	originals := write(t, dir, "orig.fa", ">q1\nXXACDXX\n")

	var out, errBuf bytes.Buffer
	code := matchapp.Run([]string{
		"--queries", queries,
		"--originals", originals,
		"--table", table,
		"--seq-column", "CDR3",
		"--no-header",
		"--quiet",
	}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errBuf.String())
	}
	if got := out.String(); got != "XXACDXX\tACD\tACD\t0\t1\t1\t1\n" {
		t.Fatalf("got %q", got)
	}
}
