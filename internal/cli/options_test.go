package cli

import (
	"io"
	"testing"
)

func parse(t *testing.T, argv ...string) (Options, error) {
	t.Helper()
	fs := NewFlagSet("hmmtally")
	fs.SetOutput(io.Discard)
	return ParseArgs(fs, argv)
}

func TestRequiresInputs(t *testing.T) {
	if _, err := parse(t); err == nil {
		t.Fatal("no flags must be an error")
	}
	if _, err := parse(t, "--reads", "a.fa"); err == nil {
		t.Fatal("--reads without --model/--domtbl must be an error")
	}
	if _, err := parse(t, "--reads", "a.fa", "--model", "m.hmm", "--domtbl", "a:m:x"); err == nil {
		t.Fatal("--model and --domtbl conflict")
	}
}

func TestValidRun(t *testing.T) {
	opt, err := parse(t,
		"--reads", "a.fa", "--reads", "b.fa",
		"--model", "cdr1.hmm",
		"--min-coverage", "0.5",
		"--score-column", "domain",
		"--no-header",
	)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(opt.Reads) != 2 || opt.Reads[1] != "b.fa" {
		t.Fatalf("reads: %v", opt.Reads)
	}
	if opt.MinCoverage != 0.5 || opt.ScoreColumn != "domain" {
		t.Fatalf("options: %+v", opt)
	}
	if opt.Header {
		t.Fatal("--no-header must clear Header")
	}
}

func TestValidation(t *testing.T) {
	if _, err := parse(t, "--reads", "a.fa", "--model", "m", "--min-coverage", "1.5"); err == nil {
		t.Fatal("coverage > 1 must fail")
	}
	if _, err := parse(t, "--reads", "a.fa", "--model", "m", "--score-column", "evalue"); err == nil {
		t.Fatal("bad score column must fail")
	}
	if _, err := parse(t, "--reads", "a.fa", "--model", "m", "--output", "xml"); err == nil {
		t.Fatal("bad output format must fail")
	}
}
