// internal/matchcli/options.go
package matchcli

import (
	"errors"
	"flag"
	"fmt"

	"hmmtally/internal/clibase"
	"hmmtally/internal/version"
)

// Options holds all CLI flags for hmmtally-match.
type Options struct {
	clibase.Common

	Queries   string // FASTA of (trimmed) query sequences
	Originals string // optional FASTA of untrimmed originals, same ids
	Table     string // persisted frequency table
	SeqColumn string // reference column to match against
	MaxDist   int    // -1 = unbounded
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: approximate lookup of query sequences against a frequency table

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	noHeader := clibase.Register(fs, &opt.Common)

	fs.StringVar(&opt.Queries, "queries", "", "FASTA of query sequences (or '-') [*]")
	fs.StringVar(&opt.Originals, "originals", "", "FASTA of untrimmed originals keyed by the same ids []")
	fs.StringVar(&opt.Table, "table", "", "frequency table to match against [*]")
	fs.StringVar(&opt.SeqColumn, "seq-column", "", "reference column holding the sequences [*]")
	fs.IntVar(&opt.MaxDist, "max-dist", -1, "maximum edit distance; -1 = unbounded [-1]")

	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.Header = !*noHeader

	if err := opt.Common.Validate(); err != nil {
		return opt, err
	}
	if opt.Queries == "" {
		return opt, errors.New("--queries is required")
	}
	if opt.Table == "" {
		return opt, errors.New("--table is required")
	}
	if opt.SeqColumn == "" {
		return opt, errors.New("--seq-column is required")
	}
	if opt.MaxDist < -1 {
		return opt, errors.New("--max-dist must be ≥ -1")
	}
	return opt, nil
}
