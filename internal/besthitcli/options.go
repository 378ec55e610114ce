// internal/besthitcli/options.go
package besthitcli

import (
	"errors"
	"flag"
	"fmt"

	"hmmtally/internal/cli"
	"hmmtally/internal/clibase"
	"hmmtally/internal/version"
)

// Options holds all CLI flags for hmmtally-besthit.
type Options struct {
	clibase.Common

	Tables      []string // domain-table files, or '-' for stdin
	MinCoverage float64
	MaxEValue   float64
	ScoreColumn string
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: resolve one best hit per read and export extraction intervals

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

	fs.Var(&clibase.SliceValue{Dst: &opt.Tables}, "domtbl", "domain-table file (repeatable, or '-') [*]")
	fs.Float64Var(&opt.MinCoverage, "min-coverage", 0, "minimum model coverage fraction, 0 disables [0]")
	fs.Float64Var(&opt.MaxEValue, "max-evalue", 0, "maximum hit E-value, 0 disables [0]")
	fs.StringVar(&opt.ScoreColumn, "score-column", cli.ScoreFull, "score column: full | domain [full]")

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
	if len(opt.Tables) == 0 {
		return opt, errors.New("at least one --domtbl file is required")
	}
	if opt.ScoreColumn != cli.ScoreFull && opt.ScoreColumn != cli.ScoreDomain {
		return opt, fmt.Errorf("invalid --score-column %q", opt.ScoreColumn)
	}
	if opt.MinCoverage < 0 || opt.MinCoverage > 1 {
		return opt, errors.New("--min-coverage must be within [0,1]")
	}
	if opt.MaxEValue < 0 {
		return opt, errors.New("--max-evalue must be ≥ 0")
	}
	return opt, nil
}
