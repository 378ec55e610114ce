// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"

	"hmmtally/internal/clibase"
	"hmmtally/internal/version"
)

// Score column choices.
const (
	ScoreFull   = "full"
	ScoreDomain = "domain"
)

// Options holds all CLI flags for the main pipeline tool.
type Options struct {
	clibase.Common

	// Inputs
	Reads  []string // read-batch FASTA files (search mode)
	Models []string // profile .hmm files (search mode)

	// Table mode: pre-computed domain tables named <batch>:<model>:<path>,
	// with --reads giving the protein FASTA per batch.
	DomTbls []string

	// Hit resolution
	MinCoverage float64
	MaxEValue   float64
	ScoreColumn string

	// External tools
	Hmmsearch string
	Translate string // "" = inputs are already protein
	Seqtk     string // "" = in-process extraction

	// Temp files
	TempDir string
	KeepTmp bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: cross-model sequence combination counting from profile-search hits

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	noHeader := clibase.Register(fs, &opt.Common)

	fs.Var(&clibase.SliceValue{Dst: &opt.Reads}, "reads", "read-batch FASTA file (repeatable) [*]")
	fs.Var(&clibase.SliceValue{Dst: &opt.Models}, "model", "profile HMM file (repeatable)")
	fs.Var(&clibase.SliceValue{Dst: &opt.DomTbls}, "domtbl", "pre-computed domain table as batch:model:path (repeatable)")

	fs.Float64Var(&opt.MinCoverage, "min-coverage", 0, "minimum model coverage fraction, 0 disables [0]")
	fs.Float64Var(&opt.MaxEValue, "max-evalue", 0, "maximum hit E-value, 0 disables [0]")
	fs.StringVar(&opt.ScoreColumn, "score-column", ScoreFull, "score column: full | domain [full]")

	fs.StringVar(&opt.Hmmsearch, "hmmsearch", "hmmsearch", "profile search binary [hmmsearch]")
	fs.StringVar(&opt.Translate, "translate", "", "six-frame translation binary; empty = inputs already protein []")
	fs.StringVar(&opt.Seqtk, "seqtk", "", "external sub-sequence extractor; empty = extract in process []")

	fs.StringVar(&opt.TempDir, "tmp-dir", "", "directory for temporary files [system default]")
	fs.BoolVar(&opt.KeepTmp, "keep-tmp", false, "keep temporary files for inspection [false]")

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
	if len(opt.Reads) == 0 {
		return opt, errors.New("at least one --reads file is required")
	}
	usingTables := len(opt.DomTbls) > 0
	usingSearch := len(opt.Models) > 0
	switch {
	case usingTables && usingSearch:
		return opt, errors.New("--domtbl conflicts with --model")
	case !usingTables && !usingSearch:
		return opt, errors.New("provide --model or --domtbl")
	}
	if opt.ScoreColumn != ScoreFull && opt.ScoreColumn != ScoreDomain {
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

// Parse is the top-level call for CLI parsing.
func Parse() (Options, error) { return ParseArgs(flag.CommandLine, nil) }
