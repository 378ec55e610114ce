// Package pipeline orchestrates one run: per read-batch and per model,
// obtain a domain table (invoking the external search or consuming a
// pre-computed one), resolve best hits, extract the aligned sub-sequences,
// and stage the results. Each (batch, model) unit is processed to
// completion before the next begins; a failed batch is discarded wholesale
// and never reaches the run-wide aggregation.
package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"hmmtally/internal/aggregate"
	"hmmtally/internal/besthit"
	"hmmtally/internal/cmdutil"
	"hmmtally/internal/domtab"
	"hmmtally/internal/extract"
	"hmmtally/internal/regions"
)

// Translator turns a nucleotide FASTA into a per-frame protein FASTA.
type Translator interface {
	SixFrame(ctx context.Context, inPath, outPath string) error
}

// Searcher writes the per-domain table for one model over one FASTA.
type Searcher interface {
	DomTable(ctx context.Context, hmmPath, fastaPath, outPath string) error
}

// Model is one profile model to search with.
type Model struct {
	Name string
	Path string // .hmm file; unused in table mode
}

// ModelName derives the run-facing model name from an .hmm path.
func ModelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Batch is one read batch. In search mode ReadsPath is the nucleotide
// FASTA and Tables is nil. In table mode Tables maps model name to a
// pre-computed domain table and ReadsPath is the protein FASTA those
// tables were produced from.
type Batch struct {
	Name      string
	ReadsPath string
	Tables    map[string]string
}

// BatchName derives a batch name from its reads file.
func BatchName(path string) string {
	base := filepath.Base(path)
	for ext := filepath.Ext(base); ext != "" && ext != base; ext = filepath.Ext(base) {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// Config carries the run-wide settings.
type Config struct {
	ScoreColumn domtab.ScoreColumn
	MinCoverage float64 // <= 0 disables the coverage filter
	MaxEValue   float64 // <= 0 disables the E-value filter

	Translator Translator // nil = inputs are already protein
	Search     Searcher   // required unless every batch is table mode
	Extractor  extract.Extractor

	TempDir string
	KeepTmp bool

	Stderr io.Writer
	Quiet  bool
}

// Run processes every batch into agg. The first failing batch aborts the
// run; its staged results are dropped without touching agg.
func Run(ctx context.Context, cfg Config, batches []Batch, models []Model, agg *aggregate.Aggregator) error {
	if cfg.Extractor == nil {
		cfg.Extractor = extract.Slice{}
	}
	if cfg.Stderr == nil {
		cfg.Stderr = io.Discard
	}
	for _, m := range models {
		agg.AddModel(m.Name)
	}

	for _, b := range batches {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := runBatch(ctx, cfg, b, models, agg); err != nil {
			return errors.Wrapf(err, "batch %s", b.Name)
		}
	}
	return nil
}

func runBatch(ctx context.Context, cfg Config, b Batch, models []Model, agg *aggregate.Aggregator) error {
	st := agg.NewBatch(b.Name)

	proteinPath := b.ReadsPath
	if b.Tables == nil && cfg.Translator != nil {
		out, cleanup, err := tempPath(cfg, "translated-*.fa")
		if err != nil {
			return err
		}
		defer cleanup()
		if err := cfg.Translator.SixFrame(ctx, b.ReadsPath, out); err != nil {
			return err
		}
		proteinPath = out
	}

	for _, m := range models {
		tablePath, ok := b.Tables[m.Name]
		if b.Tables != nil && !ok {
			return errors.Errorf("no domain table for model %s", m.Name)
		}
		if b.Tables == nil {
			if cfg.Search == nil {
				return errors.New("no searcher configured")
			}
			out, cleanup, err := tempPath(cfg, "domtbl-*.txt")
			if err != nil {
				return err
			}
			defer cleanup()
			if err := cfg.Search.DomTable(ctx, m.Path, proteinPath, out); err != nil {
				return err
			}
			tablePath = out
		}

		hits, err := selectHits(cfg, m, tablePath)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			continue
		}

		seqs, err := cfg.Extractor.Extract(ctx, proteinPath, regions.FromHits(hits))
		if err != nil {
			return err
		}
		// Extraction is keyed by the raw record id; aggregation by the
		// canonical read id.
		for _, h := range hits {
			seq, ok := seqs[h.Rec.TargetID]
			if !ok {
				continue
			}
			st.Add(h.Target, m.Name, seq)
		}
	}

	if dropped := st.Dropped(); dropped > 0 {
		cmdutil.Warnf(cfg.Stderr, cfg.Quiet,
			"batch %s: ignored %d duplicate model assignment(s)", b.Name, dropped)
	}
	agg.Commit(st)
	return nil
}

func selectHits(cfg Config, m Model, tablePath string) ([]besthit.Selected, error) {
	fh, err := os.Open(tablePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	r := domtab.NewReader(fh, cfg.ScoreColumn)
	sel := besthit.NewSelector(cfg.MinCoverage, cfg.MaxEValue)
	sel.AddAll(r)
	if err := r.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", tablePath)
	}
	cmdutil.Skippedf(cfg.Stderr, cfg.Quiet, r.Skipped(), "line(s)", tablePath)
	return sel.Hits(), nil
}

func tempPath(cfg Config, pattern string) (string, func(), error) {
	fh, err := os.CreateTemp(cfg.TempDir, "hmmtally-"+pattern)
	if err != nil {
		return "", nil, err
	}
	path := fh.Name()
	_ = fh.Close()
	cleanup := func() {
		if !cfg.KeepTmp {
			_ = os.Remove(path)
		}
	}
	return path, cleanup, nil
}
