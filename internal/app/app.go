// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"hmmtally/internal/aggregate"
	"hmmtally/internal/cli"
	"hmmtally/internal/domtab"
	"hmmtally/internal/extract"
	"hmmtally/internal/freq"
	"hmmtally/internal/hmmer"
	"hmmtally/internal/output"
	"hmmtally/internal/pipeline"
	"hmmtally/internal/version"
	"hmmtally/internal/writers"
)

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("hmmtally")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			if e := outw.Flush(); writers.IsBrokenPipe(e) {
				return 0
			} else if e != nil {
				_, _ = fmt.Fprintln(stderr, e)
				return 3
			}
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "hmmtally version %s\n", version.Version)
		return 0
	}

	batches, models, err := assemble(opts)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	scoreCol := domtab.ScoreFullSequence
	if opts.ScoreColumn == cli.ScoreDomain {
		scoreCol = domtab.ScoreBestDomain
	}

	cfg := pipeline.Config{
		ScoreColumn: scoreCol,
		MinCoverage: opts.MinCoverage,
		MaxEValue:   opts.MaxEValue,
		TempDir:     opts.TempDir,
		KeepTmp:     opts.KeepTmp,
		Stderr:      stderr,
		Quiet:       opts.Quiet,
	}
	if opts.Translate != "" {
		cfg.Translator = hmmer.Translator{Bin: opts.Translate}
	}
	if len(opts.Models) > 0 {
		cfg.Search = hmmer.Search{Bin: opts.Hmmsearch, Threads: opts.Threads}
	}
	if opts.Seqtk != "" {
		cfg.Extractor = extract.Seqtk{Bin: opts.Seqtk, TempDir: opts.TempDir, KeepTmp: opts.KeepTmp}
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	agg := aggregate.New()
	if err := pipeline.Run(ctx, cfg, batches, models, agg); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}

	counter := freq.NewCounter()
	counter.AddAll(agg.Combinations())
	table := counter.Finalize(agg.Models())
	if opts.Sort {
		table.SortLexical()
	}

	switch opts.Output {
	case output.FormatJSON:
		err = output.WriteFreqJSON(outw, table)
	default:
		err = output.WriteFreqTSV(outw, table, opts.Header)
	}
	if err == nil {
		err = outw.Flush()
	}
	if writers.IsBrokenPipe(err) {
		return 0
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}

	if len(table.Rows) == 0 {
		return 1
	}
	return 0
}

// assemble builds the batch and model lists from the parsed options.
// Table mode takes --domtbl specs of the form batch:model:path and pairs
// each batch with the --reads file of the same derived name.
func assemble(opts cli.Options) ([]pipeline.Batch, []pipeline.Model, error) {
	if len(opts.DomTbls) == 0 {
		batches := make([]pipeline.Batch, 0, len(opts.Reads))
		for _, fa := range opts.Reads {
			batches = append(batches, pipeline.Batch{Name: pipeline.BatchName(fa), ReadsPath: fa})
		}
		models := make([]pipeline.Model, 0, len(opts.Models))
		for _, hmm := range opts.Models {
			models = append(models, pipeline.Model{Name: pipeline.ModelName(hmm), Path: hmm})
		}
		return batches, models, nil
	}

	readsByBatch := make(map[string]string, len(opts.Reads))
	for _, fa := range opts.Reads {
		readsByBatch[pipeline.BatchName(fa)] = fa
	}

	tables := make(map[string]map[string]string)
	var batchOrder []string
	modelSeen := make(map[string]struct{})
	var models []pipeline.Model
	for _, spec := range opts.DomTbls {
		parts := strings.SplitN(spec, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return nil, nil, fmt.Errorf("invalid --domtbl %q (want batch:model:path)", spec)
		}
		batch, model, path := parts[0], parts[1], parts[2]
		if _, ok := readsByBatch[batch]; !ok {
			return nil, nil, fmt.Errorf("--domtbl batch %q has no matching --reads file", batch)
		}
		if _, ok := tables[batch]; !ok {
			tables[batch] = make(map[string]string)
			batchOrder = append(batchOrder, batch)
		}
		tables[batch][model] = path
		if _, ok := modelSeen[model]; !ok {
			modelSeen[model] = struct{}{}
			models = append(models, pipeline.Model{Name: model})
		}
	}

	// A reads file no spec references is almost certainly a typo in a
	// batch name; dropping the sample silently would hide it.
	for _, fa := range opts.Reads {
		if _, ok := tables[pipeline.BatchName(fa)]; !ok {
			return nil, nil, fmt.Errorf("--reads %s (batch %q) matches no --domtbl spec", fa, pipeline.BatchName(fa))
		}
	}

	batches := make([]pipeline.Batch, 0, len(batchOrder))
	for _, name := range batchOrder {
		batches = append(batches, pipeline.Batch{
			Name:      name,
			ReadsPath: readsByBatch[name],
			Tables:    tables[name],
		})
	}
	return batches, models, nil
}
