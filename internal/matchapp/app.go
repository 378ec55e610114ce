// internal/matchapp/app.go
package matchapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"

	"github.com/cheggaaa/pb/v3"

	"hmmtally/internal/cmdutil"
	"hmmtally/internal/fastax"
	"hmmtally/internal/freq"
	"hmmtally/internal/match"
	"hmmtally/internal/matchcli"
	"hmmtally/internal/version"
	"hmmtally/internal/writers"
)

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := matchcli.NewFlagSet("hmmtally-match")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := matchcli.ParseArgs(fs, argv)
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
		_, _ = fmt.Fprintf(outw, "hmmtally-match version %s\n", version.Version)
		return 0
	}

	queries, err := loadQueries(opts.Queries, opts.Originals)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}

	tableRC, err := fastax.Open(opts.Table)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	ref, skipped, err := freq.LoadRef(tableRC, opts.SeqColumn)
	_ = tableRC.Close()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	cmdutil.Skippedf(stderr, opts.Quiet, skipped, "reference row(s)", opts.Table)

	thr := opts.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var bar *pb.ProgressBar
	progress := func() {}
	if !opts.Quiet {
		bar = pb.Full.Start64(int64(len(queries)))
		bar.SetWriter(stderr)
		progress = func() { bar.Increment() }
	}

	ranked, perr := match.RankAll(ctx, match.Config{MaxDistance: opts.MaxDist, Threads: thr}, queries, ref, progress)
	if bar != nil {
		bar.Finish()
	}
	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return 130
		}
		_, _ = fmt.Fprintln(stderr, perr)
		return 3
	}

	in, writeErr := writers.StartMatchWriter(outw, opts.Output, opts.Header, 64)
	total := 0
	for _, list := range ranked {
		for _, c := range list {
			in <- c
			total++
		}
	}
	close(in)
	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return 0
	} else if werr != nil {
		_, _ = fmt.Fprintln(stderr, werr)
		return 3
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}

	if total == 0 {
		return 1
	}
	return 0
}

// loadQueries reads the query FASTA and, when provided, pairs each record
// with its untrimmed original by id. A query without an original reports
// itself in both columns.
func loadQueries(queriesPath, originalsPath string) ([]match.Query, error) {
	recs, err := fastax.ReadFile(queriesPath)
	if err != nil {
		return nil, fmt.Errorf("reading queries %s: %w", queriesPath, err)
	}
	originals := map[string]string{}
	if originalsPath != "" {
		orig, err := fastax.ReadFile(originalsPath)
		if err != nil {
			return nil, fmt.Errorf("reading originals %s: %w", originalsPath, err)
		}
		for _, rec := range orig {
			originals[rec.ID] = string(rec.Seq)
		}
	}

	out := make([]match.Query, 0, len(recs))
	for _, rec := range recs {
		trimmed := string(rec.Seq)
		original := trimmed
		if o, ok := originals[rec.ID]; ok {
			original = o
		}
		out = append(out, match.Query{Original: original, Trimmed: trimmed})
	}
	return out, nil
}
