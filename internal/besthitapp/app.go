// internal/besthitapp/app.go
package besthitapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"

	"hmmtally/internal/besthit"
	"hmmtally/internal/besthitcli"
	"hmmtally/internal/cli"
	"hmmtally/internal/cmdutil"
	"hmmtally/internal/domtab"
	"hmmtally/internal/fastax"
	"hmmtally/internal/regions"
	"hmmtally/internal/version"
	"hmmtally/internal/writers"
)

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := besthitcli.NewFlagSet("hmmtally-besthit")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := besthitcli.ParseArgs(fs, argv)
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
		_, _ = fmt.Fprintf(outw, "hmmtally-besthit version %s\n", version.Version)
		return 0
	}

	scoreCol := domtab.ScoreFullSequence
	if opts.ScoreColumn == cli.ScoreDomain {
		scoreCol = domtab.ScoreBestDomain
	}

	in, writeErr := writers.StartRegionWriter(outw, opts.Output, opts.Header, 64)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	total := 0
	perr := func() error {
		for _, path := range opts.Tables {
			if err := ctx.Err(); err != nil {
				return err
			}
			rc, err := fastax.Open(path)
			if err != nil {
				return err
			}
			r := domtab.NewReader(rc, scoreCol)
			sel := besthit.NewSelector(opts.MinCoverage, opts.MaxEValue)
			sel.AddAll(r)
			scanErr := r.Err()
			closeErr := rc.Close()
			if scanErr != nil {
				return fmt.Errorf("reading %s: %w", path, scanErr)
			}
			if closeErr != nil {
				return closeErr
			}
			cmdutil.Skippedf(stderr, opts.Quiet, r.Skipped(), "line(s)", path)

			regs := regions.FromHits(sel.Hits())
			if opts.Sort {
				sort.Slice(regs, func(i, j int) bool {
					a, b := regs[i], regs[j]
					if a.Target != b.Target {
						return a.Target < b.Target
					}
					if a.Start != b.Start {
						return a.Start < b.Start
					}
					return a.End < b.End
				})
			}
			for _, reg := range regs {
				select {
				case in <- reg:
					total++
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		return nil
	}()

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

	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return 130
		}
		_, _ = fmt.Fprintln(stderr, perr)
		return 3
	}
	if total == 0 {
		return 1
	}
	return 0
}
