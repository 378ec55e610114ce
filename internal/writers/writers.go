// Package writers spins up per-format writer goroutines so producers can
// stream rows over a channel and collect a single terminal error.
package writers

import (
	"fmt"
	"io"

	"hmmtally/internal/match"
	"hmmtally/internal/output"
	"hmmtally/internal/regions"
)

// StartRegionWriter streams interval rows. Text output is streamed row by
// row; JSON is buffered and encoded once on channel close.
func StartRegionWriter(out io.Writer, format string, header bool, bufSize int) (chan<- regions.Region, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan regions.Region, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		switch format {
		case output.FormatJSON:
			var buf []regions.Region
			for r := range in {
				buf = append(buf, r)
			}
			err = output.WriteRegionsJSON(out, buf)

		case output.FormatText:
			if header {
				_, err = fmt.Fprintln(out, output.BEDHeader)
			}
			for r := range in {
				if err != nil {
					continue
				}
				_, err = fmt.Fprintln(out, regions.FormatBED(r))
			}

		default:
			for range in {
			}
			err = fmt.Errorf("unsupported output %q", format)
		}
		errCh <- err
	}()

	return in, errCh
}

// StartMatchWriter streams match candidates, already ranked per query.
func StartMatchWriter(out io.Writer, format string, header bool, bufSize int) (chan<- match.Candidate, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan match.Candidate, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		switch format {
		case output.FormatJSON:
			var buf []match.Candidate
			for c := range in {
				buf = append(buf, c)
			}
			err = output.WriteMatchJSON(out, buf)

		case output.FormatText:
			if header {
				_, err = fmt.Fprintln(out, output.MatchTSVHeader)
			}
			for c := range in {
				if err != nil {
					continue
				}
				_, err = fmt.Fprintln(out, output.FormatMatchRowTSV(c))
			}

		default:
			for range in {
			}
			err = fmt.Errorf("unsupported output %q", format)
		}
		errCh <- err
	}()

	return in, errCh
}
