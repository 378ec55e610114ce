// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"
	"fmt"

	"hmmtally/internal/output"
)

// Common holds CLI fields shared by the hmmtally tools.
type Common struct {
	Output  string // text|json
	Header  bool   // true unless --no-header
	Sort    bool
	Quiet   bool
	Threads int
	Version bool
}

// SliceValue appends each occurrence to a *[]string (repeatable flags).
type SliceValue struct{ Dst *[]string }

func (s *SliceValue) String() string {
	if s.Dst == nil {
		return ""
	}
	return fmt.Sprint(*s.Dst)
}
func (s *SliceValue) Set(v string) error {
	*s.Dst = append(*s.Dst, v)
	return nil
}

// Register wires the shared flags onto fs and returns a pointer to the
// "no-header" bool; callers set Common.Header = !noHeader after parsing.
func Register(fs *flag.FlagSet, c *Common) *bool {
	fs.StringVar(&c.Output, "output", output.FormatText, "output format: text | json [text]")
	noHeader := new(bool)
	fs.BoolVar(noHeader, "no-header", false, "suppress header line in text/TSV [false]")
	fs.BoolVar(&c.Sort, "sort", false, "sort outputs deterministically [false]")
	fs.BoolVar(&c.Quiet, "quiet", false, "suppress warnings and progress [false]")
	fs.IntVar(&c.Threads, "threads", 0, "number of worker threads (0 = all CPUs) [0]")
	fs.BoolVar(&c.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")
	return noHeader
}

// Validate checks the shared fields.
func (c *Common) Validate() error {
	if !output.ValidFormat(c.Output) {
		return fmt.Errorf("invalid --output %q", c.Output)
	}
	if c.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	return nil
}
