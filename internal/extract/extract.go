// Package extract turns extraction intervals into trimmed sub-sequences,
// keyed by target id. Extraction proper is delegated to an external tool;
// an in-process slicer covers the no-tool path and tests.
package extract

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"

	"hmmtally/internal/common"
	"hmmtally/internal/exttool"
	"hmmtally/internal/fastax"
	"hmmtally/internal/regions"
)

// Extractor returns the trimmed sequence per target id for the given
// intervals over the sequences in fastaPath. Targets absent from the FASTA
// are simply missing from the result, not an error.
type Extractor interface {
	Extract(ctx context.Context, fastaPath string, regs []regions.Region) (map[string]string, error)
}

// Slice extracts in process by slicing FASTA records directly. It is the
// default when no external extractor is configured.
type Slice struct{}

func (Slice) Extract(_ context.Context, fastaPath string, regs []regions.Region) (map[string]string, error) {
	recs, err := fastax.ReadFile(fastaPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", fastaPath)
	}
	byID := make(map[string][]byte, len(recs))
	for _, rec := range recs {
		byID[rec.ID] = rec.Seq
	}
	out := make(map[string]string, len(regs))
	for _, r := range regs {
		seq, ok := byID[r.Target]
		if !ok {
			continue
		}
		start, end := r.Start, r.End
		if start < 0 {
			start = 0
		}
		if end > len(seq) {
			end = len(seq)
		}
		if start >= end {
			continue
		}
		out[r.Target] = string(seq[start:end])
	}
	return out, nil
}

// Seqtk shells out to `seqtk subseq` with a temporary BED file and reads
// the trimmed FASTA back. Extracted record ids come back as
// "target:start-end"; the range suffix is stripped to recover the key.
type Seqtk struct {
	Bin     string // seqtk binary, e.g. "seqtk"
	TempDir string // "" = system default
	KeepTmp bool
}

func (s Seqtk) Extract(ctx context.Context, fastaPath string, regs []regions.Region) (map[string]string, error) {
	bed, err := os.CreateTemp(s.TempDir, "hmmtally-regions-*.bed")
	if err != nil {
		return nil, errors.Wrap(err, "creating temp BED")
	}
	bedPath := bed.Name()
	if !s.KeepTmp {
		defer func() { _ = os.Remove(bedPath) }()
	}
	werr := regions.WriteBED(bed, regs)
	cerr := bed.Close()
	if werr != nil {
		return nil, errors.Wrapf(werr, "writing %s", bedPath)
	}
	if cerr != nil {
		return nil, cerr
	}

	cmd := exec.CommandContext(ctx, s.Bin, "subseq", fastaPath, bedPath)
	outFile, err := os.CreateTemp(s.TempDir, "hmmtally-trimmed-*.fa")
	if err != nil {
		return nil, errors.Wrap(err, "creating temp FASTA")
	}
	outPath := outFile.Name()
	if !s.KeepTmp {
		defer func() { _ = os.Remove(outPath) }()
	}
	cmd.Stdout = outFile
	runErr := exttool.Exec(cmd)
	if cerr := outFile.Close(); cerr != nil && runErr == nil {
		runErr = cerr
	}
	if runErr != nil {
		return nil, errors.Wrapf(runErr, "extracting from %s", filepath.Base(fastaPath))
	}

	recs, err := fastax.ReadFile(outPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading extractor output %s", outPath)
	}
	out := make(map[string]string, len(recs))
	for _, rec := range recs {
		id, _, ok := common.SplitRangeSuffix(rec.ID)
		if !ok {
			id = rec.ID
		}
		if _, dup := out[id]; dup {
			continue
		}
		out[id] = string(rec.Seq)
	}
	return out, nil
}
