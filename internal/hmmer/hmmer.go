// Package hmmer drives the external translation and profile-search
// binaries. Both are black boxes: the translator must emit one record per
// reading frame with a "_frame=N" id marker, and the search must write the
// documented per-domain table format.
package hmmer

import (
	"context"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"hmmtally/internal/exttool"
)

// Translator produces a six-frame protein translation of a nucleotide
// FASTA file.
type Translator struct {
	Bin string // e.g. "transeq"
}

// SixFrame writes the translation of inPath to outPath.
func (t Translator) SixFrame(ctx context.Context, inPath, outPath string) error {
	cmd := exec.CommandContext(ctx, t.Bin,
		"-frame", "6",
		"-sequence", inPath,
		"-outseq", outPath,
	)
	if err := exttool.Exec(cmd); err != nil {
		return errors.Wrapf(err, "translating %s", filepath.Base(inPath))
	}
	return nil
}

// Search runs a profile model against a protein FASTA file.
type Search struct {
	Bin     string // e.g. "hmmsearch"
	Threads int    // 0 = tool default
}

// DomTable writes the per-domain table for model hmmPath over fastaPath to
// outPath. Normal tool output is discarded; only the table matters.
func (s Search) DomTable(ctx context.Context, hmmPath, fastaPath, outPath string) error {
	args := []string{"--noali", "-o", "/dev/null", "--domtblout", outPath}
	if s.Threads > 0 {
		args = append(args, "--cpu", strconv.Itoa(s.Threads))
	}
	args = append(args, hmmPath, fastaPath)
	cmd := exec.CommandContext(ctx, s.Bin, args...)
	if err := exttool.Exec(cmd); err != nil {
		return errors.Wrapf(err, "searching %s against %s",
			filepath.Base(hmmPath), filepath.Base(fastaPath))
	}
	return nil
}
