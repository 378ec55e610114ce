// Package exttool runs the external collaborators (translator, profile
// search, sub-sequence extractor) as black-box processes.
package exttool

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Exec runs cmd, folding captured stderr into the returned error so a
// failing batch reports the underlying tool diagnostic, not just an exit
// status.
func Exec(cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		full := strings.Join(cmd.Args, " ")
		if stderr.Len() > 0 {
			return errors.Wrapf(err, "running %q: %s", full, strings.TrimSpace(stderr.String()))
		}
		return errors.Wrapf(err, "running %q", full)
	}
	return nil
}
