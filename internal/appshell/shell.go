// Package appshell is the shared process bootstrap for the hmmtally
// binaries: it wires SIGINT/SIGTERM into a context and maps cancellation
// onto the conventional 130 exit code.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// RunFunc is the signature every tool's RunContext satisfies.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Main runs one tool to completion and exits the process.
func Main(run RunFunc) {
	os.Exit(Invoke(run, os.Args[1:], os.Stdout, os.Stderr))
}

// Invoke runs a tool under a signal-aware context and returns its exit
// code. Split out from Main so tests can drive it without os.Exit.
func Invoke(run RunFunc, argv []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, argv, stdout, stderr)
	if code == 0 && ctx.Err() != nil {
		// The tool finished while a signal was pending; report the
		// interruption rather than success.
		code = 130
	}
	return code
}
