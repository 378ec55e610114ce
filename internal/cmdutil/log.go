package cmdutil

import (
	"fmt"
	"io"
)

func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
}

// Skippedf reports a skipped-line/row counter for an input, staying silent
// when nothing was skipped.
func Skippedf(dst io.Writer, quiet bool, n int, what, source string) {
	if n == 0 {
		return
	}
	Warnf(dst, quiet, "skipped %d malformed %s in %s", n, what, source)
}
