// Package gcio holds small io helpers shared by the gc-vm command-line
// front ends.
package gcio

import (
	"io"

	"github.com/pkg/errors"
)

// ErrWriter wraps an io.Writer and latches the first write error it
// sees: once Err is set, every subsequent Write is a no-op that returns
// it again. This lets cmd/vm write a whole run's worth of PRINT output
// without checking an error after every call, then check Err once at
// the end.
type ErrWriter struct {
	w   io.Writer
	Err error
}

func (w *ErrWriter) Write(p []byte) (n int, err error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err = w.w.Write(p)
	if err != nil {
		w.Err = errors.Wrap(err, "write failed")
	}
	return n, w.Err
}

// NewErrWriter wraps w in an ErrWriter.
func NewErrWriter(w io.Writer) *ErrWriter {
	return &ErrWriter{w: w}
}
