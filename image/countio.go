package image

import (
	"io"
)

// CountWriter counts bytes written through it to an optional inner writer
type CountWriter struct {
	w io.Writer
	n int
}

// NewCountWriter ...
func NewCountWriter(w io.Writer) *CountWriter {
	return &CountWriter{w: w}
}

// Write implements for io.Writer
func (cw *CountWriter) Write(p []byte) (n int, err error) {
	if cw.w == nil {
		n = len(p)
	} else {
		n, err = cw.w.Write(p)
	}
	cw.n += n
	return
}

// Len return count value
func (cw *CountWriter) Len() int {
	return cw.n
}
