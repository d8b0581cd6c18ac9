package runner

import (
	"bytes"
	"strings"
)

// lineWriter splits a byte stream into lines. exec.Cmd drives each writer
// from a single goroutine, so it needs no locking of its own.
type lineWriter struct {
	buf  []byte
	emit func(line string)
	// raw, when set, sees every chunk before it is split.
	raw func(p []byte)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if w.raw != nil {
		w.raw(p)
	}

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(strings.TrimSuffix(string(w.buf[:i]), "\r"))
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

// flush emits a trailing line that had no newline.
func (w *lineWriter) flush() {
	if len(w.buf) == 0 {
		return
	}
	w.emit(strings.TrimSuffix(string(w.buf), "\r"))
	w.buf = nil
}
