package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineWriter(t *testing.T) {
	var lines []string
	var raw []byte
	w := &lineWriter{
		emit: func(line string) { lines = append(lines, line) },
		raw:  func(p []byte) { raw = append(raw, p...) },
	}

	n, err := w.Write([]byte("first\r\nsec"))
	assert.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, []string{"first"}, lines)

	_, _ = w.Write([]byte("ond\n\nthird"))
	assert.Equal(t, []string{"first", "second", ""}, lines)

	w.flush()
	assert.Equal(t, []string{"first", "second", "", "third"}, lines)
	assert.Equal(t, "first\r\nsecond\n\nthird", string(raw))

	w.flush()
	assert.Len(t, lines, 4)
}

func TestLineWriter_EmptyWrite(t *testing.T) {
	called := false
	w := &lineWriter{emit: func(string) {}, raw: func([]byte) { called = true }}

	n, err := w.Write(nil)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, called)
}
