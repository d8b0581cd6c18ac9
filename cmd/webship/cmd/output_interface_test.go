package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/webship/webship/internal/client/output"
)

func TestOutputWrapperImplementsInterface(_ *testing.T) {
	var _ OutputInterface = &outputWrapper{}
	_ = NewOutputWrapper()
}

func TestOutputWrapper_Bold(t *testing.T) {
	assert.Contains(t, NewOutputWrapper().Bold("test"), "test")
}

func TestOutputWrapper_StatusBadge(t *testing.T) {
	assert.Contains(t, NewOutputWrapper().StatusBadge("CREATE_COMPLETE"), "● CREATE_COMPLETE")
}

func TestOutputWrapper_Writes(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	origStdout, origStderr := output.Stdout, output.Stderr
	output.Stdout, output.Stderr = stdout, stderr
	defer func() { output.Stdout, output.Stderr = origStdout, origStderr }()

	w := NewOutputWrapper()
	w.Warningf("careful %s", "now")
	w.KeyValue("Stack", "my-app-dev")
	w.Println("plain")

	assert.Contains(t, stderr.String(), "careful now")
	assert.Contains(t, stdout.String(), "Stack")
	assert.Contains(t, stdout.String(), "my-app-dev")
	assert.Contains(t, stdout.String(), "plain")
}
