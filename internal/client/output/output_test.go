package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	origStdout, origStderr, origNoColor := Stdout, Stderr, color.NoColor
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	Stdout, Stderr = stdout, stderr
	color.NoColor = true
	t.Cleanup(func() {
		Stdout, Stderr, color.NoColor = origStdout, origStderr, origNoColor
	})
	return stdout, stderr
}

func TestStatusLines(t *testing.T) {
	_, stderr := captureOutput(t)

	Successf("Published to %s", "my-bucket")
	Infof("Deploying %s", "stack")
	Warningf("careful")
	Errorf("Unable to build webapp")

	assert.Equal(t,
		"✓ Published to my-bucket\n→ Deploying stack\n⚠ careful\n✗ Unable to build webapp\n",
		stderr.String())
}

func TestHeader(t *testing.T) {
	_, stderr := captureOutput(t)

	Header("webship deploy")

	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "webship deploy", lines[0])
	assert.Equal(t, strings.Repeat("━", 50), lines[1])
}

func TestKeyValue(t *testing.T) {
	stdout, _ := captureOutput(t)

	KeyValue("Stack", "my-app-dev")
	KeyValue("Domain", "d111.cloudfront.net")

	assert.Equal(t, "  Stack: my-app-dev\n  Domain: d111.cloudfront.net\n", stdout.String())
}

func TestTable(t *testing.T) {
	stdout, _ := captureOutput(t)

	Table([]string{"Key", "Value"}, [][]string{
		{"WebAppCloudFrontDistributionOutput", "d111.cloudfront.net"},
		{"Bucket", "my-bucket", "ignored"},
	})

	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Key"+strings.Repeat(" ", 31)+"  Value"))
	assert.True(t, strings.HasPrefix(lines[3], "Bucket"+strings.Repeat(" ", 28)+"  my-bucket"))
	assert.NotContains(t, stdout.String(), "ignored")
}

func TestTable_NoHeaders(t *testing.T) {
	stdout, _ := captureOutput(t)
	Table(nil, [][]string{{"a"}})
	assert.Empty(t, stdout.String())
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{12 * time.Second, "12s"},
		{3*time.Minute + 4*time.Second, "3m 4s"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.in))
	}
}

func TestStatusBadge(t *testing.T) {
	captureOutput(t)
	color.NoColor = false

	tests := []struct {
		status string
		colour string
	}{
		{"CREATE_COMPLETE", "\x1b[32m"},
		{"UPDATE_COMPLETE", "\x1b[32m"},
		{"CREATE_IN_PROGRESS", "\x1b[33m"},
		{"NO_CHANGES", "\x1b[33m"},
		{"CREATE_FAILED", "\x1b[31m"},
		{"UPDATE_ROLLBACK_COMPLETE", "\x1b[31m"},
		{"ROLLBACK_COMPLETE", "\x1b[31m"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			badge := StatusBadge(tt.status)
			assert.True(t, strings.HasPrefix(badge, tt.colour), "%q", badge)
			assert.Contains(t, badge, "● "+tt.status)
		})
	}

	t.Run("unknown status is plain", func(t *testing.T) {
		assert.Equal(t, "● REVIEW_IN_PROGRESS_X", StatusBadge("REVIEW_IN_PROGRESS_X"))
	})

	t.Run("no colour", func(t *testing.T) {
		color.NoColor = true
		assert.Equal(t, "● CREATE_COMPLETE", StatusBadge("CREATE_COMPLETE"))
	})
}

func TestSink(t *testing.T) {
	_, stderr := captureOutput(t)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Sink{}.Log("Build successful!")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(stderr.String(), "\n"), "\n")
	assert.Len(t, lines, 20)
	for _, line := range lines {
		assert.Equal(t, "webship: Build successful!", line)
	}
}

func TestVisibleWidth(t *testing.T) {
	assert.Equal(t, 5, visibleWidth("\x1b[32mhello\x1b[0m"))
	assert.Equal(t, 1, visibleWidth("✓"))
}
