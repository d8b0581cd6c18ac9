// Package output provides formatted terminal output utilities.
// It includes colors, status lines, tables and the line sink used for
// build and publish logs.
package output

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/webship/webship/internal/constants"
)

var (
	// Colors and styles
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	gray   = color.New(color.FgHiBlack)
	bold   = color.New(color.Bold)

	// Stdout is the output writer for normal output (can be overridden for testing).
	Stdout io.Writer = os.Stdout
	// Stderr is the output writer for error output (can be overridden for testing).
	Stderr io.Writer = os.Stderr

	// Matches ANSI escape sequences used for colors/styles
	ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

	sinkMu sync.Mutex
)

// Disable colors if not TTY or NO_COLOR is set
func init() {
	if os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stdout) {
		color.NoColor = true
	}
}

// visibleWidth returns the number of visible characters, ignoring ANSI escape codes
func visibleWidth(s string) int {
	clean := ansiRegexp.ReplaceAllString(s, "")
	return utf8.RuneCountInString(clean)
}

// Successf prints a success message with a checkmark (to stderr)
// Example: ✓ Published to my-bucket
func Successf(format string, a ...any) {
	_, _ = fmt.Fprintf(Stderr, green.Sprint("✓")+" "+format+"\n", a...)
}

// Infof prints an informational message with an arrow (to stderr)
// Example: → Deploying stack my-app-dev...
func Infof(format string, a ...any) {
	_, _ = fmt.Fprintf(Stderr, cyan.Sprint("→")+" "+format+"\n", a...)
}

// Warningf prints a warning message with a warning symbol (to stderr)
// Example: ⚠ No stack template configured
func Warningf(format string, a ...any) {
	_, _ = fmt.Fprintf(Stderr, yellow.Sprint("⚠")+" "+format+"\n", a...)
}

// Errorf prints an error message with an X symbol (to stderr)
// Example: ✗ Unable to build webapp
func Errorf(format string, a ...any) {
	_, _ = fmt.Fprintf(Stderr, red.Sprint("✗")+" "+format+"\n", a...)
}

// Header prints a section header with a separator line (to stderr)
// Example:
// 🚀 webship deploy
// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
func Header(text string) {
	_, _ = fmt.Fprintln(Stderr)
	_, _ = fmt.Fprintln(Stderr, bold.Sprint(text))
	_, _ = fmt.Fprintln(Stderr, gray.Sprint(strings.Repeat("━", constants.HeaderSeparatorLength)))
}

// KeyValue prints a key-value pair with indentation
// Example:   Stack name: my-app-dev
func KeyValue(key, value string) {
	_, _ = fmt.Fprintf(Stdout, "  %s: %s\n", gray.Sprint(key), value)
}

// Blank prints a blank line
func Blank() {
	_, _ = fmt.Fprintln(Stdout)
}

// Println prints a plain line without any formatting
func Println(a ...any) {
	_, _ = fmt.Fprintln(Stdout, a...)
}

// Bold prints text in bold
func Bold(text string) string {
	return bold.Sprint(text)
}

// Table prints a simple table with headers
// Example:
// Key                                  Value
// ───                                  ─────
// WebAppCloudFrontDistributionOutput   d111.cloudfront.net
func Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = visibleWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], visibleWidth(cell))
			}
		}
	}

	for i, h := range headers {
		pad := max(widths[i]-visibleWidth(h), 0)
		_, _ = fmt.Fprint(Stdout, bold.Sprint(h)+strings.Repeat(" ", pad)+"  ")
	}
	_, _ = fmt.Fprintln(Stdout)

	for i := range headers {
		_, _ = fmt.Fprintf(Stdout, "%s  ", gray.Sprint(strings.Repeat("─", widths[i])))
	}
	_, _ = fmt.Fprintln(Stdout)

	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				continue
			}
			pad := max(widths[i]-visibleWidth(cell), 0)
			_, _ = fmt.Fprint(Stdout, cell+strings.Repeat(" ", pad)+"  ")
		}
		_, _ = fmt.Fprintln(Stdout)
	}
}

// StatusBadge colours a CloudFormation stack status: green when complete,
// red for failures and rollbacks, yellow while still moving.
func StatusBadge(status string) string {
	badge := "● " + status
	upper := strings.ToUpper(status)
	switch {
	case strings.Contains(upper, "FAILED"), strings.Contains(upper, "ROLLBACK"):
		return red.Sprint(badge)
	case strings.HasSuffix(upper, "_COMPLETE"):
		return green.Sprint(badge)
	case strings.HasSuffix(upper, "IN_PROGRESS"), upper == "NO_CHANGES":
		return yellow.Sprint(badge)
	default:
		return badge
	}
}

// Duration formats a duration in a human-readable way
func Duration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % constants.SecondsPerMinute
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % constants.MinutesPerHour
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// Sink writes build and publish log lines to stderr as "webship: <message>".
type Sink struct{}

// Log prints one line. Concurrent calls do not interleave.
func (Sink) Log(message string) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	_, _ = fmt.Fprintf(Stderr, "%s: %s\n", constants.ProjectName, message)
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}
