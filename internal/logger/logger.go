// Package logger provides structured logging utilities for webship.
// It wires log/slog to a colour handler for terminals and a JSON handler for CI.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/webship/webship/internal/constants"
)

// Output is the writer log records go to (can be overridden for testing).
var Output io.Writer = os.Stderr

// Initialize sets up the global slog logger based on the environment
func Initialize(env constants.Environment, level slog.Level) *slog.Logger {
	var handler slog.Handler

	if env == constants.CI {
		handler = slog.NewJSONHandler(Output, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(Output, &tint.Options{
			Level:       level,
			TimeFormat:  time.TimeOnly,
			NoColor:     noColor(Output),
			ReplaceAttr: replaceAttrForDev,
		})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("logger initialized", "env", env, "level", level)

	return logger
}

func noColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}

// replaceAttrForDev flattens "context" style map attributes into a single
// key=value string so they stay readable in the terminal handler.
func replaceAttrForDev(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindAny {
		return a
	}
	switch a.Value.Any().(type) {
	case map[string]string, map[string]any:
		return slog.String(a.Key, flattenMapAttr(a.Key, a.Value.Any()))
	}
	return a
}

// flattenMapAttr renders nested maps as sorted prefix.key=value pairs.
func flattenMapAttr(prefix string, value any) string {
	var pairs []string
	join := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}

	switch m := value.(type) {
	case map[string]string:
		for k, v := range m {
			pairs = append(pairs, join(k)+"="+v)
		}
	case map[string]any:
		for k, v := range m {
			switch v.(type) {
			case map[string]string, map[string]any:
				pairs = append(pairs, flattenMapAttr(join(k), v))
			default:
				pairs = append(pairs, fmt.Sprintf("%s=%v", join(k), v))
			}
		}
	default:
		return fmt.Sprintf("%v", value)
	}

	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}
