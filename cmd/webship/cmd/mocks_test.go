package cmd

import (
	"context"
	"errors"
	"fmt"
)

// mockOutputInterface is a manual mock for testing
type mockOutputInterface struct {
	calls []call
}

type call struct {
	method string
	args   []any
}

func (m *mockOutputInterface) Infof(format string, a ...any) {
	m.calls = append(m.calls, call{method: "Infof", args: []any{format, a}})
}
func (m *mockOutputInterface) Errorf(format string, a ...any) {
	m.calls = append(m.calls, call{method: "Errorf", args: []any{format, a}})
}
func (m *mockOutputInterface) Successf(format string, a ...any) {
	m.calls = append(m.calls, call{method: "Successf", args: []any{format, a}})
}
func (m *mockOutputInterface) Warningf(format string, a ...any) {
	m.calls = append(m.calls, call{method: "Warningf", args: []any{format, a}})
}
func (m *mockOutputInterface) Table(headers []string, rows [][]string) {
	m.calls = append(m.calls, call{method: "Table", args: []any{headers, rows}})
}
func (m *mockOutputInterface) Blank() {
	m.calls = append(m.calls, call{method: "Blank", args: []any{}})
}
func (m *mockOutputInterface) Bold(text string) string {
	return text
}
func (m *mockOutputInterface) StatusBadge(status string) string {
	return "[" + status + "]"
}
func (m *mockOutputInterface) KeyValue(key, value string) {
	m.calls = append(m.calls, call{method: "KeyValue", args: []any{key, value}})
}
func (m *mockOutputInterface) Println(a ...any) {
	m.calls = append(m.calls, call{method: "Println", args: a})
}

// messages renders the formatted calls of method.
func (m *mockOutputInterface) messages(method string) []string {
	var out []string
	for _, c := range m.calls {
		if c.method != method || len(c.args) != 2 {
			continue
		}
		format, ok := c.args[0].(string)
		if !ok {
			continue
		}
		args, _ := c.args[1].([]any)
		out = append(out, fmt.Sprintf(format, args...))
	}
	return out
}

func (m *mockOutputInterface) find(method string) []call {
	var out []call
	for _, c := range m.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

// mockDispatcher is a manual mock for testing
type mockDispatcher struct {
	runFunc func(ctx context.Context, name string) error
}

func (m *mockDispatcher) Run(ctx context.Context, name string) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, name)
	}
	return errors.New("not implemented")
}
