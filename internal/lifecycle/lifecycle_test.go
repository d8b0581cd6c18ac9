package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/webship/webship/internal/errors"
	"github.com/webship/webship/internal/testutil"
)

type testPlugin struct {
	commands []Command
	hooks    map[string]Hook
}

func (p *testPlugin) Commands() []Command    { return p.commands }
func (p *testPlugin) Hooks() map[string]Hook { return p.hooks }

func recorder(calls *[]string, name string) Hook {
	return func(context.Context) error {
		*calls = append(*calls, name)
		return nil
	}
}

func TestRun_FiresBeforeOnAfterPerEvent(t *testing.T) {
	var calls []string
	r := NewRegistry(testutil.SilentLogger())
	r.AddCommand(Command{Name: "deploy", LifecycleEvents: []string{"deploy", "resources"}})

	r.Hook("after:deploy:resources", recorder(&calls, "after resources"))
	r.Hook("deploy:deploy", recorder(&calls, "deploy"))
	r.Hook("after:deploy:deploy", recorder(&calls, "after deploy"))
	r.Hook("before:deploy:deploy", recorder(&calls, "before deploy"))
	r.Hook("deploy:resources", recorder(&calls, "resources"))
	r.Hook("other:deploy", recorder(&calls, "never"))

	require.NoError(t, r.Run(context.Background(), "deploy"))
	assert.Equal(t, []string{"before deploy", "deploy", "after deploy", "resources", "after resources"}, calls)
}

func TestRun_HooksOnSameEventKeepBindingOrder(t *testing.T) {
	var calls []string
	r := NewRegistry(testutil.SilentLogger())
	r.AddCommand(Command{Name: "build", LifecycleEvents: []string{"build"}})
	r.Hook("build:build", recorder(&calls, "first"))
	r.Hook("build:build", recorder(&calls, "second"))

	require.NoError(t, r.Run(context.Background(), "build"))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestRun_StopsAtFirstError(t *testing.T) {
	var calls []string
	boom := errors.New("boom")

	r := NewRegistry(testutil.SilentLogger())
	r.AddCommand(Command{Name: "deployWebapp", LifecycleEvents: []string{"deploy"}})
	r.Hook("deployWebapp:deploy", func(context.Context) error { return boom })
	r.Hook("after:deployWebapp:deploy", recorder(&calls, "after"))

	err := r.Run(context.Background(), "deployWebapp")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, calls)
}

func TestRun_UnknownCommand(t *testing.T) {
	err := NewRegistry(nil).Run(context.Background(), "nope")
	require.Error(t, err)
	testutil.AssertAppErrorCode(t, err, apperrors.ErrCodeNotFound)
}

func TestRun_CancelledContext(t *testing.T) {
	var calls []string
	r := NewRegistry(testutil.SilentLogger())
	r.AddCommand(Command{Name: "info", LifecycleEvents: []string{"info"}})
	r.Hook("info:info", recorder(&calls, "info"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx, "info")
	testutil.AssertAppErrorCode(t, err, apperrors.ErrCodeTimeout)
	assert.Empty(t, calls)
}

func TestAddCommand_MergesEvents(t *testing.T) {
	r := NewRegistry(nil)
	r.AddCommand(Command{Name: "deploy", LifecycleEvents: []string{"deploy"}})
	r.AddCommand(Command{Name: "deploy", Usage: "Deploy the service", LifecycleEvents: []string{"resources", "deploy"}})
	r.AddCommand(Command{Name: "deploy", Usage: "ignored"})

	cmd, ok := r.Command("deploy")
	require.True(t, ok)
	assert.Equal(t, []string{"deploy", "resources"}, cmd.LifecycleEvents)
	assert.Equal(t, "Deploy the service", cmd.Usage)
	assert.Len(t, r.Commands(), 1)
}

func TestAddCommand_CopiesEvents(t *testing.T) {
	events := []string{"build"}
	r := NewRegistry(nil)
	r.AddCommand(Command{Name: "buildWebapp", LifecycleEvents: events})
	events[0] = "mutated"

	cmd, _ := r.Command("buildWebapp")
	assert.Equal(t, []string{"build"}, cmd.LifecycleEvents)
}

func TestLoad(t *testing.T) {
	var calls []string
	r := NewRegistry(testutil.SilentLogger())
	r.Load(&testPlugin{
		commands: []Command{
			{Name: "publishWebapp", Usage: "Publishes", LifecycleEvents: []string{"publish"}},
			{Name: "domainInfo", LifecycleEvents: []string{"domainInfo"}},
		},
		hooks: map[string]Hook{
			"publishWebapp:publish": recorder(&calls, "publish"),
			"domainInfo:domainInfo": recorder(&calls, "domain"),
		},
	})

	names := make([]string, 0)
	for _, cmd := range r.Commands() {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"publishWebapp", "domainInfo"}, names)

	require.NoError(t, r.Run(context.Background(), "publishWebapp"))
	require.NoError(t, r.Run(context.Background(), "domainInfo"))
	assert.Equal(t, []string{"publish", "domain"}, calls)
}

func TestEvents(t *testing.T) {
	r := NewRegistry(nil)
	r.AddCommand(Command{Name: "buildWebapp", LifecycleEvents: []string{"build"}})

	events, err := r.Events("buildWebapp")
	require.NoError(t, err)
	assert.Equal(t, []string{"before:buildWebapp:build", "buildWebapp:build", "after:buildWebapp:build"}, events)

	_, ok := r.Command("missing")
	assert.False(t, ok)
}
