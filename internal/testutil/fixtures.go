// Package testutil provides shared testing utilities and helpers.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/webship/webship/internal/config"
	"github.com/webship/webship/internal/constants"
)

// ConfigBuilder provides a fluent interface for building test configurations.
type ConfigBuilder struct {
	cfg *config.Config
}

// NewConfigBuilder creates a ConfigBuilder holding a complete, valid configuration.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: &config.Config{
			Service: "my-app",
			Provider: config.ProviderConfig{
				Stage:  constants.DefaultStage,
				Region: constants.DefaultRegion,
			},
			Custom: config.CustomConfig{
				BuildCommand:    "build",
				AppBuildPath:    "./dist",
				S3Bucket:        "my-bucket",
				ScriptRunner:    constants.DefaultScriptRunner,
				CloudCLI:        constants.DefaultCloudCLI,
				PublishMode:     constants.PublishModeCLI,
				SyncConcurrency: constants.DefaultSyncConcurrency,
				StackWait:       true,
			},
		},
	}
}

// WithService sets the service name.
func (b *ConfigBuilder) WithService(service string) *ConfigBuilder {
	b.cfg.Service = service
	return b
}

// WithStage sets the provider stage.
func (b *ConfigBuilder) WithStage(stage string) *ConfigBuilder {
	b.cfg.Provider.Stage = stage
	return b
}

// WithFile sets the path of the config file the configuration was read from.
func (b *ConfigBuilder) WithFile(path string) *ConfigBuilder {
	b.cfg.File = path
	return b
}

// WithStackName sets an explicit stack name.
func (b *ConfigBuilder) WithStackName(name string) *ConfigBuilder {
	b.cfg.Provider.StackName = name
	return b
}

// WithBuildCommand sets custom.buildCommand.
func (b *ConfigBuilder) WithBuildCommand(command string) *ConfigBuilder {
	b.cfg.Custom.BuildCommand = command
	return b
}

// WithAppBuildPath sets custom.appBuildPath.
func (b *ConfigBuilder) WithAppBuildPath(path string) *ConfigBuilder {
	b.cfg.Custom.AppBuildPath = path
	return b
}

// WithS3Bucket sets custom.s3Bucket.
func (b *ConfigBuilder) WithS3Bucket(bucket string) *ConfigBuilder {
	b.cfg.Custom.S3Bucket = bucket
	return b
}

// WithOneCmdDeploy sets custom.oneCmdDeploy.
func (b *ConfigBuilder) WithOneCmdDeploy(enabled bool) *ConfigBuilder {
	b.cfg.Custom.OneCmdDeploy = enabled
	return b
}

// WithPublishMode sets custom.publishMode.
func (b *ConfigBuilder) WithPublishMode(mode constants.PublishMode) *ConfigBuilder {
	b.cfg.Custom.PublishMode = mode
	return b
}

// WithStackTemplate sets custom.stackTemplate and its parameters.
func (b *ConfigBuilder) WithStackTemplate(template string, params ...string) *ConfigBuilder {
	b.cfg.Custom.StackTemplate = template
	b.cfg.Custom.StackParameters = params
	return b
}

// Build returns the constructed Config.
func (b *ConfigBuilder) Build() *config.Config {
	return b.cfg
}

// RecordingSink collects log lines. It is safe for concurrent use.
type RecordingSink struct {
	mu    sync.Mutex
	lines []string
}

// Log records one line.
func (s *RecordingSink) Log(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, message)
}

// Lines returns a copy of the recorded lines.
func (s *RecordingSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// Contains reports whether any recorded line contains substr.
func (s *RecordingSink) Contains(substr string) bool {
	for _, line := range s.Lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// TestContext creates a test context with a reasonable timeout.
// Note: The cancel function is intentionally not returned since test contexts
// are expected to be short-lived and will be cleaned up when the test completes.
func TestContext() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), constants.TestContextTimeout)
	_ = cancel // Silence unused warning - context will timeout automatically
	return ctx
}

// SilentLogger creates a logger that discards all output.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
