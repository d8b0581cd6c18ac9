package cmd

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/webship/webship/internal/client/output"
	"github.com/webship/webship/internal/logger"
)

// Dispatcher runs a lifecycle command by name.
type Dispatcher interface {
	Run(ctx context.Context, name string) error
}

// LifecycleService runs lifecycle commands and reports how they went.
type LifecycleService struct {
	dispatcher Dispatcher
	output     OutputInterface
}

// NewLifecycleService creates a new LifecycleService with the provided dependencies
func NewLifecycleService(dispatcher Dispatcher, outputter OutputInterface) *LifecycleService {
	return &LifecycleService{dispatcher: dispatcher, output: outputter}
}

// Execute runs command name through the dispatcher.
func (s *LifecycleService) Execute(ctx context.Context, name string) error {
	start := time.Now()
	if err := s.dispatcher.Run(ctx, name); err != nil {
		return err
	}
	s.output.Successf("%s completed in %s", name, output.Duration(time.Since(start)))
	return nil
}

func init() {
	for _, c := range commandCatalog() {
		rootCmd.AddCommand(newLifecycleCmd(c.Name, c.Usage))
	}
}

func newLifecycleCmd(name, usage string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: usage,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfigFromContext(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			log := logger.DeriveRunLogger(ctx, slog.Default())
			out := NewOutputWrapper()

			registry, err := buildRegistry(ctx, name, cfg, out, log)
			if err != nil {
				return err
			}
			return NewLifecycleService(registry, out).Execute(ctx, name)
		},
	}
	if alias := kebabCase(name); alias != name {
		cmd.Aliases = []string{alias}
	}
	return cmd
}

// kebabCase turns "publishWebapp" into "publish-webapp".
func kebabCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
