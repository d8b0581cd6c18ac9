// Package core provides the built-in deploy and info commands that the web
// app lifecycle hooks attach to.
package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/webship/webship/internal/config"
	"github.com/webship/webship/internal/constants"
	apperrors "github.com/webship/webship/internal/errors"
	"github.com/webship/webship/internal/lifecycle"
	"github.com/webship/webship/internal/logger"
	"github.com/webship/webship/internal/providers/aws/stack"
)

// Command names provided by the core.
const (
	CommandDeploy = "deploy"
	CommandInfo   = "info"
)

// StackManager deploys stacks and reads their outputs.
type StackManager interface {
	Deploy(ctx context.Context, opts *stack.DeployOptions) (*stack.DeployResult, error)
	GetStackOutputs(ctx context.Context, stackName string) ([]stack.Output, error)
}

// AccountResolver returns the AWS account the credentials belong to.
type AccountResolver func(ctx context.Context) (string, error)

// Reporter receives user-facing results of the core commands.
type Reporter interface {
	Warning(message string)
	StackDeployed(result *stack.DeployResult)
	StackOutputs(stackName string, outputs []stack.Output)
}

// Service implements the core commands.
type Service struct {
	cfg      *config.Config
	stacks   StackManager
	account  AccountResolver
	reporter Reporter
	logger   *slog.Logger
}

// NewService creates a core Service. account may be nil.
func NewService(
	cfg *config.Config, stacks StackManager, account AccountResolver, reporter Reporter, log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{cfg: cfg, stacks: stacks, account: account, reporter: reporter, logger: log}
}

// StackName returns the name of the service stack.
func (s *Service) StackName() string {
	return stack.Name(s.cfg.Service, s.cfg.Provider.Stage, s.cfg.Provider.StackName)
}

// Deploy creates or updates the service stack from custom.stackTemplate.
// Without a template it only warns, so the web app hooks can still run.
func (s *Service) Deploy(ctx context.Context) error {
	if s.cfg.Custom.StackTemplate == "" {
		s.reporter.Warning("No stackTemplate configured, skipping infrastructure deployment")
		return nil
	}
	if err := s.requireStackName(); err != nil {
		return err
	}

	log := logger.DeriveRunLogger(ctx, s.logger)
	if s.account != nil {
		if accountID, err := s.account(ctx); err != nil {
			log.Debug("could not resolve AWS account", "error", err)
		} else {
			log.Debug("deploying with AWS account", "context", map[string]string{
				"account_id": accountID,
				"region":     s.cfg.Provider.Region,
			})
		}
	}

	stackName := s.StackName()
	result, err := s.stacks.Deploy(ctx, &stack.DeployOptions{
		StackName:  stackName,
		Template:   s.cfg.Custom.StackTemplate,
		Parameters: s.cfg.Custom.StackParameters,
		Tags: map[string]string{
			"Service": s.cfg.Service,
			"Stage":   s.cfg.Provider.Stage,
		},
		Wait: s.cfg.Custom.StackWait,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return apperrors.ErrTimeout(fmt.Sprintf("deployment of %s interrupted", stackName), err)
		}
		return apperrors.ErrStackOperationFailed(fmt.Sprintf("failed to deploy stack %s", stackName), err)
	}

	s.reporter.StackDeployed(result)
	return nil
}

// Info prints every output of the service stack.
func (s *Service) Info(ctx context.Context) error {
	if err := s.requireStackName(); err != nil {
		return err
	}

	stackName := s.StackName()
	outputs, err := s.stacks.GetStackOutputs(ctx, stackName)
	if err != nil {
		return apperrors.ErrAPIQueryFailed(fmt.Sprintf("failed to describe stack %s", stackName), err)
	}

	s.reporter.StackOutputs(stackName, outputs)
	return nil
}

func (s *Service) requireStackName() error {
	if s.cfg.Provider.StackName != "" {
		return nil
	}
	return s.cfg.Require(constants.ConfigKeyService)
}

// Commands returns the core commands.
func (s *Service) Commands() []lifecycle.Command {
	return []lifecycle.Command{
		{Name: CommandDeploy, Usage: "Deploy the service stack", LifecycleEvents: []string{"deploy"}},
		{Name: CommandInfo, Usage: "Display information about the deployed service", LifecycleEvents: []string{"info"}},
	}
}

// Hooks returns the core lifecycle hooks.
func (s *Service) Hooks() map[string]lifecycle.Hook {
	return map[string]lifecycle.Hook{
		"deploy:deploy": s.Deploy,
		"info:info":     s.Info,
	}
}
