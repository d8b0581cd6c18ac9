package cmd

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/webship/webship/internal/client/output"
	"github.com/webship/webship/internal/config"
	awsconfig "github.com/webship/webship/internal/config/aws"
	"github.com/webship/webship/internal/constants"
	"github.com/webship/webship/internal/core"
	apperrors "github.com/webship/webship/internal/errors"
	"github.com/webship/webship/internal/lifecycle"
	"github.com/webship/webship/internal/providers/aws/identity"
	"github.com/webship/webship/internal/providers/aws/s3sync"
	"github.com/webship/webship/internal/providers/aws/stack"
	"github.com/webship/webship/internal/runner"
	"github.com/webship/webship/internal/webapp"
)

// needAWS reports whether running command name talks to AWS APIs directly.
// Commands that only shell out never load SDK credentials.
func needAWS(name string, cfg *config.Config) bool {
	sdkPublish := cfg.Custom.PublishMode == constants.PublishModeSDK

	switch name {
	case webapp.CommandBuildWebapp:
		return false
	case webapp.CommandPublishWebapp, webapp.CommandDeployWebapp:
		return sdkPublish
	case core.CommandDeploy:
		return cfg.Custom.StackTemplate != "" || (cfg.Custom.OneCmdDeploy && sdkPublish)
	default:
		return true
	}
}

// buildRegistry wires the core and web app services for command name.
// Core is loaded first so its deploy events fire before the web app ones.
func buildRegistry(
	ctx context.Context, name string, cfg *config.Config, out OutputInterface, log *slog.Logger,
) (*lifecycle.Registry, error) {
	sink := output.Sink{}
	deps := webapp.Dependencies{
		Runner: runner.New(sink, log, runner.Options{
			Timeout:        cfg.Custom.CommandTimeout,
			StrictExitCode: cfg.Custom.StrictExitCode,
			Dir:            cfg.ProjectDir(),
		}),
		Sink:   sink,
		Logger: log,
	}

	var (
		stacks  core.StackManager
		account core.AccountResolver
	)
	if needAWS(name, cfg) {
		awsCfg, err := awsconfig.LoadSDKConfig(ctx, cfg.Provider.Region, cfg.Provider.Profile)
		if err != nil {
			return nil, apperrors.ErrConfigInvalid("failed to load AWS configuration", err)
		}

		manager := stack.NewManagerFromConfig(awsCfg, log)
		stacks = manager
		deps.Stacks = manager

		if cfg.Custom.PublishMode == constants.PublishModeSDK {
			deps.Syncer = s3sync.NewFromConfig(awsCfg, sink, log, cfg.Custom.SyncConcurrency)
		}

		stsClient := sts.NewFromConfig(awsCfg)
		account = func(ctx context.Context) (string, error) {
			return identity.GetAccountID(ctx, stsClient, log)
		}
	}

	registry := lifecycle.NewRegistry(log)
	registry.Load(core.NewService(cfg, stacks, account, &cliReporter{out: out}, log))
	registry.Load(webapp.NewService(cfg, deps))
	return registry, nil
}

// commandCatalog lists the lifecycle commands with their merged usage text.
func commandCatalog() []lifecycle.Command {
	log := slog.New(slog.DiscardHandler)
	cfg := &config.Config{}

	registry := lifecycle.NewRegistry(log)
	registry.Load(core.NewService(cfg, nil, nil, nil, log))
	registry.Load(webapp.NewService(cfg, webapp.Dependencies{Logger: log}))
	return registry.Commands()
}
