// Package webapp builds the web frontend, publishes it to S3 and reports the
// CloudFront domain it is served from.
package webapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/webship/webship/internal/config"
	"github.com/webship/webship/internal/constants"
	apperrors "github.com/webship/webship/internal/errors"
	"github.com/webship/webship/internal/logger"
	"github.com/webship/webship/internal/providers/aws/s3sync"
	"github.com/webship/webship/internal/providers/aws/stack"
	"github.com/webship/webship/internal/runner"
)

// CommandRunner runs an external command to completion.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (*runner.Result, error)
}

// StackReader reads the outputs of a deployed stack.
type StackReader interface {
	GetStackOutputs(ctx context.Context, stackName string) ([]stack.Output, error)
}

// BucketSyncer mirrors a local directory into a bucket.
type BucketSyncer interface {
	Sync(ctx context.Context, localDir, bucket string) (*s3sync.Summary, error)
}

// Sink receives the progress lines shown to the user.
type Sink interface {
	Log(message string)
}

// Dependencies are the collaborators of a Service. Stacks and Syncer may be
// nil when the invoked operations do not need them.
type Dependencies struct {
	Runner CommandRunner
	Stacks StackReader
	Syncer BucketSyncer
	Sink   Sink
	Logger *slog.Logger
}

// Service implements the web app operations.
type Service struct {
	cfg    *config.Config
	runner CommandRunner
	stacks StackReader
	syncer BucketSyncer
	sink   Sink
	logger *slog.Logger
}

// NewService creates a Service for the given configuration.
func NewService(cfg *config.Config, deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	sink := deps.Sink
	if sink == nil {
		sink = runner.SinkFunc(func(message string) { log.Info(message) })
	}
	return &Service{
		cfg:    cfg,
		runner: deps.Runner,
		stacks: deps.Stacks,
		syncer: deps.Syncer,
		sink:   sink,
		logger: log,
	}
}

// Build runs "<scriptRunner> run <buildCommand>".
func (s *Service) Build(ctx context.Context) error {
	if err := s.cfg.Require(constants.ConfigKeyBuildCommand); err != nil {
		s.sink.Log(constants.ErrorLinePrefix + apperrors.GetErrorMessage(err))
		return err
	}

	s.sink.Log("Running build command...")

	result, err := s.runner.Run(ctx, s.cfg.Custom.ScriptRunner, "run", s.cfg.Custom.BuildCommand)
	if err != nil {
		return err
	}
	if result.Failed() {
		return apperrors.ErrBuildFailed(failureCause(result))
	}

	s.sink.Log("Build successful!")
	return nil
}

// Publish syncs the build directory to the bucket root, deleting objects
// that no longer exist locally.
func (s *Service) Publish(ctx context.Context) error {
	if err := s.cfg.Require(constants.ConfigKeyS3Bucket, constants.ConfigKeyAppBuildPath); err != nil {
		s.sink.Log(constants.ErrorLinePrefix + apperrors.GetErrorMessage(err))
		return err
	}

	bucket := s.cfg.Custom.S3Bucket
	s.sink.Log(fmt.Sprintf("Publishing webapp to '%s'...", bucket))

	var err error
	if s.cfg.Custom.PublishMode == constants.PublishModeSDK {
		err = s.publishWithSDK(ctx, bucket)
	} else {
		err = s.publishWithCLI(ctx, bucket)
	}
	if err != nil {
		return err
	}

	s.sink.Log("Successfully published to the S3 bucket")
	return nil
}

// SyncArgs returns the cloud CLI arguments that mirror localPath into bucket.
func SyncArgs(localPath, bucket string) []string {
	return []string{"s3", "sync", localPath, constants.S3URIScheme + bucket + "/", "--delete"}
}

func (s *Service) publishWithCLI(ctx context.Context, bucket string) error {
	result, err := s.runner.Run(ctx, s.cfg.Custom.CloudCLI, SyncArgs(s.cfg.Custom.AppBuildPath, bucket)...)
	if err != nil {
		return err
	}
	if result.Failed() {
		return apperrors.ErrPublishFailed(failureCause(result))
	}
	return nil
}

func (s *Service) publishWithSDK(ctx context.Context, bucket string) error {
	if s.syncer == nil {
		return apperrors.ErrConfigInvalid("publish mode sdk requires an S3 client", nil)
	}

	summary, err := s.syncer.Sync(ctx, s.cfg.ResolvePath(s.cfg.Custom.AppBuildPath), bucket)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return apperrors.ErrTimeout("publish interrupted", ctxErr)
		}
		s.sink.Log(constants.ErrorLinePrefix + err.Error())
		return apperrors.ErrPublishFailed(err)
	}

	logger.DeriveRunLogger(ctx, s.logger).Debug("sync finished", "context", map[string]any{
		"bucket":   bucket,
		"uploaded": summary.Uploaded,
		"deleted":  summary.Deleted,
		"skipped":  summary.Skipped,
	})
	return nil
}

// Deploy builds and then publishes. A failed build skips the publish.
func (s *Service) Deploy(ctx context.Context) error {
	if err := s.Build(ctx); err != nil {
		return err
	}
	return s.Publish(ctx)
}

// StackName returns the name of the stack the web app is deployed with.
func (s *Service) StackName() string {
	return stack.Name(s.cfg.Service, s.cfg.Provider.Stage, s.cfg.Provider.StackName)
}

// DomainInfo returns the CloudFront domain exported by the stack.
func (s *Service) DomainInfo(ctx context.Context) (string, error) {
	if s.cfg.Provider.StackName == "" {
		if err := s.cfg.Require(constants.ConfigKeyService); err != nil {
			return "", err
		}
	}
	if s.stacks == nil {
		return "", apperrors.ErrConfigInvalid("domain lookup requires a CloudFormation client", nil)
	}

	stackName := s.StackName()
	outputs, err := s.stacks.GetStackOutputs(ctx, stackName)
	if err != nil {
		return "", apperrors.ErrAPIQueryFailed(fmt.Sprintf("failed to describe stack %s", stackName), err)
	}

	domain, _ := stack.Lookup(outputs, constants.DistributionOutputKey)
	if domain == "" {
		s.sink.Log("Web App Domain: Not Found")
		return "", apperrors.ErrDomainNotFound(nil)
	}

	s.sink.Log("Web App Domain: " + domain)
	return domain, nil
}

// AutoDeploy runs Deploy when custom.oneCmdDeploy is enabled.
func (s *Service) AutoDeploy(ctx context.Context) error {
	if !s.cfg.Custom.OneCmdDeploy {
		logger.DeriveRunLogger(ctx, s.logger).Debug("oneCmdDeploy disabled, skipping webapp deployment")
		return nil
	}

	s.sink.Log("Initiating webapp deployment...")
	return s.Deploy(ctx)
}

// failureCause describes why a run was classified as failed.
func failureCause(result *runner.Result) error {
	if text := strings.TrimSpace(result.ErrorText); text != "" {
		return errors.New(text)
	}
	return fmt.Errorf("%s exited with code %d", result.Command, result.ExitCode)
}
