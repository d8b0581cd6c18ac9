package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/webship/webship/internal/errors"
	"github.com/webship/webship/internal/lifecycle"
	"github.com/webship/webship/internal/providers/aws/stack"
	"github.com/webship/webship/internal/testutil"
)

type mockStackManager struct {
	deployFunc          func(ctx context.Context, opts *stack.DeployOptions) (*stack.DeployResult, error)
	getStackOutputsFunc func(ctx context.Context, stackName string) ([]stack.Output, error)
}

func (m *mockStackManager) Deploy(ctx context.Context, opts *stack.DeployOptions) (*stack.DeployResult, error) {
	if m.deployFunc != nil {
		return m.deployFunc(ctx, opts)
	}
	return nil, errors.New("not implemented")
}

func (m *mockStackManager) GetStackOutputs(ctx context.Context, stackName string) ([]stack.Output, error) {
	if m.getStackOutputsFunc != nil {
		return m.getStackOutputsFunc(ctx, stackName)
	}
	return nil, errors.New("not implemented")
}

type recordingReporter struct {
	warnings []string
	deployed *stack.DeployResult
	listed   string
	outputs  []stack.Output
}

func (r *recordingReporter) Warning(message string) { r.warnings = append(r.warnings, message) }

func (r *recordingReporter) StackDeployed(result *stack.DeployResult) { r.deployed = result }

func (r *recordingReporter) StackOutputs(stackName string, outputs []stack.Output) {
	r.listed = stackName
	r.outputs = outputs
}

func TestDeploy_WithoutTemplateWarns(t *testing.T) {
	reporter := &recordingReporter{}
	svc := NewService(testutil.NewConfigBuilder().Build(), &mockStackManager{}, nil, reporter, testutil.SilentLogger())

	require.NoError(t, svc.Deploy(context.Background()))
	require.Len(t, reporter.warnings, 1)
	assert.Contains(t, reporter.warnings[0], "stackTemplate")
	assert.Nil(t, reporter.deployed)
}

func TestDeploy_PassesOptions(t *testing.T) {
	cfg := testutil.NewConfigBuilder().WithStackTemplate("infra.yml", "DomainName=example.com").Build()
	reporter := &recordingReporter{}
	accountCalled := false

	manager := &mockStackManager{
		deployFunc: func(_ context.Context, opts *stack.DeployOptions) (*stack.DeployResult, error) {
			assert.Equal(t, "my-app-dev", opts.StackName)
			assert.Equal(t, "infra.yml", opts.Template)
			assert.Equal(t, []string{"DomainName=example.com"}, opts.Parameters)
			assert.Equal(t, map[string]string{"Service": "my-app", "Stage": "dev"}, opts.Tags)
			assert.True(t, opts.Wait)
			return &stack.DeployResult{StackName: opts.StackName, Status: "CREATE_COMPLETE"}, nil
		},
	}
	account := func(context.Context) (string, error) {
		accountCalled = true
		return "123456789012", nil
	}

	svc := NewService(cfg, manager, account, reporter, testutil.SilentLogger())
	require.NoError(t, svc.Deploy(context.Background()))

	assert.True(t, accountCalled)
	require.NotNil(t, reporter.deployed)
	assert.Equal(t, "CREATE_COMPLETE", reporter.deployed.Status)
}

func TestDeploy_Failures(t *testing.T) {
	cfg := testutil.NewConfigBuilder().WithStackTemplate("infra.yml").Build()
	manager := &mockStackManager{
		deployFunc: func(context.Context, *stack.DeployOptions) (*stack.DeployResult, error) {
			return nil, errors.New("ROLLBACK_COMPLETE")
		},
	}
	failingAccount := func(context.Context) (string, error) { return "", errors.New("no creds") }

	svc := NewService(cfg, manager, failingAccount, &recordingReporter{}, testutil.SilentLogger())
	err := svc.Deploy(context.Background())
	testutil.AssertAppErrorCode(t, err, apperrors.ErrCodeStackOperationFailed)
	assert.Contains(t, err.Error(), "my-app-dev")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	testutil.AssertAppErrorCode(t, svc.Deploy(ctx), apperrors.ErrCodeTimeout)
}

func TestDeploy_MissingService(t *testing.T) {
	cfg := testutil.NewConfigBuilder().WithService("").WithStackTemplate("infra.yml").Build()
	svc := NewService(cfg, &mockStackManager{}, nil, &recordingReporter{}, testutil.SilentLogger())

	testutil.AssertAppErrorCode(t, svc.Deploy(context.Background()), apperrors.ErrCodeConfigMissing)
}

func TestInfo(t *testing.T) {
	outputs := []stack.Output{{Key: "WebAppCloudFrontDistributionOutput", Value: "d111.cloudfront.net"}}

	t.Run("lists outputs", func(t *testing.T) {
		reporter := &recordingReporter{}
		manager := &mockStackManager{
			getStackOutputsFunc: func(_ context.Context, stackName string) ([]stack.Output, error) {
				assert.Equal(t, "my-app-prod", stackName)
				return outputs, nil
			},
		}
		svc := NewService(testutil.NewConfigBuilder().WithStage("prod").Build(), manager, nil, reporter, nil)

		require.NoError(t, svc.Info(context.Background()))
		assert.Equal(t, "my-app-prod", reporter.listed)
		assert.Equal(t, outputs, reporter.outputs)
	})

	t.Run("query failure", func(t *testing.T) {
		manager := &mockStackManager{
			getStackOutputsFunc: func(context.Context, string) ([]stack.Output, error) {
				return nil, stack.ErrStackNotFound
			},
		}
		svc := NewService(testutil.NewConfigBuilder().Build(), manager, nil, &recordingReporter{}, nil)

		err := svc.Info(context.Background())
		testutil.AssertAppErrorCode(t, err, apperrors.ErrCodeAPIQueryFailed)
		assert.ErrorIs(t, err, stack.ErrStackNotFound)
	})
}

func TestRegistryWiring(t *testing.T) {
	reporter := &recordingReporter{}
	svc := NewService(testutil.NewConfigBuilder().Build(), &mockStackManager{}, nil, reporter, nil)

	reg := lifecycle.NewRegistry(testutil.SilentLogger())
	reg.Load(svc)

	require.NoError(t, reg.Run(context.Background(), CommandDeploy))
	assert.Len(t, reporter.warnings, 1)

	cmd, ok := reg.Command(CommandInfo)
	require.True(t, ok)
	assert.Equal(t, []string{"info"}, cmd.LifecycleEvents)
}
