// Package stack reads and deploys the CloudFormation stack that hosts the web app.
package stack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/smithy-go"

	"github.com/webship/webship/internal/constants"
)

// ErrStackNotFound is returned when the named stack does not exist.
var ErrStackNotFound = errors.New("stack not found")

// CloudFormationClient defines the interface for CloudFormation operations.
// This interface enables mocking for unit tests.
//
//nolint:dupl // Interface signature duplicated in test mock
type CloudFormationClient interface {
	DescribeStacks(
		ctx context.Context,
		params *cloudformation.DescribeStacksInput,
		optFns ...func(*cloudformation.Options),
	) (*cloudformation.DescribeStacksOutput, error)
	DescribeStackEvents(
		ctx context.Context,
		params *cloudformation.DescribeStackEventsInput,
		optFns ...func(*cloudformation.Options),
	) (*cloudformation.DescribeStackEventsOutput, error)
	CreateStack(
		ctx context.Context,
		params *cloudformation.CreateStackInput,
		optFns ...func(*cloudformation.Options),
	) (*cloudformation.CreateStackOutput, error)
	UpdateStack(
		ctx context.Context,
		params *cloudformation.UpdateStackInput,
		optFns ...func(*cloudformation.Options),
	) (*cloudformation.UpdateStackOutput, error)
}

// Output is a single stack output.
type Output struct {
	Key         string
	Value       string
	Description string
}

// Lookup returns the value of the output named key.
func Lookup(outputs []Output, key string) (string, bool) {
	for _, out := range outputs {
		if out.Key == key {
			return out.Value, true
		}
	}
	return "", false
}

// Name returns the stack name for a service and stage.
// A non-empty override wins.
func Name(service, stage, override string) string {
	if override != "" {
		return override
	}
	return service + "-" + stage
}

// Manager queries and deploys CloudFormation stacks.
type Manager struct {
	client CloudFormationClient
	logger *slog.Logger

	pollInterval     time.Duration
	operationTimeout time.Duration
}

// NewManager creates a Manager backed by the given client.
func NewManager(client CloudFormationClient, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		client:           client,
		logger:           log,
		pollInterval:     constants.StackPollInterval,
		operationTimeout: constants.StackOperationTimeout,
	}
}

// NewManagerFromConfig creates a Manager using a CloudFormation client built from awsCfg.
func NewManagerFromConfig(awsCfg aws.Config, log *slog.Logger) *Manager {
	return NewManager(cloudformation.NewFromConfig(awsCfg), log)
}

// GetStackOutputs retrieves the outputs of a stack in the order CloudFormation
// reports them. Entries without a key or value are skipped.
func (m *Manager) GetStackOutputs(ctx context.Context, stackName string) ([]Output, error) {
	m.logger.Debug("calling external service", "context", map[string]string{
		"operation":  "CloudFormation.DescribeStacks",
		"stack_name": stackName,
	})

	result, err := m.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		if isStackNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrStackNotFound, stackName)
		}
		return nil, err
	}

	if len(result.Stacks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrStackNotFound, stackName)
	}

	outputs := make([]Output, 0, len(result.Stacks[0].Outputs))
	for _, out := range result.Stacks[0].Outputs {
		if out.OutputKey == nil || out.OutputValue == nil {
			continue
		}
		outputs = append(outputs, Output{
			Key:         *out.OutputKey,
			Value:       *out.OutputValue,
			Description: aws.ToString(out.Description),
		})
	}

	return outputs, nil
}

// CheckStackExists checks if a CloudFormation stack exists.
func (m *Manager) CheckStackExists(ctx context.Context, stackName string) (bool, error) {
	_, err := m.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		if isStackNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// isStackNotFound recognises the ValidationError CloudFormation returns for
// a missing stack.
func isStackNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ValidationError" &&
			strings.Contains(apiErr.ErrorMessage(), "does not exist")
	}
	return strings.Contains(err.Error(), "does not exist")
}
