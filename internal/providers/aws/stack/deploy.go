package stack

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"

	"github.com/webship/webship/internal/constants"
)

const (
	// parameterSplitParts is the expected number of parts when splitting a KEY=VALUE parameter.
	parameterSplitParts = 2

	operationCreate = "CREATE"
	operationUpdate = "UPDATE"

	statusNoChanges  = "NO_CHANGES"
	statusInProgress = "IN_PROGRESS"

	noUpdatesMessage = "No updates are to be performed"
)

// DeployOptions contains options for a stack deployment.
type DeployOptions struct {
	StackName  string
	Template   string   // Local path, https URL or s3:// URI
	Parameters []string // KEY=VALUE pairs
	Tags       map[string]string
	Wait       bool
}

// DeployResult contains the result of a deployment.
type DeployResult struct {
	StackName     string
	OperationType string // CREATE or UPDATE
	Status        string
	NoChanges     bool
	Outputs       []Output
}

// TemplateSource represents the resolved template source.
type TemplateSource struct {
	URL  string // For remote templates (S3/HTTPS)
	Body string // For local file templates
}

// ResolveTemplate resolves a template reference to a URL or an inline body.
func ResolveTemplate(template string) (*TemplateSource, error) {
	if template == "" {
		return nil, errors.New("no template given")
	}

	if strings.HasPrefix(template, "http://") || strings.HasPrefix(template, "https://") {
		return &TemplateSource{URL: template}, nil
	}

	if s3Path, ok := strings.CutPrefix(template, constants.S3URIScheme); ok {
		// s3://bucket/key becomes https://bucket.s3.amazonaws.com/key
		parts := strings.SplitN(s3Path, "/", parameterSplitParts)
		if len(parts) < parameterSplitParts || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid S3 URI: %s", template)
		}
		return &TemplateSource{URL: fmt.Sprintf("https://%s.s3.amazonaws.com/%s", parts[0], parts[1])}, nil
	}

	content, err := os.ReadFile(filepath.Clean(template))
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	return &TemplateSource{Body: string(content)}, nil
}

// ParseParameters converts KEY=VALUE strings into CloudFormation parameters,
// sorted by key. A repeated key keeps its last value.
func ParseParameters(params []string) ([]types.Parameter, error) {
	paramMap := make(map[string]string, len(params))

	for _, param := range params {
		parts := strings.SplitN(param, "=", parameterSplitParts)
		if len(parts) != parameterSplitParts || parts[0] == "" {
			return nil, fmt.Errorf("invalid parameter format: %s (expected KEY=VALUE)", param)
		}
		paramMap[parts[0]] = parts[1]
	}

	keys := make([]string, 0, len(paramMap))
	for key := range paramMap {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	cfnParams := make([]types.Parameter, 0, len(keys))
	for _, key := range keys {
		cfnParams = append(cfnParams, types.Parameter{
			ParameterKey:   aws.String(key),
			ParameterValue: aws.String(paramMap[key]),
		})
	}

	return cfnParams, nil
}

// Deploy creates the stack, or updates it when it already exists.
func (m *Manager) Deploy(ctx context.Context, opts *DeployOptions) (*DeployResult, error) {
	templateSource, err := ResolveTemplate(opts.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve template: %w", err)
	}

	cfnParams, err := ParseParameters(opts.Parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to parse parameters: %w", err)
	}

	stackExists, err := m.CheckStackExists(ctx, opts.StackName)
	if err != nil {
		return nil, fmt.Errorf("failed to check stack status: %w", err)
	}

	result := &DeployResult{StackName: opts.StackName}

	if stackExists {
		result.OperationType = operationUpdate
		err = m.updateStack(ctx, opts.StackName, templateSource, cfnParams)
	} else {
		result.OperationType = operationCreate
		err = m.createStack(ctx, opts.StackName, templateSource, cfnParams, opts.Tags)
	}
	if err != nil {
		if strings.Contains(err.Error(), noUpdatesMessage) {
			result.NoChanges = true
			result.Status = statusNoChanges
			result.Outputs, err = m.GetStackOutputs(ctx, opts.StackName)
			if err != nil {
				return result, fmt.Errorf("stack is up to date but failed to retrieve outputs: %w", err)
			}
			return result, nil
		}
		return nil, fmt.Errorf("failed to %s stack: %w", strings.ToLower(result.OperationType), err)
	}

	m.logger.Debug("stack operation started", "context", map[string]string{
		"stack_name": opts.StackName,
		"operation":  result.OperationType,
	})

	if !opts.Wait {
		result.Status = statusInProgress
		return result, nil
	}

	finalStatus, err := m.waitForStackOperation(ctx, opts.StackName)
	if err != nil {
		return nil, fmt.Errorf("stack operation failed: %w", err)
	}
	result.Status = finalStatus

	outputs, err := m.GetStackOutputs(ctx, opts.StackName)
	if err != nil {
		return result, fmt.Errorf("stack deployment succeeded but failed to retrieve outputs: %w", err)
	}
	result.Outputs = outputs

	return result, nil
}

func (m *Manager) createStack(
	ctx context.Context,
	stackName string,
	template *TemplateSource,
	params []types.Parameter,
	extraTags map[string]string,
) error {
	input := &cloudformation.CreateStackInput{
		StackName:    aws.String(stackName),
		Parameters:   params,
		Capabilities: []types.Capability{types.CapabilityCapabilityIam, types.CapabilityCapabilityNamedIam},
		Tags:         buildTags(extraTags),
	}

	if template.URL != "" {
		input.TemplateURL = aws.String(template.URL)
	} else {
		input.TemplateBody = aws.String(template.Body)
	}

	_, err := m.client.CreateStack(ctx, input)
	return err
}

func (m *Manager) updateStack(
	ctx context.Context,
	stackName string,
	template *TemplateSource,
	params []types.Parameter,
) error {
	input := &cloudformation.UpdateStackInput{
		StackName:    aws.String(stackName),
		Parameters:   params,
		Capabilities: []types.Capability{types.CapabilityCapabilityIam, types.CapabilityCapabilityNamedIam},
	}

	if template.URL != "" {
		input.TemplateURL = aws.String(template.URL)
	} else {
		input.TemplateBody = aws.String(template.Body)
	}

	_, err := m.client.UpdateStack(ctx, input)
	return err
}

// buildTags returns the ManagedBy tag followed by extra tags sorted by key.
func buildTags(extra map[string]string) []types.Tag {
	tags := []types.Tag{{
		Key:   aws.String("ManagedBy"),
		Value: aws.String(constants.ManagedByTagValue),
	}}

	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		tags = append(tags, types.Tag{Key: aws.String(key), Value: aws.String(extra[key])})
	}
	return tags
}

// waitForStackOperation waits for a stack create/update to complete.
func (m *Manager) waitForStackOperation(ctx context.Context, stackName string) (string, error) {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	timeout := time.After(m.operationTimeout)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timeout:
			return "", errors.New("timeout waiting for stack operation")
		case <-ticker.C:
			status, statusReason, err := m.getStackStatus(ctx, stackName)
			if err != nil {
				return "", err
			}

			m.logger.Debug("stack status", "context", map[string]string{
				"stack_name": stackName,
				"status":     status,
			})

			switch {
			case isCompleteStatus(status):
				return status, nil
			case isFailedStatus(status):
				failureDetails := m.getFailedResourceEvents(ctx, stackName)
				if failureDetails != "" {
					return status, fmt.Errorf(
						"stack operation failed with status %s: %s\n\nResource failures:\n%s",
						status, statusReason, failureDetails)
				}
				return status, fmt.Errorf("stack operation failed with status %s: %s", status, statusReason)
			}
		}
	}
}

func isCompleteStatus(status string) bool {
	switch types.StackStatus(status) {
	case types.StackStatusCreateComplete, types.StackStatusUpdateComplete:
		return true
	default:
		return false
	}
}

func isFailedStatus(status string) bool {
	switch types.StackStatus(status) {
	case types.StackStatusCreateFailed, types.StackStatusRollbackComplete,
		types.StackStatusRollbackFailed, types.StackStatusUpdateRollbackComplete,
		types.StackStatusUpdateRollbackFailed, types.StackStatusDeleteComplete,
		types.StackStatusDeleteFailed, types.StackStatusUpdateFailed:
		return true
	default:
		return false
	}
}

// getStackStatus returns the current status of a stack.
func (m *Manager) getStackStatus(ctx context.Context, stackName string) (status, reason string, err error) {
	result, err := m.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return
	}

	if len(result.Stacks) == 0 {
		err = ErrStackNotFound
		return
	}

	status = string(result.Stacks[0].StackStatus)
	reason = aws.ToString(result.Stacks[0].StackStatusReason)

	return
}

// getFailedResourceEvents retrieves detailed failure information from stack events.
func (m *Manager) getFailedResourceEvents(ctx context.Context, stackName string) string {
	result, err := m.client.DescribeStackEvents(ctx, &cloudformation.DescribeStackEventsInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return ""
	}

	var failures []string
	for i := range result.StackEvents {
		event := &result.StackEvents[i]
		status := string(event.ResourceStatus)
		if !strings.Contains(status, "FAILED") && !strings.Contains(status, "ROLLBACK") {
			continue
		}
		reason := aws.ToString(event.ResourceStatusReason)
		if reason == "" {
			continue
		}
		failures = append(failures, fmt.Sprintf("  - %s (%s): %s",
			aws.ToString(event.LogicalResourceId), aws.ToString(event.ResourceType), reason))
	}

	return strings.Join(failures, "\n")
}
