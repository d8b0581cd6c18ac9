package stack

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
)

// mockCloudFormationClient is a mock implementation of CloudFormationClient
//
//nolint:dupl // Mock struct must match interface signature
type mockCloudFormationClient struct {
	describeStacksFunc func(
		ctx context.Context,
		params *cloudformation.DescribeStacksInput,
		optFns ...func(*cloudformation.Options),
	) (*cloudformation.DescribeStacksOutput, error)
	describeStackEventsFunc func(
		ctx context.Context,
		params *cloudformation.DescribeStackEventsInput,
		optFns ...func(*cloudformation.Options),
	) (*cloudformation.DescribeStackEventsOutput, error)
	createStackFunc func(
		ctx context.Context,
		params *cloudformation.CreateStackInput,
		optFns ...func(*cloudformation.Options),
	) (*cloudformation.CreateStackOutput, error)
	updateStackFunc func(
		ctx context.Context,
		params *cloudformation.UpdateStackInput,
		optFns ...func(*cloudformation.Options),
	) (*cloudformation.UpdateStackOutput, error)
}

func (m *mockCloudFormationClient) DescribeStacks(
	ctx context.Context,
	params *cloudformation.DescribeStacksInput,
	optFns ...func(*cloudformation.Options),
) (*cloudformation.DescribeStacksOutput, error) {
	if m.describeStacksFunc != nil {
		return m.describeStacksFunc(ctx, params, optFns...)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCloudFormationClient) DescribeStackEvents(
	ctx context.Context,
	params *cloudformation.DescribeStackEventsInput,
	optFns ...func(*cloudformation.Options),
) (*cloudformation.DescribeStackEventsOutput, error) {
	if m.describeStackEventsFunc != nil {
		return m.describeStackEventsFunc(ctx, params, optFns...)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCloudFormationClient) CreateStack(
	ctx context.Context,
	params *cloudformation.CreateStackInput,
	optFns ...func(*cloudformation.Options),
) (*cloudformation.CreateStackOutput, error) {
	if m.createStackFunc != nil {
		return m.createStackFunc(ctx, params, optFns...)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCloudFormationClient) UpdateStack(
	ctx context.Context,
	params *cloudformation.UpdateStackInput,
	optFns ...func(*cloudformation.Options),
) (*cloudformation.UpdateStackOutput, error) {
	if m.updateStackFunc != nil {
		return m.updateStackFunc(ctx, params, optFns...)
	}
	return nil, errors.New("not implemented")
}
