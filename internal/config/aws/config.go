// Package aws contains AWS-specific configuration helpers for webship.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
)

// LoadSDKConfig loads the AWS SDK configuration from the environment.
// Region and profile are applied when non-empty; otherwise the SDK defaults
// (AWS_REGION, AWS_PROFILE, shared config) are used.
func LoadSDKConfig(ctx context.Context, region, profile string) (aws.Config, error) {
	var opts []func(*awsConfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsConfig.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, awsConfig.WithSharedConfigProfile(profile))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS SDK configuration: %w", err)
	}

	return awsCfg, nil
}
