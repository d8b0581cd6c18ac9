// Package identity resolves the AWS account the CLI is operating in.
package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// STSClient is the subset of the STS API used to identify the caller.
type STSClient interface {
	GetCallerIdentity(
		ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

// Caller describes the identity behind the active credentials.
type Caller struct {
	AccountID string
	ARN       string
}

// GetCaller retrieves the caller identity using STS GetCallerIdentity.
func GetCaller(ctx context.Context, client STSClient, log *slog.Logger) (*Caller, error) {
	log.Debug("calling external service", "context", map[string]string{
		"operation": "STS.GetCallerIdentity",
	})

	output, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("STS GetCallerIdentity failed: %w", err)
	}

	if output.Account == nil || *output.Account == "" {
		return nil, fmt.Errorf("STS returned empty account ID")
	}

	caller := &Caller{AccountID: *output.Account}
	if output.Arn != nil {
		caller.ARN = *output.Arn
	}

	return caller, nil
}

// GetAccountID retrieves the AWS account ID of the caller.
func GetAccountID(ctx context.Context, client STSClient, log *slog.Logger) (string, error) {
	caller, err := GetCaller(ctx, client, log)
	if err != nil {
		return "", err
	}
	return caller.AccountID, nil
}
