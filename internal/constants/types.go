package constants

// Environment represents the execution environment the logger is configured for.
type Environment string

// Environment types for logger configuration.
const (
	Development Environment = "development"
	CI          Environment = "ci"
	CLI         Environment = "cli"
)

// PublishMode selects how the build output reaches the bucket.
type PublishMode string

const (
	// PublishModeCLI shells out to the cloud CLI's s3 sync command.
	PublishModeCLI PublishMode = "cli"
	// PublishModeSDK syncs the build output through the S3 API directly.
	PublishModeSDK PublishMode = "sdk"
)

// RunStatus is the outcome label attached to finished external process runs.
type RunStatus string

const (
	// RunSucceeded marks a run that produced no error output.
	RunSucceeded RunStatus = "SUCCEEDED"
	// RunFailed marks a run that produced error output (or a non-zero exit in strict mode).
	RunFailed RunStatus = "FAILED"
)
