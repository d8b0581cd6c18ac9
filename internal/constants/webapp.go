package constants

// DistributionOutputKey is the stack output holding the web app's CloudFront domain.
const DistributionOutputKey = "WebAppCloudFrontDistributionOutput"

// ErrorLinePrefix marks lines forwarded from a child process's standard error.
const ErrorLinePrefix = "Error: "

// S3URIScheme prefixes bucket URIs passed to the cloud CLI.
const S3URIScheme = "s3://"

// S3DeleteObjectsBatchSize is the maximum number of keys a single DeleteObjects call accepts.
const S3DeleteObjectsBatchSize = 1000

// ManagedByTagValue tags stacks created by webship.
const ManagedByTagValue = ProjectName + "-cli"
