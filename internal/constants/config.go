package constants

// ConfigFileNames are the project config files looked up in the working directory, in order.
// serverless.yml is accepted so existing projects keep working without a rename.
var ConfigFileNames = []string{
	ProjectName + ".yml",
	ProjectName + ".yaml",
	"serverless.yml",
	"serverless.yaml",
}

// EnvPrefix is the prefix for environment variable overrides (WEBSHIP_CUSTOM_S3BUCKET, ...).
const EnvPrefix = "WEBSHIP"

// Config keys read from the project file.
const (
	ConfigKeyService         = "service"
	ConfigKeyStage           = "provider.stage"
	ConfigKeyRegion          = "provider.region"
	ConfigKeyProfile         = "provider.profile"
	ConfigKeyStackName       = "provider.stackName"
	ConfigKeyBuildCommand    = "custom.buildCommand"
	ConfigKeyAppBuildPath    = "custom.appBuildPath"
	ConfigKeyS3Bucket        = "custom.s3Bucket"
	ConfigKeyOneCmdDeploy    = "custom.oneCmdDeploy"
	ConfigKeyScriptRunner    = "custom.scriptRunner"
	ConfigKeyCloudCLI        = "custom.cloudCLI"
	ConfigKeyPublishMode     = "custom.publishMode"
	ConfigKeyStrictExitCode  = "custom.strictExitCode"
	ConfigKeyCommandTimeout  = "custom.commandTimeout"
	ConfigKeySyncConcurrency = "custom.syncConcurrency"
	ConfigKeyStackTemplate   = "custom.stackTemplate"
	ConfigKeyStackParameters = "custom.stackParameters"
	ConfigKeyStackWait       = "custom.stackWait"
)

// Defaults applied before the project file is read.
const (
	DefaultStage           = "dev"
	DefaultRegion          = "us-east-1"
	DefaultScriptRunner    = "npm"
	DefaultCloudCLI        = "aws"
	DefaultSyncConcurrency = 8
)
