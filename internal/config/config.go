// Package config manages project configuration for the webship CLI.
// It uses Viper to read the project file (webship.yml or serverless.yml) and
// environment variable overrides, and validates the result once up front.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/webship/webship/internal/constants"
	apperrors "github.com/webship/webship/internal/errors"
)

// Config is the resolved project configuration.
// The layout mirrors the serverless.yml sections the values come from.
type Config struct {
	Service  string         `mapstructure:"service" yaml:"service"`
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider"`
	Custom   CustomConfig   `mapstructure:"custom" yaml:"custom"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-" yaml:"-"`
}

// ProviderConfig holds the deployment target settings.
type ProviderConfig struct {
	Stage     string `mapstructure:"stage" yaml:"stage" validate:"required"`
	Region    string `mapstructure:"region" yaml:"region" validate:"required"`
	Profile   string `mapstructure:"profile" yaml:"profile,omitempty"`
	StackName string `mapstructure:"stackName" yaml:"stackName,omitempty"`
}

// CustomConfig holds the web app settings read from the custom section.
type CustomConfig struct {
	BuildCommand string `mapstructure:"buildCommand" yaml:"buildCommand"`
	AppBuildPath string `mapstructure:"appBuildPath" yaml:"appBuildPath"`
	S3Bucket     string `mapstructure:"s3Bucket" yaml:"s3Bucket" validate:"omitempty,excludesall=/ "`
	OneCmdDeploy bool   `mapstructure:"oneCmdDeploy" yaml:"oneCmdDeploy"`

	ScriptRunner    string                `mapstructure:"scriptRunner" yaml:"scriptRunner" validate:"required"`
	CloudCLI        string                `mapstructure:"cloudCLI" yaml:"cloudCLI" validate:"required"`
	PublishMode     constants.PublishMode `mapstructure:"publishMode" yaml:"publishMode" validate:"oneof=cli sdk"`
	StrictExitCode  bool                  `mapstructure:"strictExitCode" yaml:"strictExitCode"`
	CommandTimeout  time.Duration         `mapstructure:"commandTimeout" yaml:"commandTimeout" validate:"gte=0"`
	SyncConcurrency int                   `mapstructure:"syncConcurrency" yaml:"syncConcurrency" validate:"min=1,max=64"`

	StackTemplate   string   `mapstructure:"stackTemplate" yaml:"stackTemplate,omitempty"`
	StackParameters []string `mapstructure:"stackParameters" yaml:"stackParameters,omitempty"`
	StackWait       bool     `mapstructure:"stackWait" yaml:"stackWait"`
}

// LoadOptions controls where configuration is read from and which values the
// command line overrides.
type LoadOptions struct {
	// ConfigFile is an explicit config file path; it must exist when set.
	ConfigFile string
	// WorkDir is searched for the default config file names. Defaults to the working directory.
	WorkDir string

	Stage   string
	Region  string
	Profile string
}

var validate = validator.New()

// keys lists every config key bound to an environment variable.
var keys = []string{
	constants.ConfigKeyService,
	constants.ConfigKeyStage,
	constants.ConfigKeyRegion,
	constants.ConfigKeyProfile,
	constants.ConfigKeyStackName,
	constants.ConfigKeyBuildCommand,
	constants.ConfigKeyAppBuildPath,
	constants.ConfigKeyS3Bucket,
	constants.ConfigKeyOneCmdDeploy,
	constants.ConfigKeyScriptRunner,
	constants.ConfigKeyCloudCLI,
	constants.ConfigKeyPublishMode,
	constants.ConfigKeyStrictExitCode,
	constants.ConfigKeyCommandTimeout,
	constants.ConfigKeySyncConcurrency,
	constants.ConfigKeyStackTemplate,
	constants.ConfigKeyStackParameters,
	constants.ConfigKeyStackWait,
}

// Load loads the configuration using Viper.
// Precedence, highest first: command line overrides, WEBSHIP_ environment
// variables, the config file, defaults.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	file, err := resolveConfigFile(opts)
	if err != nil {
		return nil, err
	}

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err = v.ReadInConfig(); err != nil {
			return nil, apperrors.ErrConfigInvalid("error loading config file", err)
		}
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	applyOverrides(v, opts)

	var cfg Config
	if err = v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		secondsToDurationHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, apperrors.ErrConfigInvalid("error unmarshaling config", err)
	}
	cfg.File = file

	if err = validate.Struct(&cfg); err != nil {
		return nil, apperrors.ErrConfigInvalid("config validation failed", err)
	}

	return &cfg, nil
}

// Require checks that every given key holds a value. It returns a
// CONFIG_MISSING error naming the first absent key.
func (c *Config) Require(required ...string) error {
	for _, key := range required {
		if c.lookup(key) != "" {
			continue
		}
		if name, ok := strings.CutPrefix(key, "custom."); ok {
			return apperrors.ErrConfigMissing(name)
		}
		return apperrors.New(apperrors.ErrCodeConfigMissing, apperrors.ExitCodeConfig,
			fmt.Sprintf("Could not find '%s' in configuration", key), nil)
	}
	return nil
}

func (c *Config) lookup(key string) string {
	switch key {
	case constants.ConfigKeyService:
		return c.Service
	case constants.ConfigKeyStage:
		return c.Provider.Stage
	case constants.ConfigKeyRegion:
		return c.Provider.Region
	case constants.ConfigKeyBuildCommand:
		return c.Custom.BuildCommand
	case constants.ConfigKeyAppBuildPath:
		return c.Custom.AppBuildPath
	case constants.ConfigKeyS3Bucket:
		return c.Custom.S3Bucket
	case constants.ConfigKeyStackTemplate:
		return c.Custom.StackTemplate
	default:
		return ""
	}
}

// ProjectDir returns the directory holding the config file, or "" when no
// file was read.
func (c *Config) ProjectDir() string {
	if c.File == "" {
		return ""
	}
	return filepath.Dir(c.File)
}

// ResolvePath resolves a relative path against ProjectDir.
func (c *Config) ResolvePath(path string) string {
	dir := c.ProjectDir()
	if path == "" || dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Render returns the resolved configuration as YAML.
func (c *Config) Render() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return out, nil
}

// Helper functions

func setDefaults(v *viper.Viper) {
	v.SetDefault(constants.ConfigKeyStage, constants.DefaultStage)
	v.SetDefault(constants.ConfigKeyRegion, constants.DefaultRegion)
	v.SetDefault(constants.ConfigKeyOneCmdDeploy, false)
	v.SetDefault(constants.ConfigKeyScriptRunner, constants.DefaultScriptRunner)
	v.SetDefault(constants.ConfigKeyCloudCLI, constants.DefaultCloudCLI)
	v.SetDefault(constants.ConfigKeyPublishMode, string(constants.PublishModeCLI))
	v.SetDefault(constants.ConfigKeyStrictExitCode, false)
	v.SetDefault(constants.ConfigKeyCommandTimeout, "0s")
	v.SetDefault(constants.ConfigKeySyncConcurrency, constants.DefaultSyncConcurrency)
	v.SetDefault(constants.ConfigKeyStackWait, true)
}

// secondsToDurationHook decodes bare numbers into durations as seconds, so
// "commandTimeout: 30" matches "--timeout 30".
func secondsToDurationHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(from, to reflect.Type, data any) (any, error) {
		if to != durationType {
			return data, nil
		}
		value := reflect.ValueOf(data)
		switch from.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(value.Int()) * time.Second, nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return time.Duration(value.Uint()) * time.Second, nil //nolint:gosec // config sized values
		case reflect.Float32, reflect.Float64:
			return time.Duration(value.Float() * float64(time.Second)), nil
		case reflect.String:
			if seconds, err := strconv.Atoi(strings.TrimSpace(value.String())); err == nil {
				return time.Duration(seconds) * time.Second, nil
			}
		default:
		}
		return data, nil
	}
}

func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return "", apperrors.ErrConfigInvalid(fmt.Sprintf("config file %s not readable", opts.ConfigFile), err)
		}
		return opts.ConfigFile, nil
	}

	dir := opts.WorkDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting working directory: %w", err)
		}
		dir = wd
	}

	for _, name := range constants.ConfigFileNames {
		candidate := filepath.Join(dir, name)
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("error checking %s: %w", candidate, err)
		}
	}

	return "", nil
}

func bindEnvVars(v *viper.Viper) {
	for _, key := range keys {
		envVar := constants.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, envVar)
	}
}

func applyOverrides(v *viper.Viper, opts LoadOptions) {
	if opts.Stage != "" {
		v.Set(constants.ConfigKeyStage, opts.Stage)
	}
	if opts.Region != "" {
		v.Set(constants.ConfigKeyRegion, opts.Region)
	}
	if opts.Profile != "" {
		v.Set(constants.ConfigKeyProfile, opts.Profile)
	}
}
