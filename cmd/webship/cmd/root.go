package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/webship/webship/internal/client/output"
	"github.com/webship/webship/internal/config"
	"github.com/webship/webship/internal/constants"
	apperrors "github.com/webship/webship/internal/errors"
	"github.com/webship/webship/internal/logger"
)

// skipConfigAnnotation marks commands that run without loading the project configuration.
const skipConfigAnnotation = "webship/skip-config"

var (
	configFile    string
	stage         string
	region        string
	awsProfile    string
	ciMode        bool
	debug         bool
	timeout       string
	timeoutCancel context.CancelFunc
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   constants.ProjectName,
	Short: constants.ProjectName,
	Long: fmt.Sprintf(`%s - %s
Build your web frontend, publish it to S3 and find its CloudFront domain`,
		constants.ProjectName, *constants.GetVersion()),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		startTime := time.Now().UTC()
		ctx := context.WithValue(cmd.Context(), constants.StartTimeCtxKey, startTime)
		ctx = logger.WithRunID(ctx, logger.NewRunID())
		cmd.SetContext(ctx)

		env := constants.CLI
		if ciMode {
			env = constants.CI
		} else {
			printHeader(cmd)
		}

		if verbose {
			output.Infof("CLI build: %s", output.Bold(*constants.GetVersion()))
			output.Infof("Verbose output enabled")
		}

		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}
		log := logger.Initialize(env, logLevel)

		if timeout != constants.DefaultCLITimeout {
			// NOTICE: this runs after flags are parsed but before the command runs
			timeoutDuration, err := parseTimeout(timeout)
			if err != nil {
				return apperrors.ErrConfigInvalid("error parsing timeout", err)
			}

			if timeoutDuration > 0 {
				timeoutCtx, cancel := context.WithTimeout(cmd.Context(), timeoutDuration)
				timeoutCancel = cancel // Store for cleanup in Execute()
				cmd.SetContext(timeoutCtx)
			}

			if verbose {
				output.Infof("Timeout: %s", timeoutDuration)
			}
		} else if verbose {
			output.Infof("Timeout disabled")
		}

		if skipsConfig(cmd) {
			return nil
		}

		cfg, err := config.Load(config.LoadOptions{
			ConfigFile: configFile,
			Stage:      stage,
			Region:     region,
			Profile:    awsProfile,
		})
		if err != nil {
			return err
		}

		cmd.SetContext(context.WithValue(cmd.Context(), constants.ConfigCtxKey, cfg))

		log.Debug("configuration loaded", "context", map[string]string{
			"file":   cfg.File,
			"stage":  cfg.Provider.Stage,
			"region": cfg.Provider.Region,
		})
		if verbose {
			if cfg.File != "" {
				output.Infof("Loaded configuration from %s", output.Bold(cfg.File))
			} else {
				output.Infof("No configuration file found, using defaults and environment")
			}
			output.Infof("Stage: %s, region: %s", output.Bold(cfg.Provider.Stage), output.Bold(cfg.Provider.Region))
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		if verbose {
			startTime := getStartTimeFromContext(cmd)
			if !startTime.IsZero() {
				output.Infof("Time elapsed: %s", output.Bold(time.Since(startTime).String()))
			}
		}
		if timeoutCancel != nil {
			timeoutCancel()
		}
	},
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	initBuiltinCommands()
	err := rootCmd.Execute()
	if timeoutCancel != nil {
		timeoutCancel()
	}

	if err != nil {
		output.Errorf("%s", err.Error())
		return apperrors.GetExitCode(err)
	}
	return 0
}

// initBuiltinCommands creates cobra's help and completion commands up front
// and marks them to run without the project configuration.
func initBuiltinCommands() {
	rootCmd.InitDefaultHelpCmd()
	rootCmd.InitDefaultCompletionCmd()
	for _, c := range rootCmd.Commands() {
		if c.Name() != "help" && c.Name() != "completion" {
			continue
		}
		if c.Annotations == nil {
			c.Annotations = map[string]string{}
		}
		c.Annotations[skipConfigAnnotation] = "true"
	}
}

// skipsConfig reports whether cmd or one of its parents runs without loading
// configuration. Shell completion requests never read it.
func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigAnnotation] == "true" {
			return true
		}
		if c.Name() == cobra.ShellCompRequestCmd || c.Name() == cobra.ShellCompNoDescRequestCmd {
			return true
		}
	}
	return false
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Path to the configuration file (default: webship.yml or serverless.yml)")
	flags.StringVarP(&stage, "stage", "s", "", "Stage of the service")
	flags.StringVarP(&region, "region", "r", "", "AWS region")
	flags.StringVar(&awsProfile, "aws-profile", "", "AWS shared config profile")
	flags.StringVar(&timeout, "timeout", constants.DefaultCLITimeout,
		"Timeout for command execution (e.g., 10m, 30s, 1h; 0 disables it)")
	flags.BoolVar(&verbose, "verbose", false, "Verbose output")
	flags.BoolVar(&debug, "debug", false, "Enable debugging logs")
	flags.BoolVar(&ciMode, "ci", false, "Emit JSON logs and skip decorative output")
}

// parseTimeout parses timeout string to time.Duration
// Supports formats: "10m", "30s", "1h", "600" (number of seconds)
func parseTimeout(timeoutStr string) (time.Duration, error) {
	// Try parsing as duration first (supports "10m", "30s", "1h", etc.)
	duration, err := time.ParseDuration(timeoutStr)
	if err == nil {
		if duration < 0 {
			return 0, fmt.Errorf("timeout must not be negative: %s", timeoutStr)
		}
		return duration, nil
	}

	// If duration parsing fails, try parsing as seconds (integer)
	seconds, err := strconv.Atoi(timeoutStr)
	if err != nil || seconds < 0 {
		errMsg := fmt.Sprintf(
			"invalid timeout format: %s (use duration like '10m' or '30s', or seconds like '600')",
			timeoutStr)
		return 0, errors.New(errMsg)
	}

	return time.Duration(seconds) * time.Second, nil
}

func printHeader(cmd *cobra.Command) {
	output.Header(output.Bold("🚀 " + constants.ProjectName + " " + cmd.CalledAs()))
}

// getConfigFromContext retrieves the config from the command context
func getConfigFromContext(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(constants.ConfigCtxKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("config not found in context")
	}
	return cfg, nil
}

func getStartTimeFromContext(cmd *cobra.Command) time.Time {
	startTime, ok := cmd.Context().Value(constants.StartTimeCtxKey).(time.Time)
	if !ok {
		return time.Time{}
	}
	return startTime
}

// RootCmd returns the root command for use by tools like doc generators.
func RootCmd() *cobra.Command {
	return rootCmd
}
