package webapp

import (
	"context"

	"github.com/webship/webship/internal/lifecycle"
)

// Command names contributed by the web app plugin.
const (
	CommandDeploy        = "deploy"
	CommandPublishWebapp = "publishWebapp"
	CommandDomainInfo    = "domainInfo"
	CommandBuildWebapp   = "buildWebapp"
	CommandDeployWebapp  = "deployWebapp"
)

// Commands returns the commands the web app adds to the lifecycle registry.
func (s *Service) Commands() []lifecycle.Command {
	return []lifecycle.Command{
		{Name: CommandDeploy, LifecycleEvents: []string{"resources"}},
		{
			Name:            CommandPublishWebapp,
			Usage:           "Publishes the `WebApp` directory to your bucket",
			LifecycleEvents: []string{"publish"},
		},
		{
			Name:            CommandDomainInfo,
			Usage:           "Fetches and prints out the deployed CloudFront domain names",
			LifecycleEvents: []string{"domainInfo"},
		},
		{
			Name:            CommandBuildWebapp,
			Usage:           "Builds the frontend in the `WebApp` directory",
			LifecycleEvents: []string{"build"},
		},
		{
			Name:            CommandDeployWebapp,
			Usage:           "Builds and publishes the frontend",
			LifecycleEvents: []string{"deploy"},
		},
	}
}

// Hooks returns the lifecycle hooks of the web app.
func (s *Service) Hooks() map[string]lifecycle.Hook {
	return map[string]lifecycle.Hook{
		"after:deploy:deploy":   s.AutoDeploy,
		"publishWebapp:publish": s.Publish,
		"domainInfo:domainInfo": func(ctx context.Context) error {
			_, err := s.DomainInfo(ctx)
			return err
		},
		"buildWebapp:build":   s.Build,
		"deployWebapp:deploy": s.Deploy,
	}
}
