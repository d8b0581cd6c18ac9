// Package constants defines global constants used throughout webship.
package constants

var version = "0.0.0-development" // Updated by CI/CD pipeline at build time

// GetVersion returns the current version of webship.
func GetVersion() *string {
	return &version
}

// ProjectName is the name of the CLI tool
const ProjectName = "webship"
