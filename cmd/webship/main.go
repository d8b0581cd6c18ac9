// Package main implements the webship CLI tool.
// It builds a web frontend, publishes it to S3 and reports its CloudFront domain.
package main

import (
	"os"

	"github.com/webship/webship/cmd/webship/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
