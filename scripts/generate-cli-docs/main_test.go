package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webship/webship/cmd/webship/cmd"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	root := cmd.RootCmd()
	root.DisableAutoGenTag = true

	require.NoError(t, render(&buf, root))
	out := buf.String()

	assert.Contains(t, out, "# webship CLI reference")
	assert.Contains(t, out, "### webship buildWebapp")
	assert.Contains(t, out, "Builds the frontend in the `WebApp` directory")
	assert.Contains(t, out, "Aliases: `publish-webapp`")
	assert.Contains(t, out, "--timeout")
	assert.NotContains(t, out, "SEE ALSO")
}

func TestExtractOptions(t *testing.T) {
	md := "## webship\n\n### Options\n\n```\n  -h, --help\n```\n\n### SEE ALSO\n\n* [webship deploy](webship_deploy.md)\n"

	assert.Equal(t, "### Options\n\n```\n  -h, --help\n```\n", extractOptions(md))
	assert.Empty(t, extractOptions("## webship\n"))
}
