// Package main renders the webship command reference as a single markdown file.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/webship/webship/cmd/webship/cmd"
)

const optionsHeading = "### Options"

func main() {
	var outFile string
	flag.StringVar(&outFile, "out", "./docs/CLI.md", "output file for generated markdown")
	flag.Parse()

	if outFile == "" {
		log.Fatal("error: output file is required")
	}

	if err := os.MkdirAll(filepath.Dir(outFile), 0o750); err != nil {
		log.Fatalf("error: creating output directory: %s", err)
	}

	var buf bytes.Buffer
	root := cmd.RootCmd()
	root.DisableAutoGenTag = true
	if err := render(&buf, root); err != nil {
		log.Fatalf("error: %s", err)
	}

	if err := os.WriteFile(filepath.Clean(outFile), buf.Bytes(), 0o600); err != nil {
		log.Fatalf("error: writing %s: %s", outFile, err)
	}
	log.Printf("✅ Generated CLI documentation in %s", outFile)
}

func render(w io.Writer, root *cobra.Command) error {
	if _, err := fmt.Fprintf(w, "# %s CLI reference\n\n", root.Name()); err != nil {
		return err
	}
	return renderCommand(w, root, 2) //nolint:mnd // top level commands are h2
}

func renderCommand(w io.Writer, c *cobra.Command, level int) error {
	if c.HasParent() && (!c.IsAvailableCommand() || c.IsAdditionalHelpTopicCommand()) {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", strings.Repeat("#", level), c.CommandPath())
	if c.Short != "" {
		fmt.Fprintf(&b, "%s\n\n", c.Short)
	}
	if c.Long != "" && c.Long != c.Short {
		fmt.Fprintf(&b, "%s\n\n", c.Long)
	}
	if len(c.Aliases) > 0 {
		fmt.Fprintf(&b, "Aliases: `%s`\n\n", strings.Join(c.Aliases, "`, `"))
	}

	var md bytes.Buffer
	if err := doc.GenMarkdown(c, &md); err != nil {
		return fmt.Errorf("generating markdown for %s: %w", c.CommandPath(), err)
	}
	if options := extractOptions(md.String()); options != "" {
		b.WriteString(options)
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	children := slices.Clone(c.Commands())
	slices.SortFunc(children, func(a, b *cobra.Command) int {
		return strings.Compare(a.Name(), b.Name())
	})
	for _, child := range children {
		if err := renderCommand(w, child, level+1); err != nil {
			return err
		}
	}
	return nil
}

// extractOptions returns the flag sections of a cobra markdown page, without
// the "SEE ALSO" footer.
func extractOptions(markdown string) string {
	start := strings.Index(markdown, optionsHeading)
	if start < 0 {
		return ""
	}
	section := markdown[start:]
	if end := strings.Index(section, "### SEE ALSO"); end > 0 {
		section = section[:end]
	}
	return strings.TrimRight(section, "\n") + "\n"
}
