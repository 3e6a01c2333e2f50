package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lockgraph/lockgraph/pkg/lockfile"
)

// newConflictsCmd creates the conflicts command.
// It parses a lockfile and lists every package locked at more than one
// version, one line per package.
func newConflictsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "conflicts <lockfile>",
		Short: "List packages locked at more than one version",
		Long: `Parse a lockfile and list version conflicts.

A conflict is a package name that appears in the graph at two or more
distinct versions. The exit status is 0 whether or not conflicts exist;
use the output to decide.

Examples:
  lockgraph conflicts package-lock.json
  lockgraph conflicts --format yarn.lock renamed.lock`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runConflicts(c, format, args[0])
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", fmt.Sprintf("lockfile format (%s)", strings.Join(lockfile.Formats(), ", ")))

	return cmd
}

// runConflicts parses the lockfile and prints each conflicting package
// with its locked versions.
func runConflicts(c *cobra.Command, format, path string) error {
	logger := loggerFromContext(c.Context())
	logger.Infof("Parsing %s", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	g, err := parseContent(content, path, format)
	if err != nil {
		return err
	}

	conflicts := g.Conflicts()
	if len(conflicts) == 0 {
		printSuccess("No version conflicts in %s packages", StyleHighlight.Render(fmt.Sprintf("%d", g.NodeCount())))
		return nil
	}

	printWarning("%d package(s) locked at multiple versions", len(conflicts))
	for _, conflict := range conflicts {
		printDetail("%s %s %s", StyleValue.Render(conflict.Name), iconArrow, strings.Join(conflict.Versions, ", "))
	}
	return nil
}
