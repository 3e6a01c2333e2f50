package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lockgraph/lockgraph/pkg/graph"
	"github.com/lockgraph/lockgraph/pkg/lockfile"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	format string // explicit format selector (auto-detect if empty)
	output string // output file path (stdout if empty)
}

// newParseCmd creates the parse command.
// It reads a lockfile, parses it into a dependency graph, and writes the
// graph as JSON to the output path (or stdout).
func newParseCmd() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse <lockfile>",
		Short: "Parse a lockfile into a dependency graph",
		Long: `Parse a lockfile into a normalized dependency graph.

The format is detected from the filename and content. Use --format to
select it explicitly.

Examples:
  lockgraph parse package-lock.json
  lockgraph parse yarn.lock -o graph.json
  lockgraph parse --format pnpm-lock.yaml renamed.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runParse(c, &opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", fmt.Sprintf("lockfile format (%s)", strings.Join(lockfile.Formats(), ", ")))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// runParse parses the lockfile at path and writes the graph as JSON.
func runParse(c *cobra.Command, opts *parseOpts, path string) error {
	logger := loggerFromContext(c.Context())
	logger.Infof("Parsing %s", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	g, err := parseContent(content, path, opts.format)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Parsed %d packages with %d dependencies", g.NodeCount(), g.EdgeCount()))

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("Wrote graph")
		printFile(opts.output)
	}
	printStats(g.NodeCount(), g.EdgeCount(), len(g.Conflicts()))
	return nil
}

// parseContent dispatches to detection or explicit-format parsing.
func parseContent(content []byte, path, format string) (*graph.Graph, error) {
	if format != "" {
		return lockfile.ParseFormat(content, format)
	}
	return lockfile.Parse(content, path)
}

// nopCloser wraps an io.Writer with a no-op Close method.
// Used to wrap os.Stdout so callers can uniformly defer Close.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
