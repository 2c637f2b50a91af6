// Package main provides the CLI entry point for sheetfit.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/config"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/models"
)

// Exit codes.
const (
	exitOK     = 0
	exitIssues = 1
	exitFailed = 2
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

type cli struct {
	fix        bool
	style      bool
	debug      bool
	jsonOut    bool
	configPath string
	outputPath string

	stdout io.Writer
	stderr io.Writer
	code   int
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr}
	cmd := newRootCmd(c)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		return exitFailed
	}
	return c.code
}

func newRootCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheetfit [input.xlsx|input.xls]",
		Short: "Detect and repair bloated worksheet dimensions",
		Long: `sheetfit finds worksheets whose declared used range is far larger than
their content and, with --fix, writes a copy with those sheets rebuilt.

Exit status is 0 when no sheet is bloated, 1 when issues were found
(and repaired with --fix) and 2 when the analysis failed.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         c.run,
	}

	cmd.Flags().BoolVar(&c.fix, "fix", false, "Rebuild bloated sheets and save a fixed copy")
	cmd.Flags().BoolVar(&c.style, "style", false, "Apply a header palette to rebuilt sheets")
	cmd.Flags().BoolVar(&c.debug, "debug", false, "Log every step")
	cmd.Flags().BoolVar(&c.jsonOut, "json", false, "Print the result as JSON")
	cmd.Flags().StringVar(&c.configPath, "config", "", "Path to a sheetfit.yml config file")
	cmd.Flags().StringVarP(&c.outputPath, "output", "o", "", "Output path (default: <input>.fixed.xlsx)")
	return cmd
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	logger := logrus.New()
	logger.SetOutput(c.stderr)
	logger.SetLevel(logrus.WarnLevel)
	if c.debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	opts := sheetfit.DefaultOptions()
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		cfg.Apply(&opts)
	}
	opts.Fix = c.fix
	opts.Style = c.style
	opts.OutputPath = c.outputPath
	opts.Logger = logger

	result, err := sheetfit.Repair(args[0], opts)
	c.code = exitCode(result, err)

	if c.jsonOut {
		return emitJSON(c.stdout, result)
	}
	printSummary(c.stderr, result)
	if err == nil {
		fmt.Fprintln(c.stdout, result.FilePath)
	}
	return nil
}

func exitCode(result *models.RepairResult, err error) int {
	switch {
	case err != nil, result == nil, !result.Success:
		return exitFailed
	case result.HasIssues:
		return exitIssues
	default:
		return exitOK
	}
}

func emitJSON(w io.Writer, result *models.RepairResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func printSummary(w io.Writer, result *models.RepairResult) {
	for _, s := range result.Sheets {
		e := s.Extent
		line := fmt.Sprintf("%-24s declared %dx%d, content %dx%d", s.Name, e.DeclaredRows, e.DeclaredCols, e.ActualRows, e.ActualCols)
		switch {
		case s.Repaired:
			green.Fprintf(w, "✓ %s, rebuilt as %dx%d%s\n", line, s.Rebuild.Rows, s.Rebuild.Cols, paletteNote(s))
		case s.Verdict.HasSizeIssue:
			yellow.Fprintf(w, "⚠ %s (%s)\n", line, issueNote(s))
		default:
			fmt.Fprintf(w, "  %s\n", line)
		}
		if s.Drawings > 0 {
			yellow.Fprintf(w, "  %d drawing(s) on %s were not carried over\n", s.Drawings, s.Name)
		}
	}

	switch {
	case !result.Success:
		red.Fprintf(w, "✗ %s\n", result.Error)
	case result.Fixed:
		green.Fprintf(w, "%d sheet(s) repaired\n", result.IssuesCount)
		if result.BackupPath != "" {
			fmt.Fprintf(w, "backup: %s\n", result.BackupPath)
		}
	case result.HasIssues:
		yellow.Fprintf(w, "%d sheet(s) bloated, run with --fix to repair\n", result.IssuesCount)
	default:
		green.Fprintln(w, "no dimension issues")
	}
}

func issueNote(s models.SheetReport) string {
	var notes []string
	if s.Verdict.RowIssue {
		notes = append(notes, fmt.Sprintf("%d wasted rows", s.Extent.WastedRows()))
	}
	if s.Verdict.ColIssue {
		notes = append(notes, fmt.Sprintf("%d wasted columns", s.Extent.WastedCols()))
	}
	return strings.Join(notes, ", ")
}

func paletteNote(s models.SheetReport) string {
	if s.Palette == "" {
		return ""
	}
	return " [" + s.Palette + "]"
}
