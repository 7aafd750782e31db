package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/rigger/internal/config"
	"github.com/roach88/rigger/internal/scenario"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Filter string
	Trace  bool
}

// ScenarioOutcome holds the run outcome for one scenario.
type ScenarioOutcome struct {
	File   string   `json:"file"`
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// RunSummary aggregates outcomes across a run.
type RunSummary struct {
	Total     int               `json:"total"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Scenarios []ScenarioOutcome `json:"scenarios"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenarios-path>",
		Short: "Run fixture scenarios",
		Long: `Run fixture scenarios against the orchestration engine.

Each scenario file is validated, executed with scripted collaborators,
and checked against its assertions. Backoff waits are suppressed so runs
are fast; the retry attempt budget still applies.

Example:
  rigger run ./scenarios
  rigger run ./scenarios --filter retry --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenarios whose name contains this substring")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print the canonical trace of each scenario")

	return cmd
}

func runScenarios(opts *RunOptions, path string, cmd *cobra.Command) error {
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	retryCfg, err := config.LoadRetry()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid retry configuration", err)
	}

	files, err := findScenarioFiles(path)
	if err != nil {
		_ = formatter.Error(err.Error(), nil)
		return WrapExitError(ExitCommandError, "cannot load scenarios", err)
	}

	summary := RunSummary{}
	for _, file := range files {
		s, err := scenario.LoadScenario(file)
		if err != nil {
			return WrapExitError(ExitCommandError,
				fmt.Sprintf("invalid scenario %s", filepath.Base(file)), err)
		}
		if !matchesFilter(s.Name, opts.Filter) {
			formatter.VerboseLog("Skipping scenario: %s (filter)", s.Name)
			continue
		}

		// Scenarios without their own retry block inherit the
		// environment-configured attempt budget.
		if s.Retry == nil {
			s.Retry = &scenario.RetryConfig{MaxAttempts: retryCfg.MaxAttempts}
		}

		formatter.VerboseLog("Running scenario: %s", s.Name)
		result, err := scenario.Run(s)
		if err != nil {
			return WrapExitError(ExitCommandError,
				fmt.Sprintf("run scenario %s", s.Name), err)
		}

		outcome := ScenarioOutcome{
			File:   file,
			Name:   s.Name,
			Pass:   result.Pass,
			Errors: result.Errors,
		}
		summary.Total++
		if result.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
		summary.Scenarios = append(summary.Scenarios, outcome)

		if opts.Trace && formatter.Format == "text" {
			b, err := scenario.Snapshot(s, result).MarshalCanonical()
			if err != nil {
				return WrapExitError(ExitCommandError,
					fmt.Sprintf("serialize trace for %s", s.Name), err)
			}
			fmt.Fprint(formatter.Writer, string(b))
		}
	}

	if summary.Total == 0 {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("no scenarios matched filter %q", opts.Filter))
	}

	return outputRunSummary(formatter, &summary)
}

func outputRunSummary(formatter *OutputFormatter, summary *RunSummary) error {
	if formatter.Format == "json" {
		if summary.Failed == 0 {
			if err := formatter.Success(summary); err != nil {
				return err
			}
			return nil
		}
		if err := formatter.Error(fmt.Sprintf("%d scenario(s) failed", summary.Failed), summary); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", summary.Failed))
	}

	for _, outcome := range summary.Scenarios {
		if outcome.Pass {
			fmt.Fprintf(formatter.Writer, "✓ %s\n", outcome.Name)
			continue
		}
		fmt.Fprintf(formatter.Writer, "✗ %s\n", outcome.Name)
		for _, msg := range outcome.Errors {
			fmt.Fprintf(formatter.Writer, "    %s\n", msg)
		}
	}
	fmt.Fprintf(formatter.Writer, "\n%d passed, %d failed (%d total)\n",
		summary.Passed, summary.Failed, summary.Total)

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", summary.Failed))
	}
	return nil
}
