package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/rigger/internal/scenario"
)

// FileValidation holds the validation outcome for one scenario file.
type FileValidation struct {
	File  string `json:"file"`
	Name  string `json:"name,omitempty"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidationResult holds validation results across all files.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenarios-path>",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario YAML files without executing them.

Checks each file against the scenario schema and the structural rules
(exactly one operation per step, unique record ids, well-formed
assertions). The path may be a single file or a directory.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	files, err := findScenarioFiles(path)
	if err != nil {
		_ = formatter.Error(err.Error(), nil)
		return WrapExitError(ExitCommandError, "cannot load scenarios", err)
	}
	formatter.VerboseLog("Found %d scenario file(s) in %s", len(files), path)

	result := ValidationResult{Valid: true}
	for _, file := range files {
		fv := FileValidation{File: file, Valid: true}
		s, err := scenario.LoadScenario(file)
		if err != nil {
			fv.Valid = false
			fv.Error = err.Error()
			result.Valid = false
		} else {
			fv.Name = s.Name
			formatter.VerboseLog("Validated scenario: %s", s.Name)
		}
		result.Files = append(result.Files, fv)
	}

	if formatter.Format == "json" {
		if result.Valid {
			if err := formatter.Success(result); err != nil {
				return err
			}
			return nil
		}
		if err := formatter.Error("validation failed", result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "validation failed")
	}

	if result.Valid {
		fmt.Fprintf(formatter.Writer, "✓ %d scenario(s) valid\n", len(result.Files))
		return nil
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, fv := range result.Files {
		if fv.Valid {
			continue
		}
		fmt.Fprintf(formatter.Writer, "%s\n  %s\n\n", filepath.Base(fv.File), fv.Error)
	}
	return NewExitError(ExitFailure, "validation failed")
}
