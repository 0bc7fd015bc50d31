package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/navsplit/internal/feature/app"
	"github.com/roach88/navsplit/internal/harness"
	"github.com/roach88/navsplit/internal/seed"
)

// ValidationError is one problem found in an input file.
type ValidationError struct {
	File    string `json:"file"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Files  int               `json:"files"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Validate scenario files and seed catalogs without running them",
		Long: `Validate scenario YAML files and CUE seed catalogs.

Scenario files are parsed strictly, their seed is compiled and every step
is decoded against the seed state. CUE files are compiled against the seed
schema. Directories are searched recursively for .yaml, .yml and .cue files.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	var files []string
	for _, p := range paths {
		found, err := findInputFiles(p)
		if err != nil {
			return fail(f, ExitCommandError, ErrCodeNotFound, fmt.Sprintf("path not found: %s", p), nil)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fail(f, ExitCommandError, ErrCodeNotFound, "no scenario or seed files found", nil)
	}

	result := ValidationResult{Files: len(files)}
	for _, file := range files {
		f.VerboseLog("Validating %s", file)
		if filepath.Ext(file) == ".cue" {
			result.Errors = append(result.Errors, validateSeed(file)...)
		} else {
			result.Errors = append(result.Errors, validateScenarioFile(file)...)
		}
	}
	result.Valid = len(result.Errors) == 0

	if result.Valid {
		if f.JSON() {
			return f.Success(result)
		}
		fmt.Fprintf(f.Writer, "✓ %d file(s) valid\n", result.Files)
		return nil
	}

	msg := fmt.Sprintf("validation failed with %d error(s)", len(result.Errors))
	if f.JSON() {
		_ = f.Failure(result.Errors[0].Code, result.Errors[0].Message, result)
		return NewExitError(ExitFailure, msg)
	}

	fmt.Fprintln(f.Writer, "✗ Validation failed")
	fmt.Fprintln(f.Writer)
	for _, e := range result.Errors {
		loc := e.File
		if e.Line > 0 {
			loc = fmt.Sprintf("%s:%d", e.File, e.Line)
		}
		fmt.Fprintf(f.Writer, "%s\n  %s: %s\n\n", loc, e.Code, e.Message)
	}
	return NewExitError(ExitFailure, msg)
}

// findInputFiles returns path itself, or the scenario and seed files below
// it when it is a directory.
func findInputFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		switch filepath.Ext(p) {
		case ".yaml", ".yml", ".cue":
			if !d.IsDir() {
				files = append(files, p)
			}
		}
		return nil
	})
	return files, err
}

func validateSeed(file string) []ValidationError {
	if _, err := seed.Load(file); err != nil {
		return []ValidationError{seedError(file, err)}
	}
	return nil
}

func seedError(file string, err error) ValidationError {
	ve := ValidationError{File: file, Message: err.Error(), Code: ErrCodeInvalidSeed}
	var cErr *seed.CompileError
	if errors.As(err, &cErr) {
		ve.Field = cErr.Field
		ve.Message = cErr.Message
		if cErr.Pos.IsValid() {
			ve.Line = cErr.Pos.Line()
		}
	}
	return ve
}

// validateScenarioFile parses the scenario, compiles its seed and decodes
// every step against the seed state. Labels never fail to decode; they
// fall back to seed IDs. Renames need the entity as it is when the step
// runs, so they are checked at run time only.
func validateScenarioFile(file string) []ValidationError {
	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return []ValidationError{{File: file, Message: err.Error(), Code: ErrCodeInvalidScenario}}
	}

	catalog, err := seed.Load(scenario.Seed)
	if err != nil {
		return []ValidationError{seedError(file, err)}
	}

	var errs []ValidationError
	state := catalog.State()
	for i, step := range scenario.Steps {
		if step.Do == app.DoRename {
			continue
		}
		if _, err := app.DecodeStep(state, step.Step); err != nil {
			errs = append(errs, ValidationError{
				File:    file,
				Field:   fmt.Sprintf("steps[%d]", i),
				Message: err.Error(),
				Code:    ErrCodeInvalidScenario,
			})
		}
	}
	return errs
}
