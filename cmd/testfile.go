package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tstbuild/internal/color"
	"tstbuild/internal/entry"
	"tstbuild/internal/testfile"
	"tstbuild/internal/validation"
)

var (
	validateStrict bool
	previewWrite   bool
	previewForce   bool
)

// validateCmd checks test files against the catalog
var validateCmd = &cobra.Command{
	Use:   "validate <file.tst>...",
	Short: "Validate test files against the command catalog",
	Long: `Load each test file, resolve its commands against the catalog and
report validation errors and warnings.

The command exits non-zero when any file has errors, or warnings when
--strict is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

// previewCmd re-serializes a test file
var previewCmd = &cobra.Command{
	Use:   "preview <file.tst>",
	Short: "Print a test file in canonical form",
	Long: `Load a test file and print it the way the editor would save it:
known keys first in fixed order, arguments in catalog order and typed
according to their descriptors.

With --write the canonical form replaces the file contents. The entries
are validated first: errors always prevent the write, and warnings
prevent it unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

// normalizeCmd applies the filename rules
var normalizeCmd = &cobra.Command{
	Use:   "normalize <path>",
	Short: "Apply the 8-character .tst filename rules to a path",
	Long: `Print the path with its file name truncated to 8 characters and the
extension forced to .tst. Names that stay invalid after normalization
(empty, or with characters such as * or ?) are reported as errors.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	renderer := newRenderer(cmd.OutOrStdout())

	failed := 0
	for _, path := range args {
		entries, err := testfile.Load(path, cat)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n", color.Error("✗"), path, err)
			failed++
			continue
		}
		result := validation.ValidateAll(entries)
		if err := renderer.Validation(path, result); err != nil {
			return err
		}
		if !result.Valid() || (validateStrict && result.HasWarnings()) {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("validation failed for %d of %d file(s)", failed, len(args))
	}
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	entries, err := testfile.Load(args[0], cat)
	if err != nil {
		return err
	}

	if previewWrite {
		return writeCanonical(cmd, args[0], entries)
	}
	text, err := testfile.Serialize(entries)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

// writeCanonical saves entries in place once they pass validation.
func writeCanonical(cmd *cobra.Command, path string, entries []*entry.TestEntry) error {
	result := validation.ValidateAll(entries)
	if !result.Valid() || result.HasWarnings() {
		if err := newRenderer(cmd.ErrOrStderr()).Validation(path, result); err != nil {
			return err
		}
	}
	if !result.Valid() {
		return fmt.Errorf("not writing %s: %d validation error(s)", path, len(result.Errors))
	}
	if result.HasWarnings() && !previewForce {
		return fmt.Errorf("not writing %s: %d warning(s), use --force to write anyway", path, len(result.Warnings))
	}
	return testfile.Save(path, entries)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	normalized := testfile.NormalizeFilename(args[0])
	fmt.Fprintln(cmd.OutOrStdout(), normalized)

	base := strings.TrimSuffix(filepath.Base(normalized), filepath.Ext(normalized))
	result := validation.ValidateFilename(base)
	if result.Valid() {
		return nil
	}
	if err := newRenderer(cmd.ErrOrStderr()).Validation(normalized, result); err != nil {
		return err
	}
	return fmt.Errorf("'%s' is not a valid test file name", normalized)
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(normalizeCmd)

	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat warnings as failures")
	previewCmd.Flags().BoolVarP(&previewWrite, "write", "w", false, "Rewrite the file in canonical form instead of printing it")
	previewCmd.Flags().BoolVarP(&previewForce, "force", "f", false, "With --write, write even when validation reports warnings")
}
