package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tstbuild/internal/color"
	"tstbuild/internal/pattern"
	"tstbuild/internal/repl"
	"tstbuild/internal/session"
)

// editCmd starts the interactive editor
var editCmd = &cobra.Command{
	Use:   "edit [file.tst]",
	Short: "Edit a test file interactively",
	Long: `Start the interactive test file editor, optionally opening an existing
file. Type 'help' inside the editor for its commands.

The prompt and history file come from editor.prompt and editor.historyFile
in the configuration. History is kept in ~/.config/tstbuild/history unless
configured otherwise.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

// patternCmd documents and tests expected-reply patterns
var patternCmd = &cobra.Command{
	Use:   "pattern [<pattern> <reply>]",
	Short: "Show the expected-reply pattern syntax or test a reply",
	Long: `Without arguments, print the metacharacters understood in the
'expected' field. With a pattern and a reply, report whether they match.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("accepts 0 or 2 arg(s), received %d", len(args))
		}
		return nil
	},
	RunE: runPattern,
}

func runEdit(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	editor := repl.New(cat, session.OSFileSystem{}, repl.Options{
		Prompt:      appConfig.Editor.Prompt,
		HistoryFile: appConfig.Editor.HistoryFile,
	})
	if len(args) == 1 {
		if err := editor.Open(args[0]); err != nil {
			return err
		}
	}
	return editor.Run()
}

func runPattern(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		fmt.Fprintln(out, pattern.Reference())
		return nil
	}
	if !pattern.Match(args[0], args[1]) {
		fmt.Fprintln(out, color.Error("no match"))
		return fmt.Errorf("reply '%s' does not match pattern '%s'", args[1], args[0])
	}
	fmt.Fprintln(out, color.Success("match"))
	return nil
}

func init() {
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(patternCmd)
}
