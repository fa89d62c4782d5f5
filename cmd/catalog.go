package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// commandsCmd lists the command catalog
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the commands of the command catalog",
	Long: `List every command of the command catalog, sorted by name, with its
argument descriptors and reply descriptor.`,
	Args: cobra.NoArgs,
	RunE: runCommands,
}

// describeCmd shows the fields of one command
var describeCmd = &cobra.Command{
	Use:   "describe <command>",
	Short: "Show the argument fields of a command",
	Long: `Show the value-bearing fields of a catalog command in declaration
order. Struct arguments are flattened into their fields.`,
	Args: cobra.ExactArgs(1),
	RunE: runDescribe,
}

// parseCmd parses descriptor strings without a catalog
var parseCmd = &cobra.Command{
	Use:   "parse <descriptor>...",
	Short: "Parse type descriptor strings",
	Long: `Parse one or more type descriptors such as 'host_slot:u1', 'name:s32'
or '{mode:u1,path:s256}' and show the resulting types.

Malformed sizes are read as 0 and unknown type letters are reported as
unknown, exactly as the catalog loader does.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func runCommands(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	return newRenderer(cmd.OutOrStdout()).Catalog(cat)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	def := cat.Find(args[0])
	if def == nil {
		return fmt.Errorf("command '%s' not found in the catalog", args[0])
	}
	return newRenderer(cmd.OutOrStdout()).Definition(def)
}

func runParse(cmd *cobra.Command, args []string) error {
	return newRenderer(cmd.OutOrStdout()).Descriptors(args)
}

func init() {
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(parseCmd)
}
