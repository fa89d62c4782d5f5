package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"tstbuild/internal/catalog"
	"tstbuild/internal/cli"
	"tstbuild/internal/color"
	"tstbuild/internal/config"
	"tstbuild/pkg/logging"
)

// Global flags. Empty values leave the configured setting in place.
var (
	catalogPath  string
	logLevel     string
	outputFormat string
	noColor      bool
)

// appConfig is the effective configuration once flags are applied.
var appConfig = config.GetDefaultConfig()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tstbuild",
	Short: "Build and check test files for the hardware test harness",
	Long: `tstbuild builds the .tst files consumed by the hardware test harness.

A test file is a JSON array of command invocations. Each command and its
typed arguments are taken from the command catalog (commands.jsn, looked up
next to the executable unless --catalog or catalogPath says otherwise).

Use 'tstbuild edit' to author a file interactively, or the other commands
to inspect the catalog and validate or reformat existing files.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. invalid arguments, failed validation)
	SilenceUsage:      true,
	PersistentPreRunE: setupEnvironment,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v // Set cobra's version field as well
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Set up version template
	rootCmd.SetVersionTemplate(`{{printf "tstbuild version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

// setupEnvironment loads the layered configuration, applies the global
// flags and initializes logging and colors.
func setupEnvironment(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if catalogPath != "" {
		cfg.CatalogPath = catalogPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if noColor {
		disabled := false
		cfg.Output.Color = &disabled
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.InitForCLI(level, os.Stderr)

	if _, err := cli.ParseOutputFormat(cfg.Output.Format); err != nil {
		return err
	}

	color.SetEnabled(cfg.Output.ColorEnabled())
	if cfg.Output.ColorEnabled() {
		color.Initialize(lipgloss.HasDarkBackground())
	} else {
		text.DisableColors()
	}

	appConfig = cfg
	return nil
}

// loadCatalog loads the configured command catalog.
func loadCatalog() (*catalog.Catalog, error) {
	path := appConfig.CatalogPath
	if path == "" {
		var err error
		path, err = catalog.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return catalog.Load(path)
}

// newRenderer returns a renderer for the configured output format.
func newRenderer(out io.Writer) *cli.Renderer {
	format, err := cli.ParseOutputFormat(appConfig.Output.Format)
	if err != nil {
		format = cli.OutputFormatTable
	}
	return cli.NewRenderer(out, format)
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())

	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Path to the command catalog (default: commands.jsn next to the executable)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: table, json or yaml")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}
