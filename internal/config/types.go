package config

// TstbuildConfig is the top-level configuration structure for tstbuild.
type TstbuildConfig struct {
	// CatalogPath points at commands.jsn. Empty means next to the executable.
	CatalogPath string         `yaml:"catalogPath,omitempty"`
	LogLevel    string         `yaml:"logLevel,omitempty"`
	Editor      EditorSettings `yaml:"editor"`
	Output      OutputSettings `yaml:"output"`
}

// EditorSettings configures the interactive editor.
type EditorSettings struct {
	HistoryFile string `yaml:"historyFile,omitempty"`
	Prompt      string `yaml:"prompt,omitempty"`
}

// OutputSettings configures command output.
type OutputSettings struct {
	Format string `yaml:"format,omitempty"` // "table", "json" or "yaml"
	// Color is a pointer so an overlay can switch colors off explicitly.
	Color *bool `yaml:"color,omitempty"`
}

// ColorEnabled reports whether styled output is enabled.
func (o OutputSettings) ColorEnabled() bool {
	return o.Color == nil || *o.Color
}

// Output formats accepted by the output.format setting.
const (
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
)
