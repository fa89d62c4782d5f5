package config

import (
	"os"
	"path/filepath"
)

const historyFileName = "history"

// GetDefaultConfig returns the built-in configuration every layer is merged onto.
func GetDefaultConfig() TstbuildConfig {
	enabled := true
	return TstbuildConfig{
		CatalogPath: "",
		LogLevel:    "info",
		Editor: EditorSettings{
			HistoryFile: defaultHistoryFile(),
			Prompt:      "tst> ",
		},
		Output: OutputSettings{
			Format: OutputFormatTable,
			Color:  &enabled,
		},
	}
}

// defaultHistoryFile keeps editor history next to the user config, or in the
// temp directory when the home directory is unknown.
func defaultHistoryFile() string {
	dir, err := GetUserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".tstbuild_history")
	}
	return filepath.Join(dir, historyFileName)
}
