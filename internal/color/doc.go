// Package color provides the terminal color theme for tstbuild.
//
// Colors are organized into semantic categories:
//   - Error: validation errors and failed operations
//   - Warning: validation warnings and confirmations
//   - Success: completed saves and clean validations
//   - Info: headings and informational elements
//   - Muted: de-emphasized text
//
// All colors are lipgloss adaptive colors, so they resolve differently on
// dark and light terminals. Initialize fixes the background mode and
// SetEnabled(false) turns every Render helper into the identity function,
// which is what --no-color and the output.color setting use.
//
//	color.SetEnabled(cfg.Output.ColorEnabled())
//	fmt.Println(color.Error("Command must be selected."))
package color
