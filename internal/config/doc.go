// Package config provides configuration management for tstbuild.
//
// Configuration is loaded from YAML files and merged in order, with later
// sources overriding earlier ones:
//
//  1. Default configuration (built into the binary)
//  2. User configuration (~/.config/tstbuild/config.yaml)
//  3. Project configuration (./.tstbuild/config.yaml)
//
// Example file:
//
//	catalogPath: /opt/fujinet/commands.jsn
//	logLevel: debug
//	editor:
//	  historyFile: /home/me/.tstbuild_history
//	  prompt: "tst> "
//	output:
//	  format: yaml   # table, json or yaml
//	  color: false
//
// An empty catalogPath means commands.jsn next to the executable. Command line
// flags override whatever the files set.
//
// The filename rules of test files (eight characters, .tst extension) are
// fixed by the target platform and cannot be configured.
package config
