// Package logging provides subsystem-tagged structured logging for tstbuild.
//
// It is a thin layer over log/slog. Call InitForCLI once at startup; the
// Debug, Info, Warn and Error helpers then attach a "subsystem" attribute to
// every record so output from the catalog loader, the file codec and the
// editor session can be told apart:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//	logging.Info("Catalog", "Loaded %d command definitions", n)
package logging
