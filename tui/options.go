// ABOUTME: TUI mode configuration and command-line options
// ABOUTME: Defines input parameters for running the TUI

package tui

// Options contains configuration for running the TUI
type Options struct {
	CSVPath    string // Path to input sheet
	OutputPath string // Path for saving (defaults to CSVPath)
	ConfigPath string // Config file written back on quit; empty skips it
	DryRun     bool   // If true, don't save changes to disk
	Watch      bool   // Reload the sheet when the file changes on disk
	FrozenCols int    // Initially frozen columns
	FrozenRows int    // Initially frozen rows
}
