// ABOUTME: Entry point for gridshift
// ABOUTME: Handles command-line parsing, profiling, config loading and starts the TUI

// Package main provides the entry point for gridshift, a terminal CSV viewer whose
// columns and rows are reordered by dragging their headers.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"gridshift/config"
	"gridshift/tui"
)

const debugLogFile = "gridshift-debug.log"

func main() {
	os.Exit(run())
}

func run() int {
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile := flag.String("memprofile", "", "write memory profile to file")
	configPath := flag.String("config", "", "config file (default: ./gridshift.toml or ~/.config/gridshift/config.toml)")
	debug := flag.Bool("debug", false, "enable debug logging to "+debugLogFile)
	dryRun := flag.Bool("dry-run", false, "browse and rearrange without writing changes")
	output := flag.String("output", "", "write the rearranged sheet to this file (default: overwrite input)")
	watch := flag.Bool("watch", false, "reload the sheet when the file changes on disk")
	frozenCols := flag.Int("frozen-cols", -1, "columns to freeze (default: from config)")
	frozenRows := flag.Int("frozen-rows", -1, "rows to freeze (default: from config)")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Println("Usage: gridshift [flags] <sheet.csv>")
		fmt.Println("Example: gridshift -frozen-cols 1 -frozen-rows 1 inventory.csv")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()

		return 1
	}

	if *cpuprofile != "" {
		stopCPUProfile := setupCPUProfile(*cpuprofile)
		defer stopCPUProfile()
	}

	if *memprofile != "" {
		defer writeMemoryProfile(*memprofile)
	}

	if *debug {
		if err := SetupDebugLog(debugLogFile); err != nil {
			log.Printf("Failed to setup debug log: %v", err)

			return 1
		}
	}

	path := *configPath
	if path == "" {
		path = config.GetConfigPath()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Printf("Config error: %v", err)

		return 1
	}

	debugf("[MAIN] Loaded config from %s", path)

	opts := tui.Options{
		CSVPath:    args[0],
		OutputPath: *output,
		ConfigPath: path,
		DryRun:     *dryRun,
		Watch:      *watch,
		FrozenCols: cfg.Grid.FrozenCols,
		FrozenRows: cfg.Grid.FrozenRows,
	}

	if *frozenCols >= 0 {
		opts.FrozenCols = *frozenCols
	}

	if *frozenRows >= 0 {
		opts.FrozenRows = *frozenRows
	}

	if err := tui.Run(opts, cfg, debugf); err != nil {
		log.Printf("TUI error: %v", err)

		return 1
	}

	return 0
}

// setupCPUProfile starts CPU profiling, returns cleanup function
func setupCPUProfile(filename string) func() {
	f, err := os.Create(filename)
	if err != nil {
		log.Fatalf("could not create CPU profile: %v", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		log.Fatalf("could not start CPU profile: %v", err)
	}

	return func() {
		pprof.StopCPUProfile()

		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close CPU profile: %v", err)
		}
	}
}

// writeMemoryProfile writes memory profile to file
func writeMemoryProfile(filename string) {
	f, err := os.Create(filename)
	if err != nil {
		log.Printf("could not create memory profile: %v", err)

		return
	}

	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close memory profile: %v", err)
		}
	}()

	runtime.GC()

	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Printf("could not write memory profile: %v", err)
	}
}
