// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

// Command log-analyzer processes every *.wpilog file in a folder and
// reports the interval and triggered-sampling analyses named by a JSON
// configuration file (spec §6.4).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HuskieRobotics/log-analyzer/internal/analysis"
	"github.com/HuskieRobotics/log-analyzer/internal/config"
	"github.com/HuskieRobotics/log-analyzer/internal/fieldstore"
	"github.com/HuskieRobotics/log-analyzer/internal/ingest"
	"github.com/HuskieRobotics/log-analyzer/internal/runtimeenv"
	"github.com/HuskieRobotics/log-analyzer/pkg/log"
	"github.com/HuskieRobotics/log-analyzer/pkg/structschema"
	"github.com/HuskieRobotics/log-analyzer/pkg/wpilog"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("log-analyzer", flag.ContinueOnError)
	flagEnvFile := fs.String("env", "./.env", "Overwrite the process environment from this .env-style file, if present")
	flagLogLevel := fs.String("log-level", "", "Minimum log level: debug, info, warn, err (overrides LOG_ANALYZER_LOG_LEVEL)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if err := runtimeenv.LoadEnv(*flagEnvFile); err != nil && !os.IsNotExist(err) {
		log.Warnf("[CLI]> failed to load %s: %s", *flagEnvFile, err)
	}

	level := *flagLogLevel
	if level == "" {
		level = runtimeenv.LogLevel("info")
	}
	log.SetLevel(level)

	rest := fs.Args()
	if len(rest) != 2 {
		fmt.Fprintln(os.Stderr, "usage: log-analyzer <log_folder> <config.json>")
		return 1
	}
	logFolder, configPath := rest[0], rest[1]

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Errorf("[CLI]> %s", err)
		return 1
	}

	files, err := wpilogFiles(logFolder)
	if err != nil {
		log.Errorf("[CLI]> %s", err)
		return 1
	}
	if len(files) == 0 {
		log.Warnf("[CLI]> no .wpilog files found in %s", logFolder)
	}

	schemas := structschema.NewRegistry()
	ctx := context.Background()
	for _, path := range files {
		processFile(ctx, path, schemas, cfg)
	}
	return 0
}

// wpilogFiles lists the *.wpilog files directly inside folder, sorted
// by name.
func wpilogFiles(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read log folder %s: %w", folder, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == ".wpilog" {
			files = append(files, filepath.Join(folder, e.Name()))
		}
	}
	return files, nil
}

// processFile ingests one WPILOG file into its own fresh Log (schemas
// are shared across files per §5, the field store is not) and prints
// its analysis report. A file that fails to open or fails header
// validation is skipped, not fatal to the run (§7).
func processFile(ctx context.Context, path string, schemas *structschema.Registry, cfg analysis.Config) {
	f, err := wpilog.OpenFile(path)
	if err != nil {
		log.Warnf("[CLI]> skipping %s: %s", path, err)
		return
	}
	defer f.Close()

	l := fieldstore.NewLog()
	p := ingest.New(l, schemas)

	it := f.Records()
	for {
		rr, ok := it.Next()
		if !ok {
			break
		}
		p.Ingest(rr)
	}

	report, err := analysis.Run(ctx, l, cfg)
	if err != nil {
		log.Errorf("[CLI]> analysis failed for %s: %s", path, err)
		return
	}
	printReport(path, report)
}

func printReport(path string, report analysis.Report) {
	fmt.Printf("=== %s ===\n", path)

	fmt.Println("-- time analysis --")
	for _, r := range report.TimeResults {
		printConfigResult(r)
	}

	fmt.Println("-- value analysis --")
	for _, r := range report.ValueResults {
		printConfigResult(r)
	}
}

func printConfigResult(r analysis.ConfigResult) {
	fmt.Printf("%s: %d samples\n", r.Label, r.SampleCount)
	for _, c := range r.Calculations {
		if c.Err != nil {
			fmt.Printf("  %s: %s\n", c.Name, c.Err)
			continue
		}
		fmt.Printf("  %s: %g\n", c.Name, c.Value)
	}
}
