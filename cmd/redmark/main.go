// cmd/redmark/main.go
package main

import (
	"encoding/json"
	"fmt"
	stlog "log" // Use standard log for FATAL errors before logger is ready
	"os"

	"github.com/redmarkhq/redmark/internal/app"
	"github.com/redmarkhq/redmark/internal/clipboard"
	"github.com/redmarkhq/redmark/internal/config"
	"github.com/redmarkhq/redmark/internal/engine"
	"github.com/redmarkhq/redmark/internal/export"
	"github.com/redmarkhq/redmark/internal/logger"
)

const version = "0.2.0"

func main() {
	// --- Argument & Flag Parsing ---
	flags := &config.Flags{}
	args := flags.ParseFlags()

	if flags.Version != nil && *flags.Version {
		fmt.Printf("%s version %s\n", config.AppName, version)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(*flags.ConfigFilePath, flags)
	if err != nil {
		stlog.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Logger Initialization ---
	logWriter := os.Stderr
	logFilePath := cfg.Logger.LogFilePath
	if logFilePath == "" {
		logFilePath = config.DefaultLogFileName
	}
	if logFilePath != "-" {
		logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			stlog.Fatalf("Failed to open log file '%s': %v", logFilePath, err)
		}
		defer logFile.Close()
		logWriter = logFile
	}
	logger.Init(cfg.Logger, logWriter)

	if len(args) == 0 {
		stlog.Fatalf("Usage: %s [flags] <file>", config.AppName)
	}
	filePath := args[0]
	logger.Infof("Starting %s...", config.AppName)
	logger.Debugf("File path specified: %s", filePath)

	// --- One-shot export mode ---
	if flags.Export != nil && *flags.Export {
		if err := runExport(filePath, cfg, flags); err != nil {
			logger.Errorf("Export failed: %v", err)
			fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// --- Create and Run App ---
	redmarkApp, err := app.NewApp(filePath, cfg, flags)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := redmarkApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger.Infof("%s finished.", config.AppName)
}

// runExport produces an M2 report without entering the interactive view.
// With -ops, the operations in the JSON file are applied first; otherwise
// the report covers the untouched text and contains only the noop line.
func runExport(filePath string, cfg *config.Config, flags *config.Flags) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read '%s': %w", filePath, err)
	}

	eng := engine.New(nil)
	st := eng.NewSession(string(data))

	if flags.OpsPath != nil && *flags.OpsPath != "" {
		opsData, err := os.ReadFile(*flags.OpsPath)
		if err != nil {
			return fmt.Errorf("failed to read operations file: %w", err)
		}
		var ops []engine.Operation
		if err := json.Unmarshal(opsData, &ops); err != nil {
			return fmt.Errorf("failed to parse operations file: %w", err)
		}
		st.Tokens = eng.Apply(st.Original, ops)
		st.Operations = ops
		logger.Infof("Applied %d operations from %s", len(ops), *flags.OpsPath)
	}

	cards := export.DeriveCards(st.Tokens)
	report := export.Report(st.Original, st.Tokens, cards, export.Assignments{})

	if flags.Clipboard != nil && *flags.Clipboard {
		clip := clipboard.NewManager(cfg.Editor.SystemClipboard)
		if err := clip.Write(report); err != nil {
			logger.Warnf("Clipboard write failed: %v", err)
		}
	}

	if flags.OutPath != nil && *flags.OutPath != "" {
		outPath := *flags.OutPath
		if err := os.WriteFile(outPath, []byte(report+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Infof("Report written to %s", outPath)
		return nil
	}

	fmt.Println(report)
	return nil
}
