// Package main provides the rdfpipe command that cleans sensor datasets,
// splits them into chunks, maps the chunks to RDF, and uploads the
// results to GraphDB.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"rdfpipe/internal/config"
	"rdfpipe/internal/logger"
	"rdfpipe/internal/pipeline"
	"rdfpipe/internal/report"
)

const (
	Version = "0.1.0"
	appName = "rdfpipe"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		settingsPath string
		logLevel     string
		clean        bool
		split        bool
		mapping      bool
		upload       bool
		all          bool
	)

	cmd := &cobra.Command{
		Use:   "rdfpipe",
		Short: "Batch pipeline from sensor CSV data to RDF in GraphDB",
		Long: `Rdfpipe runs a batch pipeline over sensor CSV exports: it cleans the
raw data, splits it into chunks, maps each chunk to RDF with an external
RML mapper, and uploads the generated Turtle files to a GraphDB
repository.

Stages are selected with flags and always run in the fixed order
clean, split, mapping, upload. A failed stage is reported but does not
stop the stages after it.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			stages := pipeline.Stages{Clean: clean, Split: split, Map: mapping, Upload: upload}
			if all {
				stages = pipeline.AllStages()
			}

			return run(settingsPath, logLevel, stages)
		},
	}

	cmd.Flags().StringVarP(&settingsPath, "settings", "s", "", "Pipeline configuration file (JSON or YAML)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&clean, "clean", false, "Clean the raw dataset")
	cmd.Flags().BoolVarP(&split, "split", "p", false, "Split the cleaned dataset into chunks")
	cmd.Flags().BoolVarP(&mapping, "mapping", "m", false, "Map CSV chunks to RDF")
	cmd.Flags().BoolVarP(&upload, "upload", "u", false, "Upload generated RDF to GraphDB")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Run every stage")

	_ = cmd.MarkFlagRequired("settings")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func run(settingsPath, logLevel string, stages pipeline.Stages) error {
	log := logger.NewLogger(logLevel)

	cfg, err := config.LoadConfig(settingsPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if !stages.Clean && !stages.Split && !stages.Map && !stages.Upload {
		log.Warn("No stages selected")
		fmt.Println("⚠️  No stages selected. Pass --all or pick stages with --clean, --split, --mapping, --upload.")
		return nil
	}

	p := pipeline.New(cfg, log)

	log.Info(fmt.Sprintf("🚀 Starting pipeline run %s", p.RunID()))
	log.Info(fmt.Sprintf("📍 Settings: %s", settingsPath))

	startTime := time.Now()
	results := p.Run(context.Background(), stages)

	printSummary(results, time.Since(startTime))

	if pipeline.Failed(results) {
		log.Warn("⚠️  Pipeline finished with failed stages")
	} else {
		log.Info("✨ Pipeline complete!")
	}

	return nil
}

func printSummary(results []pipeline.StageResult, total time.Duration) {
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report\n")
	fmt.Println("------------------------------------------------")

	table := report.NewTable("STAGE", "STATUS", "DURATION", "DETAIL")
	for _, result := range results {
		table.AddRow(result.Name, statusLabel(result.Status), durationLabel(result), result.Detail)
	}
	fmt.Print(table.Render())

	fmt.Printf("Total Duration: %v\n", total)
	fmt.Println("------------------------------------------------")
}

func statusLabel(status pipeline.StageStatus) string {
	switch status {
	case pipeline.StatusOK:
		return "✅ ok"
	case pipeline.StatusFailed:
		return "❌ failed"
	default:
		return "skipped"
	}
}

func durationLabel(result pipeline.StageResult) string {
	if result.Status == pipeline.StatusSkipped {
		return "-"
	}

	return result.Duration.Round(time.Millisecond).String()
}
