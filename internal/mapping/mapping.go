// Package mapping converts CSV chunks to RDF by driving an external RML
// mapper. Rule and CSV specifiers may each name a single file or a set,
// and the invoker covers every combination of the two.
package mapping

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"rdfpipe/internal/logger"
	"rdfpipe/internal/rdfcheck"
	"rdfpipe/pkg/fileset"
)

// Invoker runs the mapper across rule/CSV combinations.
type Invoker struct {
	runner Runner
	logger *logger.Logger
}

// NewInvoker creates an invoker backed by the given runner.
func NewInvoker(runner Runner, log *logger.Logger) *Invoker {
	return &Invoker{
		runner: runner,
		logger: log,
	}
}

// Result aggregates the outcome of a mapping run.
type Result struct {
	Invocations int
	Failures    int
	Outputs     []string
	Errors      []error
}

// Map resolves the CSV and rule specifiers and invokes the mapper for
// each combination. Individual mapper failures are recorded and do not
// stop the remaining invocations.
func (inv *Invoker) Map(ctx context.Context, csvSpec, rulesSpec, outputSpec string) (*Result, error) {
	rulePaths, err := fileset.Resolve(rulesSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rule specifier: %w", err)
	}

	csvPaths, err := fileset.Resolve(csvSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve CSV specifier: %w", err)
	}

	rulesMulti := fileset.IsMulti(rulesSpec)
	csvMulti := fileset.IsMulti(csvSpec)

	result := &Result{}

	switch {
	case rulesMulti && csvMulti:
		for j, rulePath := range rulePaths {
			for i, csvPath := range csvPaths {
				output := filepath.Join(outputSpec, fmt.Sprintf("output_%d_%d.ttl", i, j))
				inv.invoke(ctx, result, rulePath, csvPath, output)
			}
		}
	case rulesMulti:
		// Every rule writes the same output target, so later rules
		// overwrite earlier ones.
		for j, rulePath := range rulePaths {
			if j > 0 {
				inv.logger.Warn("Output target already written by a previous rule", "output", outputSpec, "rules", rulesSpec)
			}
			inv.invoke(ctx, result, rulePath, csvPaths[0], outputSpec)
		}
	case csvMulti:
		for i, csvPath := range csvPaths {
			output := filepath.Join(outputSpec, fmt.Sprintf("output_%d.ttl", i))
			inv.invoke(ctx, result, rulePaths[0], csvPath, output)
		}
	default:
		inv.invoke(ctx, result, rulePaths[0], csvPaths[0], outputSpec)
	}

	inv.logger.Info("Mapping run complete",
		"invocations", result.Invocations,
		"failures", result.Failures)

	return result, nil
}

// invoke runs a single mapping and records the outcome on result.
func (inv *Invoker) invoke(ctx context.Context, result *Result, rulePath, csvPath, outputPath string) {
	result.Invocations++

	inv.logger.Info("Mapping CSV to RDF", "csv", csvPath, "rules", rulePath, "output", outputPath)

	if err := inv.mapOne(ctx, rulePath, csvPath, outputPath); err != nil {
		inv.logger.Error("Mapping failed", "csv", csvPath, "rules", rulePath, "error", err)
		result.Failures++
		result.Errors = append(result.Errors, fmt.Errorf("mapping %s with %s: %w", csvPath, rulePath, err))
		return
	}

	result.Outputs = append(result.Outputs, outputPath)

	stats, err := rdfcheck.Inspect(outputPath)
	if err != nil {
		inv.logger.Warn("Generated RDF could not be parsed", "output", outputPath, "error", err)
		return
	}

	inv.logger.Info("Generated RDF", "output", outputPath, "triples", stats.Triples, "subjects", stats.Subjects)
}

// mapOne materializes the rule template for one CSV file and runs the
// mapper on it. The temp rule file is removed whether or not the run
// succeeds.
func (inv *Invoker) mapOne(ctx context.Context, rulePath, csvPath, outputPath string) error {
	if err := writeRuleFile(rulePath, csvPath); err != nil {
		return err
	}

	defer func() {
		if err := os.Remove(TempRuleFile); err != nil && !os.IsNotExist(err) {
			inv.logger.Warn("Failed to remove temp rule file", "file", TempRuleFile, "error", err)
		}
	}()

	return inv.runner.Run(ctx, TempRuleFile, outputPath)
}
