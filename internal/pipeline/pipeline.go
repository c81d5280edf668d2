// Package pipeline orchestrates the four processing stages: cleaning raw
// sensor CSV data, splitting it into chunks, mapping chunks to RDF, and
// uploading the results to GraphDB. Stages run sequentially and a failed
// stage does not stop the ones after it.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rdfpipe/internal/config"
	"rdfpipe/internal/dataset"
	"rdfpipe/internal/graphdb"
	"rdfpipe/internal/logger"
	"rdfpipe/internal/mapping"
)

// Stages selects which pipeline stages to run.
type Stages struct {
	Clean  bool
	Split  bool
	Map    bool
	Upload bool
}

// AllStages selects every stage.
func AllStages() Stages {
	return Stages{Clean: true, Split: true, Map: true, Upload: true}
}

// StageStatus is the outcome of a single stage.
type StageStatus string

const (
	StatusOK      StageStatus = "ok"
	StatusFailed  StageStatus = "failed"
	StatusSkipped StageStatus = "skipped"
)

// StageResult describes how one stage ended.
type StageResult struct {
	Name     string
	Status   StageStatus
	Detail   string
	Duration time.Duration
	Err      error
}

// Failed reports whether any stage in results failed.
func Failed(results []StageResult) bool {
	for _, result := range results {
		if result.Status == StatusFailed {
			return true
		}
	}

	return false
}

// Pipeline runs the processing stages against a loaded configuration.
type Pipeline struct {
	cfg    *config.Config
	logger *logger.Logger
	runID  string
	runner mapping.Runner
}

// New creates a pipeline for the given configuration. Every log line of
// the run carries a fresh run ID.
func New(cfg *config.Config, log *logger.Logger) *Pipeline {
	runID := uuid.New().String()

	return &Pipeline{
		cfg:    cfg,
		logger: log.With("run_id", runID),
		runID:  runID,
	}
}

// NewWithRunner creates a pipeline with a custom mapper runner,
// primarily for testing.
func NewWithRunner(cfg *config.Config, log *logger.Logger, runner mapping.Runner) *Pipeline {
	p := New(cfg, log)
	p.runner = runner

	return p
}

// RunID returns the identifier attached to this run's log lines.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Run executes the selected stages in order and returns one result per
// stage, including the skipped ones.
func (p *Pipeline) Run(ctx context.Context, stages Stages) []StageResult {
	defs := []struct {
		name    string
		enabled bool
		run     func(context.Context) (string, error)
	}{
		{"clean", stages.Clean, p.runClean},
		{"split", stages.Split, p.runSplit},
		{"mapping", stages.Map, p.runMapping},
		{"upload", stages.Upload, p.runUpload},
	}

	results := make([]StageResult, 0, len(defs))

	for _, def := range defs {
		if !def.enabled {
			p.logger.Debug("Stage skipped", "stage", def.name)
			results = append(results, StageResult{Name: def.name, Status: StatusSkipped})
			continue
		}

		p.logger.Info("Stage starting", "stage", def.name)

		start := time.Now()
		detail, err := def.run(ctx)
		duration := time.Since(start)

		if err != nil {
			p.logger.Error("Stage failed", "stage", def.name, "duration", duration, "error", err)
			results = append(results, StageResult{
				Name:     def.name,
				Status:   StatusFailed,
				Detail:   err.Error(),
				Duration: duration,
				Err:      err,
			})
			continue
		}

		p.logger.Info("Stage complete", "stage", def.name, "duration", duration, "detail", detail)
		results = append(results, StageResult{
			Name:     def.name,
			Status:   StatusOK,
			Detail:   detail,
			Duration: duration,
		})
	}

	return results
}

func (p *Pipeline) runClean(_ context.Context) (string, error) {
	if err := p.cfg.ValidateClean(); err != nil {
		return "", err
	}

	cleaner := dataset.NewCleaner(p.columns(), p.logger)

	rows, err := cleaner.Clean(p.cfg.CleanData.Input, p.cfg.CleanData.Output)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("cleaned %d rows", rows), nil
}

func (p *Pipeline) runSplit(_ context.Context) (string, error) {
	if err := p.cfg.ValidateSplit(); err != nil {
		return "", err
	}

	splitter := dataset.NewSplitter(p.logger)

	paths, err := splitter.Split(p.cfg.SplitDataset.DatasetPath, int(p.cfg.SplitDataset.NChunks), p.cfg.SplitDataset.OutputDir)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("wrote %d chunks", len(paths)), nil
}

func (p *Pipeline) runMapping(ctx context.Context) (string, error) {
	if err := p.cfg.ValidateMapping(); err != nil {
		return "", err
	}

	invoker := mapping.NewInvoker(p.mapperRunner(), p.logger)

	result, err := invoker.Map(ctx, p.cfg.CSVSource(), p.cfg.Mapping.RulesPath, p.cfg.Mapping.OutputPath)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d/%d mapper runs succeeded", result.Invocations-result.Failures, result.Invocations), nil
}

func (p *Pipeline) runUpload(ctx context.Context) (string, error) {
	if err := p.cfg.ValidateUpload(); err != nil {
		return "", err
	}

	uploader := graphdb.NewUploader(p.cfg.Upload.GraphDBURL, p.cfg.Upload.GraphDBRepo, p.cfg.Upload.GetTimeout(), p.logger)
	uploader.SetVerify(p.cfg.Upload.ShouldVerify())

	result, err := uploader.UploadSource(ctx, p.cfg.Mapping.OutputPath)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("uploaded %d/%d files", result.Uploaded, result.Attempted), nil
}

// mapperRunner returns the injected runner or builds a JVM runner from
// the configuration.
func (p *Pipeline) mapperRunner() mapping.Runner {
	if p.runner != nil {
		return p.runner
	}

	runner := mapping.NewJavaRunner(p.cfg.Mapping.MapperPath, p.logger)
	if p.cfg.Mapping.JavaPath != "" {
		runner.JavaPath = p.cfg.Mapping.JavaPath
	}
	if p.cfg.Mapping.InitialHeap != "" {
		runner.InitialHeap = p.cfg.Mapping.InitialHeap
	}
	if p.cfg.Mapping.MaxHeap != "" {
		runner.MaxHeap = p.cfg.Mapping.MaxHeap
	}
	if p.cfg.Mapping.GC != "" {
		runner.GC = p.cfg.Mapping.GC
	}

	return runner
}

// columns merges configured column names over the defaults.
func (p *Pipeline) columns() dataset.Columns {
	columns := dataset.DefaultColumns()

	configured := p.cfg.CleanData.Columns
	if configured.Timestamp != "" {
		columns.Timestamp = configured.Timestamp
	}
	if configured.Unit != "" {
		columns.Unit = configured.Unit
	}
	if configured.Quality != "" {
		columns.Quality = configured.Quality
	}
	if configured.Register != "" {
		columns.Register = configured.Register
	}
	if configured.Property != "" {
		columns.Property = configured.Property
	}

	return columns
}
