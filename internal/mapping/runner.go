package mapping

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"rdfpipe/internal/logger"
)

// Defaults for the JVM hosting the mapper.
const (
	DefaultJavaPath    = "java"
	DefaultInitialHeap = "512m"
	DefaultMaxHeap     = "10g"
	DefaultGC          = "UseG1GC"
)

// ErrMapperFailed is returned when the mapper process exits with an error
var ErrMapperFailed = errors.New("mapper process failed")

// Runner executes one mapping run against a rule file, producing RDF at
// the output path.
type Runner interface {
	Run(ctx context.Context, rulesPath, outputPath string) error
}

// JavaRunner runs the RML mapper JAR in a child JVM.
type JavaRunner struct {
	// MapperPath locates the mapper JAR
	MapperPath string
	// JavaPath is the java executable to launch
	JavaPath string
	// InitialHeap and MaxHeap size the JVM (-Xms / -Xmx)
	InitialHeap string
	MaxHeap     string
	// GC names the collector enabled via -XX:+
	GC string

	logger *logger.Logger
}

// Verify interface compliance
var _ Runner = (*JavaRunner)(nil)

// NewJavaRunner creates a runner for the mapper JAR with default JVM settings.
func NewJavaRunner(mapperPath string, log *logger.Logger) *JavaRunner {
	return &JavaRunner{
		MapperPath:  mapperPath,
		JavaPath:    DefaultJavaPath,
		InitialHeap: DefaultInitialHeap,
		MaxHeap:     DefaultMaxHeap,
		GC:          DefaultGC,
		logger:      log,
	}
}

// Run launches the mapper against rulesPath and writes RDF to outputPath.
// Mapper stdout passes through, stderr is captured for error reporting.
func (r *JavaRunner) Run(ctx context.Context, rulesPath, outputPath string) error {
	args := r.args(rulesPath, outputPath)

	r.logger.Debug("Launching mapper", "java", r.JavaPath, "args", args)

	cmd := exec.CommandContext(ctx, r.JavaPath, args...)
	cmd.Stdout = os.Stdout

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %v: %s", ErrMapperFailed, err, stderr.String())
	}

	return nil
}

func (r *JavaRunner) args(rulesPath, outputPath string) []string {
	return []string{
		"-Xms" + r.InitialHeap,
		"-Xmx" + r.MaxHeap,
		"-XX:+" + r.GC,
		"-jar", r.MapperPath,
		"-m", rulesPath,
		"-o", outputPath,
	}
}
