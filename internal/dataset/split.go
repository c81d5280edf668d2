package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"rdfpipe/internal/logger"
)

// ErrNoChunks is returned when the requested chunk count is below one.
var ErrNoChunks = errors.New("chunk count must be at least 1")

// ChunkFileName returns the file name of chunk i.
func ChunkFileName(i int) string {
	return fmt.Sprintf("data_chunk_%d.csv", i)
}

// Splitter cuts a dataset into a fixed number of chunk files.
type Splitter struct {
	logger *logger.Logger
}

// NewSplitter creates a new splitter instance.
func NewSplitter(log *logger.Logger) *Splitter {
	return &Splitter{logger: log}
}

// Split writes nChunks files named data_chunk_{i}.csv into outputDir,
// creating the directory when absent. The first nChunks-1 chunks hold
// rows/nChunks rows each; the last chunk absorbs the remainder. Every chunk
// repeats the header and source order is preserved. When nChunks exceeds the
// row count the leading chunks are header-only.
func (s *Splitter) Split(datasetPath string, nChunks int, outputDir string) ([]string, error) {
	if nChunks < 1 {
		return nil, ErrNoChunks
	}

	table, err := ReadTable(datasetPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	chunkSize := len(table.Rows) / nChunks
	paths := make([]string, 0, nChunks)

	for i := 0; i < nChunks; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if i == nChunks-1 {
			end = len(table.Rows)
		}

		chunk := &Table{Header: table.Header, Rows: table.Rows[start:end]}
		path := filepath.Join(outputDir, ChunkFileName(i))

		if err := chunk.WriteTable(path); err != nil {
			return nil, err
		}

		s.logger.Debug(fmt.Sprintf("Wrote chunk %d with %d rows to %s", i, len(chunk.Rows), path))
		paths = append(paths, path)
	}

	s.logger.Info(fmt.Sprintf("Split %d rows into %d chunks under %s", len(table.Rows), nChunks, outputDir))

	return paths, nil
}
