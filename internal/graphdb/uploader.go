package graphdb

import (
	"context"
	"fmt"
	"os"
	"time"

	"rdfpipe/internal/logger"
	"rdfpipe/internal/rdfcheck"
	"rdfpipe/pkg/fileset"
)

// Uploader pushes generated RDF files into a GraphDB repository.
type Uploader struct {
	client Client
	repo   string
	logger *logger.Logger
	verify bool
}

// NewUploader creates an uploader against the GraphDB server at baseURL.
// Files are decoded for triple counts before upload.
func NewUploader(baseURL, repo string, timeout time.Duration, log *logger.Logger) *Uploader {
	return &Uploader{
		client: NewHTTPClient(baseURL, timeout, log),
		repo:   repo,
		logger: log,
		verify: true,
	}
}

// NewUploaderWithClient creates an uploader with a custom client,
// primarily for testing. Verification is off.
func NewUploaderWithClient(client Client, repo string, log *logger.Logger) *Uploader {
	return &Uploader{
		client: client,
		repo:   repo,
		logger: log,
	}
}

// SetVerify toggles pre-upload Turtle verification.
func (u *Uploader) SetVerify(verify bool) {
	u.verify = verify
}

// UploadResult aggregates the outcome of an upload run.
type UploadResult struct {
	Attempted int
	Uploaded  int
	Triples   int
	Errors    []error
}

// UploadSource resolves the source specifier and uploads every file it
// names. A failed upload is recorded and does not stop the rest.
func (u *Uploader) UploadSource(ctx context.Context, source string) (*UploadResult, error) {
	paths, err := fileset.Resolve(source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload source: %w", err)
	}

	result := &UploadResult{}

	for _, path := range paths {
		result.Attempted++

		triples, err := u.uploadFile(ctx, path)
		if err != nil {
			u.logger.Error("Upload failed", "file", path, "error", err)
			result.Errors = append(result.Errors, fmt.Errorf("uploading %s: %w", path, err))
			continue
		}

		u.logger.Info("Uploaded file", "file", path, "repo", u.repo, "triples", triples)
		result.Uploaded++
		result.Triples += triples
	}

	u.logger.Info("Upload run complete",
		"attempted", result.Attempted,
		"uploaded", result.Uploaded,
		"failed", len(result.Errors))

	return result, nil
}

// uploadFile sends one file to the repository. Verification is
// informational: an unparseable file is logged but still uploaded, the
// server decides whether to accept it.
func (u *Uploader) uploadFile(ctx context.Context, path string) (int, error) {
	triples := 0
	if u.verify {
		stats, err := rdfcheck.Inspect(path)
		if err != nil {
			u.logger.Warn("RDF file could not be parsed", "file", path, "error", err)
		} else {
			triples = stats.Triples
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}

	if err := u.client.UploadStatements(ctx, u.repo, data); err != nil {
		return 0, err
	}

	return triples, nil
}
