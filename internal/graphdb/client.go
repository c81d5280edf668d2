// Package graphdb uploads RDF statements to a GraphDB repository over
// its REST API.
package graphdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rdfpipe/internal/logger"
)

const contentTypeTurtle = "text/turtle"

// maxErrorBody caps how much of an error response is read for reporting.
const maxErrorBody = 1 << 20

// ErrUnexpectedStatusCode is returned when GraphDB answers anything but 204
var ErrUnexpectedStatusCode = errors.New("unexpected status code from GraphDB")

// Client sends RDF statements to a repository.
type Client interface {
	UploadStatements(ctx context.Context, repo string, data []byte) error
}

// HTTPClient talks to a GraphDB server over HTTP.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

// Verify interface compliance
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the GraphDB server at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration, log *logger.Logger) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     log,
	}
}

// UploadStatements POSTs Turtle data to the repository's statements
// endpoint. GraphDB acknowledges a successful import with 204 No Content,
// any other status is an error.
func (c *HTTPClient) UploadStatements(ctx context.Context, repo string, data []byte) (err error) {
	url := fmt.Sprintf("%s/repositories/%s/statements", c.baseURL, repo)

	c.logger.Debug("Uploading statements", "url", url, "bytes", len(data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeTurtle)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatusCode, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}
