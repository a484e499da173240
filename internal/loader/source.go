package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// Source supplies the raw delimited dataset text. Implementations return
// an error for anything that makes the source unusable; the loader maps
// every such error to the fallback dataset.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPSource fetches the dataset from a remote URL.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPSource creates a dataset fetcher with a bounded request timeout.
func NewHTTPSource(url string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads the dataset body. Transport errors, non-2xx statuses,
// and empty bodies are all "unusable source" errors; the caller does not
// distinguish them beyond the message.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("dataset fetch failed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read dataset body: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("dataset fetch returned an empty body")
	}

	s.logger.Debug("dataset fetched", "url", s.url, "bytes", len(body))
	return body, nil
}

// FileSource reads the dataset from a local path, the well-known location
// the export lands at.
type FileSource struct {
	path string
}

// NewFileSource creates a local-file dataset source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Fetch(_ context.Context) ([]byte, error) {
	body, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("dataset file %s is empty", s.path)
	}
	return body, nil
}

// looksLikeHTML is a cheap prefix sniff catching the common failure where
// a misconfigured host serves an error page or SPA shell instead of the
// tabular export.
func looksLikeHTML(body []byte) bool {
	head := body
	if len(head) > 512 {
		head = head[:512]
	}
	prefix := strings.ToLower(strings.TrimSpace(string(head)))
	return strings.HasPrefix(prefix, "<!doctype") || strings.HasPrefix(prefix, "<html")
}
