// Package annotator calls the external AI annotation service. The service is
// untrusted and best-effort: callers must treat any error from Analyze as
// non-fatal and fall back to report.FallbackSummary.
package annotator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labtrends/labtrends/internal/config"
	"github.com/labtrends/labtrends/internal/domain/report"
	"go.uber.org/zap"
)

var ErrUnavailable = errors.New("annotator unavailable")

type Client struct {
	url  string
	http *http.Client
	log  *zap.Logger
}

func NewClient(cfg config.AnnotatorConfig, log *zap.Logger) *Client {
	return &Client{
		url: cfg.URL,
		// The client timeout is the hard deadline for the whole call; the
		// caller does not retry, it falls back.
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

type analyzeRequest struct {
	FilePath string `json:"file_path"`
}

// Analyze submits a stored file reference for annotation and returns the raw
// response with both schema generations intact. Normalization is the report
// package's job, not the transport's.
func (c *Client) Analyze(ctx context.Context, storageRef string) (*report.RawAnnotation, error) {
	body, err := json.Marshal(analyzeRequest{FilePath: storageRef})
	if err != nil {
		return nil, fmt.Errorf("encoding annotator request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building annotator request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("annotator call failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.log.Warn("annotator returned non-200", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var raw report.RawAnnotation
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.log.Warn("annotator response undecodable", zap.Error(err))
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	return &raw, nil
}
