package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pandeyaakriti/finPal/internal/common"
)

// httpGateway talks to a classifier served over HTTP. The request carries
// the transaction text; the response uses the same JSON shape as the
// subprocess transport.
type httpGateway struct {
	httpClient *http.Client
	logger     *slog.Logger
	url        string
	strict     bool
}

func newHTTPGateway(cfg Config, logger *slog.Logger) (Gateway, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: classifier url", common.ErrMissingConfig)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &httpGateway{
		url:    cfg.URL,
		strict: cfg.StrictLabels,
		logger: logger,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// Classify sends a classification request to the HTTP service.
func (g *httpGateway) Classify(ctx context.Context, text string) (Prediction, error) {
	if strings.TrimSpace(text) == "" {
		return Prediction{}, fmt.Errorf("%w: empty text", common.ErrClassificationFailed)
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", common.ErrClassificationFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: failed to read response: %v", common.ErrClassificationFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Prediction{}, fmt.Errorf("%w: classifier returned status %d: %s",
			common.ErrClassificationFailed, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed response
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Prediction{}, fmt.Errorf("%w: malformed response: %v", common.ErrClassificationFailed, err)
	}

	return resolve(parsed, g.strict, g.logger)
}
