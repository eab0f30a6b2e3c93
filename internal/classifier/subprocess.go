package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/pandeyaakriti/finPal/internal/common"
)

// The prediction script may print warnings around its JSON payload, so the
// payload is extracted rather than parsed from the raw stream.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// subprocessGateway invokes the prediction script as a child process,
// passing the text on argv and reading JSON from stdout.
type subprocessGateway struct {
	logger  *slog.Logger
	python  string
	script  string
	timeout time.Duration
	strict  bool
}

func newSubprocessGateway(cfg Config, logger *slog.Logger) (Gateway, error) {
	if cfg.Script == "" {
		return nil, fmt.Errorf("%w: classifier script path", common.ErrMissingConfig)
	}

	python := cfg.Python
	if python == "" {
		python = "python3"
	}
	if _, err := exec.LookPath(python); err != nil {
		return nil, fmt.Errorf("python interpreter not found at %s: %w", python, err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &subprocessGateway{
		python:  python,
		script:  cfg.Script,
		timeout: timeout,
		strict:  cfg.StrictLabels,
		logger:  logger,
	}, nil
}

// Classify runs the prediction script for one transaction remark.
func (g *subprocessGateway) Classify(ctx context.Context, text string) (Prediction, error) {
	if strings.TrimSpace(text) == "" {
		return Prediction{}, fmt.Errorf("%w: empty text", common.ErrClassificationFailed)
	}

	cmdCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(cmdCtx, g.python, g.script, "--predict", text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return Prediction{}, fmt.Errorf("%w: %s", common.ErrClassificationFailed, strings.TrimSpace(stderr.String()))
		}
		return Prediction{}, fmt.Errorf("%w: %v", common.ErrClassificationFailed, err)
	}

	return g.parseOutput(stdout.String())
}

// parseOutput extracts the JSON payload from the script's stdout.
func (g *subprocessGateway) parseOutput(output string) (Prediction, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return Prediction{}, fmt.Errorf("%w: empty output from prediction script", common.ErrClassificationFailed)
	}

	payload := jsonObjectPattern.FindString(output)
	if payload == "" {
		return Prediction{}, fmt.Errorf("%w: no JSON in prediction output", common.ErrClassificationFailed)
	}

	var resp response
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return Prediction{}, fmt.Errorf("%w: malformed prediction output: %v", common.ErrClassificationFailed, err)
	}

	return resolve(resp, g.strict, g.logger)
}
