// Package classifier wraps the external transaction classifier behind a
// narrow gateway that returns (category id, confidence) pairs.
package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pandeyaakriti/finPal/internal/common"
	"github.com/pandeyaakriti/finPal/internal/model"
)

// Prediction is the normalized classifier output.
type Prediction struct {
	CategoryID int
	Confidence float64
}

// Gateway defines the contract for transaction classification. Any error is
// a ClassificationFailure for the one transaction; callers decide whether
// to skip, count, or surface it.
type Gateway interface {
	Classify(ctx context.Context, text string) (Prediction, error)
}

// Config holds configuration for the classifier gateway.
type Config struct {
	Provider     string
	Script       string
	Python       string
	URL          string
	Timeout      time.Duration
	StrictLabels bool
}

// response is the wire shape both transports share: a category name and a
// confidence score.
type response struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// resolve maps a raw classifier response into the fixed category id space.
// Unknown labels fall back to miscellaneous unless strict mode is on.
func resolve(resp response, strict bool, logger *slog.Logger) (Prediction, error) {
	if resp.Category == "" {
		return Prediction{}, fmt.Errorf("%w: response missing category", common.ErrClassificationFailed)
	}

	id, ok := model.CategoryID(resp.Category)
	if !ok {
		if strict {
			return Prediction{}, fmt.Errorf("%w: unknown category %q", common.ErrClassificationFailed, resp.Category)
		}
		logger.Warn("unknown classifier category, using miscellaneous",
			"category", resp.Category)
		id = model.MiscellaneousID
	}

	confidence := resp.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return Prediction{CategoryID: id, Confidence: confidence}, nil
}
