package classifier

import (
	"fmt"
	"log/slog"
	"strings"
)

// NewGateway creates a classifier gateway based on the configured provider.
func NewGateway(cfg Config, logger *slog.Logger) (Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch strings.ToLower(cfg.Provider) {
	case "", "subprocess":
		return newSubprocessGateway(cfg, logger)
	case "http":
		return newHTTPGateway(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", cfg.Provider)
	}
}
