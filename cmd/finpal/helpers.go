package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/pandeyaakriti/finPal/internal/classifier"
	"github.com/pandeyaakriti/finPal/internal/config"
	"github.com/pandeyaakriti/finPal/internal/labeler"
	"github.com/pandeyaakriti/finPal/internal/retraining"
	"github.com/pandeyaakriti/finPal/internal/storage"
)

// initStorage opens the configured database and brings the schema current.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/finpal/finpal.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newGateway builds the classifier gateway from configuration.
func newGateway() (classifier.Gateway, error) {
	cfg := classifier.Config{
		Provider:     viper.GetString("classifier.provider"),
		Script:       config.ExpandPath(viper.GetString("classifier.script")),
		Python:       viper.GetString("classifier.python"),
		URL:          viper.GetString("classifier.url"),
		Timeout:      viper.GetDuration("classifier.timeout"),
		StrictLabels: viper.GetBool("classifier.strict_labels"),
	}
	return classifier.NewGateway(cfg, slog.Default())
}

// newCoordinator builds the retraining coordinator from configuration.
func newCoordinator(store *storage.SQLiteStorage) *retraining.Coordinator {
	runner := &retraining.ProcessRunner{
		Python: viper.GetString("retraining.python"),
		Script: config.ExpandPath(viper.GetString("retraining.script")),
		Logger: slog.Default(),
	}
	cfg := retraining.Config{
		AutoRetrain:    viper.GetBool("retraining.auto"),
		MinCorrections: viper.GetInt("retraining.min_corrections"),
		Epochs:         viper.GetInt("retraining.epochs"),
		LearningRate:   viper.GetFloat64("retraining.learning_rate"),
	}
	return retraining.New(store, runner, cfg, slog.Default())
}

// newLabeler wires a labeler to the configured classifier gateway.
func newLabeler(store *storage.SQLiteStorage, opts ...labeler.Option) (*labeler.Labeler, error) {
	gateway, err := newGateway()
	if err != nil {
		return nil, err
	}
	return labeler.New(store, gateway, slog.Default(), opts...), nil
}

// formatWhen renders an optional timestamp for report output.
func formatWhen(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
