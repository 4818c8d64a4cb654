package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/kozaktomas/group-memory/internal/ai"
	"github.com/kozaktomas/group-memory/internal/ask"
	"github.com/kozaktomas/group-memory/internal/blob"
	"github.com/kozaktomas/group-memory/internal/config"
	"github.com/kozaktomas/group-memory/internal/database/sqlstore"
	"github.com/prometheus/client_golang/prometheus"
)

// openStore connects to the configured database and applies migrations.
func openStore(ctx context.Context, cfg *config.Config) (*sqlstore.Store, error) {
	slog.Debug("connecting to database", "driver", cfg.Database.Driver)
	store, err := sqlstore.Open(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Database.Driver, err)
	}
	return store, nil
}

// newBlobs builds the blob router for the configured backend.
func newBlobs(ctx context.Context, cfg *config.Config) (*blob.Router, error) {
	blobs, err := blob.New(ctx, &cfg.Blob, cfg.AI.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to set up %s blob backend: %w", cfg.Blob.Backend, err)
	}
	return blobs, nil
}

// newModel builds the configured model. A missing credential is not fatal:
// the model is nil, the credential error is returned as modelErr and asks
// answer with a "not configured" message.
func newModel(ctx context.Context, cfg *config.Config) (model ai.Model, modelErr, err error) {
	model, err = ai.NewModel(ctx, cfg)
	if errors.Is(err, ai.ErrMissingCredential) {
		slog.Warn("AI model is not configured", "provider", cfg.AI.Provider, "error", err)
		return nil, err, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create AI model: %w", err)
	}
	return model, nil, nil
}

// newAskService wires the ask service. reg may be nil.
func newAskService(cfg *config.Config, groups *sqlstore.Store, blobs blob.Getter, model ai.Model, modelErr error, reg prometheus.Registerer) *ask.Service {
	return ask.NewService(groups, blobs, model, ask.Options{
		Provider:     cfg.AI.Provider,
		Timeout:      cfg.AI.Timeout,
		MaxImageSize: cfg.AI.MaxImageSize,
		ModelErr:     modelErr,
		Messages:     ask.NewMessages(cfg.Locale),
		Metrics:      ask.NewMetrics(reg),
	})
}

func outputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
