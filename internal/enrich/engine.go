// Package enrich fills missing show metadata from the configured provider.
package enrich

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"marquee/internal/catalog"
)

// Store is the catalog surface the engine needs.
type Store interface {
	GetByID(ctx context.Context, id int64) (*catalog.Show, error)
	Update(ctx context.Context, id int64, updates catalog.FieldUpdates) error
}

// Metadata is the provider surface the engine needs.
type Metadata interface {
	EnrichShow(ctx context.Context, showName, theaterName string, fields []string) (map[string]any, error)
	MatchCategories(ctx context.Context, showName, theaterName, plotSummary string, candidates []string) ([]string, error)
}

// Engine orchestrates a single show's enrichment pass.
type Engine struct {
	store          Store
	meta           Metadata
	userCategories []string
	logger         *slog.Logger
}

// NewEngine constructs an enrichment engine. userCategories is the
// configured personal category list matched against plot summaries.
func NewEngine(store Store, meta Metadata, userCategories []string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{store: store, meta: meta, userCategories: userCategories, logger: logger}
}

// Enrich fills the show's missing metadata and returns the refreshed record.
// With force set, every enrichable field is requested and accepted; without
// it only fields the record currently lacks are requested, and response keys
// outside that set are discarded. When nothing is missing and force is off,
// the provider is never called. A failed provider request degrades to an
// empty response: the pass logs a warning, still refreshes user categories
// against any existing plot summary, and returns the record.
func (e *Engine) Enrich(ctx context.Context, id int64, force bool) (*catalog.Show, error) {
	show, err := e.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if show == nil {
		return nil, catalog.ErrNotFound
	}

	var requested []string
	if !force {
		requested = SelectMissingFields(show)
		if len(requested) == 0 {
			e.logger.Debug("nothing to enrich", "show_id", id)
			return show, nil
		}
	}

	values, err := e.meta.EnrichShow(ctx, show.ShowName, show.TheaterName, requested)
	if err != nil {
		e.logger.Warn("enrichment request failed", "show_id", id, "error", err)
		values = map[string]any{}
	}

	requestedSet := make(map[string]bool, len(requested))
	for _, field := range requested {
		requestedSet[field] = true
	}

	updates := catalog.FieldUpdates{}
	for field, value := range values {
		if value == nil || !IsEnrichable(field) {
			continue
		}
		if !force && !requestedSet[field] {
			continue
		}
		updates[field] = value
	}

	plotSummary := show.PlotSummary
	if updated, ok := updates["plot_summary"].(string); ok && strings.TrimSpace(updated) != "" {
		plotSummary = updated
	}
	if strings.TrimSpace(plotSummary) != "" && len(e.userCategories) > 0 {
		matched, matchErr := e.meta.MatchCategories(ctx, show.ShowName, show.TheaterName, plotSummary, e.userCategories)
		if matchErr != nil {
			e.logger.Warn("category match failed", "show_id", id, "error", matchErr)
		}
		if matched == nil {
			matched = []string{}
		}
		updates["user_categories"] = matched
	}

	if len(updates) > 0 {
		if err := e.store.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("persist enrichment for show %d: %w", id, err)
		}
		e.logger.Info("show enriched", "show_id", id, "fields", len(updates), "force", force)
	}

	return e.store.GetByID(ctx, id)
}
