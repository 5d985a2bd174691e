// Package shows coordinates catalog writes, duplicate detection, and
// enrichment into the operations the CLI exposes.
package shows

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"marquee/internal/catalog"
	"marquee/internal/enrich"
	"marquee/internal/identity"
	"marquee/internal/metadata"
)

// Outcome describes what AddShow did with the submitted entry.
type Outcome string

const (
	OutcomeAdded     Outcome = "added"
	OutcomeDuplicate Outcome = "duplicate"
)

// Store is the catalog surface the manager needs.
type Store interface {
	identity.Lister
	Insert(ctx context.Context, data catalog.NewShow) (int64, error)
	GetByID(ctx context.Context, id int64) (*catalog.Show, error)
	Update(ctx context.Context, id int64, updates catalog.FieldUpdates) error
	Search(ctx context.Context, filters catalog.Filters) ([]*catalog.Show, error)
}

// Extractor identifies shows in playbill images.
type Extractor interface {
	ExtractShows(ctx context.Context, imageData []byte, imageMIME string) ([]metadata.ShowCandidate, error)
}

// Enricher runs an enrichment pass over one show.
type Enricher interface {
	Enrich(ctx context.Context, id int64, force bool) (*catalog.Show, error)
}

// Manager is the entry point for catalog mutations.
type Manager struct {
	store      Store
	resolver   *identity.Resolver
	engine     Enricher
	extractor  Extractor
	autoEnrich bool
	logger     *slog.Logger
}

// NewManager wires a manager over its collaborators. autoEnrich is the
// configured default for enriching newly added shows.
func NewManager(store Store, engine Enricher, extractor Extractor, autoEnrich bool, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		store:      store,
		resolver:   identity.NewResolver(store),
		engine:     engine,
		extractor:  extractor,
		autoEnrich: autoEnrich,
		logger:     logger,
	}
}

// AddOption adjusts a single AddShow call.
type AddOption func(*addOptions)

type addOptions struct {
	autoEnrich *bool
}

// WithAutoEnrich overrides the configured auto-enrich default for this add.
func WithAutoEnrich(enabled bool) AddOption {
	return func(o *addOptions) {
		o.autoEnrich = &enabled
	}
}

// AddShow catalogs a show unless an equivalent entry already exists. A
// duplicate is an outcome, not an error; the returned id then names the
// existing record. Auto-enrichment failures are logged and never fail the
// add.
func (m *Manager) AddShow(ctx context.Context, data catalog.NewShow, opts ...AddOption) (int64, Outcome, error) {
	var options addOptions
	for _, opt := range opts {
		opt(&options)
	}

	existing, err := m.resolver.FindDuplicate(ctx, data.ShowName, data.TheaterName, data.DateAttended)
	if err != nil {
		return 0, "", fmt.Errorf("add show: %w", err)
	}
	if existing != nil {
		m.logger.Info("duplicate show skipped",
			"show", data.ShowName, "theater", data.TheaterName, "existing_id", existing.ID)
		return existing.ID, OutcomeDuplicate, nil
	}

	id, err := m.store.Insert(ctx, data)
	if err != nil {
		return 0, "", fmt.Errorf("add show: %w", err)
	}
	m.logger.Info("show added", "show_id", id, "show", data.ShowName, "theater", data.TheaterName)

	enrichNow := m.autoEnrich
	if options.autoEnrich != nil {
		enrichNow = *options.autoEnrich
	}
	if enrichNow && m.engine != nil {
		if _, err := m.engine.Enrich(ctx, id, false); err != nil {
			m.logger.Warn("auto-enrichment failed", "show_id", id, "error", err)
		}
	}

	return id, OutcomeAdded, nil
}

// ExtractFromImage identifies the shows visible in a playbill photograph.
func (m *Manager) ExtractFromImage(ctx context.Context, imageData []byte, imageMIME string) ([]metadata.ShowCandidate, error) {
	if m.extractor == nil {
		return nil, fmt.Errorf("extract shows: no provider configured")
	}
	return m.extractor.ExtractShows(ctx, imageData, imageMIME)
}

// Enrich runs an enrichment pass over one show.
func (m *Manager) Enrich(ctx context.Context, id int64, force bool) (*catalog.Show, error) {
	if m.engine == nil {
		return nil, fmt.Errorf("enrich show: no provider configured")
	}
	return m.engine.Enrich(ctx, id, force)
}

// GetShow fetches a show; a missing id reports catalog.ErrNotFound.
func (m *Manager) GetShow(ctx context.Context, id int64) (*catalog.Show, error) {
	show, err := m.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if show == nil {
		return nil, catalog.ErrNotFound
	}
	return show, nil
}

// UpdateShow applies a partial update to a show.
func (m *Manager) UpdateShow(ctx context.Context, id int64, updates catalog.FieldUpdates) (*catalog.Show, error) {
	if err := m.store.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return m.GetShow(ctx, id)
}

// SearchShows returns the shows matching the filters.
func (m *Manager) SearchShows(ctx context.Context, filters catalog.Filters) ([]*catalog.Show, error) {
	return m.store.Search(ctx, filters)
}

// ListShows returns every cataloged show.
func (m *Manager) ListShows(ctx context.Context) ([]*catalog.Show, error) {
	return m.store.ListAll(ctx)
}

var _ Enricher = (*enrich.Engine)(nil)
