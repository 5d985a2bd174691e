package identity

import (
	"context"
	"fmt"

	"marquee/internal/catalog"
)

// Lister provides the candidate records a duplicate scan walks.
type Lister interface {
	ListAll(ctx context.Context) ([]*catalog.Show, error)
}

// Resolver finds existing catalog entries that match an incoming show.
type Resolver struct {
	store Lister
}

// NewResolver constructs a Resolver over a catalog store.
func NewResolver(store Lister) *Resolver {
	return &Resolver{store: store}
}

// FindDuplicate scans the catalog for an entry with the same normalized show
// and theater names. When dateAttended is supplied, only a candidate whose
// attended date matches it exactly counts; a dateless query matches the first
// name match regardless of the candidate's date. Returns nil when no
// duplicate exists.
func (r *Resolver) FindDuplicate(ctx context.Context, showName, theaterName, dateAttended string) (*catalog.Show, error) {
	shows, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shows for duplicate scan: %w", err)
	}

	wantShow := Normalize(showName)
	wantTheater := Normalize(theaterName)

	for _, candidate := range shows {
		if Normalize(candidate.ShowName) != wantShow || Normalize(candidate.TheaterName) != wantTheater {
			continue
		}
		if dateAttended != "" && candidate.DateAttended != dateAttended {
			continue
		}
		return candidate, nil
	}
	return nil, nil
}
