package season

import (
	"context"

	"dormdesk/internal/domain/listing"
)

// Store is the seasons list container.
type Store struct {
	*listing.Store[*Season]
}

// NewStore creates the seasons container over resource.
func NewStore(resource listing.Resource[*Season]) *Store {
	base := listing.NewStore(listing.StoreConfig[*Season]{
		Resource:   resource,
		EntityName: "season",
	})
	return &Store{Store: base}
}

// ActiveOnly narrows the list to active seasons.
func (s *Store) ActiveOnly(ctx context.Context) error {
	return s.ApplyFilters(ctx, map[string]string{"is_active": "1"}, "")
}

// ByCode returns the loaded season with code.
func (s *Store) ByCode(code string) (*Season, bool) {
	for _, it := range s.Items() {
		if it.Code == code {
			return it, true
		}
	}
	return nil, false
}
