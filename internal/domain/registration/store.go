package registration

import (
	"context"

	"dormdesk/internal/domain/listing"
)

// Store is the season registrations list container.
type Store struct {
	*listing.Store[*SeasonRegistration]
}

// NewStore creates the registrations container over resource.
func NewStore(resource listing.Resource[*SeasonRegistration]) *Store {
	return &Store{Store: listing.NewStore(listing.StoreConfig[*SeasonRegistration]{
		Resource:   resource,
		EntityName: "season registration",
	})}
}

// ForSeason narrows the list to one season, optionally searching by guest name.
func (s *Store) ForSeason(ctx context.Context, seasonCode, search string) error {
	return s.ApplyFilters(ctx, map[string]string{"season_code": seasonCode}, search)
}
