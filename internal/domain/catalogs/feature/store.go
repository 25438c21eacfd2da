package feature

import (
	"context"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/domain/listing"
)

// Store is the features list container.
type Store struct {
	*listing.Store[*Feature]
}

// NewStore creates the features container over resource.
func NewStore(resource listing.Resource[*Feature]) *Store {
	base := listing.NewStore(listing.StoreConfig[*Feature]{
		Resource:   resource,
		EntityName: "feature",
	})
	base.Hooks().OnBeforeCreate(fillSlug)
	base.Hooks().OnBeforeUpdate(fillSlug)
	return &Store{Store: base}
}

// Toggle flips IsActive of the loaded feature with id.
func (s *Store) Toggle(ctx context.Context, id int64) (*Feature, error) {
	current, ok := s.Find(id)
	if !ok {
		return nil, apperror.NewNotFound("feature", id)
	}
	next := *current
	next.IsActive = !current.IsActive
	return s.Update(ctx, &next)
}

func fillSlug(ctx context.Context, f *Feature) error {
	if f.Slug == "" {
		f.Slug = Slugify(f.Name)
	}
	return nil
}
