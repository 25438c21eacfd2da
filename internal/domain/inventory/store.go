package inventory

import (
	"context"
	"strconv"

	"dormdesk/internal/domain/listing"
)

// Assigner performs the backend's assignment verbs. Assignment is never a
// plain update of the item.
type Assigner interface {
	Assign(ctx context.Context, itemID int64, target Target) (*Item, error)
	Unassign(ctx context.Context, itemID int64) (*Item, error)
}

// Store is the inventory list container. When scoped to a target it lists the
// items assigned there, and moving an item away drops it from the list.
type Store struct {
	*listing.Store[*Item]
	assigner Assigner
	scope    *Target
}

// NewStore creates an inventory container. scope may be nil for the global list.
func NewStore(resource listing.Resource[*Item], assigner Assigner, scope *Target) *Store {
	filter := listing.DefaultListFilter()
	filter.Filters = scopeFilters(scope, filter.Filters)
	return &Store{
		Store: listing.NewStore(listing.StoreConfig[*Item]{
			Resource:   resource,
			EntityName: "inventory item",
			Filter:     &filter,
		}),
		assigner: assigner,
		scope:    scope,
	}
}

// ApplyFilters replaces the user filters; the scope filters always stay.
func (s *Store) ApplyFilters(ctx context.Context, filters map[string]string, search string) error {
	return s.Store.ApplyFilters(ctx, scopeFilters(s.scope, filters), search)
}

// Query loads the page described by f within the scope.
func (s *Store) Query(ctx context.Context, f listing.ListFilter) error {
	f = f.Clone()
	f.Filters = scopeFilters(s.scope, f.Filters)
	return s.Store.Query(ctx, f)
}

// Scope returns the target the list is narrowed to, or nil.
func (s *Store) Scope() *Target {
	return s.scope
}

// Assign moves the item to target.
func (s *Store) Assign(ctx context.Context, itemID int64, target Target) (*Item, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	var updated *Item
	err := s.Track(ctx, "assign", itemID, func(ctx context.Context) error {
		var err error
		updated, err = s.assigner.Assign(ctx, itemID, target)
		return err
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		updated = s.local(itemID)
		classPath := target.Kind.ClassPath()
		id := target.ID
		updated.AssignableType, updated.AssignableID = &classPath, &id
	}
	s.reconcile(itemID, updated)
	return updated, nil
}

// Unassign detaches the item from whatever it is assigned to.
func (s *Store) Unassign(ctx context.Context, itemID int64) (*Item, error) {
	var updated *Item
	err := s.Track(ctx, "unassign", itemID, func(ctx context.Context) error {
		var err error
		updated, err = s.assigner.Unassign(ctx, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		updated = s.local(itemID)
		updated.AssignableType, updated.AssignableID = nil, nil
	}
	s.reconcile(itemID, updated)
	return updated, nil
}

// local copies the loaded item, or starts a blank one when the page does not hold it.
func (s *Store) local(itemID int64) *Item {
	if it, ok := s.Find(itemID); ok {
		cp := *it
		return &cp
	}
	item := &Item{}
	item.ID = itemID
	return item
}

func (s *Store) reconcile(itemID int64, updated *Item) {
	if s.scope != nil {
		at, ok := updated.Assignment()
		if !ok || at != *s.scope {
			s.Dispatch(listing.Remove[*Item](itemID))
			return
		}
	}
	s.Dispatch(listing.UpdateByID(updated))
}

// scopeFilters returns a copy of filters with the scope's assignable_type and
// assignable_id set.
func scopeFilters(scope *Target, filters map[string]string) map[string]string {
	out := make(map[string]string, len(filters)+2)
	for k, v := range filters {
		out[k] = v
	}
	if scope != nil {
		out["assignable_type"] = scope.Kind.ClassPath()
		out["assignable_id"] = strconv.FormatInt(scope.ID, 10)
	}
	return out
}
