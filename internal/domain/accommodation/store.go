package accommodation

import (
	"context"
	"strconv"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/domain/listing"
)

// RoomStore is the rooms list container.
type RoomStore struct {
	*listing.Store[*Room]
}

// NewRoomStore creates the rooms container over resource.
func NewRoomStore(resource listing.Resource[*Room]) *RoomStore {
	return &RoomStore{Store: listing.NewStore(listing.StoreConfig[*Room]{
		Resource:   resource,
		EntityName: "room",
	})}
}

// ForApart narrows the list to the rooms of one apart.
func (s *RoomStore) ForApart(ctx context.Context, apartID int64, status string) error {
	filters := map[string]string{"apart_id": strconv.FormatInt(apartID, 10)}
	if status != "" {
		filters["status"] = status
	}
	return s.ApplyFilters(ctx, filters, "")
}

// SetStatus activates or deactivates the room with id.
func (s *RoomStore) SetStatus(ctx context.Context, id int64, status string) (*Room, error) {
	current, ok := s.Find(id)
	if !ok {
		return nil, apperror.NewNotFound("room", id)
	}
	next := *current
	next.Status = status
	return s.Update(ctx, &next)
}
