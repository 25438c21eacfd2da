package backend

import (
	"context"
	"strconv"

	"dormdesk/internal/domain/accommodation"
	"dormdesk/internal/domain/catalogs/product"
	"dormdesk/internal/domain/registration"
)

var (
	_ accommodation.Lookup     = (*API)(nil)
	_ registration.PriceLookup = (*API)(nil)
)

// ActiveRooms lists the active rooms of an apart.
func (a *API) ActiveRooms(ctx context.Context, apartID int64) ([]accommodation.Room, error) {
	rooms, err := a.Rooms.All(ctx, map[string]string{
		"apart_id": strconv.FormatInt(apartID, 10),
		"status":   accommodation.RoomActive,
	})
	return deref(rooms), err
}

// AvailableBeds lists the available beds of a room.
func (a *API) AvailableBeds(ctx context.Context, roomID int64) ([]accommodation.Bed, error) {
	beds, err := a.Beds.All(ctx, map[string]string{
		"room_id": strconv.FormatInt(roomID, 10),
		"status":  accommodation.BedAvailable,
	})
	return deref(beds), err
}

// Bed fetches bed detail.
func (a *API) Bed(ctx context.Context, bedID int64) (*accommodation.Bed, error) {
	return a.Beds.Find(ctx, bedID)
}

// Prices lists product prices for an apart and season.
func (a *API) Prices(ctx context.Context, apartID int64, seasonCode string) ([]product.Price, error) {
	prices, err := a.ProductPrices.All(ctx, map[string]string{
		"apart_id":    strconv.FormatInt(apartID, 10),
		"season_code": seasonCode,
	})
	return deref(prices), err
}

func deref[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, p := range in {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}
