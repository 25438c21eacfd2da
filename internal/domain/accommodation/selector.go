package accommodation

import (
	"context"

	"dormdesk/internal/core/apperror"
)

// Lookup fetches the option lists the selector cascades through.
type Lookup interface {
	ActiveRooms(ctx context.Context, apartID int64) ([]Room, error)
	AvailableBeds(ctx context.Context, roomID int64) ([]Bed, error)
	Bed(ctx context.Context, bedID int64) (*Bed, error)
}

// Selection is the apart → room → bed choice with its option caches.
// Methods return a new value; the receiver is never modified.
type Selection struct {
	ApartID int64 `json:"apart_id,omitempty"`
	RoomID  int64 `json:"room_id,omitempty"`
	BedID   int64 `json:"bed_id,omitempty"`

	Rooms []Room `json:"rooms"`
	Beds  []Bed  `json:"beds"`
	Bed   *Bed   `json:"bed,omitempty"`
}

// SelectApart sets the apart and clears everything below it before loading
// the apart's active rooms. A zero id only clears.
//
// On a fetch error the cleared selection is still returned.
func (s Selection) SelectApart(ctx context.Context, lookup Lookup, apartID int64) (Selection, error) {
	next := Selection{ApartID: apartID, Rooms: []Room{}, Beds: []Bed{}}
	if apartID == 0 {
		return next, nil
	}
	rooms, err := lookup.ActiveRooms(ctx, apartID)
	if err != nil {
		return next, err
	}
	next.Rooms = append(next.Rooms, rooms...)
	return next, nil
}

// SelectRoom sets the room and clears the bed before loading available beds.
func (s Selection) SelectRoom(ctx context.Context, lookup Lookup, roomID int64) (Selection, error) {
	next := s.clone()
	next.RoomID = 0
	next.BedID = 0
	next.Bed = nil
	next.Beds = []Bed{}
	if roomID == 0 {
		return next, nil
	}
	if next.ApartID == 0 {
		return next, apperror.NewFieldValidation("", map[string][]string{"apart_id": {"select an apart first"}})
	}
	if !containsRoom(next.Rooms, roomID) {
		return next, apperror.NewFieldValidation("", map[string][]string{"room_id": {"room does not belong to the selected apart"}})
	}
	next.RoomID = roomID

	beds, err := lookup.AvailableBeds(ctx, roomID)
	if err != nil {
		return next, err
	}
	next.Beds = append(next.Beds, beds...)
	return next, nil
}

// SelectBed sets the bed and loads its detail for display.
func (s Selection) SelectBed(ctx context.Context, lookup Lookup, bedID int64) (Selection, error) {
	next := s.clone()
	next.BedID = 0
	next.Bed = nil
	if bedID == 0 {
		return next, nil
	}
	if next.RoomID == 0 {
		return next, apperror.NewFieldValidation("", map[string][]string{"room_id": {"select a room first"}})
	}
	if !containsBed(next.Beds, bedID) {
		return next, apperror.NewFieldValidation("", map[string][]string{"bed_id": {"bed is not available in the selected room"}})
	}
	next.BedID = bedID

	bed, err := lookup.Bed(ctx, bedID)
	if err != nil {
		return next, err
	}
	next.Bed = bed
	return next, nil
}

// Complete reports whether a bed has been picked down the whole chain.
func (s Selection) Complete() bool {
	return s.ApartID != 0 && s.RoomID != 0 && s.BedID != 0
}

func (s Selection) clone() Selection {
	out := s
	out.Rooms = append([]Room{}, s.Rooms...)
	out.Beds = append([]Bed{}, s.Beds...)
	if s.Bed != nil {
		b := *s.Bed
		out.Bed = &b
	}
	return out
}

func containsRoom(rooms []Room, id int64) bool {
	for _, r := range rooms {
		if r.ID == id {
			return true
		}
	}
	return false
}

func containsBed(beds []Bed, id int64) bool {
	for _, b := range beds {
		if b.ID == id {
			return true
		}
	}
	return false
}
