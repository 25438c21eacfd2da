// Package inventory provides trackable items (furniture, appliances, linen) and
// their polymorphic assignment to an apart, a room or a bed.
package inventory

import (
	"context"
	"fmt"
	"strings"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/entity"
)

// Item statuses.
const (
	StatusInUse       = "in_use"
	StatusInStorage   = "in_storage"
	StatusMaintenance = "maintenance"
	StatusDisposed    = "disposed"
)

// Kind is the type of entity an item can be assigned to.
type Kind string

const (
	KindApart Kind = "Apart"
	KindRoom  Kind = "Room"
	KindBed   Kind = "Bed"
)

// Valid reports whether k is a known assignable kind.
func (k Kind) Valid() bool {
	switch k {
	case KindApart, KindRoom, KindBed:
		return true
	}
	return false
}

// ClassPath returns the backend's namespaced model name for k,
// e.g. App\Modules\Room\Models\Room.
func (k Kind) ClassPath() string {
	return fmt.Sprintf(`App\Modules\%s\Models\%s`, k, k)
}

// ParseKind extracts the kind from a class path by taking its trailing
// segment. Bare names ("Room", "room") are accepted too.
func ParseKind(assignableType string) (Kind, bool) {
	s := strings.TrimSpace(assignableType)
	if i := strings.LastIndexAny(s, `\/.`); i >= 0 {
		s = s[i+1:]
	}
	if s == "" {
		return "", false
	}
	k := Kind(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
	return k, k.Valid()
}

// Item is a tracked inventory item.
type Item struct {
	entity.Base

	TrackingNumber string  `json:"tracking_number"`
	ItemType       string  `json:"item_type"`
	Name           *string `json:"name,omitempty"`
	Status         string  `json:"status"`

	// AssignableType and AssignableID are both set or both nil
	AssignableType *string `json:"assignable_type"`
	AssignableID   *int64  `json:"assignable_id"`
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	fields := map[string][]string{}
	if strings.TrimSpace(i.TrackingNumber) == "" {
		fields["tracking_number"] = []string{"tracking number is required"}
	}
	if strings.TrimSpace(i.ItemType) == "" {
		fields["item_type"] = []string{"item type is required"}
	}
	switch i.Status {
	case StatusInUse, StatusInStorage, StatusMaintenance, StatusDisposed:
	default:
		fields["status"] = []string{"status must be in_use, in_storage, maintenance or disposed"}
	}
	if (i.AssignableType == nil) != (i.AssignableID == nil) {
		fields["assignable_id"] = []string{"assignable type and id must be set together"}
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation("inventory item is invalid", fields)
	}
	return nil
}

// Assignment returns where the item currently is, if anywhere.
func (i *Item) Assignment() (Target, bool) {
	if i.AssignableType == nil || i.AssignableID == nil {
		return Target{}, false
	}
	kind, ok := ParseKind(*i.AssignableType)
	if !ok {
		return Target{}, false
	}
	return Target{Kind: kind, ID: *i.AssignableID}, true
}

// Target identifies an assignable entity.
type Target struct {
	Kind Kind  `json:"kind"`
	ID   int64 `json:"id"`
}

// Validate checks kind and id.
func (t Target) Validate() error {
	fields := map[string][]string{}
	if !t.Kind.Valid() {
		fields["kind"] = []string{"kind must be Apart, Room or Bed"}
	}
	if t.ID <= 0 {
		fields["id"] = []string{"target id is required"}
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation("assignment target is invalid", fields)
	}
	return nil
}
