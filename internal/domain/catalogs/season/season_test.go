package season

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/entity"
	"dormdesk/internal/core/types"
	"dormdesk/internal/domain/listing"
)

func TestSeason_Validate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		season     Season
		wantFields []string
	}{
		{
			name:   "valid",
			season: Season{Code: "2025-FALL", Name: "Fall", StartDate: types.MustDate("2025-09-01"), EndDate: types.MustDate("2026-01-31")},
		},
		{
			name:       "lowercase code",
			season:     Season{Code: "fall", Name: "Fall", StartDate: types.MustDate("2025-09-01"), EndDate: types.MustDate("2026-01-31")},
			wantFields: []string{"code"},
		},
		{
			name:       "end before start",
			season:     Season{Code: "S1", Name: "Fall", StartDate: types.MustDate("2025-09-01"), EndDate: types.MustDate("2025-08-01")},
			wantFields: []string{"end_date"},
		},
		{
			name:       "empty",
			season:     Season{},
			wantFields: []string{"code", "name", "start_date", "end_date"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.season.Validate(ctx)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			fields := apperror.FieldErrors(err)
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
			assert.Len(t, fields, len(tt.wantFields))
		})
	}
}

func TestSeason_Contains(t *testing.T) {
	s := Season{StartDate: types.MustDate("2025-09-01"), EndDate: types.MustDate("2025-12-31")}

	assert.True(t, s.Contains(types.MustDate("2025-09-01")))
	assert.True(t, s.Contains(types.MustDate("2025-12-31")))
	assert.False(t, s.Contains(types.MustDate("2026-01-01")))
}

type seasonsResource struct {
	items     []*Season
	lastQuery listing.ListFilter
}

func (r *seasonsResource) List(ctx context.Context, f listing.ListFilter) (listing.ListResult[*Season], error) {
	r.lastQuery = f
	return listing.ListResult[*Season]{Items: r.items, Meta: listing.Meta{CurrentPage: 1, LastPage: 1, PerPage: f.PerPage, Total: len(r.items)}}, nil
}

func (r *seasonsResource) Create(ctx context.Context, s *Season) (*Season, error) { return s, nil }
func (r *seasonsResource) Update(ctx context.Context, s *Season) (*Season, error) { return s, nil }
func (r *seasonsResource) Delete(ctx context.Context, id int64) error { return nil }

func TestStore_ActiveOnlyAndByCode(t *testing.T) {
	res := &seasonsResource{items: []*Season{
		{Base: entity.Base{ID: 1}, Code: "S24", IsActive: true},
		{Base: entity.Base{ID: 2}, Code: "S25", IsActive: true},
	}}
	store := NewStore(res)

	require.NoError(t, store.ActiveOnly(context.Background()))
	assert.Equal(t, "1", res.lastQuery.Filters["is_active"])
	assert.Equal(t, 1, res.lastQuery.Page)

	got, ok := store.ByCode("S25")
	require.True(t, ok)
	assert.Equal(t, int64(2), got.ID)

	_, ok = store.ByCode("S99")
	assert.False(t, ok)
}
