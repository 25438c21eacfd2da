package feature

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/entity"
	"dormdesk/internal/domain/listing"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Wi-Fi":               "wi-fi",
		"  Air Conditioning ": "air-conditioning",
		"Gym & Pool!":         "gym-pool",
		"24h Security":        "24h-security",
		"":                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestFeature_Validate(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, (&Feature{Name: "Laundry"}).Validate(ctx))

	err := (&Feature{Name: "Laundry", Slug: "Bad Slug"}).Validate(ctx)
	assert.Contains(t, apperror.FieldErrors(err), "slug")

	err = (&Feature{Name: " "}).Validate(ctx)
	assert.Contains(t, apperror.FieldErrors(err), "name")
}

type featuresResource struct {
	items   []*Feature
	updated []*Feature
	nextID  int64
}

func (r *featuresResource) List(ctx context.Context, f listing.ListFilter) (listing.ListResult[*Feature], error) {
	return listing.ListResult[*Feature]{Items: r.items, Meta: listing.Meta{CurrentPage: 1, LastPage: 1, Total: len(r.items)}}, nil
}

func (r *featuresResource) Create(ctx context.Context, f *Feature) (*Feature, error) {
	r.nextID++
	out := *f
	out.ID = r.nextID
	return &out, nil
}

func (r *featuresResource) Update(ctx context.Context, f *Feature) (*Feature, error) {
	r.updated = append(r.updated, f)
	out := *f
	return &out, nil
}

func (r *featuresResource) Delete(ctx context.Context, id int64) error { return nil }

func TestStore_CreateFillsSlug(t *testing.T) {
	store := NewStore(&featuresResource{})

	created, err := store.Create(context.Background(), &Feature{Name: "Study Room"})
	require.NoError(t, err)
	assert.Equal(t, "study-room", created.Slug)
	assert.Equal(t, 1, store.Snapshot().Meta.Total)
}

func TestStore_Toggle(t *testing.T) {
	res := &featuresResource{items: []*Feature{
		{Base: entity.Base{ID: 5}, Name: "Parking", Slug: "parking", IsActive: true},
	}}
	store := NewStore(res)
	ctx := context.Background()
	require.NoError(t, store.Load(ctx))

	toggled, err := store.Toggle(ctx, 5)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	local, ok := store.Find(5)
	require.True(t, ok)
	assert.False(t, local.IsActive)
	assert.True(t, res.items[0].IsActive, "the loaded row is replaced, not mutated")

	_, err = store.Toggle(ctx, 404)
	assert.True(t, apperror.IsNotFound(err))
}
