package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/entity"
)

type widget struct {
	entity.Base
	Name string
}

func (w *widget) Validate(ctx context.Context) error {
	if w.Name == "" {
		return apperror.NewValidation("name is required")
	}
	return nil
}

type fakeResource struct {
	page      ListResult[*widget]
	lastQuery ListFilter
	nextID    int64
	failWith  error
	deleted   []int64
}

func (f *fakeResource) List(ctx context.Context, filter ListFilter) (ListResult[*widget], error) {
	f.lastQuery = filter
	if f.failWith != nil {
		return ListResult[*widget]{}, f.failWith
	}
	return f.page, nil
}

func (f *fakeResource) Create(ctx context.Context, item *widget) (*widget, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.nextID++
	out := *item
	out.ID = f.nextID
	return &out, nil
}

func (f *fakeResource) Update(ctx context.Context, item *widget) (*widget, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := *item
	return &out, nil
}

func (f *fakeResource) Delete(ctx context.Context, id int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func w(id int64, name string) *widget {
	return &widget{Base: entity.Base{ID: id}, Name: name}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	in := []*widget{w(1, "a"), w(2, "b"), w(3, "c")}
	orig := []*widget{in[0], in[1], in[2]}

	tests := []struct {
		name    string
		action  Action[*widget]
		wantIDs []int64
	}{
		{"add", Add(w(4, "d")), []int64{1, 2, 3, 4}},
		{"remove", Remove[*widget](2), []int64{1, 3}},
		{"remove missing", Remove[*widget](9), []int64{1, 2, 3}},
		{"update", UpdateByID(w(2, "B")), []int64{1, 2, 3}},
		{"replace", Replace([]*widget{w(7, "x")}), []int64{7}},
		{"unknown", Action[*widget]{Kind: "NOPE"}, []int64{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Reduce(in, tt.action)

			ids := make([]int64, 0, len(out))
			for _, it := range out {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, orig, in)
		})
	}
}

func TestReduce_UpdateByIDReplacesRow(t *testing.T) {
	out := Reduce([]*widget{w(1, "a"), w(2, "b")}, UpdateByID(w(2, "B")))
	assert.Equal(t, "B", out[1].Name)
	assert.Equal(t, "a", out[0].Name)
}

func TestStore_LoadAndFilters(t *testing.T) {
	res := &fakeResource{page: ListResult[*widget]{
		Items: []*widget{w(1, "a")},
		Meta:  Meta{CurrentPage: 1, LastPage: 3, PerPage: 15, Total: 31},
	}}
	s := NewStore(StoreConfig[*widget]{Resource: res, EntityName: "widget"})
	ctx := context.Background()

	require.NoError(t, s.Query(ctx, ListFilter{Page: 3, PerPage: 0}))
	assert.Equal(t, 3, res.lastQuery.Page)
	assert.Equal(t, DefaultPerPage, res.lastQuery.PerPage)

	require.NoError(t, s.ApplyFilters(ctx, map[string]string{"status": "active", "apart_id": ""}, "blue"))
	assert.Equal(t, 1, res.lastQuery.Page, "filter change resets pagination")
	assert.Equal(t, map[string]string{"status": "active"}, res.lastQuery.Filters)
	assert.Equal(t, "blue", res.lastQuery.Search)

	st := s.Snapshot()
	assert.Len(t, st.Items, 1)
	assert.Equal(t, 31, st.Meta.Total)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
}

func TestStore_LoadErrorIsCaptured(t *testing.T) {
	res := &fakeResource{failWith: apperror.NewBackend(500, "boom")}
	s := NewStore(StoreConfig[*widget]{Resource: res, EntityName: "widget"})

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, "boom", s.Snapshot().Error)
}

func TestStore_CreateUpdateDelete(t *testing.T) {
	res := &fakeResource{page: ListResult[*widget]{Items: []*widget{w(10, "seed")}, Meta: Meta{Total: 1}}}
	s := NewStore(StoreConfig[*widget]{Resource: res, EntityName: "widget"})
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	created, err := s.Create(ctx, &widget{Name: "new"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Len(t, s.Items(), 2)
	assert.Equal(t, 2, s.Snapshot().Meta.Total)

	_, err = s.Update(ctx, w(10, "renamed"))
	require.NoError(t, err)
	got, ok := s.Find(10)
	require.True(t, ok)
	assert.Equal(t, "renamed", got.Name)

	require.NoError(t, s.Delete(ctx, 10))
	assert.Equal(t, []int64{10}, res.deleted)
	_, ok = s.Find(10)
	assert.False(t, ok)
	assert.Empty(t, s.Snapshot().RowLoading)
}

func TestStore_ValidationBlocksBackendCall(t *testing.T) {
	res := &fakeResource{}
	s := NewStore(StoreConfig[*widget]{Resource: res, EntityName: "widget"})

	_, err := s.Create(context.Background(), &widget{})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	assert.Equal(t, int64(0), res.nextID)
	assert.Equal(t, "name is required", s.Snapshot().Error)
}

func TestStore_HooksRunInOrder(t *testing.T) {
	res := &fakeResource{}
	s := NewStore(StoreConfig[*widget]{Resource: res, EntityName: "widget"})
	ctx := context.Background()

	var calls []string
	s.Hooks().OnBeforeCreate(func(ctx context.Context, it *widget) error {
		calls = append(calls, "before")
		return nil
	})
	s.Hooks().OnAfterCreate(func(ctx context.Context, it *widget) error {
		calls = append(calls, "after")
		return errors.New("ignored")
	})

	_, err := s.Create(ctx, &widget{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"before", "after"}, calls)

	s.Hooks().OnBeforeDelete(func(ctx context.Context, it *widget) error {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "locked")
	})
	err = s.Delete(ctx, 1)
	require.Error(t, err)
	assert.Empty(t, res.deleted)
	assert.Len(t, s.Items(), 1)
}

func TestStore_DeleteUnknownID(t *testing.T) {
	s := NewStore(StoreConfig[*widget]{Resource: &fakeResource{}, EntityName: "widget"})
	err := s.Delete(context.Background(), 42)
	assert.True(t, apperror.IsNotFound(err))
}
