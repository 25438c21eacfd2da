package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"dormdesk/internal/core/entity"
	"dormdesk/internal/domain/listing"
)

// Resource is a REST collection of T: GET/POST on path, PUT/DELETE on path/{id}.
type Resource[T entity.Entity] struct {
	client *Client
	path   string
}

var _ listing.Resource[entity.Entity] = (*Resource[entity.Entity])(nil)

// NewResource binds a collection path.
func NewResource[T entity.Entity](c *Client, path string) *Resource[T] {
	return &Resource[T]{client: c, path: path}
}

// Path returns the collection path.
func (r *Resource[T]) Path() string {
	return r.path
}

// List fetches one page.
func (r *Resource[T]) List(ctx context.Context, filter listing.ListFilter) (listing.ListResult[T], error) {
	items, env, err := Get[[]T](ctx, r.client, r.path, FilterQuery(filter))
	if err != nil {
		return listing.ListResult[T]{}, err
	}
	if items == nil {
		items = []T{}
	}
	return listing.ListResult[T]{Items: items, Meta: metaOf(env, filter, len(items))}, nil
}

// All fetches items matching filters without pagination parameters.
func (r *Resource[T]) All(ctx context.Context, filters map[string]string) ([]T, error) {
	q := url.Values{}
	for k, v := range filters {
		q.Set(k, v)
	}
	items, _, err := Get[[]T](ctx, r.client, r.path, q)
	if items == nil {
		items = []T{}
	}
	return items, err
}

// Find fetches one item by id.
func (r *Resource[T]) Find(ctx context.Context, id int64) (T, error) {
	item, _, err := Get[T](ctx, r.client, r.itemPath(id), nil)
	return item, err
}

// Create posts item and returns what the backend stored.
func (r *Resource[T]) Create(ctx context.Context, item T) (T, error) {
	created, _, err := Send[T](ctx, r.client, Request{Method: http.MethodPost, Path: r.path, Body: item})
	return created, err
}

// Update puts item and returns what the backend stored.
func (r *Resource[T]) Update(ctx context.Context, item T) (T, error) {
	updated, _, err := Send[T](ctx, r.client, Request{Method: http.MethodPut, Path: r.itemPath(item.GetID()), Body: item})
	return updated, err
}

// Delete removes the item with id.
func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	_, err := r.client.Do(ctx, Request{Method: http.MethodDelete, Path: r.itemPath(id)})
	return err
}

func (r *Resource[T]) itemPath(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

// FilterQuery encodes a list filter the way the backend expects it.
func FilterQuery(f listing.ListFilter) url.Values {
	q := url.Values{}
	for k, v := range f.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(f.PerPage))
	}
	return q
}

func metaOf(env *Envelope, f listing.ListFilter, n int) listing.Meta {
	if env.Meta != nil {
		return listing.Meta{
			CurrentPage: env.Meta.CurrentPage,
			LastPage:    env.Meta.LastPage,
			PerPage:     env.Meta.PerPage,
			Total:       env.Meta.Total,
		}
	}

	m := listing.Meta{CurrentPage: f.Page, PerPage: f.PerPage, Total: n, LastPage: 1}
	if env.Total != nil {
		m.Total = *env.Total
	}
	if env.Limit != nil && *env.Limit > 0 {
		m.PerPage = *env.Limit
	}
	if m.CurrentPage < 1 {
		m.CurrentPage = 1
	}
	if m.PerPage > 0 && m.Total > 0 {
		m.LastPage = (m.Total + m.PerPage - 1) / m.PerPage
	}
	return m
}
