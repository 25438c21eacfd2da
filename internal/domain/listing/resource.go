package listing

import (
	"context"

	"dormdesk/internal/core/entity"
)

// DefaultPerPage is the page size used when none is set.
const DefaultPerPage = 15

// ListFilter carries the client-triggered list parameters.
type ListFilter struct {
	// Filters are exact-match backend filters (status, apart_id, assignable_type...)
	Filters map[string]string

	// Search performs the backend's free-text search
	Search string

	Page    int
	PerPage int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Filters: map[string]string{},
		Page:    1,
		PerPage: DefaultPerPage,
	}
}

// Clone returns a deep copy so callers can't alias the filter map.
func (f ListFilter) Clone() ListFilter {
	out := f
	out.Filters = make(map[string]string, len(f.Filters))
	for k, v := range f.Filters {
		out.Filters[k] = v
	}
	return out
}

// Meta is the pagination info of a loaded page.
type Meta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// ListResult contains one page of results.
type ListResult[T any] struct {
	Items []T  `json:"items"`
	Meta  Meta `json:"meta"`
}

// Resource is the backend collection a Store works against.
type Resource[T entity.Entity] interface {
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id int64) error
}
