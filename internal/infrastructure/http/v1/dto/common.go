// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"dormdesk/internal/domain/listing"
)

// --- List Response ---

// ListResponse wraps one page of a list with its pagination meta.
type ListResponse[T any] struct {
	Items []T          `json:"items"`
	Meta  listing.Meta `json:"meta"`
}

// NewListResponse creates a list response from a container snapshot.
func NewListResponse[T any](items []T, meta listing.Meta) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Meta: meta}
}

// --- Pagination ---

// ListQuery contains the list parameters every collection accepts.
// Exact-match filters are passed as filter[name]=value.
type ListQuery struct {
	Page    int    `form:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	Search  string `form:"search"`
}

// ToFilter converts the query into a container filter.
func (q ListQuery) ToFilter(filters map[string]string) listing.ListFilter {
	f := listing.DefaultListFilter()
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.PerPage > 0 {
		f.PerPage = q.PerPage
	}
	f.Search = q.Search
	for k, v := range filters {
		if v != "" {
			f.Filters[k] = v
		}
	}
	return f
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
