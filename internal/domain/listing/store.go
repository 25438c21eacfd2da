package listing

import (
	"context"
	"fmt"
	"sync"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/entity"
	"dormdesk/pkg/logger"
)

// State is a point-in-time copy of a Store's fields.
type State[T any] struct {
	Filter     ListFilter     `json:"filter"`
	Items      []T            `json:"items"`
	Meta       Meta           `json:"meta"`
	Error      string         `json:"error,omitempty"`
	Loading    bool           `json:"loading"`
	RowLoading map[int64]bool `json:"row_loading,omitempty"`
}

// Store holds list state for one entity type and reconciles it locally after
// mutations succeed on the backend. It never refetches after a mutation.
//
// The mutex guards the fields only; backend calls run unlocked, so two
// different mutations can interleave and the last one to finish wins.
type Store[T entity.Entity] struct {
	resource   Resource[T]
	hooks      *HookRegistry[T]
	entityName string

	mu         sync.Mutex
	filter     ListFilter
	items      []T
	meta       Meta
	err        string
	loading    bool
	rowLoading map[int64]bool
}

// StoreConfig configures a Store.
type StoreConfig[T entity.Entity] struct {
	Resource   Resource[T]
	EntityName string
	Filter     *ListFilter
}

// NewStore creates a store with default filters.
func NewStore[T entity.Entity](cfg StoreConfig[T]) *Store[T] {
	filter := DefaultListFilter()
	if cfg.Filter != nil {
		filter = cfg.Filter.Clone()
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = DefaultPerPage
	}
	return &Store[T]{
		resource:   cfg.Resource,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
		filter:     filter,
		rowLoading: make(map[int64]bool),
	}
}

// Hooks returns the hook registry for external registration.
func (s *Store[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// Snapshot returns a copy of the current state.
func (s *Store[T]) Snapshot() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]T, len(s.items))
	copy(items, s.items)
	rows := make(map[int64]bool, len(s.rowLoading))
	for k, v := range s.rowLoading {
		rows[k] = v
	}
	return State[T]{
		Filter:     s.filter.Clone(),
		Items:      items,
		Meta:       s.meta,
		Error:      s.err,
		Loading:    s.loading,
		RowLoading: rows,
	}
}

// Items returns the current page.
func (s *Store[T]) Items() []T {
	return s.Snapshot().Items
}

// Dispatch applies a reducer action to the local list.
func (s *Store[T]) Dispatch(a Action[T]) {
	s.mu.Lock()
	s.items = Reduce(s.items, a)
	s.mu.Unlock()
}

// Load fetches the page described by the current filter.
func (s *Store[T]) Load(ctx context.Context) error {
	s.mu.Lock()
	filter := s.filter.Clone()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	res, err := s.resource.List(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = apperror.Message(err)
		logger.Warn(ctx, "list load failed", "entity", s.entityName, "error", err)
		return err
	}
	s.items = Reduce(s.items, Replace(res.Items))
	s.meta = res.Meta
	return nil
}

// ApplyFilters replaces filters and search, resets to page 1 and reloads.
func (s *Store[T]) ApplyFilters(ctx context.Context, filters map[string]string, search string) error {
	s.mu.Lock()
	s.filter.Filters = make(map[string]string, len(filters))
	for k, v := range filters {
		if v != "" {
			s.filter.Filters[k] = v
		}
	}
	s.filter.Search = search
	s.filter.Page = 1
	s.mu.Unlock()

	return s.Load(ctx)
}

// Query replaces the whole filter and reloads.
func (s *Store[T]) Query(ctx context.Context, f ListFilter) error {
	f = f.Clone()
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	for k, v := range f.Filters {
		if v == "" {
			delete(f.Filters, k)
		}
	}
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()

	return s.Load(ctx)
}

// Create validates item, creates it on the backend and appends the result.
func (s *Store[T]) Create(ctx context.Context, item T) (T, error) {
	if err := item.Validate(ctx); err != nil {
		return item, s.fail(ctx, "create", s.normalizeValidationErr(err))
	}
	if err := s.hooks.Run(ctx, BeforeCreate, item); err != nil {
		return item, s.fail(ctx, "create", err)
	}

	created, err := s.resource.Create(ctx, item)
	if err != nil {
		return item, s.fail(ctx, "create", err)
	}

	s.mu.Lock()
	s.items = Reduce(s.items, Add(created))
	s.meta.Total++
	s.err = ""
	s.mu.Unlock()

	if err := s.hooks.Run(ctx, AfterCreate, created); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName, "error", err)
	}
	return created, nil
}

// Update validates item, updates it on the backend and replaces the local row.
func (s *Store[T]) Update(ctx context.Context, item T) (T, error) {
	if err := item.Validate(ctx); err != nil {
		return item, s.fail(ctx, "update", s.normalizeValidationErr(err))
	}
	if err := s.hooks.Run(ctx, BeforeUpdate, item); err != nil {
		return item, s.fail(ctx, "update", err)
	}

	rowID := item.GetID()
	s.setRowLoading(rowID, true)
	defer s.setRowLoading(rowID, false)

	updated, err := s.resource.Update(ctx, item)
	if err != nil {
		return item, s.fail(ctx, "update", err)
	}

	s.mu.Lock()
	s.items = Reduce(s.items, UpdateByID(updated))
	s.err = ""
	s.mu.Unlock()

	if err := s.hooks.Run(ctx, AfterUpdate, updated); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", s.entityName, "error", err)
	}
	return updated, nil
}

// Delete removes the item with id on the backend and drops it locally.
func (s *Store[T]) Delete(ctx context.Context, id int64) error {
	item, ok := s.find(id)
	if !ok {
		return s.fail(ctx, "delete", apperror.NewNotFound(s.entityName, id))
	}
	if err := s.hooks.Run(ctx, BeforeDelete, item); err != nil {
		return s.fail(ctx, "delete", err)
	}

	s.setRowLoading(id, true)
	defer s.setRowLoading(id, false)

	if err := s.resource.Delete(ctx, id); err != nil {
		return s.fail(ctx, "delete", err)
	}

	s.mu.Lock()
	s.items = Reduce(s.items, Remove[T](id))
	if s.meta.Total > 0 {
		s.meta.Total--
	}
	s.err = ""
	s.mu.Unlock()

	if err := s.hooks.Run(ctx, AfterDelete, item); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "entity", s.entityName, "error", err)
	}
	return nil
}

// Find returns the loaded item with id.
func (s *Store[T]) Find(id int64) (T, bool) {
	return s.find(id)
}

// Track marks id as busy while fn runs and records fn's error into the state.
// Entity containers use it for backend verbs that are not plain CRUD.
func (s *Store[T]) Track(ctx context.Context, op string, id int64, fn func(ctx context.Context) error) error {
	s.setRowLoading(id, true)
	defer s.setRowLoading(id, false)

	if err := fn(ctx); err != nil {
		return s.fail(ctx, op, err)
	}
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
	return nil
}

func (s *Store[T]) find(id int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.GetID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (s *Store[T]) setRowLoading(id int64, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.rowLoading[id] = true
		return
	}
	delete(s.rowLoading, id)
}

func (s *Store[T]) fail(ctx context.Context, op string, err error) error {
	s.mu.Lock()
	s.err = apperror.Message(err)
	s.mu.Unlock()
	logger.Warn(ctx, fmt.Sprintf("%s %s failed", op, s.entityName), "error", err)
	return err
}

func (s *Store[T]) normalizeValidationErr(err error) error {
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}
