package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/entity"
	"dormdesk/internal/domain/accommodation"
	"dormdesk/internal/domain/catalogs/feature"
	"dormdesk/internal/domain/catalogs/season"
	"dormdesk/internal/domain/listing"
	"dormdesk/internal/domain/registration"
	"dormdesk/internal/infrastructure/http/v1/dto"
)

// FindResource is a collection that can also load one item.
type FindResource[T entity.Entity] interface {
	listing.Resource[T]
	Find(ctx context.Context, id int64) (T, error)
}

// CatalogHandler lists a backend collection through a list container.
type CatalogHandler[T entity.Entity] struct {
	*BaseHandler
	resource   listing.Resource[T]
	entityName string

	// transform post-processes the loaded page, e.g. dropping inactive rows
	transform func(c *gin.Context, items []T) []T
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T entity.Entity] struct {
	Resource   listing.Resource[T]
	EntityName string
	Transform  func(c *gin.Context, items []T) []T
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T entity.Entity](base *BaseHandler, cfg CatalogHandlerConfig[T]) *CatalogHandler[T] {
	return &CatalogHandler[T]{
		BaseHandler: base,
		resource:    cfg.Resource,
		entityName:  cfg.EntityName,
		transform:   cfg.Transform,
	}
}

// List handles GET /{entity} with page, per_page, search and filter[name].
func (h *CatalogHandler[T]) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	store := listing.NewStore(listing.StoreConfig[T]{Resource: h.resource, EntityName: h.entityName})
	if err := store.Query(c.Request.Context(), q.ToFilter(c.QueryMap("filter"))); err != nil {
		h.Error(c, err)
		return
	}

	snap := store.Snapshot()
	items := snap.Items
	if h.transform != nil {
		items = h.transform(c, items)
	}
	h.OK(c, dto.NewListResponse(items, snap.Meta))
}

// --- Seasons ---

// SeasonHandler lists seasons and resolves them by code.
type SeasonHandler struct {
	*BaseHandler
	resource listing.Resource[*season.Season]
}

func NewSeasonHandler(base *BaseHandler, resource listing.Resource[*season.Season]) *SeasonHandler {
	return &SeasonHandler{BaseHandler: base, resource: resource}
}

// List handles GET /seasons. active=1 keeps active seasons only.
func (h *SeasonHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	ctx := c.Request.Context()

	store := season.NewStore(h.resource)
	var err error
	if c.Query("active") == "1" {
		err = store.ActiveOnly(ctx)
	} else {
		err = store.Query(ctx, q.ToFilter(c.QueryMap("filter")))
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	snap := store.Snapshot()
	h.OK(c, dto.NewListResponse(snap.Items, snap.Meta))
}

// ByCode handles GET /seasons/code/:code.
func (h *SeasonHandler) ByCode(c *gin.Context) {
	code := c.Param("code")
	store := season.NewStore(h.resource)
	if err := store.ApplyFilters(c.Request.Context(), map[string]string{"code": code}, ""); err != nil {
		h.Error(c, err)
		return
	}
	s, ok := store.ByCode(code)
	if !ok {
		h.Error(c, apperror.NewNotFound("season", code))
		return
	}
	h.OK(c, s)
}

// --- Features ---

// FeatureHandler flips features on and off.
type FeatureHandler struct {
	*BaseHandler
	resource FindResource[*feature.Feature]
}

func NewFeatureHandler(base *BaseHandler, resource FindResource[*feature.Feature]) *FeatureHandler {
	return &FeatureHandler{BaseHandler: base, resource: resource}
}

// Toggle handles POST /features/:id/toggle.
func (h *FeatureHandler) Toggle(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	current, err := h.resource.Find(ctx, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	store := feature.NewStore(h.resource)
	store.Dispatch(listing.Replace([]*feature.Feature{current}))

	updated, err := store.Toggle(ctx, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// --- Rooms ---

// RoomHandler lists the rooms of an apart and changes room status.
type RoomHandler struct {
	*BaseHandler
	resource FindResource[*accommodation.Room]
}

func NewRoomHandler(base *BaseHandler, resource FindResource[*accommodation.Room]) *RoomHandler {
	return &RoomHandler{BaseHandler: base, resource: resource}
}

// ForApart handles GET /aparts/:id/rooms?status=active.
func (h *RoomHandler) ForApart(c *gin.Context) {
	apartID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	store := accommodation.NewRoomStore(h.resource)
	if err := store.ForApart(c.Request.Context(), apartID, c.Query("status")); err != nil {
		h.Error(c, err)
		return
	}
	snap := store.Snapshot()
	h.OK(c, dto.NewListResponse(snap.Items, snap.Meta))
}

// SetStatus handles PUT /rooms/:id/status.
func (h *RoomHandler) SetStatus(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.RoomStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	current, err := h.resource.Find(ctx, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	store := accommodation.NewRoomStore(h.resource)
	store.Dispatch(listing.Replace([]*accommodation.Room{current}))

	room, err := store.SetStatus(ctx, id, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, room)
}

// --- Registrations ---

// RegistrationHandler lists season registrations.
type RegistrationHandler struct {
	*BaseHandler
	resource listing.Resource[*registration.SeasonRegistration]
}

func NewRegistrationHandler(base *BaseHandler, resource listing.Resource[*registration.SeasonRegistration]) *RegistrationHandler {
	return &RegistrationHandler{BaseHandler: base, resource: resource}
}

// List handles GET /registrations?season_code=S25&search=smith.
func (h *RegistrationHandler) List(c *gin.Context) {
	seasonCode := c.Query("season_code")
	if seasonCode == "" {
		h.Error(c, apperror.NewValidation("season_code is required"))
		return
	}
	store := registration.NewStore(h.resource)
	if err := store.ForSeason(c.Request.Context(), seasonCode, c.Query("search")); err != nil {
		h.Error(c, err)
		return
	}
	snap := store.Snapshot()
	h.OK(c, dto.NewListResponse(snap.Items, snap.Meta))
}
