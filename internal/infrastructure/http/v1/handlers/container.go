package handlers

import (
	"github.com/gin-gonic/gin"

	"dormdesk/internal/core/entity"
	"dormdesk/internal/domain/listing"
)

// ContainerHandler creates and deletes items through an entity's list
// container, so the container's validation and hooks run on every write.
type ContainerHandler[T entity.Entity] struct {
	*BaseHandler
	resource FindResource[T]
	newStore func(FindResource[T]) *listing.Store[T]
	newItem  func() T
}

// ContainerHandlerConfig configures the container handler.
type ContainerHandlerConfig[T entity.Entity] struct {
	Resource FindResource[T]

	// NewStore builds the entity's container, hooks included
	NewStore func(FindResource[T]) *listing.Store[T]

	// NewItem returns an empty item to bind the request body into
	NewItem func() T
}

// NewContainerHandler creates a new container handler.
func NewContainerHandler[T entity.Entity](base *BaseHandler, cfg ContainerHandlerConfig[T]) *ContainerHandler[T] {
	return &ContainerHandler[T]{
		BaseHandler: base,
		resource:    cfg.Resource,
		newStore:    cfg.NewStore,
		newItem:     cfg.NewItem,
	}
}

// Create handles POST /{entity}.
func (h *ContainerHandler[T]) Create(c *gin.Context) {
	item := h.newItem()
	if !h.BindJSON(c, item) {
		return
	}

	created, err := h.newStore(h.resource).Create(c.Request.Context(), item)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// Delete handles DELETE /{entity}/:id.
func (h *ContainerHandler[T]) Delete(c *gin.Context) {
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
	store := h.newStore(h.resource)
	store.Dispatch(listing.Replace([]T{current}))

	if err := store.Delete(ctx, id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers POST "" and DELETE /:id on rg.
func (h *ContainerHandler[T]) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.DELETE("/:id", h.Delete)
}
