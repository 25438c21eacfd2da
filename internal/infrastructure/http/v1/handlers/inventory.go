package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/domain/inventory"
	"dormdesk/internal/domain/listing"
	"dormdesk/internal/infrastructure/http/v1/dto"
)

// InventoryHandler lists inventory and moves items between aparts, rooms and beds.
type InventoryHandler struct {
	*BaseHandler
	resource listing.Resource[*inventory.Item]
	assigner inventory.Assigner
}

func NewInventoryHandler(base *BaseHandler, resource listing.Resource[*inventory.Item], assigner inventory.Assigner) *InventoryHandler {
	return &InventoryHandler{BaseHandler: base, resource: resource, assigner: assigner}
}

// List handles GET /inventory. assignable_type and assignable_id narrow the
// list to one apart, room or bed.
func (h *InventoryHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	store := inventory.NewStore(h.resource, h.assigner, scope)
	if err := store.Query(c.Request.Context(), q.ToFilter(c.QueryMap("filter"))); err != nil {
		h.Error(c, err)
		return
	}

	snap := store.Snapshot()
	h.OK(c, dto.NewListResponse(snap.Items, snap.Meta))
}

// Assign handles POST /inventory/:id/assign.
func (h *InventoryHandler) Assign(c *gin.Context) {
	itemID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignRequest
	if !h.BindJSON(c, &req) {
		return
	}

	store := inventory.NewStore(h.resource, h.assigner, nil)
	item, err := store.Assign(c.Request.Context(), itemID, req.ToTarget())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// Unassign handles POST /inventory/:id/unassign.
func (h *InventoryHandler) Unassign(c *gin.Context) {
	itemID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	store := inventory.NewStore(h.resource, h.assigner, nil)
	item, err := store.Unassign(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

func (h *InventoryHandler) scope(c *gin.Context) (*inventory.Target, bool) {
	rawType, rawID := c.Query("assignable_type"), c.Query("assignable_id")
	if rawType == "" && rawID == "" {
		return nil, true
	}

	kind, _ := inventory.ParseKind(rawType)
	id, _ := strconv.ParseInt(rawID, 10, 64)
	target := inventory.Target{Kind: kind, ID: id}
	if err := target.Validate(); err != nil {
		h.Error(c, apperror.NewValidation("invalid inventory scope").WithCause(err))
		return nil, false
	}
	return &target, true
}
