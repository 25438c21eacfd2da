package handlers

import (
	"github.com/gin-gonic/gin"

	"dormdesk/internal/domain/registration"
	"dormdesk/internal/infrastructure/http/v1/dto"
)

// DraftHandler exposes the registration wizard. Every route answers with the
// whole draft so the client can re-render from one value.
type DraftHandler struct {
	*BaseHandler
	service             *registration.Service
	defaultInstallments int
}

// NewDraftHandler creates a new draft handler.
func NewDraftHandler(base *BaseHandler, service *registration.Service, defaultInstallments int) *DraftHandler {
	return &DraftHandler{
		BaseHandler:         base,
		service:             service,
		defaultInstallments: defaultInstallments,
	}
}

// RegisterRoutes registers the wizard routes on rg.
func (h *DraftHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Start)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Discard)
	rg.GET("/:id/summary", h.Summary)

	rg.PUT("/:id/apart", h.SelectApart)
	rg.PUT("/:id/room", h.SelectRoom)
	rg.PUT("/:id/bed", h.SelectBed)
	rg.PUT("/:id/season", h.SetSeason)
	rg.PUT("/:id/deposit", h.SetDeposit)
	rg.PUT("/:id/details", h.SetDetails)

	rg.POST("/:id/products", h.AddProduct)
	rg.DELETE("/:id/products/:productId", h.RemoveProduct)

	rg.POST("/:id/plan/generate", h.GeneratePlan)
	rg.POST("/:id/plan/lines", h.AddPlanLine)
	rg.PUT("/:id/plan/lines/:index", h.UpdatePlanLine)
	rg.DELETE("/:id/plan/lines/:index", h.RemovePlanLine)

	rg.POST("/:id/submit", h.Submit)
}

// Start handles POST /drafts.
func (h *DraftHandler) Start(c *gin.Context) {
	d, err := h.service.Start(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromDraft(d))
}

// Get handles GET /drafts/:id.
func (h *DraftHandler) Get(c *gin.Context) {
	d, err := h.service.Get(c.Request.Context(), c.Param("id"))
	h.respond(c, d, err)
}

// Discard handles DELETE /drafts/:id.
func (h *DraftHandler) Discard(c *gin.Context) {
	if err := h.service.Discard(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Summary handles GET /drafts/:id/summary.
func (h *DraftHandler) Summary(c *gin.Context) {
	d, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, d.Summary())
}

// SelectApart handles PUT /drafts/:id/apart. apart_id 0 clears the selection.
func (h *DraftHandler) SelectApart(c *gin.Context) {
	var req dto.SelectApartRequest
	if !h.BindJSON(c, &req) {
		return
	}
	d, err := h.service.SelectApart(c.Request.Context(), c.Param("id"), req.ApartID)
	h.respond(c, d, err)
}

func (h *DraftHandler) SelectRoom(c *gin.Context) {
	var req dto.SelectRoomRequest
	if !h.BindJSON(c, &req) {
		return
	}
	d, err := h.service.SelectRoom(c.Request.Context(), c.Param("id"), req.RoomID)
	h.respond(c, d, err)
}

func (h *DraftHandler) SelectBed(c *gin.Context) {
	var req dto.SelectBedRequest
	if !h.BindJSON(c, &req) {
		return
	}
	d, err := h.service.SelectBed(c.Request.Context(), c.Param("id"), req.BedID)
	h.respond(c, d, err)
}

func (h *DraftHandler) SetSeason(c *gin.Context) {
	var req dto.SeasonRequest
	if !h.BindJSON(c, &req) {
		return
	}
	d, err := h.service.SetSeason(c.Request.Context(), c.Param("id"), req.SeasonCode)
	h.respond(c, d, err)
}

func (h *DraftHandler) SetDeposit(c *gin.Context) {
	var req dto.DepositRequest
	if !h.BindJSON(c, &req) {
		return
	}
	d, err := h.service.SetDeposit(c.Request.Context(), c.Param("id"), req.DepositAmount)
	h.respond(c, d, err)
}

func (h *DraftHandler) SetDetails(c *gin.Context) {
	var req dto.DetailsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	d, err := h.service.SetDetails(c.Request.Context(), c.Param("id"), req.ToDomain())
	h.respond(c, d, err)
}

// AddProduct handles POST /drafts/:id/products.
func (h *DraftHandler) AddProduct(c *gin.Context) {
	var req dto.AddProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	d, err := h.service.AddProduct(c.Request.Context(), c.Param("id"), req.ProductID)
	h.respond(c, d, err)
}

// RemoveProduct handles DELETE /drafts/:id/products/:productId.
func (h *DraftHandler) RemoveProduct(c *gin.Context) {
	productID, ok := h.ParamID(c, "productId")
	if !ok {
		return
	}
	d, err := h.service.RemoveProduct(c.Request.Context(), c.Param("id"), productID)
	h.respond(c, d, err)
}

// GeneratePlan handles POST /drafts/:id/plan/generate. The response reports
// how many manual lines were replaced.
func (h *DraftHandler) GeneratePlan(c *gin.Context) {
	var req dto.GeneratePlanRequest
	if !h.BindJSON(c, &req) {
		return
	}
	d, replaced, err := h.service.GeneratePlan(c.Request.Context(), c.Param("id"), req.ToDomain(h.defaultInstallments))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.GeneratePlanResponse{DraftResponse: dto.FromDraft(d), Replaced: replaced})
}

func (h *DraftHandler) AddPlanLine(c *gin.Context) {
	var req dto.PlanLineRequest
	if !h.BindJSON(c, &req) {
		return
	}
	d, err := h.service.AddPlanLine(c.Request.Context(), c.Param("id"), req.ToDomain())
	h.respond(c, d, err)
}

func (h *DraftHandler) UpdatePlanLine(c *gin.Context) {
	index, ok := h.ParamIndex(c, "index")
	if !ok {
		return
	}
	var req dto.PlanLinePatchRequest
	if !h.BindJSON(c, &req) {
		return
	}
	d, err := h.service.UpdatePlanLine(c.Request.Context(), c.Param("id"), index, req.ToDomain())
	h.respond(c, d, err)
}

func (h *DraftHandler) RemovePlanLine(c *gin.Context) {
	index, ok := h.ParamIndex(c, "index")
	if !ok {
		return
	}
	d, err := h.service.RemovePlanLine(c.Request.Context(), c.Param("id"), index)
	h.respond(c, d, err)
}

// Submit handles POST /drafts/:id/submit. A partial failure is rendered as a
// PARTIAL_FAILURE error whose details carry the step report.
func (h *DraftHandler) Submit(c *gin.Context) {
	d, err := h.service.Submit(c.Request.Context(), c.Param("id"))
	h.respond(c, d, err)
}

func (h *DraftHandler) respond(c *gin.Context, d *registration.Draft, err error) {
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDraft(d))
}
