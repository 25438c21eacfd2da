package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"dormdesk/internal/domain/paymentplan"
	"dormdesk/internal/infrastructure/http/v1/dto"
)

// PlanFinder loads a saved payment-plan line.
type PlanFinder interface {
	Find(ctx context.Context, id int64) (*paymentplan.Line, error)
}

// PaymentHandler shows and records actual payments against plan lines.
type PaymentHandler struct {
	*BaseHandler
	plans      PlanFinder
	reconciler *paymentplan.Reconciler
}

func NewPaymentHandler(base *BaseHandler, plans PlanFinder, reconciler *paymentplan.Reconciler) *PaymentHandler {
	return &PaymentHandler{BaseHandler: base, plans: plans, reconciler: reconciler}
}

// List handles GET /payment-plans/:id/payments and returns the line with its
// payments, total paid and whether another payment may be added.
func (h *PaymentHandler) List(c *gin.Context) {
	planID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	line, err := h.plans.Find(ctx, planID)
	if err != nil {
		h.Error(c, err)
		return
	}
	view, err := h.reconciler.View(ctx, *line)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, view)
}

// Create handles POST /payment-plans/:id/payments.
func (h *PaymentHandler) Create(c *gin.Context) {
	planID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	payment, err := h.reconciler.RecordPayment(c.Request.Context(), req.ToDomain(planID))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, payment)
}
