package dto

import (
	"dormdesk/internal/core/types"
	"dormdesk/internal/domain/inventory"
	"dormdesk/internal/domain/paymentplan"
)

// AssignRequest moves an inventory item. Type accepts a bare kind ("room")
// or the backend class path.
type AssignRequest struct {
	Type string `json:"type" binding:"required"`
	ID   int64  `json:"id" binding:"required,min=1"`
}

// ToTarget resolves the request into an assignment target.
func (r AssignRequest) ToTarget() inventory.Target {
	kind, _ := inventory.ParseKind(r.Type)
	return inventory.Target{Kind: kind, ID: r.ID}
}

type PaymentRequest struct {
	Amount        types.Money `json:"amount"`
	PaymentDate   types.Date  `json:"payment_date"`
	PaymentTypeID int64       `json:"payment_type_id"`
	Notes         *string     `json:"notes"`
}

func (r PaymentRequest) ToDomain(planID int64) paymentplan.Payment {
	return paymentplan.Payment{
		PaymentPlanID: planID,
		Amount:        r.Amount,
		PaymentDate:   r.PaymentDate,
		PaymentTypeID: r.PaymentTypeID,
		Notes:         r.Notes,
	}
}

type RoomStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive"`
}
