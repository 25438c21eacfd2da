package dto

import (
	"dormdesk/internal/core/types"
	"dormdesk/internal/domain/paymentplan"
	"dormdesk/internal/domain/registration"
)

// --- Request DTOs ---

type SelectApartRequest struct {
	ApartID int64 `json:"apart_id" binding:"min=0"`
}

type SelectRoomRequest struct {
	RoomID int64 `json:"room_id" binding:"required,min=1"`
}

type SelectBedRequest struct {
	BedID int64 `json:"bed_id" binding:"required,min=1"`
}

type SeasonRequest struct {
	SeasonCode string `json:"season_code" binding:"required"`
}

type DepositRequest struct {
	DepositAmount types.Money `json:"deposit_amount"`
}

// DetailsRequest is the dates/notes/guest step.
type DetailsRequest struct {
	CheckIn  types.Date                 `json:"check_in"`
	CheckOut types.Date                 `json:"check_out"`
	Notes    string                     `json:"notes"`
	GuestID  int64                      `json:"guest_id"`
	Student  *registration.StudentInput `json:"student"`
}

func (r DetailsRequest) ToDomain() registration.Details {
	return registration.Details{
		CheckIn:  r.CheckIn,
		CheckOut: r.CheckOut,
		Notes:    r.Notes,
		GuestID:  r.GuestID,
		Student:  r.Student,
	}
}

type AddProductRequest struct {
	ProductID int64 `json:"product_id" binding:"required,min=1"`
}

// GeneratePlanRequest is the generator form. Installments falls back to the
// configured default when omitted.
type GeneratePlanRequest struct {
	Installments  *int       `json:"installments"`
	StartDate     types.Date `json:"start_date"`
	PaymentTypeID int64      `json:"payment_type_id"`
}

func (r GeneratePlanRequest) ToDomain(defaultInstallments int) registration.PlanRequest {
	n := defaultInstallments
	if r.Installments != nil {
		n = *r.Installments
	}
	return registration.PlanRequest{
		Installments:  n,
		StartDate:     r.StartDate,
		PaymentTypeID: r.PaymentTypeID,
	}
}

type PlanLineRequest struct {
	PlannedAmount        types.Money `json:"planned_amount"`
	PlannedDate          types.Date  `json:"planned_date"`
	PlannedPaymentTypeID int64       `json:"planned_payment_type_id"`
}

func (r PlanLineRequest) ToDomain() paymentplan.Line {
	return paymentplan.Line{
		PlannedAmount:        r.PlannedAmount,
		PlannedDate:          r.PlannedDate,
		PlannedPaymentTypeID: r.PlannedPaymentTypeID,
	}
}

// PlanLinePatchRequest changes only the fields that are present.
type PlanLinePatchRequest struct {
	PlannedAmount        *types.Money `json:"planned_amount"`
	PlannedDate          *types.Date  `json:"planned_date"`
	PlannedPaymentTypeID *int64       `json:"planned_payment_type_id"`
}

func (r PlanLinePatchRequest) ToDomain() paymentplan.LinePatch {
	return paymentplan.LinePatch{
		PlannedAmount:        r.PlannedAmount,
		PlannedDate:          r.PlannedDate,
		PlannedPaymentTypeID: r.PlannedPaymentTypeID,
	}
}

// --- Response DTOs ---

// DraftResponse is a draft with its live totals.
type DraftResponse struct {
	*registration.Draft
	Summary paymentplan.Summary `json:"summary"`
}

func FromDraft(d *registration.Draft) DraftResponse {
	return DraftResponse{Draft: d, Summary: d.Summary()}
}

type GeneratePlanResponse struct {
	DraftResponse
	Replaced int `json:"replaced"`
}

type StudentResponse struct {
	registration.Outcome
	Report registration.Report `json:"report"`
}
