package registration

import (
	"context"
	"time"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/id"
	"dormdesk/internal/core/types"
	"dormdesk/internal/domain/accommodation"
	"dormdesk/internal/domain/catalogs/product"
	"dormdesk/internal/domain/paymentplan"
)

// State is the submission state of a draft.
type State string

const (
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
	StateFailed     State = "failed"
)

// Draft is the registration being assembled by the wizard. Every step reads
// and writes this one value; transitions return a modified copy.
type Draft struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	FirmID  string `json:"firm_id,omitempty"`

	accommodation.Selection

	SeasonCode    string      `json:"season_code,omitempty"`
	CheckIn       types.Date  `json:"check_in"`
	CheckOut      types.Date  `json:"check_out"`
	DepositAmount types.Money `json:"deposit_amount"`
	Notes         string      `json:"notes,omitempty"`

	// GuestID selects an existing guest; Student creates a new one on submit
	GuestID int64         `json:"guest_id,omitempty"`
	Student *StudentInput `json:"student,omitempty"`

	Prices       []product.Price    `json:"prices"`
	Products     []ProductLine      `json:"products"`
	PaymentPlans []paymentplan.Line `json:"payment_plans"`

	State          State   `json:"state"`
	Report         *Report `json:"report,omitempty"`
	RegistrationID int64   `json:"registration_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDraft starts an empty draft for owner.
func NewDraft(ownerID, firmID string, now time.Time) *Draft {
	return &Draft{
		ID:           id.New(),
		OwnerID:      ownerID,
		FirmID:       firmID,
		Selection:    accommodation.Selection{Rooms: []accommodation.Room{}, Beds: []accommodation.Bed{}},
		Prices:       []product.Price{},
		Products:     []ProductLine{},
		PaymentPlans: []paymentplan.Line{},
		State:        StateEditing,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Clone returns a deep copy.
func (d Draft) Clone() Draft {
	out := d
	out.Rooms = append([]accommodation.Room{}, d.Rooms...)
	out.Beds = append([]accommodation.Bed{}, d.Beds...)
	if d.Bed != nil {
		b := *d.Bed
		out.Bed = &b
	}
	out.Prices = append([]product.Price{}, d.Prices...)
	out.Products = append([]ProductLine{}, d.Products...)
	out.PaymentPlans = append([]paymentplan.Line{}, d.PaymentPlans...)
	if d.Student != nil {
		s := *d.Student
		out.Student = &s
	}
	if d.Report != nil {
		r := d.Report.clone()
		out.Report = &r
	}
	return out
}

// Editable reports whether step transitions may be applied.
func (d Draft) Editable() error {
	switch d.State {
	case StateSubmitting:
		return apperror.NewConflict(apperror.CodeSubmissionInProgress, "registration is being submitted")
	case StateSubmitted:
		return apperror.NewConflict("", "registration has already been submitted")
	}
	return nil
}

// WithSelection applies a new accommodation selection. Moving to another apart
// drops prices and product lines, which are priced per apart.
func (d Draft) WithSelection(sel accommodation.Selection) Draft {
	out := d.Clone()
	if sel.ApartID != d.ApartID {
		out.Prices = []product.Price{}
		out.Products = []ProductLine{}
	}
	out.Selection = sel
	return out
}

// WithSeason sets the season. A different season drops prices and product lines.
func (d Draft) WithSeason(code string) Draft {
	out := d.Clone()
	if code != d.SeasonCode {
		out.Prices = []product.Price{}
		out.Products = []ProductLine{}
	}
	out.SeasonCode = code
	return out
}

// WithDeposit sets the deposit and keeps the deposit plan line in step with it.
func (d Draft) WithDeposit(amount types.Money, today types.Date) (Draft, error) {
	if amount.IsNegative() {
		return d, apperror.NewFieldValidation("", map[string][]string{
			"deposit_amount": {"deposit cannot be negative"},
		})
	}
	out := d.Clone()
	out.DepositAmount = types.RoundMoney(amount)

	date := d.CheckIn
	if date.IsZero() {
		date = today
	}
	out.PaymentPlans = paymentplan.SyncDeposit(out.PaymentPlans, out.DepositAmount, date)
	return out, nil
}

// Details is the free-form part of the wizard.
type Details struct {
	CheckIn  types.Date    `json:"check_in"`
	CheckOut types.Date    `json:"check_out"`
	Notes    string        `json:"notes"`
	GuestID  int64         `json:"guest_id"`
	Student  *StudentInput `json:"student"`
}

// WithDetails sets dates, notes and who is being registered.
func (d Draft) WithDetails(in Details) (Draft, error) {
	fields := map[string][]string{}
	if !in.CheckIn.IsZero() && !in.CheckOut.IsZero() && !in.CheckOut.After(in.CheckIn) {
		fields["check_out"] = []string{"check-out must be after check-in"}
	}
	if in.GuestID != 0 && in.Student != nil {
		fields["guest_id"] = []string{"choose an existing guest or enter a new student, not both"}
	}
	if len(fields) > 0 {
		return d, apperror.NewFieldValidation("", fields)
	}
	if in.Student != nil {
		if err := validateStruct(in.Student); err != nil {
			return d, err
		}
	}

	out := d.Clone()
	out.CheckIn = in.CheckIn
	out.CheckOut = in.CheckOut
	out.Notes = in.Notes
	out.GuestID = in.GuestID
	out.Student = in.Student
	return out, nil
}

// ValidateForSubmit checks that everything the backend needs is present and
// that every plan line can be created as is.
func (d Draft) ValidateForSubmit(ctx context.Context) error {
	fields := map[string][]string{}
	if !d.Complete() {
		fields["bed_id"] = []string{"select an apart, a room and a bed"}
	}
	if d.SeasonCode == "" {
		fields["season_code"] = []string{"season is required"}
	}
	if d.CheckIn.IsZero() {
		fields["check_in"] = []string{"check-in date is required"}
	}
	if d.CheckOut.IsZero() {
		fields["check_out"] = []string{"check-out date is required"}
	}
	if d.GuestID == 0 && d.Student == nil {
		fields["guest_id"] = []string{"select a guest or enter a new student"}
	}
	if err := paymentplan.ValidateLines(ctx, d.PaymentPlans); err != nil {
		for name, msgs := range apperror.FieldErrors(err) {
			fields[name] = msgs
		}
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation("registration is incomplete", fields)
	}
	return nil
}

// ProductSubtotal is Σ quantity × unit price.
func (d Draft) ProductSubtotal() types.Money {
	return ProductSubtotal(d.Products)
}

// TotalAmount is the product subtotal plus the deposit.
func (d Draft) TotalAmount() types.Money {
	return TotalAmount(d.Products, d.DepositAmount)
}

// Summary returns the plan reconciliation figures of the draft.
func (d Draft) Summary() paymentplan.Summary {
	return paymentplan.Summarize(d.ProductSubtotal(), d.DepositAmount, d.PaymentPlans)
}
