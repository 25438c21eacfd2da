package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/domain/inventory"
	"dormdesk/internal/domain/paymentplan"
	"dormdesk/internal/domain/registration"
)

var (
	_ inventory.Assigner        = (*API)(nil)
	_ paymentplan.PaymentSource = (*API)(nil)
	_ registration.Gateway      = (*API)(nil)
)

// Assign calls the assign-to-{apart|room|bed} verb for the item.
func (a *API) Assign(ctx context.Context, itemID int64, target inventory.Target) (*inventory.Item, error) {
	var verb string
	switch target.Kind {
	case inventory.KindApart:
		verb = "assign-to-apart"
	case inventory.KindRoom:
		verb = "assign-to-room"
	case inventory.KindBed:
		verb = "assign-to-bed"
	default:
		return nil, apperror.NewValidation(fmt.Sprintf("cannot assign inventory to %q", target.Kind))
	}
	item, _, err := Send[*inventory.Item](ctx, a.Client, Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("inventory/%d/%s/%d", itemID, verb, target.ID),
	})
	return item, err
}

// Unassign detaches the item.
func (a *API) Unassign(ctx context.Context, itemID int64) (*inventory.Item, error) {
	item, _, err := Send[*inventory.Item](ctx, a.Client, Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("inventory/%d/unassign", itemID),
	})
	return item, err
}

// PaymentsForPlan lists the payments recorded against a plan line.
func (a *API) PaymentsForPlan(ctx context.Context, planID int64) ([]paymentplan.Payment, error) {
	payments, _, err := Get[[]paymentplan.Payment](ctx, a.Client, "payments", url.Values{
		"payment_plan_id": {strconv.FormatInt(planID, 10)},
	})
	if payments == nil {
		payments = []paymentplan.Payment{}
	}
	return payments, err
}

// CreatePayment records a payment.
func (a *API) CreatePayment(ctx context.Context, p paymentplan.Payment) (paymentplan.Payment, error) {
	created, _, err := Send[paymentplan.Payment](ctx, a.Client, Request{
		Method: http.MethodPost,
		Path:   "payments",
		Body:   p,
	})
	return created, err
}

// CreatePerson creates a person.
func (a *API) CreatePerson(ctx context.Context, p registration.Person) (*registration.Person, error) {
	return create(ctx, a.Client, "people", &p)
}

// CreateGuest creates a guest.
func (a *API) CreateGuest(ctx context.Context, g registration.Guest) (*registration.Guest, error) {
	return create(ctx, a.Client, "guests", &g)
}

// CreateGuardian creates a guardian.
func (a *API) CreateGuardian(ctx context.Context, g registration.Guardian) (*registration.Guardian, error) {
	return create(ctx, a.Client, "guardians", &g)
}

// CreateRegistration creates a season registration.
func (a *API) CreateRegistration(ctx context.Context, r registration.SeasonRegistration) (*registration.SeasonRegistration, error) {
	return create(ctx, a.Client, "season-registrations", &r)
}

type attachedProduct struct {
	ID int64 `json:"id"`
}

// AttachProduct adds a product line to a registration.
func (a *API) AttachProduct(ctx context.Context, registrationID int64, line registration.ProductLine) (int64, error) {
	created, _, err := Send[attachedProduct](ctx, a.Client, Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("season-registrations/%d/products", registrationID),
		Body:   line,
	})
	return created.ID, err
}

// CreatePaymentPlan creates one plan line.
func (a *API) CreatePaymentPlan(ctx context.Context, line paymentplan.Line) (*paymentplan.Line, error) {
	return create(ctx, a.Client, "payment-plans", &line)
}

func create[T any](ctx context.Context, c *Client, path string, body *T) (*T, error) {
	created, _, err := Send[*T](ctx, c, Request{Method: http.MethodPost, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, apperror.NewBackend(http.StatusBadGateway, path+": backend returned no record")
	}
	return created, nil
}
