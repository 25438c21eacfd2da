package backend

import (
	"dormdesk/internal/domain/accommodation"
	"dormdesk/internal/domain/account"
	"dormdesk/internal/domain/catalogs/feature"
	"dormdesk/internal/domain/catalogs/paymenttype"
	"dormdesk/internal/domain/catalogs/product"
	"dormdesk/internal/domain/catalogs/season"
	"dormdesk/internal/domain/inventory"
	"dormdesk/internal/domain/paymentplan"
	"dormdesk/internal/domain/registration"
)

// API groups the per-resource modules of the backend.
type API struct {
	Client *Client

	Aparts        *Resource[*accommodation.Apart]
	Rooms         *Resource[*accommodation.Room]
	Beds          *Resource[*accommodation.Bed]
	Inventory     *Resource[*inventory.Item]
	Features      *Resource[*feature.Feature]
	Seasons       *Resource[*season.Season]
	Products      *Resource[*product.Product]
	ProductPrices *Resource[*product.Price]
	PaymentTypes  *Resource[*paymenttype.PaymentType]
	Payments      *Resource[*paymentplan.Payment]
	PaymentPlans  *Resource[*paymentplan.Line]
	Registrations *Resource[*registration.SeasonRegistration]
	Users         *Resource[*account.User]
	Firms         *Resource[*account.Firm]
}

// NewAPI binds every resource module to c.
func NewAPI(c *Client) *API {
	return &API{
		Client:        c,
		Aparts:        NewResource[*accommodation.Apart](c, "aparts"),
		Rooms:         NewResource[*accommodation.Room](c, "rooms"),
		Beds:          NewResource[*accommodation.Bed](c, "beds"),
		Inventory:     NewResource[*inventory.Item](c, "inventory"),
		Features:      NewResource[*feature.Feature](c, "features"),
		Seasons:       NewResource[*season.Season](c, "seasons"),
		Products:      NewResource[*product.Product](c, "products"),
		ProductPrices: NewResource[*product.Price](c, "prices"),
		PaymentTypes:  NewResource[*paymenttype.PaymentType](c, "payment-types"),
		Payments:      NewResource[*paymentplan.Payment](c, "payments"),
		PaymentPlans:  NewResource[*paymentplan.Line](c, "payment-plans"),
		Registrations: NewResource[*registration.SeasonRegistration](c, "season-registrations"),
		Users:         NewResource[*account.User](c, "users"),
		Firms:         NewResource[*account.Firm](c, "firms"),
	}
}
