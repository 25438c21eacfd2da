package draftstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "dormdesk/internal/core/context"
	"dormdesk/internal/domain/accommodation"
	"dormdesk/internal/domain/catalogs/product"
	"dormdesk/internal/domain/paymentplan"
	"dormdesk/internal/domain/registration"
)

type noRooms struct{}

func (noRooms) ActiveRooms(ctx context.Context, apartID int64) ([]accommodation.Room, error) {
	return nil, nil
}

func (noRooms) AvailableBeds(ctx context.Context, roomID int64) ([]accommodation.Bed, error) {
	return nil, nil
}

func (noRooms) Bed(ctx context.Context, bedID int64) (*accommodation.Bed, error) {
	return nil, nil
}

type noPrices struct{}

func (noPrices) Prices(ctx context.Context, apartID int64, seasonCode string) ([]product.Price, error) {
	return nil, nil
}

// hangupGateway cancels the request context once the registration exists,
// like a client closing the tab mid-submit. Calls on a done context fail.
type hangupGateway struct {
	cancel context.CancelFunc

	mu     sync.Mutex
	nextID int64
	plans  int
}

func (g *hangupGateway) id() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	return g.nextID
}

func (g *hangupGateway) CreatePerson(ctx context.Context, p registration.Person) (*registration.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.ID = g.id()
	return &p, nil
}

func (g *hangupGateway) CreateGuest(ctx context.Context, gs registration.Guest) (*registration.Guest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	gs.ID = g.id()
	return &gs, nil
}

func (g *hangupGateway) CreateGuardian(ctx context.Context, gd registration.Guardian) (*registration.Guardian, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	gd.ID = g.id()
	return &gd, nil
}

func (g *hangupGateway) CreateRegistration(ctx context.Context, r registration.SeasonRegistration) (*registration.SeasonRegistration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.ID = 55
	g.cancel()
	return &r, nil
}

func (g *hangupGateway) AttachProduct(ctx context.Context, registrationID int64, line registration.ProductLine) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return g.id(), nil
}

func (g *hangupGateway) CreatePaymentPlan(ctx context.Context, line paymentplan.Line) (*paymentplan.Line, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.plans++
	g.mu.Unlock()
	line.ID = g.id()
	return &line, nil
}

func TestRedis_SubmitSurvivesClientHangup(t *testing.T) {
	store, _ := newRedisStore(t, 0, time.Hour)

	d := sampleDraft()
	d.RoomID = 40
	d.BedID = 400
	d.CheckOut = d.CheckIn.AddMonthsClamped(5)
	d.GuestID = 77
	require.NoError(t, store.Save(context.Background(), d))

	user := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: d.OwnerID, FirmID: d.FirmID})
	ctx, cancel := context.WithCancel(user)
	defer cancel()

	gw := &hangupGateway{cancel: cancel}
	svc := registration.NewService(registration.ServiceConfig{
		Drafts:  store,
		Rooms:   noRooms{},
		Prices:  noPrices{},
		Gateway: gw,
	})

	got, err := svc.Submit(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, registration.StateSubmitted, got.State)
	assert.Equal(t, 1, gw.plans)

	stored, err := store.Get(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, registration.StateSubmitted, stored.State)
	assert.Equal(t, int64(55), stored.RegistrationID)
	require.NotNil(t, stored.Report)

	require.NoError(t, svc.Discard(user, d.ID))
}
