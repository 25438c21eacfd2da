package registration

import (
	"context"
	"sync"
	"time"

	"dormdesk/internal/core/apperror"
	appctx "dormdesk/internal/core/context"
	"dormdesk/internal/core/types"
	"dormdesk/internal/domain/accommodation"
	"dormdesk/internal/domain/catalogs/product"
	"dormdesk/internal/domain/paymentplan"
	"dormdesk/pkg/logger"
)

// DraftRepository keeps drafts between wizard requests.
type DraftRepository interface {
	Save(ctx context.Context, d *Draft) error
	Get(ctx context.Context, id string) (*Draft, error)
	Delete(ctx context.Context, id string) error
}

// PriceLookup loads the price list of an apart for a season.
type PriceLookup interface {
	Prices(ctx context.Context, apartID int64, seasonCode string) ([]product.Price, error)
}

// Service drives drafts through the wizard. Each operation loads the draft,
// applies one transition and saves the result. Operations on the same draft
// are serialized within this process.
type Service struct {
	drafts  DraftRepository
	rooms   accommodation.Lookup
	prices  PriceLookup
	gateway Gateway
	now     func() time.Time

	locks keyedMutex
}

// ServiceConfig configures the service.
type ServiceConfig struct {
	Drafts  DraftRepository
	Rooms   accommodation.Lookup
	Prices  PriceLookup
	Gateway Gateway

	// Now defaults to time.Now
	Now func() time.Time
}

// NewService creates a registration service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		drafts:  cfg.Drafts,
		rooms:   cfg.Rooms,
		prices:  cfg.Prices,
		gateway: cfg.Gateway,
		now:     now,
	}
}

// Start opens a new draft for the caller.
func (s *Service) Start(ctx context.Context) (*Draft, error) {
	d := NewDraft(appctx.GetUserID(ctx), appctx.GetFirmID(ctx), s.now().UTC())
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, err
	}
	logger.Info(ctx, "draft started", "draft_id", d.ID)
	return d, nil
}

// Get returns the caller's draft.
func (s *Service) Get(ctx context.Context, id string) (*Draft, error) {
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.OwnerID != appctx.GetUserID(ctx) || d.FirmID != appctx.GetFirmID(ctx) {
		return nil, apperror.NewNotFound("draft", id)
	}
	return d, nil
}

// Discard drops the caller's draft.
func (s *Service) Discard(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if d.State == StateSubmitting {
		return apperror.NewConflict(apperror.CodeSubmissionInProgress, "registration is being submitted")
	}
	if err := s.drafts.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info(ctx, "draft discarded", "draft_id", id)
	return nil
}

// SelectApart picks the apart and reloads everything below it.
func (s *Service) SelectApart(ctx context.Context, id string, apartID int64) (*Draft, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d Draft) (Draft, error) {
		sel, err := d.Selection.SelectApart(ctx, s.rooms, apartID)
		d = d.WithSelection(sel)
		if err != nil {
			return d, err
		}
		return s.loadPrices(ctx, d)
	})
}

// SelectRoom picks the room and reloads its beds.
func (s *Service) SelectRoom(ctx context.Context, id string, roomID int64) (*Draft, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d Draft) (Draft, error) {
		sel, err := d.Selection.SelectRoom(ctx, s.rooms, roomID)
		return d.WithSelection(sel), err
	})
}

// SelectBed picks the bed and loads its detail.
func (s *Service) SelectBed(ctx context.Context, id string, bedID int64) (*Draft, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d Draft) (Draft, error) {
		sel, err := d.Selection.SelectBed(ctx, s.rooms, bedID)
		return d.WithSelection(sel), err
	})
}

// SetSeason picks the season and reloads prices.
func (s *Service) SetSeason(ctx context.Context, id, code string) (*Draft, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d Draft) (Draft, error) {
		return s.loadPrices(ctx, d.WithSeason(code))
	})
}

// SetDeposit sets the deposit amount.
func (s *Service) SetDeposit(ctx context.Context, id string, amount types.Money) (*Draft, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d Draft) (Draft, error) {
		return d.WithDeposit(amount, types.DateOf(s.now()))
	})
}

// SetDetails sets dates, notes and the guest.
func (s *Service) SetDetails(ctx context.Context, id string, in Details) (*Draft, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d Draft) (Draft, error) {
		return d.WithDetails(in)
	})
}

// AddProduct adds a priced product.
func (s *Service) AddProduct(ctx context.Context, id string, productID int64) (*Draft, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d Draft) (Draft, error) {
		return d.AddProduct(productID)
	})
}

// RemoveProduct removes a product line.
func (s *Service) RemoveProduct(ctx context.Context, id string, productID int64) (*Draft, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d Draft) (Draft, error) {
		return d.RemoveProduct(productID), nil
	})
}

// GeneratePlan replaces the plan with a generated schedule and reports how
// many lines were replaced.
func (s *Service) GeneratePlan(ctx context.Context, id string, req PlanRequest) (*Draft, int, error) {
	var replaced int
	d, err := s.mutate(ctx, id, func(ctx context.Context, d Draft) (Draft, error) {
		out, n, err := d.GeneratePlan(req)
		replaced = n
		return out, err
	})
	if err == nil {
		logger.Info(ctx, "payment plan generated", "draft_id", id,
			"installments", req.Installments, "replaced", replaced)
	}
	return d, replaced, err
}

// AddPlanLine appends a manual plan line.
func (s *Service) AddPlanLine(ctx context.Context, id string, line paymentplan.Line) (*Draft, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d Draft) (Draft, error) {
		return d.AddPlanLine(ctx, line)
	})
}

// UpdatePlanLine edits the plan line at index.
func (s *Service) UpdatePlanLine(ctx context.Context, id string, index int, patch paymentplan.LinePatch) (*Draft, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d Draft) (Draft, error) {
		return d.UpdatePlanLine(index, patch)
	})
}

// RemovePlanLine removes the plan line at index.
func (s *Service) RemovePlanLine(ctx context.Context, id string, index int) (*Draft, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d Draft) (Draft, error) {
		return d.RemovePlanLine(index)
	})
}

// Submit runs the registration pipeline for the draft. The draft moves to
// submitting while the pipeline runs, then to submitted or failed. A failed
// draft can be submitted again; records created by the previous attempt are
// not reused.
//
// Once the draft is marked submitting, the pipeline and the closing save no
// longer follow ctx cancellation, so a dropped client cannot leave the draft
// stuck in submitting or lose the ids the backend already issued.
func (s *Service) Submit(ctx context.Context, id string) (*Draft, error) {
	d, err := s.beginSubmit(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	outcome := Outcome{}
	report := RegistrationPipeline(s.gateway, *d).Run(ctx, &outcome)

	unlock := s.locks.Lock(id)
	defer unlock()

	d.Report = &report
	d.RegistrationID = outcome.RegistrationID
	d.State = StateSubmitted
	if !report.OK() {
		d.State = StateFailed
	}
	d.UpdatedAt = s.now().UTC()
	if err := s.drafts.Save(ctx, d); err != nil {
		logger.Error(ctx, "saving submitted draft failed", "draft_id", id, "error", err)
		return d, err
	}

	logger.Info(ctx, "registration submitted", "draft_id", id, "state", d.State,
		"registration_id", outcome.RegistrationID, "warnings", len(report.Warnings))
	return d, report.Err()
}

func (s *Service) beginSubmit(ctx context.Context, id string) (*Draft, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.Editable(); err != nil {
		return nil, err
	}
	if err := d.ValidateForSubmit(ctx); err != nil {
		return nil, err
	}

	if d.Report != nil && len(d.Report.Warnings) > 0 {
		logger.Warn(ctx, "resubmitting draft with records left by a failed attempt",
			"draft_id", id, "created", d.Report.Created(), "warnings", d.Report.Warnings)
	}
	d.State = StateSubmitting
	d.Report = nil
	d.UpdatedAt = s.now().UTC()
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// CreateStudent runs person → guest → guardian outside of any draft.
func (s *Service) CreateStudent(ctx context.Context, in StudentInput) (Outcome, Report, error) {
	if err := validateStruct(in); err != nil {
		return Outcome{}, Report{}, err
	}
	outcome := Outcome{}
	report := StudentPipeline(s.gateway, in).Run(ctx, &outcome)
	return outcome, report, report.Err()
}

// mutate applies fn under the draft's lock and saves whatever fn returns,
// including a draft cleared before a failing fetch.
func (s *Service) mutate(ctx context.Context, id string, fn func(ctx context.Context, d Draft) (Draft, error)) (*Draft, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := current.Editable(); err != nil {
		return nil, err
	}
	if current.State == StateFailed {
		current.State = StateEditing
	}

	next, stepErr := fn(ctx, current.Clone())
	next.UpdatedAt = s.now().UTC()
	if err := s.drafts.Save(ctx, &next); err != nil {
		return nil, err
	}
	return &next, stepErr
}

func (s *Service) loadPrices(ctx context.Context, d Draft) (Draft, error) {
	if d.ApartID == 0 || d.SeasonCode == "" {
		return d, nil
	}
	prices, err := s.prices.Prices(ctx, d.ApartID, d.SeasonCode)
	if err != nil {
		return d, err
	}
	return d.WithPrices(prices), nil
}

// keyedMutex serializes work per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// Lock acquires the lock for key and returns its release func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
