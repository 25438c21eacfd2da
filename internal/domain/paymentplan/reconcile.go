package paymentplan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"dormdesk/internal/core/apperror"
	appctx "dormdesk/internal/core/context"
	"dormdesk/internal/core/types"
)

// PaymentSource reads and records payments on the backend.
type PaymentSource interface {
	PaymentsForPlan(ctx context.Context, planID int64) ([]Payment, error)
	CreatePayment(ctx context.Context, p Payment) (Payment, error)
}

// DefaultCacheTTL bounds how long loaded payments are trusted.
const DefaultCacheTTL = 30 * time.Second

// Reconciler loads the payments of plan lines on first use and keeps them for
// a short while. Concurrent first loads of the same line share one backend
// call. Entries are keyed by firm and plan id.
type Reconciler struct {
	source PaymentSource
	group  singleflight.Group
	ttl    time.Duration
	now    func() time.Time

	mu    sync.RWMutex
	cache map[string]cachedPayments
}

type cachedPayments struct {
	payments []Payment
	loadedAt time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithCacheTTL sets how long loaded payments are served from memory.
// A non-positive ttl keeps DefaultCacheTTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(r *Reconciler) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// NewReconciler creates a reconciler over source.
func NewReconciler(source PaymentSource, opts ...Option) *Reconciler {
	r := &Reconciler{
		source: source,
		ttl:    DefaultCacheTTL,
		now:    time.Now,
		cache:  make(map[string]cachedPayments),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Payments returns the payments recorded against plan line planID.
func (r *Reconciler) Payments(ctx context.Context, planID int64) ([]Payment, error) {
	key := cacheKey(ctx, planID)

	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok && r.now().Sub(cached.loadedAt) < r.ttl {
		return clonePayments(cached.payments), nil
	}

	// The shared load must outlive any single waiter.
	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (any, error) {
		payments, err := r.source.PaymentsForPlan(loadCtx, planID)
		if err != nil {
			return nil, err
		}
		r.store(key, payments)
		return payments, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clonePayments(res.Val.([]Payment)), nil
	}
}

// store caches payments under key and drops expired entries.
func (r *Reconciler) store(key string, payments []Payment) {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, e := range r.cache {
		if now.Sub(e.loadedAt) >= r.ttl {
			delete(r.cache, k)
		}
	}
	r.cache[key] = cachedPayments{payments: clonePayments(payments), loadedAt: now}
}

// Len reports how many lines are cached, expired ones included.
func (r *Reconciler) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// TotalPaid sums the payments of plan line planID.
func (r *Reconciler) TotalPaid(ctx context.Context, planID int64) (types.Money, error) {
	payments, err := r.Payments(ctx, planID)
	if err != nil {
		return types.Zero(), err
	}
	total := types.Zero()
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total, nil
}

// CanAddPayment reports whether a payment may be recorded from here: only
// lines without any payment accept one.
func (r *Reconciler) CanAddPayment(ctx context.Context, planID int64) (bool, error) {
	payments, err := r.Payments(ctx, planID)
	if err != nil {
		return false, err
	}
	return len(payments) == 0, nil
}

// RecordPayment creates p on the backend unless the line already has a
// payment. The check always reads the backend, never the cache, since another
// screen may have recorded a payment since the line was loaded.
func (r *Reconciler) RecordPayment(ctx context.Context, p Payment) (Payment, error) {
	if err := p.Validate(ctx); err != nil {
		return Payment{}, err
	}

	key := cacheKey(ctx, p.PaymentPlanID)
	current, err := r.source.PaymentsForPlan(ctx, p.PaymentPlanID)
	if err != nil {
		return Payment{}, err
	}
	if len(current) > 0 {
		r.store(key, current)
		return Payment{}, apperror.NewConflict(apperror.CodePaymentAlreadyExists,
			"a payment is already recorded for this plan line").
			WithDetail("payment_plan_id", p.PaymentPlanID)
	}

	created, err := r.source.CreatePayment(ctx, p)
	if err != nil {
		r.Invalidate(ctx, p.PaymentPlanID)
		return Payment{}, err
	}
	r.store(key, []Payment{created})
	return created, nil
}

// Invalidate forgets the cached payments of planID.
func (r *Reconciler) Invalidate(ctx context.Context, planID int64) {
	r.mu.Lock()
	delete(r.cache, cacheKey(ctx, planID))
	r.mu.Unlock()
}

// LineView is a plan line with its reconciliation figures.
type LineView struct {
	Line       Line        `json:"line"`
	Payments   []Payment   `json:"payments"`
	TotalPaid  types.Money `json:"total_paid"`
	Paid       bool        `json:"paid"`
	CanAddMore bool        `json:"can_add_payment"`
}

// View loads the payments of line and derives its figures.
func (r *Reconciler) View(ctx context.Context, line Line) (LineView, error) {
	payments := []Payment{}
	if !line.IsNew() {
		var err error
		if payments, err = r.Payments(ctx, line.ID); err != nil {
			return LineView{}, err
		}
	}
	total := types.Zero()
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return LineView{
		Line:       line,
		Payments:   payments,
		TotalPaid:  total,
		Paid:       line.IsPaid(),
		CanAddMore: len(payments) == 0,
	}, nil
}

func cacheKey(ctx context.Context, planID int64) string {
	return fmt.Sprintf("%s:%d", appctx.GetFirmID(ctx), planID)
}

func clonePayments(in []Payment) []Payment {
	out := make([]Payment, len(in))
	copy(out, in)
	return out
}
