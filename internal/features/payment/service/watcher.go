package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"checkout-orchestrator/internal/core/commerce"
	"checkout-orchestrator/internal/core/logger"
	"checkout-orchestrator/internal/features/payment/domain"
	"checkout-orchestrator/internal/features/payment/ports"

	"go.uber.org/zap"
)

// WatchState is the observable state of a payment watch.
type WatchState string

const (
	// StateResolving means the persisted session is being restored.
	StateResolving WatchState = "resolving"
	// StatePolling means the provider is being polled for a terminal status.
	StatePolling WatchState = "polling"
	// StatePaid means the payment settled.
	StatePaid WatchState = "paid"
	// StateFailed means the payment was rejected, errored or refunded.
	StateFailed WatchState = "failed"
	// StateAbandonedNoAuth means the customer is not authenticated and the
	// watch cannot proceed.
	StateAbandonedNoAuth WatchState = "abandoned_no_auth"
	// StateExhausted means the attempt budget ran out before a terminal status.
	StateExhausted WatchState = "exhausted"
)

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// PollInterval is the pause between status checks.
	PollInterval time.Duration
	// MaxAttempts bounds how many status checks a single watch performs.
	MaxAttempts int
	// AutoOpenDelay is the pause before the payment page is opened for a
	// restored session that was never opened.
	AutoOpenDelay time.Duration
	// PaidRedirectDelay is the pause between a paid status and the order
	// page navigation, so the customer sees the confirmation.
	PaidRedirectDelay time.Duration
}

// WatchSink receives watch notifications. Nil callbacks are skipped.
type WatchSink struct {
	// StateChanged fires on every state transition.
	StateChanged func(WatchState)
	// StatusChanged fires when the provider reports a new payment status.
	StatusChanged func(domain.Status)
	// OpenPayment fires once when the external payment page should be opened.
	OpenPayment func(url string)
	// Navigate fires with the storefront route to move to after settlement.
	Navigate func(route string)
}

func (s WatchSink) state(st WatchState) {
	if s.StateChanged != nil {
		s.StateChanged(st)
	}
}

func (s WatchSink) status(st domain.Status) {
	if s.StatusChanged != nil {
		s.StatusChanged(st)
	}
}

func (s WatchSink) open(url string) {
	if s.OpenPayment != nil {
		s.OpenPayment(url)
	}
}

func (s WatchSink) navigate(route string) {
	if s.Navigate != nil {
		s.Navigate(route)
	}
}

// Watcher drives a payment from session restore to a terminal outcome.
//
// A watch restores the persisted session, checks the status once immediately,
// then keeps polling at PollInterval until the status turns terminal, the
// attempt budget runs out, or the context is cancelled. Provider errors other
// than authentication failures count against the budget but do not abort the
// watch.
type Watcher struct {
	provider ports.PaymentProvider
	store    ports.SessionStore
	opts     WatchOptions
	logger   *zap.Logger
}

// NewWatcher creates a new Watcher.
func NewWatcher(provider ports.PaymentProvider, store ports.SessionStore, opts WatchOptions) *Watcher {
	return &Watcher{
		provider: provider,
		store:    store,
		opts:     opts,
		logger:   logger.Named("payment-watcher"),
	}
}

// Watch blocks until the payment reaches a terminal state, the attempt budget
// is exhausted, or ctx is cancelled. It returns the final watch state.
func (w *Watcher) Watch(ctx context.Context, token string, paymentID int, sink WatchSink) WatchState {
	sink.state(StateResolving)

	if token == "" {
		w.logger.Info("Watch abandoned, no authentication", zap.Int("payment_id", paymentID))
		sink.state(StateAbandonedNoAuth)
		return StateAbandonedNoAuth
	}

	orderID := 0
	lastStatus := domain.StatusPending

	session := w.store.Load(ctx, paymentID)
	if session != nil {
		orderID = session.OrderID
		lastStatus = session.Status
		w.scheduleAutoOpen(ctx, session, sink)
	}

	sink.state(StatePolling)

	for attempt := 1; attempt <= w.opts.MaxAttempts; attempt++ {
		result, err := w.provider.GetStatus(ctx, token, paymentID)
		switch {
		case errors.Is(err, commerce.ErrUnauthorized):
			w.logger.Info("Watch abandoned, authentication expired", zap.Int("payment_id", paymentID))
			sink.state(StateAbandonedNoAuth)
			return StateAbandonedNoAuth
		case err != nil:
			w.logger.Warn("Status check failed",
				zap.Int("payment_id", paymentID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		default:
			if result.Status != lastStatus {
				lastStatus = result.Status
				sink.status(result.Status)
				w.persistStatus(ctx, session, result.Status)
			}
			if result.Status.Terminal() {
				return w.finish(ctx, result.Status, orderID, paymentID, sink)
			}
		}

		if attempt == w.opts.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return StatePolling
		case <-time.After(w.opts.PollInterval):
		}
	}

	w.logger.Warn("Watch exhausted without terminal status",
		zap.Int("payment_id", paymentID),
		zap.Int("attempts", w.opts.MaxAttempts),
	)
	sink.state(StateExhausted)
	return StateExhausted
}

// scheduleAutoOpen opens the external payment page for a restored pending
// session. The open fires at most once per watch: the schedule happens a
// single time per Watch call, so a fresh watch over the same session opens
// again. OpenedAt is stamped only when the redirect is actually delivered;
// a watch without a redirect callback leaves the session untouched.
func (w *Watcher) scheduleAutoOpen(ctx context.Context, session *domain.StoredSession, sink WatchSink) {
	if session.PaymentURL == "" || session.Status.Terminal() || sink.OpenPayment == nil {
		return
	}

	url := session.PaymentURL
	paymentID := session.PaymentID

	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(w.opts.AutoOpenDelay):
			w.store.MarkOpened(ctx, paymentID, time.Now().UnixMilli())
			sink.open(url)
		}
	}()
}

// persistStatus mirrors the latest status into the stored session so a reload
// during the watch restores the newest known state.
func (w *Watcher) persistStatus(ctx context.Context, session *domain.StoredSession, status domain.Status) {
	if session == nil {
		return
	}
	session.Status = status
	w.store.Save(ctx, *session)
}

// finish handles a terminal status. Paid payments navigate to the order page
// after PaidRedirectDelay and drop the persisted session; everything else is
// reported as failed.
func (w *Watcher) finish(ctx context.Context, status domain.Status, orderID, paymentID int, sink WatchSink) WatchState {
	if status != domain.StatusPaid {
		sink.state(StateFailed)
		return StateFailed
	}

	select {
	case <-ctx.Done():
	case <-time.After(w.opts.PaidRedirectDelay):
		if orderID != 0 {
			sink.navigate(fmt.Sprintf("/orders/%d?status=paid", orderID))
		}
	}

	w.store.Delete(ctx, paymentID)
	sink.state(StatePaid)
	return StatePaid
}
