package service

import (
	"context"
	"fmt"
	"time"

	"checkout-orchestrator/internal/core/logger"
	"checkout-orchestrator/internal/features/payment/domain"
	"checkout-orchestrator/internal/features/payment/ports"

	"go.uber.org/zap"
)

// PaymentService creates payment sessions and answers status queries.
// Created sessions are persisted through the SessionStore so the checkout flow
// survives a page reload; persistence is best-effort and never blocks payment.
type PaymentService struct {
	provider ports.PaymentProvider
	store    ports.SessionStore
	watcher  *Watcher
	logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(provider ports.PaymentProvider, store ports.SessionStore) *PaymentService {
	return &PaymentService{
		provider: provider,
		store:    store,
		logger:   logger.Named("payment"),
	}
}

// TrackSettlements makes every created session spawn a background watch that
// mirrors provider status updates into the store and drops the session once
// the payment settles.
func (s *PaymentService) TrackSettlements(watcher *Watcher) {
	s.watcher = watcher
}

// CreateSession initiates a payment session for the order and persists it
// together with its order context.
func (s *PaymentService) CreateSession(ctx context.Context, token string, orderID int, orderNumber string, totalAmount float64) (domain.Session, error) {
	session, err := s.provider.CreateSession(ctx, token, orderID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to create payment session: %w", err)
	}

	s.store.Save(ctx, domain.NewStoredSession(session, orderNumber, totalAmount, time.Now()))

	s.logger.Info("Payment session created",
		zap.Int("payment_id", session.PaymentID),
		zap.Int("order_id", session.OrderID),
	)

	if s.watcher != nil {
		// Detached from the request: the watch outlives the HTTP call.
		go s.watcher.Watch(context.Background(), token, session.PaymentID, WatchSink{
			Navigate: func(route string) {
				s.logger.Info("Payment settled",
					zap.Int("payment_id", session.PaymentID),
					zap.String("route", route),
				)
			},
		})
	}

	return session, nil
}

// Status returns the current payment status from the provider.
func (s *PaymentService) Status(ctx context.Context, token string, paymentID int) (domain.StatusResult, error) {
	result, err := s.provider.GetStatus(ctx, token, paymentID)
	if err != nil {
		return domain.StatusResult{}, fmt.Errorf("failed to get payment status: %w", err)
	}
	return result, nil
}

// Restore loads the persisted session for a payment ID. Returns nil when the
// store has no usable entry; the caller falls back to the provider in that case.
func (s *PaymentService) Restore(ctx context.Context, paymentID int) *domain.StoredSession {
	return s.store.Load(ctx, paymentID)
}

// MarkOpened records that the customer was redirected to the external payment
// page. Used when the redirect is triggered manually; repeated calls keep the
// first timestamp.
func (s *PaymentService) MarkOpened(ctx context.Context, paymentID int) {
	s.store.MarkOpened(ctx, paymentID, time.Now().UnixMilli())
}
