package adapters

import (
	"context"
	"fmt"
	"time"

	"checkout-orchestrator/internal/core/commerce"
	"checkout-orchestrator/internal/features/payment/domain"
)

// TochkaAdapter implements the PaymentProvider port against the commerce
// backend's Tochka payment endpoints.
type TochkaAdapter struct {
	client *commerce.Client
}

// NewTochkaAdapter creates a new TochkaAdapter.
func NewTochkaAdapter(baseURL string, timeout time.Duration) *TochkaAdapter {
	return &TochkaAdapter{
		client: commerce.NewClient(baseURL, timeout),
	}
}

// sessionResponse is the wire shape of a created payment session.
type sessionResponse struct {
	PaymentID  int    `json:"paymentId"`
	OrderID    int    `json:"orderId"`
	ExternalID string `json:"externalId"`
	SessionID  string `json:"sessionId"`
	Status     string `json:"status"`
	PaymentURL string `json:"paymentUrl"`
	ExpiresAt  string `json:"expiresAt"`
}

// statusResponse is the wire shape of a payment status poll.
type statusResponse struct {
	Status    string      `json:"status"`
	RawStatus interface{} `json:"rawStatus"`
}

// CreateSession initiates a payment session for the given order.
func (a *TochkaAdapter) CreateSession(ctx context.Context, token string, orderID int) (domain.Session, error) {
	var resp sessionResponse
	body := map[string]int{"orderId": orderID}

	if err := a.client.Post(ctx, "/api/payments/tochka/session", token, body, &resp); err != nil {
		return domain.Session{}, fmt.Errorf("failed to create payment session: %w", err)
	}

	return domain.Session{
		PaymentID:  resp.PaymentID,
		OrderID:    resp.OrderID,
		ExternalID: resp.ExternalID,
		SessionID:  resp.SessionID,
		Status:     normalizeStatus(resp.Status),
		PaymentURL: resp.PaymentURL,
		ExpiresAt:  resp.ExpiresAt,
	}, nil
}

// GetStatus polls the current payment status by payment ID.
func (a *TochkaAdapter) GetStatus(ctx context.Context, token string, paymentID int) (domain.StatusResult, error) {
	var resp statusResponse
	path := fmt.Sprintf("/api/payments/tochka/%d/status", paymentID)

	if err := a.client.Get(ctx, path, token, &resp); err != nil {
		return domain.StatusResult{}, fmt.Errorf("failed to get payment status: %w", err)
	}

	return domain.StatusResult{
		Status:    normalizeStatus(resp.Status),
		RawStatus: resp.RawStatus,
	}, nil
}

// normalizeStatus maps provider status strings to the domain enum, defaulting
// unknown values to pending so the watcher keeps observing.
func normalizeStatus(s string) domain.Status {
	switch domain.Status(s) {
	case domain.StatusPaid, domain.StatusFailed, domain.StatusRefunded, domain.StatusPending:
		return domain.Status(s)
	default:
		return domain.StatusPending
	}
}
