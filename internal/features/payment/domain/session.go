package domain

import "time"

// Status represents the provider-side state of a payment.
type Status string

const (
	// StatusPending indicates the payment has not settled yet.
	StatusPending Status = "pending"
	// StatusPaid indicates the payment settled successfully.
	StatusPaid Status = "paid"
	// StatusFailed indicates the payment was rejected or errored.
	StatusFailed Status = "failed"
	// StatusRefunded indicates a settled payment was returned.
	StatusRefunded Status = "refunded"
)

// Terminal reports whether no further automatic transition occurs from this status.
func (s Status) Terminal() bool {
	switch s {
	case StatusPaid, StatusFailed, StatusRefunded:
		return true
	default:
		return false
	}
}

// Label returns the storefront display label for the status.
func (s Status) Label() string {
	switch s {
	case StatusPaid:
		return "Оплачено"
	case StatusFailed:
		return "Ошибка оплаты"
	case StatusRefunded:
		return "Возврат"
	default:
		return "Ожидает оплаты"
	}
}

// Session is a provider-side handle for an initiated but not-yet-settled payment.
type Session struct {
	// PaymentID is the backend payment record identifier.
	PaymentID int `json:"paymentId"`
	// OrderID is the order the payment belongs to.
	OrderID int `json:"orderId"`
	// ExternalID is the provider-side payment identifier.
	ExternalID string `json:"externalId"`
	// SessionID is the provider-side session identifier.
	SessionID string `json:"sessionId"`
	// Status is the payment status at session creation time.
	Status Status `json:"status"`
	// PaymentURL is the external page the customer completes payment on.
	PaymentURL string `json:"paymentUrl,omitempty"`
	// ExpiresAt is when the session stops being payable.
	ExpiresAt string `json:"expiresAt,omitempty"`
}

// StoredSession is a Session augmented with order context and local
// timestamps, persisted so the flow survives a page reload. The backend's
// payment record stays authoritative; this is a convenience cache only.
type StoredSession struct {
	Session
	// OrderNumber is the human-facing order number.
	OrderNumber string `json:"orderNumber,omitempty"`
	// TotalAmount is the amount due, used for display.
	TotalAmount float64 `json:"totalAmount,omitempty"`
	// Timestamp is when the session was persisted (unix milliseconds).
	Timestamp int64 `json:"timestamp,omitempty"`
	// OpenedAt is when the customer was redirected to PaymentURL (unix
	// milliseconds). Zero until the first redirect.
	OpenedAt int64 `json:"openedAt,omitempty"`
}

// StatusResult is one poll of the provider's payment status.
type StatusResult struct {
	// Status is the normalized payment status.
	Status Status `json:"status"`
	// RawStatus is the provider's original status payload, if any.
	RawStatus interface{} `json:"rawStatus,omitempty"`
}

// NewStoredSession wraps a session with order context, stamped at now.
func NewStoredSession(session Session, orderNumber string, totalAmount float64, now time.Time) StoredSession {
	return StoredSession{
		Session:     session,
		OrderNumber: orderNumber,
		TotalAmount: totalAmount,
		Timestamp:   now.UnixMilli(),
	}
}
