package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"checkout-orchestrator/internal/core/commerce"
	"checkout-orchestrator/internal/features/payment/domain"
	"checkout-orchestrator/internal/features/payment/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider is a mock implementation of PaymentProvider for testing.
type mockProvider struct {
	session     domain.Session
	status      domain.StatusResult
	returnError error
}

func (m *mockProvider) CreateSession(ctx context.Context, token string, orderID int) (domain.Session, error) {
	if m.returnError != nil {
		return domain.Session{}, m.returnError
	}
	return m.session, nil
}

func (m *mockProvider) GetStatus(ctx context.Context, token string, paymentID int) (domain.StatusResult, error) {
	if m.returnError != nil {
		return domain.StatusResult{}, m.returnError
	}
	return m.status, nil
}

// memoryStore is an in-memory SessionStore for testing.
type memoryStore struct {
	mu       sync.Mutex
	sessions map[int]domain.StoredSession
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[int]domain.StoredSession)}
}

func (m *memoryStore) Save(ctx context.Context, session domain.StoredSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.PaymentID] = session
}

func (m *memoryStore) Load(ctx context.Context, paymentID int) *domain.StoredSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[paymentID]
	if !ok {
		return nil
	}
	return &session
}

func (m *memoryStore) MarkOpened(ctx context.Context, paymentID int, atUnixMilli int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[paymentID]; ok && session.OpenedAt == 0 {
		session.OpenedAt = atUnixMilli
		m.sessions[paymentID] = session
	}
}

func (m *memoryStore) Delete(ctx context.Context, paymentID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, paymentID)
}

func newApp(provider *mockProvider, store *memoryStore) *fiber.App {
	svc := service.NewPaymentService(provider, store)
	h := NewPaymentHandler(svc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Post("/api/payments/session", h.CreateSession)
	app.Get("/api/payments/:id/status", h.GetStatus)
	app.Get("/api/payments/:id/session", h.GetSession)
	app.Post("/api/payments/:id/opened", h.MarkOpened)
	return app
}

func createSessionRequestBody(t *testing.T) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"orderId":     7,
		"orderNumber": "ORD-007",
		"totalAmount": 4500,
	})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

// TestPaymentHandler_CreateSession verifies session creation and persistence.
func TestPaymentHandler_CreateSession(t *testing.T) {
	store := newMemoryStore()
	app := newApp(&mockProvider{
		session: domain.Session{
			PaymentID:  42,
			OrderID:    7,
			Status:     domain.StatusPending,
			PaymentURL: "https://pay.example.com/sess-1",
		},
	}, store)

	req := httptest.NewRequest("POST", "/api/payments/session", createSessionRequestBody(t))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer jwt-1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var session domain.Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	assert.Equal(t, 42, session.PaymentID)

	stored := store.Load(context.Background(), 42)
	require.NotNil(t, stored)
	assert.Equal(t, "ORD-007", stored.OrderNumber)
}

// TestPaymentHandler_CreateSession_NoToken verifies the sign-in prompt.
func TestPaymentHandler_CreateSession_NoToken(t *testing.T) {
	app := newApp(&mockProvider{}, newMemoryStore())

	req := httptest.NewRequest("POST", "/api/payments/session", createSessionRequestBody(t))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "войдите в аккаунт", errResp.Message)
	assert.Equal(t, "test-ray-id", errResp.RayID)
}

// TestPaymentHandler_CreateSession_Forbidden verifies 403 keeps its own
// message, distinct from the sign-in prompt.
func TestPaymentHandler_CreateSession_Forbidden(t *testing.T) {
	app := newApp(&mockProvider{returnError: commerce.ErrForbidden}, newMemoryStore())

	req := httptest.NewRequest("POST", "/api/payments/session", createSessionRequestBody(t))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer jwt-1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "доступ запрещён", errResp.Message)
}

// TestPaymentHandler_GetStatus verifies the status endpoint.
func TestPaymentHandler_GetStatus(t *testing.T) {
	app := newApp(&mockProvider{
		status: domain.StatusResult{Status: domain.StatusPaid, RawStatus: "APPROVED"},
	}, newMemoryStore())

	req := httptest.NewRequest("GET", "/api/payments/42/status", nil)
	req.Header.Set("Authorization", "Bearer jwt-1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result domain.StatusResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, domain.StatusPaid, result.Status)
}

// TestPaymentHandler_GetStatus_BadID verifies path parameter validation.
func TestPaymentHandler_GetStatus_BadID(t *testing.T) {
	app := newApp(&mockProvider{}, newMemoryStore())

	req := httptest.NewRequest("GET", "/api/payments/abc/status", nil)
	req.Header.Set("Authorization", "Bearer jwt-1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// TestPaymentHandler_GetSession verifies session restoration by payment ID.
func TestPaymentHandler_GetSession(t *testing.T) {
	store := newMemoryStore()
	store.Save(context.Background(), domain.StoredSession{
		Session:     domain.Session{PaymentID: 42, OrderID: 7, Status: domain.StatusPending},
		OrderNumber: "ORD-007",
	})
	app := newApp(&mockProvider{}, store)

	req := httptest.NewRequest("GET", "/api/payments/42/session", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var view struct {
		domain.StoredSession
		StatusLabel string `json:"statusLabel"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, "ORD-007", view.OrderNumber)
	assert.Equal(t, "Ожидает оплаты", view.StatusLabel)
}

// TestPaymentHandler_MarkOpened verifies the redirect timestamp is recorded
// and survives repeated calls.
func TestPaymentHandler_MarkOpened(t *testing.T) {
	store := newMemoryStore()
	store.Save(context.Background(), domain.StoredSession{
		Session: domain.Session{PaymentID: 42, Status: domain.StatusPending},
	})
	app := newApp(&mockProvider{}, store)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/payments/42/opened", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	stored := store.Load(context.Background(), 42)
	require.NotNil(t, stored)
	assert.NotZero(t, stored.OpenedAt)

	first := stored.OpenedAt
	_, err = app.Test(httptest.NewRequest("POST", "/api/payments/42/opened", nil))
	require.NoError(t, err)
	assert.Equal(t, first, store.Load(context.Background(), 42).OpenedAt)
}

// TestPaymentHandler_GetSession_Missing verifies the 404 path.
func TestPaymentHandler_GetSession_Missing(t *testing.T) {
	app := newApp(&mockProvider{}, newMemoryStore())

	req := httptest.NewRequest("GET", "/api/payments/42/session", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
