package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/enoturismo/recorridos/api"
	"github.com/enoturismo/recorridos/internal/authapi"
	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/enoturismo/recorridos/internal/events"
	"github.com/enoturismo/recorridos/internal/itinerary"
	"github.com/enoturismo/recorridos/internal/mailer"
	"github.com/enoturismo/recorridos/internal/mocks"
	"github.com/enoturismo/recorridos/internal/validator"
	"github.com/stretchr/testify/mock"
)

const testAuthToken = "test-token"

type MockAuthClient struct {
	mock.Mock
}

func (m *MockAuthClient) Me(ctx context.Context, token string) authapi.Result[domain.User] {
	args := m.Called(ctx, token)
	return args.Get(0).(authapi.Result[domain.User])
}

func newTestApplication(opts ...func(*Application)) *Application {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := &Application{
		config: Config{
			Env:             "test",
			PreviewMaxItems: 2,
			Stripe: StripeConfig{
				WebhookSecret: "whsec_test",
				Currency:      "ARS",
			},
		},
		validator:      validator.NewValidator(),
		logger:         logger,
		mailer:         mailer.NewMockMailer(),
		sessionManager: scs.New(),
		bus:            events.NewBus(events.DefaultBufferSize, logger),
		authClient:     &MockAuthClient{},
		aggregator:     itinerary.New(itinerary.Spanish, time.UTC),
		recorridoRepo:  &mocks.MockRecorridoRepo{},
		reservaRepo:    &mocks.MockReservaRepo{},
		eventoRepo:     &mocks.MockEventoRepo{},
		bodegaRepo:     &mocks.MockBodegaRepo{},
		faqRepo:        &mocks.MockFaqRepo{},
		valoracionRepo: &mocks.MockValoracionRepo{},
		paymentRepo:    &mocks.MockPaymentRepo{},
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func setupTestSession(t *testing.T, app *Application, r *http.Request, userId int) *http.Request {
	ctx, err := app.sessionManager.Load(r.Context(), "session")
	if err != nil {
		t.Errorf("Failed to load session: %v", err)
	}

	app.sessionManager.Put(ctx, SessionKeyUserId.String(), userId)
	app.sessionManager.Put(ctx, SessionKeyAuthToken.String(), testAuthToken)

	return r.WithContext(ctx)
}

// serveAuthenticated runs handler the way the router does for secured
// operations: session loading first, then the authentication check.
func serveAuthenticated(app *Application, w http.ResponseWriter, r *http.Request, handler http.HandlerFunc) {
	h := app.requireAuthentication(handler)
	h = app.sessionManager.LoadAndSave(h)
	h.ServeHTTP(w, r)
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(method, url, bytes.NewReader(jsonData))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
