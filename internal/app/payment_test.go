package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/enoturismo/recorridos/api"
	"github.com/enoturismo/recorridos/internal/authapi"
	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/enoturismo/recorridos/internal/events"
	"github.com/enoturismo/recorridos/internal/mailer"
	"github.com/enoturismo/recorridos/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

type CheckoutSessionTestSuite struct {
	suite.Suite
	app             *Application
	recorridoRepo   *mocks.MockRecorridoRepo
	paymentRepo     *mocks.MockPaymentRepo
	paymentProvider *mocks.MockPaymentProvider
	authClient      *MockAuthClient
}

func (s *CheckoutSessionTestSuite) SetupTest() {
	s.recorridoRepo = new(mocks.MockRecorridoRepo)
	s.paymentRepo = new(mocks.MockPaymentRepo)
	s.paymentProvider = new(mocks.MockPaymentProvider)
	s.authClient = new(MockAuthClient)

	s.app = newTestApplication(func(a *Application) {
		a.recorridoRepo = s.recorridoRepo
		a.paymentRepo = s.paymentRepo
		a.paymentProvider = s.paymentProvider
		a.authClient = s.authClient
	})
}

func TestCheckoutSessionSuite(t *testing.T) {
	suite.Run(t, new(CheckoutSessionTestSuite))
}

func (s *CheckoutSessionTestSuite) TestCreateCheckoutSession() {
	user := domain.User{ID: 1, FirstName: "Ana", Email: "ana@example.com"}

	tests := []struct {
		name           string
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
		wantResponse   *api.CheckoutSessionResponse
	}{
		{
			name: "recorrido not found",
			setupMocks: func() {
				s.recorridoRepo.On("GetByIdAndUserId", mock.Anything, 7, 1).Return(nil, domain.ErrRecordNotFound)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrRecorridoNotFound,
		},
		{
			name: "recorrido already confirmed",
			setupMocks: func() {
				rec := testRecorrido()
				rec.Estado = domain.EstadoRecorridoConfirmado
				s.recorridoRepo.On("GetByIdAndUserId", mock.Anything, 7, 1).Return(rec, nil)
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: domain.ErrRecorridoNotPending.Error(),
		},
		{
			name: "recorrido without reservas",
			setupMocks: func() {
				rec := testRecorrido()
				rec.Reservas = nil
				s.recorridoRepo.On("GetByIdAndUserId", mock.Anything, 7, 1).Return(rec, nil)
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: ErrNothingToPay.Error(),
		},
		{
			name: "payment provider failure",
			setupMocks: func() {
				s.recorridoRepo.On("GetByIdAndUserId", mock.Anything, 7, 1).Return(testRecorrido(), nil)
				s.authClient.On("Me", mock.Anything, testAuthToken).Return(authapi.Ok(user))
				s.paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(nil)
				s.paymentProvider.On("CreateCheckoutSession", mock.Anything, &user, mock.Anything, mock.Anything).
					Return((*stripe.CheckoutSession)(nil), errors.New("stripe unavailable"))
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
		{
			name: "checkout session created",
			setupMocks: func() {
				s.recorridoRepo.On("GetByIdAndUserId", mock.Anything, 7, 1).Return(testRecorrido(), nil)
				s.authClient.On("Me", mock.Anything, testAuthToken).Return(authapi.Ok(user))
				s.paymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
					return p.UserID == 1 &&
						p.RecorridoID == 7 &&
						p.Amount.Equal(decimal.RequireFromString("5300.75")) &&
						p.Currency == "ARS" &&
						p.Status == domain.PaymentStatusPending
				})).
					Run(func(args mock.Arguments) {
						args.Get(1).(*domain.Payment).ID = 42
					}).
					Return(nil)
				s.paymentProvider.On("CreateCheckoutSession", mock.Anything, &user, mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
					return p.ID == 42
				})).Return(&stripe.CheckoutSession{ID: "cs_test_42", URL: "https://checkout.stripe.com/cs_test_42"}, nil)
				s.paymentRepo.On("SetCheckoutSessionId", mock.Anything, 42, "cs_test_42").Return(nil)
			},
			wantStatus:   http.StatusOK,
			wantResponse: &api.CheckoutSessionResponse{RedirectUrl: "https://checkout.stripe.com/cs_test_42"},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.recorridoRepo.AssertExpectations(s.T())
			defer s.paymentRepo.AssertExpectations(s.T())
			defer s.paymentProvider.AssertExpectations(s.T())

			tt.setupMocks()

			w, r := executeRequest(s.T(), http.MethodPost, "/recorridos/7/checkout", nil)
			r = setupTestSession(s.T(), s.app, r, 1)

			serveAuthenticated(s.app, w, r, func(w http.ResponseWriter, r *http.Request) {
				s.app.CreateCheckoutSession(w, r, 7)
			})

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantResponse != nil {
				var response api.CheckoutSessionResponse
				s.Require().NoError(json.NewDecoder(w.Body).Decode(&response))
				s.Equal(*tt.wantResponse, response)
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

type WebhookTestSuite struct {
	suite.Suite
	app           *Application
	recorridoRepo *mocks.MockRecorridoRepo
	paymentRepo   *mocks.MockPaymentRepo
	mailer        *mailer.MockMailer
}

func (s *WebhookTestSuite) SetupTest() {
	s.recorridoRepo = new(mocks.MockRecorridoRepo)
	s.paymentRepo = new(mocks.MockPaymentRepo)
	s.mailer = mailer.NewMockMailer()

	s.app = newTestApplication(func(a *Application) {
		a.recorridoRepo = s.recorridoRepo
		a.paymentRepo = s.paymentRepo
		a.mailer = s.mailer
	})
}

func TestWebhookSuite(t *testing.T) {
	suite.Run(t, new(WebhookTestSuite))
}

func webhookPayload(eventType stripe.EventType, object string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
		"object": "event",
		"api_version": %q,
		"type": %q,
		"data": {"object": %s}
	}`, stripe.APIVersion, eventType, object))
}

func (s *WebhookTestSuite) signedRequest(payload []byte, secret string) (*httptest.ResponseRecorder, *http.Request) {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})

	r := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(signed.Payload))
	r.Header.Set("Stripe-Signature", signed.Header)

	return httptest.NewRecorder(), r
}

func (s *WebhookTestSuite) TestInvalidSignature() {
	payload := webhookPayload(stripe.EventTypeCheckoutSessionCompleted, `{"id": "cs_test_42", "object": "checkout.session"}`)
	w, r := s.signedRequest(payload, "whsec_other")

	s.app.StripeWebhookHandler(w, r)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *WebhookTestSuite) TestCheckoutCompleted() {
	defer s.paymentRepo.AssertExpectations(s.T())
	defer s.recorridoRepo.AssertExpectations(s.T())

	s.paymentRepo.On("Complete", mock.Anything, "cs_test_42").
		Return(&domain.Payment{ID: 42, UserID: 1, RecorridoID: 7, Status: domain.PaymentStatusCompleted}, nil)

	confirmed := testRecorrido()
	confirmed.Estado = domain.EstadoRecorridoConfirmado
	s.recorridoRepo.On("GetByIdAndUserId", mock.Anything, 7, 1).Return(confirmed, nil)

	sub := s.app.bus.Subscribe(events.TopicRecorridoStatus)
	defer sub.Close()

	payload := webhookPayload(stripe.EventTypeCheckoutSessionCompleted, `{
		"id": "cs_test_42",
		"object": "checkout.session",
		"customer_email": "ana@example.com",
		"customer_details": {"email": "ana@example.com", "name": "Ana Pérez"}
	}`)
	w, r := s.signedRequest(payload, s.app.config.Stripe.WebhookSecret)

	s.app.StripeWebhookHandler(w, r)
	s.app.wg.Wait()

	s.Equal(http.StatusOK, w.Code)

	select {
	case e := <-sub.C:
		s.Equal(1, e.UserID)
		s.Equal(7, e.RecorridoID)
		s.Equal(string(domain.EstadoRecorridoConfirmado), e.Estado)
	default:
		s.Fail("expected a status event")
	}

	sent := s.mailer.GetSentEmails()
	s.Require().Len(sent, 1)
	s.Equal("ana@example.com", sent[0].Recipient)
	s.Equal("Ana", sent[0].Data.(mailer.RecorridoConfirmedData).FirstName)
}

func (s *WebhookTestSuite) TestCheckoutCompletedForUnknownPayment() {
	defer s.paymentRepo.AssertExpectations(s.T())

	s.paymentRepo.On("Complete", mock.Anything, "cs_test_404").Return(nil, domain.ErrPaymentNotFound)

	payload := webhookPayload(stripe.EventTypeCheckoutSessionCompleted, `{"id": "cs_test_404", "object": "checkout.session"}`)
	w, r := s.signedRequest(payload, s.app.config.Stripe.WebhookSecret)

	s.app.StripeWebhookHandler(w, r)

	s.Equal(http.StatusOK, w.Code)
	s.Empty(s.mailer.GetSentEmails())
}

func (s *WebhookTestSuite) TestCheckoutCompletedForCancelledRecorrido() {
	defer s.paymentRepo.AssertExpectations(s.T())
	defer s.recorridoRepo.AssertExpectations(s.T())

	unsettled := fmt.Errorf("%w: %w", domain.ErrPaymentUnsettled, domain.ErrRecorridoNotPending)
	s.paymentRepo.On("Complete", mock.Anything, "cs_test_42").
		Return(&domain.Payment{ID: 42, UserID: 1, RecorridoID: 7, Status: domain.PaymentStatusCompleted}, unsettled)

	sub := s.app.bus.Subscribe(events.TopicRecorridoStatus)
	defer sub.Close()

	payload := webhookPayload(stripe.EventTypeCheckoutSessionCompleted, `{"id": "cs_test_42", "object": "checkout.session"}`)
	w, r := s.signedRequest(payload, s.app.config.Stripe.WebhookSecret)

	s.app.StripeWebhookHandler(w, r)
	s.app.wg.Wait()

	s.Equal(http.StatusOK, w.Code)

	select {
	case e := <-sub.C:
		s.Failf("unexpected status event", "%+v", e)
	default:
	}

	s.Empty(s.mailer.GetSentEmails())
	s.recorridoRepo.AssertNotCalled(s.T(), "GetByIdAndUserId", mock.Anything, mock.Anything, mock.Anything)
}

func (s *WebhookTestSuite) TestCheckoutExpired() {
	defer s.paymentRepo.AssertExpectations(s.T())

	s.paymentRepo.On("UpdateStatus", mock.Anything, "cs_test_42", domain.PaymentStatusCanceled, "checkout session expired").
		Return(nil)

	payload := webhookPayload(stripe.EventTypeCheckoutSessionExpired, `{"id": "cs_test_42", "object": "checkout.session"}`)
	w, r := s.signedRequest(payload, s.app.config.Stripe.WebhookSecret)

	s.app.StripeWebhookHandler(w, r)

	s.Equal(http.StatusOK, w.Code)
}

func (s *WebhookTestSuite) TestDatabaseErrorIsRetried() {
	s.paymentRepo.On("UpdateStatus", mock.Anything, "cs_test_42", domain.PaymentStatusCanceled, "asynchronous payment failed").
		Return(errors.New("database error"))

	payload := webhookPayload(stripe.EventTypeCheckoutSessionAsyncPaymentFailed, `{"id": "cs_test_42", "object": "checkout.session"}`)
	w, r := s.signedRequest(payload, s.app.config.Stripe.WebhookSecret)

	s.app.StripeWebhookHandler(w, r)

	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *WebhookTestSuite) TestUnhandledEventType() {
	payload := webhookPayload("charge.refunded", `{"id": "ch_1", "object": "charge"}`)
	w, r := s.signedRequest(payload, s.app.config.Stripe.WebhookSecret)

	s.app.StripeWebhookHandler(w, r)

	s.Equal(http.StatusOK, w.Code)
	s.paymentRepo.AssertNotCalled(s.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
