package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/enoturismo/recorridos/api"
	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const maxWebhookBytes = int64(65536)

var ErrNothingToPay = errors.New("recorrido has no reservas to pay for")

// CreateCheckoutSession starts a Stripe checkout for the total of a pending
// recorrido.
func (app *Application) CreateCheckoutSession(w http.ResponseWriter, r *http.Request, id int) {
	logger := app.contextGetLogger(r)
	userId := app.contextGetUserId(r)

	recorrido, ok := app.loadRecorrido(w, r, id)
	if !ok {
		return
	}

	if recorrido.Estado != domain.EstadoRecorridoPendiente {
		app.editConflictResponseWithErr(w, r, domain.ErrRecorridoNotPending)
		return
	}

	if len(recorrido.Reservas) == 0 {
		app.editConflictResponseWithErr(w, r, ErrNothingToPay)
		return
	}

	result := app.authClient.Me(r.Context(), app.contextGetAuthToken(r))
	user, ok := result.Value()
	if !ok {
		app.authErrorResponse(w, r, result.Err())
		return
	}

	agg := app.aggregator.Aggregate(recorrido.ItineraryReservations())

	payment := &domain.Payment{
		UserID:      userId,
		RecorridoID: recorrido.ID,
		Amount:      agg.TotalCost,
		Currency:    strings.ToUpper(app.config.Stripe.Currency),
		Status:      domain.PaymentStatusPending,
	}

	err := app.paymentRepo.Create(r.Context(), payment)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	sessionId := app.sessionManager.Token(r.Context())

	checkoutSession, err := app.paymentProvider.CreateCheckoutSession(sessionId, &user, recorrido, *payment)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.paymentRepo.SetCheckoutSessionId(r.Context(), payment.ID, checkoutSession.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	logger.Info("checkout session created",
		"payment_id", payment.ID,
		"recorrido_id", recorrido.ID,
		"checkout_session_id", checkoutSession.ID,
		"amount", payment.Amount.StringFixed(2))

	resp := api.CheckoutSessionResponse{
		RedirectUrl: checkoutSession.URL,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// StripeWebhookHandler settles payments from Stripe checkout events. Events
// that cannot be applied are acknowledged so Stripe stops retrying them.
func (app *Application) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBytes)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("error reading request body: %w", err))
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), app.config.Stripe.WebhookSecret)
	if err != nil {
		logger.Warn("webhook signature verification failed", "error", err)
		app.badRequestResponse(w, r, errors.New("invalid webhook signature"))
		return
	}

	logger = logger.With("stripe_event_id", event.ID, "stripe_event_type", event.Type)

	var cs stripe.CheckoutSession

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted,
		stripe.EventTypeCheckoutSessionExpired,
		stripe.EventTypeCheckoutSessionAsyncPaymentFailed:

		err = json.Unmarshal(event.Data.Raw, &cs)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("error parsing webhook JSON: %w", err))
			return
		}
	default:
		logger.Debug("ignoring webhook event")
		w.WriteHeader(http.StatusOK)
		return
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		err = app.completePayment(r, &cs)
	case stripe.EventTypeCheckoutSessionExpired:
		err = app.paymentRepo.UpdateStatus(r.Context(), cs.ID, domain.PaymentStatusCanceled, "checkout session expired")
	case stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
		err = app.paymentRepo.UpdateStatus(r.Context(), cs.ID, domain.PaymentStatusCanceled, "asynchronous payment failed")
	}

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentNotFound), errors.Is(err, domain.ErrRecorridoNotPending):
			logger.Warn("webhook event not applied", "checkout_session_id", cs.ID, "error", err)
		default:
			app.serverErrorResponse(w, r, err)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (app *Application) completePayment(r *http.Request, cs *stripe.CheckoutSession) error {
	logger := app.contextGetLogger(r)

	payment, err := app.paymentRepo.Complete(r.Context(), cs.ID)
	if errors.Is(err, domain.ErrPaymentUnsettled) && payment != nil {
		logger.Error("payment captured for a recorrido that cannot be confirmed, refund required",
			"payment_id", payment.ID,
			"recorrido_id", payment.RecorridoID,
			"user_id", payment.UserID,
			"amount", payment.Amount.StringFixed(2),
			"error", err)
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("payment completed",
		"payment_id", payment.ID,
		"recorrido_id", payment.RecorridoID,
		"user_id", payment.UserID)

	app.publishStatus(payment.UserID, payment.RecorridoID, domain.EstadoRecorridoConfirmado)

	recorrido, err := app.recorridoRepo.GetByIdAndUserId(r.Context(), payment.RecorridoID, payment.UserID)
	if err != nil {
		return err
	}

	email, name := checkoutCustomer(cs)

	app.background(logger, func() {
		app.sendRecorridoConfirmation(logger, email, name, *recorrido)
	})

	return nil
}

func checkoutCustomer(cs *stripe.CheckoutSession) (email, name string) {
	email = cs.CustomerEmail

	if cs.CustomerDetails != nil {
		if cs.CustomerDetails.Email != "" {
			email = cs.CustomerDetails.Email
		}

		name, _, _ = strings.Cut(cs.CustomerDetails.Name, " ")
	}

	return email, name
}
