package payment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

var hundred = decimal.NewFromInt(100)

type StripePaymentProvider struct {
	failureUrl string
	successUrl string
	currency   string
}

func NewStripePaymentProvider(failureUrl, successUrl, currency string) *StripePaymentProvider {
	return &StripePaymentProvider{
		failureUrl: failureUrl,
		successUrl: successUrl,
		currency:   strings.ToLower(currency),
	}
}

func (s *StripePaymentProvider) CreateCheckoutSession(
	sessionId string,
	user *domain.User,
	recorrido *domain.Recorrido,
	payment domain.Payment) (*stripe.CheckoutSession, error) {

	params := &stripe.CheckoutSessionParams{
		LineItems:  lineItems(recorrido, s.currency),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successUrl),
		CancelURL:  stripe.String(s.failureUrl),
		Metadata: map[string]string{
			"recorrido_id": strconv.Itoa(recorrido.ID),
			"session_id":   sessionId,
			"user_id":      strconv.Itoa(user.ID),
			"payment_id":   strconv.Itoa(payment.ID),
		},
		CustomerEmail:     stripe.String(user.Email),
		ClientReferenceID: stripe.String(strconv.Itoa(user.ID)),
	}

	return session.New(params)
}

func lineItems(recorrido *domain.Recorrido, currency string) []*stripe.CheckoutSessionLineItemParams {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(recorrido.Reservas))

	for _, reserva := range recorrido.Reservas {
		name := fmt.Sprintf("Reserva #%d", reserva.ID)
		description := fmt.Sprintf("%d personas • %s", reserva.PeopleCount, reserva.InstanciaEvento.Date.Format("02/01/2006 15:04"))

		if e := reserva.InstanciaEvento.Evento; e != nil {
			name = fmt.Sprintf("🍷 %s", e.Name)
			if e.Sucursal != nil {
				description = fmt.Sprintf("%s • %s", description, e.Sucursal.Name)
			}
		}

		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(toCents(reserva.Price)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(name),
					Description: stripe.String(description),
				},
			},
			Quantity: stripe.Int64(1),
		})
	}

	return items
}

// toCents converts an amount to minor units, rounding half away from zero.
func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
