package payment

import (
	"fmt"

	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/stripe/stripe-go/v82"
)

// MockPaymentProvider hands out deterministic checkout sessions without
// calling Stripe.
type MockPaymentProvider struct {
	BaseURL string
}

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{BaseURL: "https://checkout.example.com"}
}

func (m *MockPaymentProvider) CreateCheckoutSession(
	sessionId string,
	user *domain.User,
	recorrido *domain.Recorrido,
	payment domain.Payment) (*stripe.CheckoutSession, error) {

	id := fmt.Sprintf("cs_test_%d", payment.ID)

	return &stripe.CheckoutSession{
		ID:  id,
		URL: fmt.Sprintf("%s/%s", m.BaseURL, id),
		Metadata: map[string]string{
			"session_id": sessionId,
		},
	}, nil
}
