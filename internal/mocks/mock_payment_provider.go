package mocks

import (
	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"
)

type MockPaymentProvider struct {
	mock.Mock
	domain.PaymentProvider
}

func (m *MockPaymentProvider) CreateCheckoutSession(
	sessionId string,
	user *domain.User,
	recorrido *domain.Recorrido,
	payment domain.Payment) (*stripe.CheckoutSession, error) {

	args := m.Called(sessionId, user, recorrido, payment)
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}
