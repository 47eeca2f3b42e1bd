package mocks

import (
	"context"
	"time"

	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockPaymentRepo struct {
	mock.Mock
	domain.PaymentRepository
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepo) SetCheckoutSessionId(ctx context.Context, paymentId int, checkoutSessionId string) error {
	args := m.Called(ctx, paymentId, checkoutSessionId)
	return args.Error(0)
}

func (m *MockPaymentRepo) Complete(ctx context.Context, checkoutSessionId string) (*domain.Payment, error) {
	args := m.Called(ctx, checkoutSessionId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) UpdateStatus(
	ctx context.Context,
	checkoutSessionId string,
	status domain.PaymentStatus,
	errMsg string) error {

	args := m.Called(ctx, checkoutSessionId, status, errMsg)
	return args.Error(0)
}

func (m *MockPaymentRepo) ExpirePending(ctx context.Context, createdBefore time.Time) ([]domain.Payment, error) {
	args := m.Called(ctx, createdBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}
