package mocks

import (
	"context"

	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockReservaRepo struct {
	mock.Mock
	domain.ReservaRepository
}

func (m *MockReservaRepo) Create(ctx context.Context, userId int, input domain.NewReserva) (*domain.Reserva, error) {
	args := m.Called(ctx, userId, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reserva), args.Error(1)
}

func (m *MockReservaRepo) UpdatePeopleCount(ctx context.Context, id, userId, peopleCount int) (*domain.Reserva, error) {
	args := m.Called(ctx, id, userId, peopleCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reserva), args.Error(1)
}

func (m *MockReservaRepo) Delete(ctx context.Context, id, userId int) error {
	args := m.Called(ctx, id, userId)
	return args.Error(0)
}
