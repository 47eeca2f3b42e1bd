package mocks

import (
	"context"

	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockRecorridoRepo struct {
	mock.Mock
	domain.RecorridoRepository
}

func (m *MockRecorridoRepo) GetAllByUserId(
	ctx context.Context,
	userId int,
	filters domain.RecorridoFilters) ([]domain.Recorrido, *domain.Metadata, error) {

	args := m.Called(ctx, userId, filters)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Recorrido), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockRecorridoRepo) GetByIdAndUserId(ctx context.Context, id, userId int) (*domain.Recorrido, error) {
	args := m.Called(ctx, id, userId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recorrido), args.Error(1)
}

func (m *MockRecorridoRepo) UpdateName(ctx context.Context, id, userId int, name string) error {
	args := m.Called(ctx, id, userId, name)
	return args.Error(0)
}

func (m *MockRecorridoRepo) Cancel(ctx context.Context, id, userId int) error {
	args := m.Called(ctx, id, userId)
	return args.Error(0)
}

func (m *MockRecorridoRepo) Confirm(ctx context.Context, id, userId int) error {
	args := m.Called(ctx, id, userId)
	return args.Error(0)
}
