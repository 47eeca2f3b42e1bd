package mocks

import (
	"context"

	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockValoracionRepo struct {
	mock.Mock
	domain.ValoracionRepository
}

func (m *MockValoracionRepo) Create(ctx context.Context, valoracion *domain.Valoracion) error {
	args := m.Called(ctx, valoracion)
	return args.Error(0)
}
