package mocks

import (
	"context"

	"github.com/enoturismo/recorridos/internal/domain"
)

type MockBodegaRepo struct {
	domain.BodegaRepository
	GetAllFunc  func(ctx context.Context, filters domain.BodegaFilters) ([]domain.Bodega, *domain.Metadata, error)
	GetByIdFunc func(ctx context.Context, id int) (*domain.Bodega, error)
}

func (m *MockBodegaRepo) GetAll(ctx context.Context, filters domain.BodegaFilters) ([]domain.Bodega, *domain.Metadata, error) {
	return m.GetAllFunc(ctx, filters)
}

func (m *MockBodegaRepo) GetById(ctx context.Context, id int) (*domain.Bodega, error) {
	return m.GetByIdFunc(ctx, id)
}
