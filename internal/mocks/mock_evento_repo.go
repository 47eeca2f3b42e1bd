package mocks

import (
	"context"
	"time"

	"github.com/enoturismo/recorridos/internal/domain"
)

type MockEventoRepo struct {
	domain.EventoRepository
	GetAllFunc                 func(ctx context.Context, filters domain.EventoFilters) ([]domain.Evento, *domain.Metadata, error)
	GetByIdFunc                func(ctx context.Context, id int) (*domain.Evento, error)
	GetByInstanciaIdFunc       func(ctx context.Context, instanciaId int) (*domain.Evento, error)
	GetCategoriasFunc          func(ctx context.Context) ([]domain.Categoria, error)
	GetEstadosFunc             func(ctx context.Context) ([]domain.EstadoEvento, error)
	FinalizePastInstanciasFunc func(ctx context.Context, before time.Time) (int64, error)
}

func (m *MockEventoRepo) GetAll(ctx context.Context, filters domain.EventoFilters) ([]domain.Evento, *domain.Metadata, error) {
	return m.GetAllFunc(ctx, filters)
}

func (m *MockEventoRepo) GetById(ctx context.Context, id int) (*domain.Evento, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockEventoRepo) GetByInstanciaId(ctx context.Context, instanciaId int) (*domain.Evento, error) {
	return m.GetByInstanciaIdFunc(ctx, instanciaId)
}

func (m *MockEventoRepo) GetCategorias(ctx context.Context) ([]domain.Categoria, error) {
	return m.GetCategoriasFunc(ctx)
}

func (m *MockEventoRepo) GetEstados(ctx context.Context) ([]domain.EstadoEvento, error) {
	return m.GetEstadosFunc(ctx)
}

func (m *MockEventoRepo) FinalizePastInstancias(ctx context.Context, before time.Time) (int64, error) {
	return m.FinalizePastInstanciasFunc(ctx, before)
}
