package mocks

import (
	"context"

	"github.com/enoturismo/recorridos/internal/domain"
)

type MockFaqRepo struct {
	domain.FaqRepository
	GetAllFunc func(ctx context.Context, filters domain.FaqFilters) ([]domain.Faq, *domain.Metadata, error)
}

func (m *MockFaqRepo) GetAll(ctx context.Context, filters domain.FaqFilters) ([]domain.Faq, *domain.Metadata, error) {
	return m.GetAllFunc(ctx, filters)
}
