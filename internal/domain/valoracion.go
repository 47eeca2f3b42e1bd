package domain

import (
	"context"
	"time"
)

type Valoracion struct {
	ID        int
	UserID    int
	EventoID  int
	Score     int
	Comment   *string
	CreatedAt time.Time
}

type ValoracionRepository interface {
	Create(ctx context.Context, valoracion *Valoracion) error
}
