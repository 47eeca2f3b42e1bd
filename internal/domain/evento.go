package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type EstadoInstancia string

const (
	EstadoInstanciaActiva     EstadoInstancia = "ACTIVA"
	EstadoInstanciaFinalizada EstadoInstancia = "FINALIZADA"
	EstadoInstanciaSuspendida EstadoInstancia = "SUSPENDIDA"
)

type Evento struct {
	ID          int
	Name        string
	Description string
	Capacity    int
	Price       decimal.Decimal
	Sucursal    *Sucursal
	Estado      *EstadoEvento
	Categoria   *Categoria
	Rating      *ValoracionMedia
	Instancias  []InstanciaEvento
	Multimedia  []Multimedia
}

type InstanciaEvento struct {
	ID       int
	Date     time.Time
	Estado   EstadoInstancia
	EventoID int
	Evento   *Evento
}

type EstadoEvento struct {
	ID   int
	Name string
}

type Categoria struct {
	ID   int
	Name string
}

type ValoracionMedia struct {
	Average decimal.Decimal
	Count   int
}

type Multimedia struct {
	ID      int
	URL     string
	IsCover bool
}

type EventoFilters struct {
	Pagination
	SucursalID       *int
	CategoriaID      *int
	EstadoID         *int
	BodegaID         *int
	FechaDesde       *time.Time
	FechaHasta       *time.Time
	PrecioMinimo     *decimal.Decimal
	PrecioMaximo     *decimal.Decimal
	PuntuacionMinima *float64
	Name             string
}

type EventoRepository interface {
	GetAll(ctx context.Context, filters EventoFilters) ([]Evento, *Metadata, error)
	GetById(ctx context.Context, id int) (*Evento, error)
	GetByInstanciaId(ctx context.Context, instanciaId int) (*Evento, error)
	GetCategorias(ctx context.Context) ([]Categoria, error)
	GetEstados(ctx context.Context) ([]EstadoEvento, error)
	// FinalizePastInstancias moves ACTIVA instancias dated before the given
	// time to FINALIZADA and reports how many changed.
	FinalizePastInstancias(ctx context.Context, before time.Time) (int64, error)
}
