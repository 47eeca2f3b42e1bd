package domain

import (
	"context"
	"time"

	"github.com/enoturismo/recorridos/internal/itinerary"
	"github.com/shopspring/decimal"
)

type EstadoRecorrido string

const (
	EstadoRecorridoPendiente  EstadoRecorrido = "PENDIENTE"
	EstadoRecorridoConfirmado EstadoRecorrido = "CONFIRMADO"
	EstadoRecorridoCancelado  EstadoRecorrido = "CANCELADO"
)

type Recorrido struct {
	ID               int
	UserID           int
	Name             string
	Estado           EstadoRecorrido
	Reservas         []Reserva
	LastOptimization *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// ItineraryReservations converts the reservas into the aggregator's input.
func (r *Recorrido) ItineraryReservations() []itinerary.Reservation {
	reservations := make([]itinerary.Reservation, len(r.Reservas))

	for i, v := range r.Reservas {
		reservations[i] = v.ItineraryReservation()
	}

	return reservations
}

// ReservaByID indexes the reservas so aggregated groups can be mapped back.
func (r *Recorrido) ReservaByID() map[int]Reserva {
	index := make(map[int]Reserva, len(r.Reservas))
	for _, v := range r.Reservas {
		index[v.ID] = v
	}

	return index
}

type Reserva struct {
	ID                int
	Price             decimal.Decimal
	PeopleCount       int
	InstanciaEventoID int
	RecorridoID       int
	Estado            string
	InstanciaEvento   InstanciaEvento
	CreatedAt         time.Time
}

func (r Reserva) ItineraryReservation() itinerary.Reservation {
	instance := itinerary.EventInstance{
		ID:      r.InstanciaEvento.ID,
		Date:    r.InstanciaEvento.Date,
		EventID: r.InstanciaEvento.EventoID,
	}

	if e := r.InstanciaEvento.Evento; e != nil {
		instance.Name = e.Name
		if e.Sucursal != nil {
			instance.Venue = e.Sucursal.Name
			instance.Address = e.Sucursal.Address
		}
	}

	return itinerary.Reservation{
		ID:            r.ID,
		Price:         r.Price,
		PeopleCount:   r.PeopleCount,
		EventInstance: instance,
	}
}

type NewReserva struct {
	PeopleCount       int
	InstanciaEventoID int
	RecorridoID       *int
	// Name is used when a new recorrido has to be created for the reserva.
	Name string
}

type RecorridoFilters struct {
	Pagination
	Estado *EstadoRecorrido
}

type RecorridoRepository interface {
	GetAllByUserId(ctx context.Context, userId int, filters RecorridoFilters) ([]Recorrido, *Metadata, error)
	GetByIdAndUserId(ctx context.Context, id, userId int) (*Recorrido, error)
	UpdateName(ctx context.Context, id, userId int, name string) error
	Cancel(ctx context.Context, id, userId int) error
	Confirm(ctx context.Context, id, userId int) error
}

type ReservaRepository interface {
	Create(ctx context.Context, userId int, input NewReserva) (*Reserva, error)
	UpdatePeopleCount(ctx context.Context, id, userId, peopleCount int) (*Reserva, error)
	Delete(ctx context.Context, id, userId int) error
}
