package app

import (
	"errors"
	"net/http"
	"strings"

	"github.com/enoturismo/recorridos/api"
	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/enoturismo/recorridos/internal/events"
	"github.com/enoturismo/recorridos/internal/itinerary"
)

const defaultRecorridoSort = "-updated_at"

func (app *Application) GetRecorridos(w http.ResponseWriter, r *http.Request, params api.GetRecorridosParams) {
	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	filters := domain.RecorridoFilters{
		Pagination: toPagination(params.Page, params.PageSize, params.Sort, defaultRecorridoSort),
	}

	if params.Estado != nil {
		estado := domain.EstadoRecorrido(*params.Estado)
		filters.Estado = &estado
	}

	maxItems := app.config.PreviewMaxItems
	if params.MaxItems != nil {
		maxItems = *params.MaxItems
	}

	recorridos, metadata, err := app.recorridoRepo.GetAllByUserId(r.Context(), app.contextGetUserId(r), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.RecorridoListResponse{
		Recorridos: make([]api.RecorridoResponse, len(recorridos)),
		Metadata:   toApiMetadata(metadata),
	}

	for i := range recorridos {
		agg := app.aggregator.AggregateWithLimit(recorridos[i].ItineraryReservations(), maxItems)
		resp.Recorridos[i] = toRecorridoResponse(&recorridos[i], agg)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetRecorrido(w http.ResponseWriter, r *http.Request, id int) {
	recorrido, ok := app.loadRecorrido(w, r, id)
	if !ok {
		return
	}

	agg := app.aggregator.Aggregate(recorrido.ItineraryReservations())

	err := app.writeJSON(w, http.StatusOK, toRecorridoResponse(recorrido, agg), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateRecorrido(w http.ResponseWriter, r *http.Request, id int) {
	var input api.UpdateRecorridoRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	input.Name = strings.TrimSpace(input.Name)

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)

	err = app.recorridoRepo.UpdateName(r.Context(), id, userId, input.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithMessage(w, r, ErrRecorridoNotFound)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.bus.Publish(events.Event{
		Topic:       events.TopicRecorridoRenamed,
		UserID:      userId,
		RecorridoID: id,
		Name:        input.Name,
	})

	recorrido, ok := app.loadRecorrido(w, r, id)
	if !ok {
		return
	}

	agg := app.aggregator.Aggregate(recorrido.ItineraryReservations())

	err = app.writeJSON(w, http.StatusOK, toRecorridoResponse(recorrido, agg), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelRecorrido(w http.ResponseWriter, r *http.Request, id int) {
	userId := app.contextGetUserId(r)

	err := app.recorridoRepo.Cancel(r.Context(), id, userId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithMessage(w, r, ErrRecorridoNotFound)
		case errors.Is(err, domain.ErrRecorridoCancelled):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.publishStatus(userId, id, domain.EstadoRecorridoCancelado)

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) ConfirmRecorrido(w http.ResponseWriter, r *http.Request, id int) {
	userId := app.contextGetUserId(r)

	err := app.recorridoRepo.Confirm(r.Context(), id, userId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithMessage(w, r, ErrRecorridoNotFound)
		case errors.Is(err, domain.ErrRecorridoCancelled), errors.Is(err, domain.ErrRecorridoNotPending):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.publishStatus(userId, id, domain.EstadoRecorridoConfirmado)

	recorrido, ok := app.loadRecorrido(w, r, id)
	if !ok {
		return
	}

	app.mailConfirmationToCurrentUser(r, *recorrido)

	agg := app.aggregator.Aggregate(recorrido.ItineraryReservations())

	err = app.writeJSON(w, http.StatusOK, toRecorridoResponse(recorrido, agg), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// loadRecorrido fetches a recorrido of the current user, writing the error
// response itself when that fails.
func (app *Application) loadRecorrido(w http.ResponseWriter, r *http.Request, id int) (*domain.Recorrido, bool) {
	recorrido, err := app.recorridoRepo.GetByIdAndUserId(r.Context(), id, app.contextGetUserId(r))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithMessage(w, r, ErrRecorridoNotFound)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return nil, false
	}

	return recorrido, true
}

func (app *Application) publishStatus(userId, recorridoId int, estado domain.EstadoRecorrido) {
	app.bus.Publish(events.Event{
		Topic:       events.TopicRecorridoStatus,
		UserID:      userId,
		RecorridoID: recorridoId,
		Estado:      string(estado),
	})
}

func toRecorridoResponse(r *domain.Recorrido, agg itinerary.Result) api.RecorridoResponse {
	return api.RecorridoResponse{
		Id:               r.ID,
		Name:             r.Name,
		Estado:           api.RecorridoEstado(r.Estado),
		LastOptimization: r.LastOptimization,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		Itinerario:       toItinerarioResponse(agg, r.ReservaByID()),
	}
}

func toItinerarioResponse(agg itinerary.Result, reservas map[int]domain.Reserva) api.ItinerarioResponse {
	resp := api.ItinerarioResponse{
		DateRange:       agg.DateRange,
		TotalDays:       agg.TotalDays,
		GroupedReservas: make([]api.GroupedReservas, len(agg.DayGroups)),
		TotalCost:       agg.TotalCost.StringFixed(2),
	}

	for i, group := range agg.DayGroups {
		grouped := api.GroupedReservas{
			Date:     group.DateKey,
			DayName:  group.DisplayLabel,
			Reservas: make([]api.ReservaResponse, 0, len(group.Reservations)),
		}

		for _, res := range group.Reservations {
			reserva, ok := reservas[res.ID]
			if !ok {
				continue
			}

			grouped.Reservas = append(grouped.Reservas, toReservaResponse(reserva))
		}

		resp.GroupedReservas[i] = grouped
	}

	return resp
}

func toReservaResponse(r domain.Reserva) api.ReservaResponse {
	resp := api.ReservaResponse{
		Id:                r.ID,
		Precio:            r.Price.StringFixed(2),
		CantidadGente:     r.PeopleCount,
		InstanciaEventoId: r.InstanciaEventoID,
		RecorridoId:       r.RecorridoID,
		InstanciaEvento: api.ReservaInstancia{
			Id:       r.InstanciaEvento.ID,
			Fecha:    r.InstanciaEvento.Date,
			EventoId: r.InstanciaEvento.EventoID,
		},
	}

	if e := r.InstanciaEvento.Evento; e != nil {
		resp.InstanciaEvento.Evento = e.Name
		if e.Sucursal != nil {
			resp.InstanciaEvento.Sucursal = e.Sucursal.Name
			resp.InstanciaEvento.Direccion = e.Sucursal.Address
		}
	}

	return resp
}
