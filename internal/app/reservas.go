package app

import (
	"errors"
	"net/http"
	"strings"

	"github.com/enoturismo/recorridos/api"
	"github.com/enoturismo/recorridos/internal/domain"
)

func (app *Application) CreateReserva(w http.ResponseWriter, r *http.Request) {
	var input api.CreateReservaRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	newReserva := domain.NewReserva{
		PeopleCount:       input.CantidadGente,
		InstanciaEventoID: input.InstanciaEventoId,
		RecorridoID:       input.RecorridoId,
	}

	if input.Nombre != nil {
		newReserva.Name = strings.TrimSpace(*input.Nombre)
	}

	reserva, err := app.reservaRepo.Create(r.Context(), app.contextGetUserId(r), newReserva)
	if err != nil {
		app.reservaErrorResponse(w, r, err, ErrRecorridoNotFound)
		return
	}

	app.contextGetLogger(r).Info("reserva created",
		"reserva_id", reserva.ID,
		"recorrido_id", reserva.RecorridoID,
		"people", reserva.PeopleCount)

	err = app.writeJSON(w, http.StatusCreated, toReservaResponse(*reserva), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateReserva(w http.ResponseWriter, r *http.Request, id int) {
	var input api.UpdateReservaRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	reserva, err := app.reservaRepo.UpdatePeopleCount(r.Context(), id, app.contextGetUserId(r), input.CantidadGente)
	if err != nil {
		app.reservaErrorResponse(w, r, err, ErrReservaNotFound)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toReservaResponse(*reserva), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteReserva(w http.ResponseWriter, r *http.Request, id int) {
	err := app.reservaRepo.Delete(r.Context(), id, app.contextGetUserId(r))
	if err != nil {
		app.reservaErrorResponse(w, r, err, ErrReservaNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) reservaErrorResponse(w http.ResponseWriter, r *http.Request, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponseWithMessage(w, r, notFoundMessage)
	case errors.Is(err, domain.ErrInvalidInstance):
		app.notFoundResponseWithMessage(w, r, err.Error())
	case errors.Is(err, domain.ErrNoCapacity), errors.Is(err, domain.ErrRecorridoNotPending):
		app.editConflictResponseWithErr(w, r, err)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
