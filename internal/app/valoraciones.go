package app

import (
	"errors"
	"net/http"

	"github.com/enoturismo/recorridos/api"
	"github.com/enoturismo/recorridos/internal/domain"
)

func (app *Application) CreateValoracion(w http.ResponseWriter, r *http.Request) {
	var input api.CreateValoracionRequest

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

	valoracion := &domain.Valoracion{
		UserID:   app.contextGetUserId(r),
		EventoID: input.EventoId,
		Score:    input.Puntuacion,
		Comment:  input.Comentario,
	}

	err = app.valoracionRepo.Create(r.Context(), valoracion)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithMessage(w, r, ErrEventoNotFound)
		case errors.Is(err, domain.ErrAlreadyRated):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.ValoracionResponse{
		Id:         valoracion.ID,
		EventoId:   valoracion.EventoID,
		Puntuacion: valoracion.Score,
		Comentario: valoracion.Comment,
		CreatedAt:  valoracion.CreatedAt,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
