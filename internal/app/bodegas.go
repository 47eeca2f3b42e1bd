package app

import (
	"errors"
	"net/http"

	"github.com/enoturismo/recorridos/api"
	"github.com/enoturismo/recorridos/internal/domain"
)

func (app *Application) GetBodegas(w http.ResponseWriter, r *http.Request, params api.GetBodegasParams) {
	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	filters := domain.BodegaFilters{
		Pagination: toPagination(params.Page, params.PageSize, params.Sort, DefaultSort),
	}

	if params.Nombre != nil {
		filters.Name = *params.Nombre
	}

	bodegas, metadata, err := app.bodegaRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.BodegaListResponse{
		Bodegas:  make([]api.BodegaResponse, len(bodegas)),
		Metadata: toApiMetadata(metadata),
	}

	for i, b := range bodegas {
		resp.Bodegas[i] = toBodegaResponse(b)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBodega(w http.ResponseWriter, r *http.Request, id int) {
	bodega, err := app.bodegaRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithMessage(w, r, ErrBodegaNotFound)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toBodegaResponse(*bodega), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toBodegaResponse(b domain.Bodega) api.BodegaResponse {
	resp := api.BodegaResponse{
		Id:          b.ID,
		Nombre:      b.Name,
		Descripcion: b.Description,
		Sucursales:  make([]api.SucursalResponse, len(b.Sucursales)),
	}

	for i, s := range b.Sucursales {
		resp.Sucursales[i] = toSucursalResponse(s)
	}

	return resp
}
