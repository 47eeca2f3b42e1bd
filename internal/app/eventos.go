package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/enoturismo/recorridos/api"
	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/shopspring/decimal"
)

const defaultEventoSort = "id"

func (app *Application) GetEventos(w http.ResponseWriter, r *http.Request, params api.GetEventosParams) {
	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	filters, err := toEventoFilters(params)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	eventos, metadata, err := app.eventoRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.EventoListResponse{
		Eventos:  make([]api.EventoSummary, len(eventos)),
		Metadata: toApiMetadata(metadata),
	}

	for i, e := range eventos {
		resp.Eventos[i] = toEventoSummary(e)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toEventoFilters(params api.GetEventosParams) (domain.EventoFilters, error) {
	filters := domain.EventoFilters{
		Pagination:       toPagination(params.Page, params.PageSize, params.Sort, defaultEventoSort),
		SucursalID:       params.SucursalId,
		CategoriaID:      params.CategoriaId,
		EstadoID:         params.EstadoId,
		BodegaID:         params.BodegaId,
		PuntuacionMinima: params.PuntuacionMinima,
	}

	if params.Nombre != nil {
		filters.Name = *params.Nombre
	}

	if params.FechaDesde != nil {
		from := params.FechaDesde.Time
		filters.FechaDesde = &from
	}

	if params.FechaHasta != nil {
		// inclusive upper bound: up to the end of that day
		to := params.FechaHasta.Time.Add(24*time.Hour - time.Nanosecond)
		filters.FechaHasta = &to
	}

	if filters.FechaDesde != nil && filters.FechaHasta != nil && filters.FechaHasta.Before(*filters.FechaDesde) {
		return filters, errors.New("fechaHasta must not be before fechaDesde")
	}

	var err error

	filters.PrecioMinimo, err = parseDecimal(params.PrecioMinimo)
	if err != nil {
		return filters, err
	}

	filters.PrecioMaximo, err = parseDecimal(params.PrecioMaximo)
	if err != nil {
		return filters, err
	}

	return filters, nil
}

func parseDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}

	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

func (app *Application) GetEvento(w http.ResponseWriter, r *http.Request, id int) {
	evento, err := app.eventoRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithMessage(w, r, ErrEventoNotFound)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toEventoDetail(*evento), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetInstancia(w http.ResponseWriter, r *http.Request, id int) {
	evento, err := app.eventoRepo.GetByInstanciaId(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithMessage(w, r, ErrInstanciaNotFound)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	var instancia *domain.InstanciaEvento
	for i := range evento.Instancias {
		if evento.Instancias[i].ID == id {
			instancia = &evento.Instancias[i]
			break
		}
	}

	if instancia == nil {
		app.notFoundResponseWithMessage(w, r, ErrInstanciaNotFound)
		return
	}

	resp := api.InstanciaDetailResponse{
		Instancia: toInstanciaResponse(*instancia),
		Evento:    toEventoDetail(*evento),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetCategorias(w http.ResponseWriter, r *http.Request) {
	categorias, err := app.eventoRepo.GetCategorias(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]api.CategoriaResponse, len(categorias))
	for i, c := range categorias {
		resp[i] = api.CategoriaResponse{Id: c.ID, Nombre: c.Name}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetEstados(w http.ResponseWriter, r *http.Request) {
	estados, err := app.eventoRepo.GetEstados(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]api.EstadoEventoResponse, len(estados))
	for i, e := range estados {
		resp[i] = api.EstadoEventoResponse{Id: e.ID, Nombre: e.Name}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toEventoSummary(e domain.Evento) api.EventoSummary {
	summary := api.EventoSummary{
		Id:          e.ID,
		Nombre:      e.Name,
		Descripcion: e.Description,
		Cupo:        e.Capacity,
		Precio:      e.Price.StringFixed(2),
	}

	if e.Sucursal != nil {
		summary.Sucursal = toSucursalResponse(*e.Sucursal)
	}

	if e.Categoria != nil {
		summary.Categoria = &api.CategoriaResponse{Id: e.Categoria.ID, Nombre: e.Categoria.Name}
	}

	if e.Estado != nil {
		summary.Estado = &api.EstadoEventoResponse{Id: e.Estado.ID, Nombre: e.Estado.Name}
	}

	if e.Rating != nil {
		summary.Valoracion = &api.ValoracionMediaResponse{
			Promedio: e.Rating.Average.StringFixed(2),
			Cantidad: e.Rating.Count,
		}
	}

	for _, m := range e.Multimedia {
		if m.IsCover {
			url := m.URL
			summary.Portada = &url
			break
		}
	}

	return summary
}

func toEventoDetail(e domain.Evento) api.EventoDetailResponse {
	detail := api.EventoDetailResponse{
		EventoSummary: toEventoSummary(e),
		Instancias:    make([]api.InstanciaEventoResponse, len(e.Instancias)),
		Multimedia:    make([]api.MultimediaResponse, len(e.Multimedia)),
	}

	for i, inst := range e.Instancias {
		detail.Instancias[i] = toInstanciaResponse(inst)
	}

	for i, m := range e.Multimedia {
		detail.Multimedia[i] = api.MultimediaResponse{Id: m.ID, Url: m.URL, Portada: m.IsCover}
	}

	return detail
}

func toInstanciaResponse(inst domain.InstanciaEvento) api.InstanciaEventoResponse {
	return api.InstanciaEventoResponse{
		Id:     inst.ID,
		Fecha:  inst.Date,
		Estado: api.InstanciaEstado(inst.Estado),
	}
}

func toSucursalResponse(s domain.Sucursal) api.SucursalResponse {
	return api.SucursalResponse{
		Id:           s.ID,
		Nombre:       s.Name,
		EsPrincipal:  s.IsMain,
		Direccion:    s.Address,
		Aclaraciones: s.Instructions,
		BodegaId:     s.BodegaID,
		Latitude:     s.Latitude,
		Longitude:    s.Longitude,
	}
}
