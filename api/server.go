package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

const (
	CookieAuthScopes = "cookieAuth.Scopes"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /healthcheck)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (POST /session)
	CreateSession(w http.ResponseWriter, r *http.Request)
	// (DELETE /session)
	DeleteSession(w http.ResponseWriter, r *http.Request)
	// (GET /users/me)
	GetCurrentUser(w http.ResponseWriter, r *http.Request)
	// (GET /eventos)
	GetEventos(w http.ResponseWriter, r *http.Request, params GetEventosParams)
	// (GET /eventos/{id})
	GetEvento(w http.ResponseWriter, r *http.Request, id int)
	// (GET /eventos/instancia/{id})
	GetInstancia(w http.ResponseWriter, r *http.Request, id int)
	// (GET /categoria-eventos)
	GetCategorias(w http.ResponseWriter, r *http.Request)
	// (GET /estado-eventos)
	GetEstados(w http.ResponseWriter, r *http.Request)
	// (POST /valoraciones)
	CreateValoracion(w http.ResponseWriter, r *http.Request)
	// (GET /bodegas)
	GetBodegas(w http.ResponseWriter, r *http.Request, params GetBodegasParams)
	// (GET /bodegas/{id})
	GetBodega(w http.ResponseWriter, r *http.Request, id int)
	// (GET /faqs)
	GetFaqs(w http.ResponseWriter, r *http.Request, params GetFaqsParams)
	// (GET /recorridos)
	GetRecorridos(w http.ResponseWriter, r *http.Request, params GetRecorridosParams)
	// (GET /recorridos/{id})
	GetRecorrido(w http.ResponseWriter, r *http.Request, id int)
	// (PATCH /recorridos/{id})
	UpdateRecorrido(w http.ResponseWriter, r *http.Request, id int)
	// (DELETE /recorridos/{id})
	CancelRecorrido(w http.ResponseWriter, r *http.Request, id int)
	// (POST /recorridos/{id}/confirmar)
	ConfirmRecorrido(w http.ResponseWriter, r *http.Request, id int)
	// (GET /recorridos/{id}/calendar.ics)
	GetRecorridoCalendar(w http.ResponseWriter, r *http.Request, id int)
	// (POST /recorridos/{id}/checkout)
	CreateCheckoutSession(w http.ResponseWriter, r *http.Request, id int)
	// (POST /reserva)
	CreateReserva(w http.ResponseWriter, r *http.Request)
	// (PUT /reserva/{id})
	UpdateReserva(w http.ResponseWriter, r *http.Request, id int)
	// (DELETE /reserva/{id})
	DeleteReserva(w http.ResponseWriter, r *http.Request, id int)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareFunc func(http.Handler) http.Handler

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, secured bool, fn http.HandlerFunc) {
	ctx := r.Context()

	if secured {
		ctx = withScopes(ctx)
	}

	handler := http.Handler(fn)

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r.WithContext(ctx))
}

func (siw *ServerInterfaceWrapper) bindId(w http.ResponseWriter, r *http.Request) (int, bool) {
	var id int

	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return 0, false
	}

	return id, true
}

func (siw *ServerInterfaceWrapper) bindQuery(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}

	return true
}

// GetHealth operation middleware
func (siw *ServerInterfaceWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, false, siw.Handler.GetHealth)
}

// CreateSession operation middleware
func (siw *ServerInterfaceWrapper) CreateSession(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, false, siw.Handler.CreateSession)
}

// DeleteSession operation middleware
func (siw *ServerInterfaceWrapper) DeleteSession(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, false, siw.Handler.DeleteSession)
}

// GetCurrentUser operation middleware
func (siw *ServerInterfaceWrapper) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, true, siw.Handler.GetCurrentUser)
}

// GetEventos operation middleware
func (siw *ServerInterfaceWrapper) GetEventos(w http.ResponseWriter, r *http.Request) {
	var params GetEventosParams

	bindings := []struct {
		name string
		dest any
	}{
		{"page", &params.Page},
		{"pageSize", &params.PageSize},
		{"sort", &params.Sort},
		{"sucursalId", &params.SucursalId},
		{"categoriaId", &params.CategoriaId},
		{"estadoId", &params.EstadoId},
		{"bodegaId", &params.BodegaId},
		{"fechaDesde", &params.FechaDesde},
		{"fechaHasta", &params.FechaHasta},
		{"precioMinimo", &params.PrecioMinimo},
		{"precioMaximo", &params.PrecioMaximo},
		{"puntuacionMinima", &params.PuntuacionMinima},
		{"nombre", &params.Nombre},
	}

	for _, b := range bindings {
		if !siw.bindQuery(w, r, b.name, b.dest) {
			return
		}
	}

	siw.serve(w, r, false, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetEventos(w, r, params)
	})
}

// GetCategorias operation middleware
func (siw *ServerInterfaceWrapper) GetCategorias(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, false, siw.Handler.GetCategorias)
}

// GetEstados operation middleware
func (siw *ServerInterfaceWrapper) GetEstados(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, false, siw.Handler.GetEstados)
}

// CreateValoracion operation middleware
func (siw *ServerInterfaceWrapper) CreateValoracion(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, true, siw.Handler.CreateValoracion)
}

// GetBodegas operation middleware
func (siw *ServerInterfaceWrapper) GetBodegas(w http.ResponseWriter, r *http.Request) {
	var params GetBodegasParams

	if !siw.bindQuery(w, r, "page", &params.Page) ||
		!siw.bindQuery(w, r, "pageSize", &params.PageSize) ||
		!siw.bindQuery(w, r, "sort", &params.Sort) ||
		!siw.bindQuery(w, r, "nombre", &params.Nombre) {
		return
	}

	siw.serve(w, r, false, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetBodegas(w, r, params)
	})
}

// GetFaqs operation middleware
func (siw *ServerInterfaceWrapper) GetFaqs(w http.ResponseWriter, r *http.Request) {
	var params GetFaqsParams

	if !siw.bindQuery(w, r, "page", &params.Page) ||
		!siw.bindQuery(w, r, "pageSize", &params.PageSize) ||
		!siw.bindQuery(w, r, "sort", &params.Sort) ||
		!siw.bindQuery(w, r, "recipient", &params.Recipient) {
		return
	}

	siw.serve(w, r, false, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetFaqs(w, r, params)
	})
}

// GetRecorridos operation middleware
func (siw *ServerInterfaceWrapper) GetRecorridos(w http.ResponseWriter, r *http.Request) {
	var params GetRecorridosParams

	if !siw.bindQuery(w, r, "page", &params.Page) ||
		!siw.bindQuery(w, r, "pageSize", &params.PageSize) ||
		!siw.bindQuery(w, r, "sort", &params.Sort) ||
		!siw.bindQuery(w, r, "estado", &params.Estado) ||
		!siw.bindQuery(w, r, "maxItems", &params.MaxItems) {
		return
	}

	siw.serve(w, r, true, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetRecorridos(w, r, params)
	})
}

func (siw *ServerInterfaceWrapper) withId(secured bool, fn func(w http.ResponseWriter, r *http.Request, id int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := siw.bindId(w, r)
		if !ok {
			return
		}

		siw.serve(w, r, secured, func(w http.ResponseWriter, r *http.Request) {
			fn(w, r, id)
		})
	}
}

// InvalidParamFormatError is returned when a parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerFromMux creates http.Handler with routing matching OpenAPI spec based on the provided mux.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseRouter: r,
	})
}

// HandlerWithOptions creates http.Handler with additional options
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	base := options.BaseURL

	r.Group(func(r chi.Router) {
		r.Get(base+"/healthcheck", wrapper.GetHealth)
		r.Post(base+"/session", wrapper.CreateSession)
		r.Delete(base+"/session", wrapper.DeleteSession)
		r.Get(base+"/users/me", wrapper.GetCurrentUser)

		r.Get(base+"/eventos", wrapper.GetEventos)
		r.Get(base+"/eventos/{id}", wrapper.withId(false, si.GetEvento))
		r.Get(base+"/eventos/instancia/{id}", wrapper.withId(false, si.GetInstancia))
		r.Get(base+"/categoria-eventos", wrapper.GetCategorias)
		r.Get(base+"/estado-eventos", wrapper.GetEstados)
		r.Post(base+"/valoraciones", wrapper.CreateValoracion)

		r.Get(base+"/bodegas", wrapper.GetBodegas)
		r.Get(base+"/bodegas/{id}", wrapper.withId(false, si.GetBodega))

		r.Get(base+"/faqs", wrapper.GetFaqs)

		r.Get(base+"/recorridos", wrapper.GetRecorridos)
		r.Get(base+"/recorridos/{id}", wrapper.withId(true, si.GetRecorrido))
		r.Patch(base+"/recorridos/{id}", wrapper.withId(true, si.UpdateRecorrido))
		r.Delete(base+"/recorridos/{id}", wrapper.withId(true, si.CancelRecorrido))
		r.Post(base+"/recorridos/{id}/confirmar", wrapper.withId(true, si.ConfirmRecorrido))
		r.Get(base+"/recorridos/{id}/calendar.ics", wrapper.withId(true, si.GetRecorridoCalendar))
		r.Post(base+"/recorridos/{id}/checkout", wrapper.withId(true, si.CreateCheckoutSession))

		r.Post(base+"/reserva", wrapper.secured(si.CreateReserva))
		r.Put(base+"/reserva/{id}", wrapper.withId(true, si.UpdateReserva))
		r.Delete(base+"/reserva/{id}", wrapper.withId(true, si.DeleteReserva))
	})

	return r
}

func (siw *ServerInterfaceWrapper) secured(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		siw.serve(w, r, true, fn)
	}
}
