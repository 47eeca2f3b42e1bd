package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/enoturismo/recorridos/api"
	"github.com/enoturismo/recorridos/internal/authapi"
	appvalidator "github.com/enoturismo/recorridos/internal/validator"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

const (
	ErrInternalServer     = "The server encountered a problem and could not process your request"
	ErrNotFound           = "The requested resource not found"
	ErrMethodNotAllowed   = "The method is not supported for this resource"
	ErrFailedValidation   = "One or more fields have invalid values"
	ErrUnauthorizedAccess = "You must be authenticated to access this resource"
	ErrEditConflict       = "Unable to update the record due to an edit conflict, please try again"
	ErrRecorridoNotFound  = "recorrido not found"
	ErrReservaNotFound    = "reserva not found"
	ErrEventoNotFound     = "evento not found"
	ErrBodegaNotFound     = "bodega not found"
	ErrInstanciaNotFound  = "event instance not found"
	ErrAuthUnavailable    = "The authentication service is not available, please try again later"
	ErrInvalidParameter   = "invalid %s parameter %q"
	ErrInvalidRequestBody = "the request body does not match the expected schema"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.contextGetLogger(r).Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) notFoundResponseWithMessage(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) unauthorizedAccessResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusUnauthorized, ErrUnauthorizedAccess)
}

func (app *Application) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusConflict, ErrEditConflict)
}

func (app *Application) editConflictResponseWithErr(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusConflict, err.Error())
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		app.badRequestResponse(w, r, err)
		return
	}

	resp := api.ValidationErrorResponse{
		Message:          ErrFailedValidation,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: make([]api.ValidationError, len(validationErrors)),
	}

	for i, fieldErr := range validationErrors {
		resp.ValidationErrors[i] = api.ValidationError{
			Field: fieldErr.Field(),
			Issue: appvalidator.ValidationMessage(fieldErr),
		}
	}

	err = app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// openapiErrorResponse reports a request rejected by the OpenAPI document.
func (app *Application) openapiErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.Parameter != nil:
			err = fmt.Errorf(ErrInvalidParameter, reqErr.Parameter.In, reqErr.Parameter.Name)
		case reqErr.RequestBody != nil:
			err = errors.New(ErrInvalidRequestBody)
		}
	}

	app.badRequestResponse(w, r, err)
}

// authErrorResponse maps a failed auth API call. Rejected tokens end the
// local session as well.
func (app *Application) authErrorResponse(w http.ResponseWriter, r *http.Request, apiErr *authapi.APIError) {
	switch apiErr.Key {
	case authapi.KeyUnauthorized, authapi.KeyInvalidOrExpiredCode:
		if app.sessionManager != nil {
			if err := app.sessionManager.Destroy(r.Context()); err != nil {
				app.logError(r, err)
			}
		}

		app.errorResponse(w, r, http.StatusUnauthorized, app.localizedMessage(apiErr))
	case authapi.KeyNetworkError:
		app.logError(r, apiErr)
		app.errorResponse(w, r, http.StatusBadGateway, ErrAuthUnavailable)
	default:
		status := apiErr.Status
		if status < 400 || status > 499 {
			status = http.StatusBadGateway
		}

		app.errorResponse(w, r, status, app.localizedMessage(apiErr))
	}
}

func (app *Application) localizedMessage(apiErr *authapi.APIError) string {
	if app.aggregator.Locale.Tag == "en" {
		return apiErr.MessageEng
	}

	return apiErr.Message
}
