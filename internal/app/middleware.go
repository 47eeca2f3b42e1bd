package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/enoturismo/recorridos/api"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// logRequest puts a request scoped logger into the context and logs the
// outcome of every request.
func (app *Application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := app.logger.With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"uri", r.URL.RequestURI(),
		)

		ctx := context.WithValue(r.Context(), contextKeyLogger, logger)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.LogAttrs(r.Context(), slog.LevelInfo, "request completed",
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func (app *Application) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userId := app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String())
		if userId == 0 {
			app.unauthorizedAccessResponse(w, r)
			return
		}

		token := app.sessionManager.GetString(r.Context(), SessionKeyAuthToken.String())

		ctx := context.WithValue(r.Context(), SessionKeyUserId, userId)
		ctx = context.WithValue(ctx, SessionKeyAuthToken, token)
		ctx = context.WithValue(ctx, contextKeyLogger, app.contextGetLogger(r).With("user_id", userId))
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}

// authenticateSecured applies requireAuthentication to operations the API
// document marks as secured.
func (app *Application) authenticateSecured(next http.Handler) http.Handler {
	authenticated := app.requireAuthentication(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequiresAuth(r.Context()) {
			authenticated.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// validateRequest checks parameters and bodies against the OpenAPI document.
// Requests for routes the document does not describe pass through untouched.
func (app *Application) validateRequest(doc *openapi3.T) (func(http.Handler) http.Handler, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}

			err = openapi3filter.ValidateRequest(r.Context(), input)
			if err != nil {
				app.openapiErrorResponse(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}
