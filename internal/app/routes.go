package app

import (
	"net/http"

	"github.com/enoturismo/recorridos/api"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.RequestID)
	r.Use(app.logRequest)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)

	doc, err := api.GetSwagger()
	if err != nil {
		panic(err)
	}

	validateRequest, err := app.validateRequest(doc)
	if err != nil {
		panic(err)
	}

	api.HandlerWithOptions(app, api.ChiServerOptions{
		BaseRouter: r,
		Middlewares: []api.MiddlewareFunc{
			validateRequest,
			app.authenticateSecured,
		},
		ErrorHandlerFunc: app.badRequestResponse,
	})

	// Neither route is described by the API document: the event stream is
	// not JSON and the webhook body belongs to Stripe.
	r.With(app.requireAuthentication).Get("/recorridos/events", app.StreamRecorridoEvents)
	r.Post("/webhook", app.StripeWebhookHandler)

	return r
}
