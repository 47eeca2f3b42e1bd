package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/enoturismo/recorridos/internal/mailer"
)

// background runs fn on its own goroutine, tracked by app.wg so shutdown
// waits for it.
func (app *Application) background(logger *slog.Logger, fn func()) {
	app.wg.Add(1)

	go func() {
		defer app.wg.Done()

		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic occurred in background task", "panic", err)
			}
		}()

		fn()
	}()
}

// mailConfirmationToCurrentUser resolves the mail address of the session's
// user through the auth API and sends the confirmation summary.
func (app *Application) mailConfirmationToCurrentUser(r *http.Request, recorrido domain.Recorrido) {
	// the mail outlives the request, its trace does not end with it
	ctx := context.WithoutCancel(r.Context())
	logger := app.contextGetLogger(r)
	token := app.contextGetAuthToken(r)

	app.background(logger, func() {
		user, err := app.authClient.Me(ctx, token).Unwrap()
		if err != nil {
			logger.Error("failed to resolve recipient of confirmation mail", "error", err)
			return
		}

		app.sendRecorridoConfirmation(logger, user.Email, user.FirstName, recorrido)
	})
}

func (app *Application) sendRecorridoConfirmation(logger *slog.Logger, email, firstName string, recorrido domain.Recorrido) {
	if email == "" {
		logger.Warn("no recipient for confirmation mail", "recorrido_id", recorrido.ID)
		return
	}

	data := app.recorridoConfirmedData(firstName, recorrido)

	err := app.mailer.Send(email, mailer.RecorridoConfirmedTemplate, data)
	if err != nil {
		logger.Error("failed to send confirmation email", "recorrido_id", recorrido.ID, "error", err)
		return
	}

	logger.Info("confirmation email sent successfully", "recorrido_id", recorrido.ID)
}

func (app *Application) recorridoConfirmedData(firstName string, recorrido domain.Recorrido) mailer.RecorridoConfirmedData {
	agg := app.aggregator.Aggregate(recorrido.ItineraryReservations())

	data := mailer.RecorridoConfirmedData{
		FirstName:     firstName,
		RecorridoName: recorrido.Name,
		DateRange:     agg.DateRange,
		TotalDays:     agg.TotalDays,
		Days:          make([]mailer.RecorridoDay, len(agg.DayGroups)),
		TotalCost:     agg.TotalCost.StringFixed(2),
	}

	for i, group := range agg.DayGroups {
		day := mailer.RecorridoDay{
			Label:    group.DisplayLabel,
			Reservas: make([]mailer.RecorridoItem, len(group.Reservations)),
		}

		for j, res := range group.Reservations {
			at := res.EventInstance.Date
			if app.aggregator.Location != nil {
				at = at.In(app.aggregator.Location)
			}

			day.Reservas[j] = mailer.RecorridoItem{
				Time:     at.Format("15:04"),
				Evento:   res.EventInstance.Name,
				Sucursal: res.EventInstance.Venue,
				People:   res.PeopleCount,
				Price:    res.Price.StringFixed(2),
			}
		}

		data.Days[i] = day
	}

	return data
}
