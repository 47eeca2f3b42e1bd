package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/enoturismo/recorridos/internal/calendar"
)

// GetRecorridoCalendar exports the itinerary as an iCalendar document.
func (app *Application) GetRecorridoCalendar(w http.ResponseWriter, r *http.Request, id int) {
	recorrido, ok := app.loadRecorrido(w, r, id)
	if !ok {
		return
	}

	agg := app.aggregator.Aggregate(recorrido.ItineraryReservations())
	doc := calendar.Recorrido(*recorrido, agg, time.Now())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="recorrido-%d.ics"`, recorrido.ID))
	w.WriteHeader(http.StatusOK)

	_, err := w.Write([]byte(doc))
	if err != nil {
		app.logError(r, err)
	}
}
