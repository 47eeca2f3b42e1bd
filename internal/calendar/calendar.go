// Package calendar exports recorridos as iCalendar documents.
package calendar

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/enoturismo/recorridos/internal/itinerary"
)

const (
	productId     = "-//enoturismo//recorridos//ES"
	eventDuration = 2 * time.Hour
)

// Recorrido renders one VEVENT per reserva, in itinerary order. Reservas
// without a date are left out.
func Recorrido(r domain.Recorrido, agg itinerary.Result, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productId)
	cal.SetXWRCalName(r.Name)
	cal.SetXWRCalDesc(fmt.Sprintf("%s (%d días) - total $%s", agg.DateRange, agg.TotalDays, agg.TotalCost.StringFixed(2)))

	reservas := r.ReservaByID()

	for _, group := range agg.DayGroups {
		for _, item := range group.Reservations {
			reserva, ok := reservas[item.ID]
			if !ok {
				continue
			}

			addEvent(cal, reserva, item, stamp)
		}
	}

	return cal.Serialize()
}

func addEvent(cal *ical.Calendar, reserva domain.Reserva, item itinerary.Reservation, stamp time.Time) {
	start := item.EventInstance.Date

	event := cal.AddEvent(fmt.Sprintf("reserva-%d@recorridos", reserva.ID))
	event.SetDtStampTime(stamp)
	event.SetStartAt(start)
	event.SetEndAt(start.Add(eventDuration))
	event.SetSummary(item.EventInstance.Name)
	event.SetDescription(fmt.Sprintf("%d personas - $%s", reserva.PeopleCount, reserva.Price.StringFixed(2)))

	if item.EventInstance.Address != "" {
		location := item.EventInstance.Address
		if item.EventInstance.Venue != "" {
			location = fmt.Sprintf("%s, %s", item.EventInstance.Venue, item.EventInstance.Address)
		}

		event.SetLocation(location)
	}
}
