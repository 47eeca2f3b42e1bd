// Package itinerary turns the reservations of a recorrido into the summary
// shown on the itinerary screens: the date range, the number of days, the
// reservations grouped per calendar day and the total cost.
//
// Every function here is pure. Inputs are never reordered or retained, so an
// Aggregator can be shared between goroutines.
package itinerary

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateKeyLayout = "2006-01-02"

type Reservation struct {
	ID            int
	Price         decimal.Decimal
	PeopleCount   int
	EventInstance EventInstance
}

type EventInstance struct {
	ID      int
	Date    time.Time
	Name    string
	EventID int
	Venue   string
	Address string
}

// Valid reports whether r can take part in date-derived figures.
func Valid(r Reservation) bool {
	return !r.EventInstance.Date.IsZero()
}

type DayGroup struct {
	DateKey      string
	DisplayLabel string
	Reservations []Reservation
}

type Result struct {
	DateRange string
	TotalDays int
	DayGroups []DayGroup
	TotalCost decimal.Decimal
}

type Aggregator struct {
	Locale Locale
	// Location, when set, decides which calendar day a timestamp falls on.
	// Otherwise each timestamp is read in its own location.
	Location *time.Location
}

func New(locale Locale, loc *time.Location) Aggregator {
	return Aggregator{Locale: locale, Location: loc}
}

// Aggregate is the full detail variant used by the itinerary screen.
func (a Aggregator) Aggregate(reservations []Reservation) Result {
	return Result{
		DateRange: a.DateRangeLabel(reservations),
		TotalDays: a.TotalDays(reservations),
		DayGroups: a.GroupByDay(reservations),
		TotalCost: TotalCost(reservations),
	}
}

// AggregateWithLimit truncates only the day groups. Range, days and cost are
// still computed over every reservation.
func (a Aggregator) AggregateWithLimit(reservations []Reservation, maxItems int) Result {
	return Result{
		DateRange: a.DateRangeLabel(reservations),
		TotalDays: a.TotalDays(reservations),
		DayGroups: a.GroupByDayWithLimit(reservations, maxItems),
		TotalCost: TotalCost(reservations),
	}
}

func (a Aggregator) DateRangeLabel(reservations []Reservation) string {
	start, end, ok := a.bounds(reservations)
	if !ok {
		return ""
	}

	sameMonth := start.Month() == end.Month() && start.Year() == end.Year()

	return a.Locale.DayLabel(start, !sameMonth) + " - " + a.Locale.DayLabel(end, true)
}

func (a Aggregator) TotalDays(reservations []Reservation) int {
	start, end, ok := a.bounds(reservations)
	if !ok {
		return 0
	}

	return int(end.Sub(start).Hours()/24) + 1
}

func (a Aggregator) GroupByDay(reservations []Reservation) []DayGroup {
	groups := make([]DayGroup, 0)
	index := make(map[string]int)

	for _, r := range reservations {
		if !Valid(r) {
			continue
		}

		date := a.in(r.EventInstance.Date)
		key := date.Format(dateKeyLayout)

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{
				DateKey:      key,
				DisplayLabel: a.Locale.DayLabel(date, true),
			})
		}

		groups[i].Reservations = append(groups[i].Reservations, r)
	}

	slices.SortFunc(groups, func(x, y DayGroup) int {
		return strings.Compare(x.DateKey, y.DateKey)
	})

	return groups
}

// GroupByDayWithLimit keeps whole day groups until the running reservation
// count reaches maxItems. A non-positive maxItems yields no groups.
func (a Aggregator) GroupByDayWithLimit(reservations []Reservation, maxItems int) []DayGroup {
	if maxItems <= 0 {
		return make([]DayGroup, 0)
	}

	groups := a.GroupByDay(reservations)

	count := 0
	for i, g := range groups {
		count += len(g.Reservations)
		if count >= maxItems {
			return groups[:i+1]
		}
	}

	return groups
}

// TotalCost sums prices without rounding. Callers round for display.
func TotalCost(reservations []Reservation) decimal.Decimal {
	total := decimal.Zero

	for _, r := range reservations {
		total = total.Add(r.Price)
	}

	return total
}

// bounds returns the earliest and latest calendar dates, the same keys
// GroupByDay orders by.
func (a Aggregator) bounds(reservations []Reservation) (time.Time, time.Time, bool) {
	dates := make([]time.Time, 0, len(reservations))
	for _, r := range reservations {
		if Valid(r) {
			dates = append(dates, civilDate(a.in(r.EventInstance.Date)))
		}
	}

	if len(dates) == 0 {
		return time.Time{}, time.Time{}, false
	}

	slices.SortFunc(dates, func(x, y time.Time) int {
		return x.Compare(y)
	})

	return dates[0], dates[len(dates)-1], true
}

func (a Aggregator) in(t time.Time) time.Time {
	if a.Location == nil {
		return t
	}

	return t.In(a.Location)
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
