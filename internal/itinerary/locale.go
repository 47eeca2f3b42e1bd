package itinerary

import (
	"fmt"
	"strings"
	"time"
)

// Locale holds the names used to render day labels.
type Locale struct {
	Tag string
	// Weekdays are short names indexed by time.Weekday (Sunday first).
	Weekdays [7]string
	Months   [12]string
	// MonthJoiner sits between the day number and the month name, e.g. "de".
	MonthJoiner string
}

var Spanish = Locale{
	Tag:         "es",
	Weekdays:    [7]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"},
	Months:      [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	MonthJoiner: "de",
}

var English = Locale{
	Tag:      "en",
	Weekdays: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	Months:   [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
}

var locales = map[string]Locale{
	Spanish.Tag: Spanish,
	English.Tag: English,
}

// LookupLocale returns the locale registered under tag. Region suffixes such
// as "es-AR" resolve to their base language.
func LookupLocale(tag string) (Locale, error) {
	base := strings.ToLower(tag)
	if i := strings.IndexAny(base, "-_"); i > 0 {
		base = base[:i]
	}

	l, ok := locales[base]
	if !ok {
		return Locale{}, fmt.Errorf("unsupported locale %q", tag)
	}

	return l, nil
}

// DayLabel formats t as "<short-weekday> <day>" and, when withMonth is set,
// appends the month name.
func (l Locale) DayLabel(t time.Time, withMonth bool) string {
	label := fmt.Sprintf("%s %d", l.Weekdays[t.Weekday()], t.Day())
	if !withMonth {
		return label
	}

	if l.MonthJoiner == "" {
		return label + " " + l.Months[t.Month()-1]
	}

	return label + " " + l.MonthJoiner + " " + l.Months[t.Month()-1]
}
