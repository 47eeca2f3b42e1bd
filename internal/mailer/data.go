package mailer

const RecorridoConfirmedTemplate = "recorrido_confirmed.tmpl"

// RecorridoConfirmedData is the payload of RecorridoConfirmedTemplate.
type RecorridoConfirmedData struct {
	FirstName     string
	RecorridoName string
	DateRange     string
	TotalDays     int
	Days          []RecorridoDay
	TotalCost     string
}

type RecorridoDay struct {
	Label    string
	Reservas []RecorridoItem
}

type RecorridoItem struct {
	Time     string
	Evento   string
	Sucursal string
	People   int
	Price    string
}
