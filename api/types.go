// Package api holds the request and response types of the HTTP API together
// with the OpenAPI document they are validated against.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Defines values for RecorridoEstado.
const (
	CANCELADO  RecorridoEstado = "CANCELADO"
	CONFIRMADO RecorridoEstado = "CONFIRMADO"
	PENDIENTE  RecorridoEstado = "PENDIENTE"
)

// Defines values for InstanciaEstado.
const (
	ACTIVA     InstanciaEstado = "ACTIVA"
	FINALIZADA InstanciaEstado = "FINALIZADA"
	SUSPENDIDA InstanciaEstado = "SUSPENDIDA"
)

type RecorridoEstado string

type InstanciaEstado string

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

// Session

type CreateSessionRequest struct {
	Token string `json:"token" validate:"required"`
}

type UserResponse struct {
	Id              int                 `json:"id"`
	Nombre          string              `json:"nombre"`
	Apellido        string              `json:"apellido"`
	Email           openapi_types.Email `json:"email"`
	Validado        bool                `json:"validado"`
	FechaNacimiento *openapi_types.Date `json:"fechaNacimiento,omitempty"`
	Roles           []string            `json:"roles"`
}

type SessionResponse struct {
	User UserResponse `json:"user"`
}

// Catalog

type GetEventosParams struct {
	Page             *int                `validate:"omitempty,min=1"`
	PageSize         *int                `validate:"omitempty,min=1,max=100"`
	Sort             *string             `validate:"omitempty,oneof=id -id nombre -nombre precio -precio created_at -created_at"`
	SucursalId       *int                `validate:"omitempty,min=1"`
	CategoriaId      *int                `validate:"omitempty,min=1"`
	EstadoId         *int                `validate:"omitempty,min=1"`
	BodegaId         *int                `validate:"omitempty,min=1"`
	FechaDesde       *openapi_types.Date `validate:"omitempty"`
	FechaHasta       *openapi_types.Date `validate:"omitempty"`
	PrecioMinimo     *string             `validate:"omitempty,decimal"`
	PrecioMaximo     *string             `validate:"omitempty,decimal"`
	PuntuacionMinima *float64            `validate:"omitempty,min=0,max=5"`
	Nombre           *string             `validate:"omitempty,max=100"`
}

type GetBodegasParams struct {
	Page     *int    `validate:"omitempty,min=1"`
	PageSize *int    `validate:"omitempty,min=1,max=100"`
	Sort     *string `validate:"omitempty,oneof=id -id nombre -nombre"`
	Nombre   *string `validate:"omitempty,max=100"`
}

type SucursalResponse struct {
	Id           int     `json:"id"`
	Nombre       string  `json:"nombre"`
	EsPrincipal  bool    `json:"esPrincipal"`
	Direccion    string  `json:"direccion"`
	Aclaraciones string  `json:"aclaraciones"`
	BodegaId     int     `json:"bodegaId"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

type CategoriaResponse struct {
	Id     int    `json:"id"`
	Nombre string `json:"nombre"`
}

type EstadoEventoResponse struct {
	Id     int    `json:"id"`
	Nombre string `json:"nombre"`
}

type ValoracionMediaResponse struct {
	Promedio string `json:"promedio"`
	Cantidad int    `json:"cantidad"`
}

type MultimediaResponse struct {
	Id      int    `json:"id"`
	Url     string `json:"url"`
	Portada bool   `json:"portada"`
}

type InstanciaEventoResponse struct {
	Id     int             `json:"id"`
	Fecha  time.Time       `json:"fecha"`
	Estado InstanciaEstado `json:"estado"`
}

type EventoSummary struct {
	Id          int                      `json:"id"`
	Nombre      string                   `json:"nombre"`
	Descripcion string                   `json:"descripcion"`
	Cupo        int                      `json:"cupo"`
	Precio      string                   `json:"precio"`
	Sucursal    SucursalResponse         `json:"sucursal"`
	Categoria   *CategoriaResponse       `json:"categoria,omitempty"`
	Estado      *EstadoEventoResponse    `json:"estado,omitempty"`
	Valoracion  *ValoracionMediaResponse `json:"valoracion,omitempty"`
	Portada     *string                  `json:"portada,omitempty"`
}

type EventoDetailResponse struct {
	EventoSummary
	Instancias []InstanciaEventoResponse `json:"instancias"`
	Multimedia []MultimediaResponse      `json:"multimedia"`
}

type EventoListResponse struct {
	Eventos  []EventoSummary `json:"eventos"`
	Metadata *Metadata       `json:"metadata"`
}

type InstanciaDetailResponse struct {
	Instancia InstanciaEventoResponse `json:"instancia"`
	Evento    EventoDetailResponse    `json:"evento"`
}

type BodegaResponse struct {
	Id          int                `json:"id"`
	Nombre      string             `json:"nombre"`
	Descripcion string             `json:"descripcion"`
	Sucursales  []SucursalResponse `json:"sucursales"`
}

type BodegaListResponse struct {
	Bodegas  []BodegaResponse `json:"bodegas"`
	Metadata *Metadata        `json:"metadata"`
}

// Faqs

type GetFaqsParams struct {
	Page      *int    `validate:"omitempty,min=1"`
	PageSize  *int    `validate:"omitempty,min=1,max=100"`
	Sort      *string `validate:"omitempty,oneof=id -id created_at -created_at"`
	Recipient *string `validate:"omitempty,oneof=user admin both"`
}

type FaqRecipientResponse struct {
	Id    int    `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

type FaqResponse struct {
	Id        int                  `json:"id"`
	Question  string               `json:"question"`
	Answer    string               `json:"answer"`
	Recipient FaqRecipientResponse `json:"recipient"`
	CreatedAt time.Time            `json:"createdAt"`
}

type FaqListResponse struct {
	Faqs     []FaqResponse `json:"faqs"`
	Metadata *Metadata     `json:"metadata"`
}

// Valoraciones

type CreateValoracionRequest struct {
	EventoId   int     `json:"eventoId" validate:"required,min=1"`
	Puntuacion int     `json:"puntuacion" validate:"required,min=1,max=5"`
	Comentario *string `json:"comentario,omitempty" validate:"omitempty,max=500"`
}

type ValoracionResponse struct {
	Id         int       `json:"id"`
	EventoId   int       `json:"eventoId"`
	Puntuacion int       `json:"puntuacion"`
	Comentario *string   `json:"comentario,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Recorridos

type GetRecorridosParams struct {
	Page     *int             `validate:"omitempty,min=1"`
	PageSize *int             `validate:"omitempty,min=1,max=100"`
	Sort     *string          `validate:"omitempty,oneof=id -id created_at -created_at updated_at -updated_at name -name"`
	Estado   *RecorridoEstado `validate:"omitempty,estado"`
	MaxItems *int             `validate:"omitempty,min=0,max=50"`
}

type UpdateRecorridoRequest struct {
	Name string `json:"name" validate:"required,not_blank,max=100"`
}

type ReservaInstancia struct {
	Id        int       `json:"id"`
	Fecha     time.Time `json:"fecha"`
	EventoId  int       `json:"eventoId"`
	Evento    string    `json:"evento"`
	Sucursal  string    `json:"sucursal"`
	Direccion string    `json:"direccion"`
}

type ReservaResponse struct {
	Id                int              `json:"id"`
	Precio            string           `json:"precio"`
	CantidadGente     int              `json:"cantidadGente"`
	InstanciaEventoId int              `json:"instanciaEventoId"`
	RecorridoId       int              `json:"recorridoId"`
	InstanciaEvento   ReservaInstancia `json:"instanciaEvento"`
}

type GroupedReservas struct {
	Date     string            `json:"date"`
	DayName  string            `json:"dayName"`
	Reservas []ReservaResponse `json:"reservas"`
}

type ItinerarioResponse struct {
	DateRange       string            `json:"dateRange"`
	TotalDays       int               `json:"totalDays"`
	GroupedReservas []GroupedReservas `json:"groupedReservas"`
	TotalCost       string            `json:"totalCost"`
}

type RecorridoResponse struct {
	Id               int                `json:"id"`
	Name             string             `json:"name"`
	Estado           RecorridoEstado    `json:"estado"`
	LastOptimization *time.Time         `json:"lastOptimization,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
	Itinerario       ItinerarioResponse `json:"itinerario"`
}

type RecorridoListResponse struct {
	Recorridos []RecorridoResponse `json:"recorridos"`
	Metadata   *Metadata           `json:"metadata"`
}

type RecorridoEventMessage struct {
	Type        string           `json:"type"`
	RecorridoId int              `json:"recorridoId"`
	Name        string           `json:"name,omitempty"`
	Estado      *RecorridoEstado `json:"estado,omitempty"`
}

// Reservas

type CreateReservaRequest struct {
	CantidadGente     int     `json:"cantidadGente" validate:"required,min=1,max=50"`
	InstanciaEventoId int     `json:"instanciaEventoId" validate:"required,min=1"`
	RecorridoId       *int    `json:"recorridoId,omitempty" validate:"omitempty,min=1"`
	Nombre            *string `json:"nombre,omitempty" validate:"omitempty,min=1,max=100"`
}

type UpdateReservaRequest struct {
	CantidadGente int `json:"cantidadGente" validate:"required,min=1,max=50"`
}

// Payments

type CheckoutSessionResponse struct {
	RedirectUrl string `json:"redirectUrl"`
}
