package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCanceled  PaymentStatus = "canceled"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	ID                int
	UserID            int
	RecorridoID       int
	CheckoutSessionId *string
	Amount            decimal.Decimal
	Currency          string
	Status            PaymentStatus
	ErrorMsg          *string
	PaymentDate       *time.Time
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	SetCheckoutSessionId(ctx context.Context, paymentId int, checkoutSessionId string) error
	// Complete marks the payment completed and confirms its recorrido in one
	// transaction. A captured payment is always recorded: when the recorrido
	// is no longer pending or its total changed after checkout, the payment
	// is returned together with an error wrapping ErrPaymentUnsettled.
	Complete(ctx context.Context, checkoutSessionId string) (*Payment, error)
	UpdateStatus(ctx context.Context, checkoutSessionId string, status PaymentStatus, errMsg string) error
	ExpirePending(ctx context.Context, createdBefore time.Time) ([]Payment, error)
}

type PaymentProvider interface {
	CreateCheckoutSession(sessionId string, user *User, recorrido *Recorrido, payment Payment) (*stripe.CheckoutSession, error)
}
