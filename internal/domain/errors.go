package domain

import "errors"

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrEditConflict        = errors.New("edit conflict")
	ErrRecorridoNotPending = errors.New("recorrido is no longer pending")
	ErrRecorridoCancelled  = errors.New("recorrido has already been cancelled")
	ErrInvalidInstance     = errors.New("event instance does not exist or is not active")
	ErrNoCapacity          = errors.New("not enough places left for this event instance")
	ErrAlreadyRated        = errors.New("event has already been rated by this user")
	ErrPaymentNotFound     = errors.New("payment not found for checkout session")
	ErrPaymentUnsettled    = errors.New("payment captured but the recorrido could not be confirmed")
	ErrAmountMismatch      = errors.New("paid amount does not match the recorrido total")
)
