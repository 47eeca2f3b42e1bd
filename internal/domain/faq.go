package domain

import (
	"context"
	"time"
)

type FaqRecipient struct {
	ID    int
	Name  string
	Label string
}

type Faq struct {
	ID        int
	Question  string
	Answer    string
	Recipient FaqRecipient
	CreatedAt time.Time
}

// FaqFilters narrows the FAQ list. Recipient matches the recipient name;
// FAQs addressed to "both" are included for any recipient.
type FaqFilters struct {
	Pagination
	Recipient string
}

type FaqRepository interface {
	GetAll(ctx context.Context, filters FaqFilters) ([]Faq, *Metadata, error)
}
