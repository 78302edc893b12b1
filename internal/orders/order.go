package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/entityhub/pkg/validator"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusCancelled Status = "cancelled"
)

var statuses = []Status{StatusPending, StatusPaid, StatusShipped, StatusCancelled}

const maxCustomerLen = 128

// Order is the entity whose changes are broadcast to subscribers.
type Order struct {
	ID         uuid.UUID `json:"id"`
	Customer   string    `json:"customer"`
	Status     Status    `json:"status"`
	TotalCents int64     `json:"totalCents"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Keys identifies the order in key groups: "order/{id}".
func (o Order) Keys() []any {
	return []any{o.ID}
}

type CreateInput struct {
	Customer   string `json:"customer"`
	TotalCents int64  `json:"totalCents"`
}

// Validate checks the create input.
func (in CreateInput) Validate() error {
	return validator.Apply(
		validator.Required("customer", in.Customer),
		validator.MaxLen("customer", in.Customer, maxCustomerLen),
		validator.Min("totalCents", in.TotalCents, 0),
	)
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Customer   *string `json:"customer,omitempty"`
	Status     *Status `json:"status,omitempty"`
	TotalCents *int64  `json:"totalCents,omitempty"`
}

// Validate checks the fields that are set.
func (in UpdateInput) Validate() error {
	var (
		customer string
		status   Status
		total    int64
	)
	if in.Customer != nil {
		customer = *in.Customer
	}
	if in.Status != nil {
		status = *in.Status
	}
	if in.TotalCents != nil {
		total = *in.TotalCents
	}
	return validator.Apply(
		validator.When(in.Customer != nil, validator.Required("customer", customer)),
		validator.When(in.Customer != nil, validator.MaxLen("customer", customer, maxCustomerLen)),
		validator.When(in.Status != nil, validator.OneOf("status", status, statuses...)),
		validator.When(in.TotalCents != nil, validator.Min("totalCents", total, 0)),
	)
}

func (in UpdateInput) apply(o Order) Order {
	if in.Customer != nil {
		o.Customer = *in.Customer
	}
	if in.Status != nil {
		o.Status = *in.Status
	}
	if in.TotalCents != nil {
		o.TotalCents = *in.TotalCents
	}
	return o
}
