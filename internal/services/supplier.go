package services

import (
	"context"
	"errors"

	"tokotopup/internal/atlantic"
)

// Supplier is the upstream payment and product provider.
type Supplier interface {
	PriceList(ctx context.Context, typ string) (atlantic.Payload, error)
	DepositMethods(ctx context.Context, typ, method string) (atlantic.Payload, error)
	CreateDeposit(ctx context.Context, req atlantic.DepositRequest) (atlantic.Payload, error)
	DepositStatus(ctx context.Context, id string) (atlantic.Payload, error)
	CancelDeposit(ctx context.Context, id string) (atlantic.Payload, error)
	CreateTransaction(ctx context.Context, req atlantic.TransactionRequest) (atlantic.Payload, error)
	TransactionStatus(ctx context.Context, id, typ string) (atlantic.Payload, error)
}

// EventPublisher publishes order lifecycle events.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ErrPriceRequired is returned when a deposit is requested without a
// positive price.
var ErrPriceRequired = errors.New("nominal required")

// UpstreamRejectedError is returned when the supplier answered but did not
// return the expected data.
type UpstreamRejectedError struct {
	Message string
	Raw     atlantic.Payload
}

func (e *UpstreamRejectedError) Error() string {
	return e.Message
}
