package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tokotopup/internal/atlantic"
)

// MockSupplier is a mock implementation of services.Supplier
type MockSupplier struct {
	mock.Mock
}

func (m *MockSupplier) payload(args mock.Arguments) (atlantic.Payload, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(atlantic.Payload), args.Error(1)
}

func (m *MockSupplier) PriceList(ctx context.Context, typ string) (atlantic.Payload, error) {
	return m.payload(m.Called(typ))
}

func (m *MockSupplier) DepositMethods(ctx context.Context, typ, method string) (atlantic.Payload, error) {
	return m.payload(m.Called(typ, method))
}

func (m *MockSupplier) CreateDeposit(ctx context.Context, req atlantic.DepositRequest) (atlantic.Payload, error) {
	return m.payload(m.Called(req))
}

func (m *MockSupplier) DepositStatus(ctx context.Context, id string) (atlantic.Payload, error) {
	return m.payload(m.Called(id))
}

func (m *MockSupplier) CancelDeposit(ctx context.Context, id string) (atlantic.Payload, error) {
	return m.payload(m.Called(id))
}

func (m *MockSupplier) CreateTransaction(ctx context.Context, req atlantic.TransactionRequest) (atlantic.Payload, error) {
	return m.payload(m.Called(req))
}

func (m *MockSupplier) TransactionStatus(ctx context.Context, id, typ string) (atlantic.Payload, error) {
	return m.payload(m.Called(id, typ))
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}
