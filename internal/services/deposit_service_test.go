package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tokotopup/internal/atlantic"
	"tokotopup/internal/clock"
	"tokotopup/internal/models"
	"tokotopup/internal/repositories"
	"tokotopup/internal/services"
)

var fixedNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func newDepositService(supplier *MockSupplier, repo repositories.OrderRepository, publisher services.EventPublisher) *services.DepositService {
	return services.NewDepositService(supplier, repo, publisher, clock.NewFixed(fixedNow), services.DepositConfig{
		OrderTTL:      time.Hour,
		EventExchange: "orders",
	})
}

func TestDepositService_Methods(t *testing.T) {
	supplier := new(MockSupplier)
	supplier.On("DepositMethods", "", "").Return(atlantic.Payload{
		"status": true,
		"data": []interface{}{
			map[string]interface{}{"metode": "BCA", "type": "bank", "min": 10000},
			map[string]interface{}{"metode": "QRIS", "type": "ewallet", "min": 1000},
			map[string]interface{}{"metode": "OVO", "type": "ewallet", "min": 10000},
		},
	}, nil).Once()

	svc := newDepositService(supplier, repositories.NewMockOrderRepository(), nil)
	res, err := svc.Methods(context.Background(), "", "")
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, true, res.Status)
	assert.Equal(t, 200, res.Code)
	require.Len(t, res.Data, 3)
	first := res.Data[0].(map[string]interface{})
	assert.Equal(t, "QRIS", first["metode"])
	assert.Equal(t, float64(500), first["min"])
	assert.Equal(t, "OVO", res.Data[1].(map[string]interface{})["metode"])
	assert.Equal(t, "BCA", res.Data[2].(map[string]interface{})["metode"])
	supplier.AssertExpectations(t)
}

func TestDepositService_MethodsKeepsProviderCode(t *testing.T) {
	supplier := new(MockSupplier)
	supplier.On("DepositMethods", "bank", "").Return(atlantic.Payload{"status": false, "code": float64(401)}, nil).Once()

	svc := newDepositService(supplier, repositories.NewMockOrderRepository(), nil)
	res, err := svc.Methods(context.Background(), "bank", "")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, float64(401), res.Code)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
}

func TestDepositService_CreateDepositRequiresPrice(t *testing.T) {
	supplier := new(MockSupplier)
	svc := newDepositService(supplier, repositories.NewMockOrderRepository(), nil)

	for _, price := range []string{"", "  ", "0", "-5", "abc"} {
		_, err := svc.CreateDeposit(context.Background(), services.DepositInput{Price: price})
		assert.ErrorIs(t, err, services.ErrPriceRequired, price)
	}
	supplier.AssertNotCalled(t, "CreateDeposit", mock.Anything)
}

func TestDepositService_CreateDeposit(t *testing.T) {
	supplier := new(MockSupplier)
	repo := repositories.NewMockOrderRepository()
	publisher := new(MockPublisher)

	supplier.On("CreateDeposit", mock.MatchedBy(func(req atlantic.DepositRequest) bool {
		return len(req.ReffID) == 12 && req.Nominal == "15000" && req.Type == "ewallet" && req.Method == "QRISFAST" && req.Phone == ""
	})).Return(atlantic.Payload{
		"status": true,
		"data": map[string]interface{}{
			"id":        float64(98765),
			"qr_string": "00020101",
			"nomor_va":  "",
			"fee":       float64(105),
			"tambahan":  map[string]interface{}{"note": "scan"},
		},
	}, nil).Once()
	publisher.On("Publish", "orders", services.EventDepositCreated, mock.MatchedBy(func(body []byte) bool {
		var ev services.OrderEvent
		return json.Unmarshal(body, &ev) == nil && ev.OrderID == "98765" && ev.Status == "pending"
	})).Return(nil).Once()

	svc := newDepositService(supplier, repo, publisher)
	product := map[string]interface{}{"code": "ML5"}
	res, err := svc.CreateDeposit(context.Background(), services.DepositInput{Price: "15000", Product: product})
	require.NoError(t, err)

	assert.Len(t, res.ReffID, 12)
	assert.Equal(t, "15000", res.Price)
	assert.Equal(t, "98765", res.OrderID)

	order, err := repo.GetByID("98765")
	require.NoError(t, err)
	assert.Equal(t, res.ReffID, order.ReffID)
	assert.Equal(t, float64(15000), order.Nominal)
	assert.Equal(t, "ewallet", order.Type)
	assert.Equal(t, "QRISFAST", order.Method)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, fixedNow, order.CreatedAt)
	assert.Equal(t, fixedNow.Add(time.Hour), order.ExpiredAt)
	assert.Equal(t, "00020101", order.QRString)
	assert.Empty(t, order.AccountNumber)
	assert.Equal(t, float64(105), order.Fee)
	assert.Equal(t, map[string]interface{}{"note": "scan"}, order.Addition)
	assert.Equal(t, product, order.Product)

	supplier.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestDepositService_CreateDepositWithoutProviderID(t *testing.T) {
	supplier := new(MockSupplier)
	repo := repositories.NewMockOrderRepository()
	supplier.On("CreateDeposit", mock.Anything).Return(atlantic.Payload{"data": map[string]interface{}{"url": "https://pay.example/x"}}, nil).Once()

	svc := newDepositService(supplier, repo, nil)
	res, err := svc.CreateDeposit(context.Background(), services.DepositInput{Price: "2000", Type: "bank", Method: "BCA", Phone: "0812"})
	require.NoError(t, err)
	assert.Equal(t, res.ReffID, res.OrderID)

	order, err := repo.GetByID(res.ReffID)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/x", order.URL)
	assert.Equal(t, map[string]interface{}{}, order.Product)

	req := supplier.Calls[0].Arguments.Get(0).(atlantic.DepositRequest)
	assert.Equal(t, "bank", req.Type)
	assert.Equal(t, "BCA", req.Method)
	assert.Equal(t, "0812", req.Phone)
}

func TestDepositService_CreateDepositRejected(t *testing.T) {
	supplier := new(MockSupplier)
	repo := repositories.NewMockOrderRepository()
	supplier.On("CreateDeposit", mock.Anything).Return(atlantic.Payload{"status": false, "message": "saldo tidak cukup"}, nil).Once()

	svc := newDepositService(supplier, repo, nil)
	_, err := svc.CreateDeposit(context.Background(), services.DepositInput{Price: "2000"})

	var rejected *services.UpstreamRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "saldo tidak cukup", rejected.Message)
	assert.Equal(t, false, rejected.Raw["status"])

	orders, _ := repo.GetAll()
	assert.Empty(t, orders)
}

func TestDepositService_CreateDepositUpstreamError(t *testing.T) {
	supplier := new(MockSupplier)
	supplier.On("CreateDeposit", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	svc := newDepositService(supplier, repositories.NewMockOrderRepository(), nil)
	_, err := svc.CreateDeposit(context.Background(), services.DepositInput{Price: "2000"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDepositService_PublishFailureDoesNotFail(t *testing.T) {
	supplier := new(MockSupplier)
	publisher := new(MockPublisher)
	supplier.On("CreateDeposit", mock.Anything).Return(atlantic.Payload{"data": map[string]interface{}{"id": "D1"}}, nil).Once()
	publisher.On("Publish", "orders", services.EventDepositCreated, mock.Anything).Return(errors.New("channel closed")).Once()

	svc := newDepositService(supplier, repositories.NewMockOrderRepository(), publisher)
	res, err := svc.CreateDeposit(context.Background(), services.DepositInput{Price: "2000"})
	require.NoError(t, err)
	assert.Equal(t, "D1", res.OrderID)
	publisher.AssertExpectations(t)
}

func seedOrder(t *testing.T, repo repositories.OrderRepository, id, status string) {
	t.Helper()
	require.NoError(t, repo.Create(&models.Order{ID: id, ReffID: "R" + id, Status: status, CreatedAt: fixedNow, ExpiredAt: fixedNow.Add(time.Hour)}))
}

func TestDepositService_DepositStatus(t *testing.T) {
	tests := []struct {
		name       string
		payload    atlantic.Payload
		wantStatus string
		wantKept   bool
	}{
		{"success kept", atlantic.Payload{"data": map[string]interface{}{"status": "success"}}, "success", true},
		{"pending kept", atlantic.Payload{"data": map[string]interface{}{"status": "pending"}}, "pending", true},
		{"expired removed", atlantic.Payload{"data": map[string]interface{}{"status": "expired"}}, "", false},
		{"missing status keeps current", atlantic.Payload{"data": map[string]interface{}{"id": "D1"}}, "pending", true},
		{"no data untouched", atlantic.Payload{"status": false}, "pending", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			supplier := new(MockSupplier)
			repo := repositories.NewMockOrderRepository()
			seedOrder(t, repo, "D1", "pending")
			supplier.On("DepositStatus", "D1").Return(tt.payload, nil).Once()

			svc := newDepositService(supplier, repo, nil)
			payload, err := svc.DepositStatus(context.Background(), "D1")
			require.NoError(t, err)
			assert.Equal(t, tt.payload, payload)

			order, err := repo.GetByID("D1")
			if !tt.wantKept {
				assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, order.Status)
		})
	}
}

func TestDepositService_DepositStatusUnknownOrder(t *testing.T) {
	supplier := new(MockSupplier)
	supplier.On("DepositStatus", "X").Return(atlantic.Payload{"data": map[string]interface{}{"status": "failed"}}, nil).Once()

	svc := newDepositService(supplier, repositories.NewMockOrderRepository(), nil)
	_, err := svc.DepositStatus(context.Background(), "X")
	assert.NoError(t, err)
}

func TestDepositService_CancelDeposit(t *testing.T) {
	supplier := new(MockSupplier)
	repo := repositories.NewMockOrderRepository()
	seedOrder(t, repo, "D1", "pending")
	seedOrder(t, repo, "D2", "pending")
	supplier.On("CancelDeposit", "D1").Return(atlantic.Payload{"status": true}, nil).Once()
	supplier.On("CancelDeposit", "D2").Return(nil, errors.New("boom")).Once()

	svc := newDepositService(supplier, repo, nil)
	_, err := svc.CancelDeposit(context.Background(), "D1")
	require.NoError(t, err)
	_, err = svc.CancelDeposit(context.Background(), "D2")
	require.Error(t, err)

	orders, _ := repo.GetAll()
	require.Len(t, orders, 1)
	assert.Equal(t, "D2", orders[0].ID)
}

func TestDepositService_CreateTransaction(t *testing.T) {
	supplier := new(MockSupplier)
	supplier.On("CreateTransaction", atlantic.TransactionRequest{ReffID: "R1", Code: "ML5", Target: "12345"}).
		Return(atlantic.Payload{"data": map[string]interface{}{"id": "T1", "status": "pending"}}, nil).Once()
	supplier.On("CreateTransaction", atlantic.TransactionRequest{ReffID: "R2", Code: "XX", Target: "1"}).
		Return(atlantic.Payload{"status": false}, nil).Once()

	svc := newDepositService(supplier, repositories.NewMockOrderRepository(), nil)
	data, err := svc.CreateTransaction(context.Background(), services.TransactionInput{ReffID: "R1", Code: "ml5", Target: "12345"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": "T1", "status": "pending"}, data)

	_, err = svc.CreateTransaction(context.Background(), services.TransactionInput{ReffID: "R2", Code: "xx", Target: "1"})
	var rejected *services.UpstreamRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "transaksi create failed", rejected.Message)
	supplier.AssertExpectations(t)
}

func TestDepositService_TransactionStatus(t *testing.T) {
	tests := []struct {
		name     string
		data     map[string]interface{}
		wantKept bool
	}{
		{"done removes", map[string]interface{}{"status": "DONE"}, false},
		{"state key", map[string]interface{}{"state": "cancelled"}, false},
		{"tx_status key", map[string]interface{}{"tx_status": "Paid"}, false},
		{"processing keeps", map[string]interface{}{"status": "processing"}, true},
		{"no status keeps", map[string]interface{}{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			supplier := new(MockSupplier)
			repo := repositories.NewMockOrderRepository()
			seedOrder(t, repo, "T1", "pending")
			supplier.On("TransactionStatus", "T1", "prabayar").Return(atlantic.Payload{"data": tt.data}, nil).Once()

			svc := newDepositService(supplier, repo, nil)
			_, err := svc.TransactionStatus(context.Background(), "T1", "")
			require.NoError(t, err)

			_, err = repo.GetByID("T1")
			if tt.wantKept {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
			}
		})
	}
}

func TestDepositService_PruneExpired(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	require.NoError(t, repo.Create(&models.Order{ID: "old", Status: "pending", ExpiredAt: fixedNow.Add(-time.Minute)}))
	require.NoError(t, repo.Create(&models.Order{ID: "paid", Status: "success", ExpiredAt: fixedNow.Add(-time.Minute)}))
	require.NoError(t, repo.Create(&models.Order{ID: "fresh", Status: "pending", ExpiredAt: fixedNow.Add(time.Minute)}))
	require.NoError(t, repo.Create(&models.Order{ID: "noexpiry", Status: "pending"}))

	svc := newDepositService(new(MockSupplier), repo, nil)
	removed, err := svc.PruneExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	orders, err := svc.ListOrders()
	require.NoError(t, err)
	ids := []string{}
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"paid", "fresh", "noexpiry"}, ids)

	order, err := svc.GetOrder("fresh")
	require.NoError(t, err)
	assert.Equal(t, "pending", order.Status)
}
