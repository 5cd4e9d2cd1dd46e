package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"tokotopup/internal/atlantic"
	"tokotopup/internal/catalog"
	"tokotopup/internal/clock"
	"tokotopup/internal/metrics"
	"tokotopup/internal/models"
	"tokotopup/internal/refs"
	"tokotopup/internal/repositories"
)

// Order event routing keys.
const (
	EventDepositCreated     = "deposit.created"
	EventDepositStatus      = "deposit.status"
	EventDepositCancelled   = "deposit.cancelled"
	EventTransactionCreated = "transaction.created"
	EventTransactionStatus  = "transaction.status"
)

const (
	defaultDepositType     = "ewallet"
	defaultDepositMethod   = "QRISFAST"
	defaultTransactionType = "prabayar"
	statusPending          = "pending"
	statusSuccess          = "success"
)

var (
	transactionStatusKeys = []string{"status", "state", "result", "transaction_status", "tx_status"}

	// Transactions in one of these states no longer need a local order.
	terminalTransactionStatuses = map[string]bool{
		"success": true, "done": true, "paid": true, "completed": true,
		"failed": true, "error": true, "expired": true, "cancel": true, "cancelled": true,
	}
)

// DepositConfig configures deposits and the orders they leave behind.
type DepositConfig struct {
	MinimumDeposit float64
	OrderTTL       time.Duration
	EventExchange  string
}

// DepositService proxies deposit and transaction calls to the supplier and
// keeps the local order list in step with them.
type DepositService struct {
	supplier  Supplier
	orderRepo repositories.OrderRepository
	publisher EventPublisher
	clock     clock.Clock
	cfg       DepositConfig
}

// NewDepositService creates a new DepositService. publisher may be nil.
func NewDepositService(supplier Supplier, orderRepo repositories.OrderRepository, publisher EventPublisher, clk clock.Clock, cfg DepositConfig) *DepositService {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if cfg.MinimumDeposit <= 0 {
		cfg.MinimumDeposit = catalog.DefaultMinimumDeposit
	}
	if cfg.OrderTTL <= 0 {
		cfg.OrderTTL = time.Hour
	}
	if cfg.EventExchange == "" {
		cfg.EventExchange = "orders"
	}
	return &DepositService{
		supplier:  supplier,
		orderRepo: orderRepo,
		publisher: publisher,
		clock:     clk,
		cfg:       cfg,
	}
}

// MethodsResult is the ranked deposit method list.
type MethodsResult struct {
	OK     bool             `json:"ok"`
	Status interface{}      `json:"status"`
	Code   interface{}      `json:"code"`
	Data   []interface{}    `json:"data"`
	Raw    atlantic.Payload `json:"raw"`
}

// Methods lists deposit methods, ranked for display with the QRIS minimum applied.
func (s *DepositService) Methods(ctx context.Context, typ, method string) (*MethodsResult, error) {
	payload, err := s.supplier.DepositMethods(ctx, typ, method)
	if err != nil {
		return nil, err
	}

	code := payload["code"]
	if !catalog.Truthy(code) {
		code = 200
	}
	return &MethodsResult{
		OK:     payload.OK(),
		Status: payload["status"],
		Code:   code,
		Data:   catalog.RankMethods(payload.DataList(), s.cfg.MinimumDeposit),
		Raw:    payload,
	}, nil
}

// DepositInput is a deposit request from the storefront.
type DepositInput struct {
	Price   string
	Type    string
	Method  string
	Phone   string
	Product interface{}
}

// DepositResult is a created deposit.
type DepositResult struct {
	ReffID  string      `json:"reff_id"`
	Price   string      `json:"price"`
	Deposit interface{} `json:"deposit"`
	OrderID string      `json:"order_id"`
}

// CreateDeposit opens a deposit with the supplier and records a pending
// order with its payment instructions.
func (s *DepositService) CreateDeposit(ctx context.Context, in DepositInput) (*DepositResult, error) {
	price := strings.TrimSpace(in.Price)
	nominal, err := strconv.ParseFloat(price, 64)
	if price == "" || err != nil || nominal <= 0 {
		return nil, ErrPriceRequired
	}
	if in.Type == "" {
		in.Type = defaultDepositType
	}
	if in.Method == "" {
		in.Method = defaultDepositMethod
	}

	reffID := refs.Generate(refs.DefaultLength)
	payload, err := s.supplier.CreateDeposit(ctx, atlantic.DepositRequest{
		ReffID:  reffID,
		Nominal: price,
		Type:    in.Type,
		Method:  in.Method,
		Phone:   in.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create deposit: %w", err)
	}
	if !payload.HasData() {
		return nil, &UpstreamRejectedError{Message: rejectionMessage(payload, "deposit create failed"), Raw: payload}
	}

	order := s.newOrder(reffID, nominal, in, payload.DataMap())
	if err := s.orderRepo.Create(order); err != nil {
		log.Printf("Error writing order %s: %v", order.ID, err)
	}
	s.publish(EventDepositCreated, order.ID, reffID, order.Status)

	return &DepositResult{
		ReffID:  reffID,
		Price:   price,
		Deposit: payload.Data(),
		OrderID: order.ID,
	}, nil
}

func (s *DepositService) newOrder(reffID string, nominal float64, in DepositInput, deposit map[string]interface{}) *models.Order {
	now := s.clock.Now()
	product := in.Product
	if product == nil {
		product = map[string]interface{}{}
	}

	order := &models.Order{
		ID:        reffID,
		ReffID:    reffID,
		Nominal:   nominal,
		Type:      in.Type,
		Method:    in.Method,
		Status:    statusPending,
		CreatedAt: now,
		ExpiredAt: now.Add(s.cfg.OrderTTL),
		Product:   product,
	}
	if deposit == nil {
		return order
	}

	if id, ok := deposit["id"]; ok && id != nil {
		order.ID = catalog.String(id)
	}
	if v := deposit["nomor_va"]; catalog.Truthy(v) {
		order.AccountNumber = catalog.String(v)
	}
	if v := deposit["tujuan"]; catalog.Truthy(v) {
		order.DestinationNumber = catalog.String(v)
	}
	if v := deposit["url"]; catalog.Truthy(v) {
		order.URL = catalog.String(v)
	}
	if v := deposit["qr_string"]; catalog.Truthy(v) {
		order.QRString = catalog.String(v)
	}
	if v := deposit["qr_image"]; catalog.Truthy(v) {
		order.QRImage = catalog.String(v)
	}
	if v := deposit["tambahan"]; catalog.Truthy(v) {
		order.Addition = v
	}
	if v := deposit["fee"]; catalog.Truthy(v) {
		order.Fee = v
	}
	if v := deposit["get_balance"]; catalog.Truthy(v) {
		order.GetBalance = v
	}
	return order
}

// DepositStatus fetches the deposit status and updates the stored order.
// Orders that are neither pending nor successful are removed.
func (s *DepositService) DepositStatus(ctx context.Context, id string) (atlantic.Payload, error) {
	payload, err := s.supplier.DepositStatus(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get deposit status: %w", err)
	}
	if !payload.HasData() {
		return payload, nil
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if !errors.Is(err, repositories.ErrOrderNotFound) {
			log.Printf("Error reading order %s: %v", id, err)
		}
		return payload, nil
	}

	status := catalog.String(payload.DataMap()["status"])
	if status == "" {
		status = order.Status
	}
	if status != statusPending && status != statusSuccess {
		err = s.orderRepo.Delete(id)
	} else {
		err = s.orderRepo.UpdateStatus(id, status)
	}
	if err != nil {
		log.Printf("Error writing order %s: %v", id, err)
	}
	s.publish(EventDepositStatus, id, order.ReffID, status)
	return payload, nil
}

// CancelDeposit cancels the deposit and forgets its order.
func (s *DepositService) CancelDeposit(ctx context.Context, id string) (atlantic.Payload, error) {
	payload, err := s.supplier.CancelDeposit(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel deposit: %w", err)
	}
	if err := s.orderRepo.Delete(id); err != nil {
		log.Printf("Error removing order %s: %v", id, err)
	}
	s.publish(EventDepositCancelled, id, "", "cancel")
	return payload, nil
}

// TransactionInput is a purchase paid from the deposit balance.
type TransactionInput struct {
	ReffID string
	Code   string
	Target string
}

// CreateTransaction buys a product for a target and returns the supplier's data.
func (s *DepositService) CreateTransaction(ctx context.Context, in TransactionInput) (interface{}, error) {
	payload, err := s.supplier.CreateTransaction(ctx, atlantic.TransactionRequest{
		ReffID: in.ReffID,
		Code:   strings.ToUpper(in.Code),
		Target: in.Target,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	if !payload.HasData() {
		return nil, &UpstreamRejectedError{Message: rejectionMessage(payload, "transaksi create failed"), Raw: payload}
	}
	s.publish(EventTransactionCreated, catalog.String(payload.DataMap()["id"]), in.ReffID, catalog.String(payload.DataMap()["status"]))
	return payload.Data(), nil
}

// TransactionStatus fetches a transaction status. Once the transaction
// reaches a final state its order is removed.
func (s *DepositService) TransactionStatus(ctx context.Context, id, typ string) (atlantic.Payload, error) {
	if typ == "" {
		typ = defaultTransactionType
	}
	payload, err := s.supplier.TransactionStatus(ctx, id, typ)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction status: %w", err)
	}
	if !payload.HasData() {
		return payload, nil
	}

	status := strings.ToLower(catalog.String(catalog.First(payload.DataMap(), transactionStatusKeys...)))
	if terminalTransactionStatuses[status] {
		if err := s.orderRepo.Delete(id); err != nil {
			log.Printf("Error removing order %s: %v", id, err)
		}
	}
	s.publish(EventTransactionStatus, id, "", status)
	return payload, nil
}

// GetOrder returns a stored order.
func (s *DepositService) GetOrder(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// ListOrders returns every stored order.
func (s *DepositService) ListOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// PruneExpired removes pending orders past their expiry and returns how
// many were removed.
func (s *DepositService) PruneExpired() (int, error) {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return 0, fmt.Errorf("failed to list orders: %w", err)
	}

	now := s.clock.Now()
	removed := 0
	for _, order := range orders {
		if !order.Expired(now) {
			continue
		}
		if err := s.orderRepo.Delete(order.ID); err != nil {
			return removed, fmt.Errorf("failed to remove order %s: %w", order.ID, err)
		}
		removed++
	}
	return removed, nil
}

// OrderEvent is the message published for order lifecycle changes.
type OrderEvent struct {
	Event   string    `json:"event"`
	OrderID string    `json:"order_id,omitempty"`
	ReffID  string    `json:"reff_id,omitempty"`
	Status  string    `json:"status,omitempty"`
	At      time.Time `json:"at"`
}

func (s *DepositService) publish(event, orderID, reffID, status string) {
	if s.publisher == nil {
		metrics.OrderEvents.WithLabelValues(event, "skipped").Inc()
		return
	}

	body, err := json.Marshal(OrderEvent{
		Event:   event,
		OrderID: orderID,
		ReffID:  reffID,
		Status:  status,
		At:      s.clock.Now(),
	})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		metrics.OrderEvents.WithLabelValues(event, "failed").Inc()
		return
	}
	if err := s.publisher.Publish(s.cfg.EventExchange, event, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", event, orderID, err)
		metrics.OrderEvents.WithLabelValues(event, "failed").Inc()
		return
	}
	metrics.OrderEvents.WithLabelValues(event, "published").Inc()
}

func rejectionMessage(payload atlantic.Payload, fallback string) string {
	if msg := payload.Message(); msg != "" {
		return msg
	}
	return fallback
}
