package repositories

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"tokotopup/internal/catalog"
	"tokotopup/internal/metrics"
	"tokotopup/internal/models"
	"tokotopup/internal/refs"
)

// FileOrderRepository keeps every order in a single JSON file that is read
// and rewritten whole on each mutation. The mutex serializes access within
// the process; other processes writing the same file are not coordinated.
type FileOrderRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileOrderRepository creates a FileOrderRepository backed by path. The
// parent directory is created if it does not exist.
func NewFileOrderRepository(path string) (*FileOrderRepository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create orders directory: %w", err)
		}
	}
	return &FileOrderRepository{path: path}, nil
}

// Path returns the backing file.
func (r *FileOrderRepository) Path() string {
	return r.path
}

// GetAll returns all orders in file order.
func (r *FileOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.read()
	metrics.ObserveStore("get_all", err)
	return orders, err
}

// GetByID returns the first order with the given ID.
func (r *FileOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.read()
	metrics.ObserveStore("get", err)
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		if order.ID == id {
			return &order, nil
		}
	}
	return nil, fmt.Errorf("order with ID %s: %w", id, ErrOrderNotFound)
}

// Create appends an order to the file.
func (r *FileOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.modify(func(orders []models.Order) ([]models.Order, error) {
		if order.ID == "" {
			order.ID = refs.Generate(refs.DefaultLength)
		}
		return append(orders, *order), nil
	})
	metrics.ObserveStore("create", err)
	return err
}

// UpdateStatus sets the status of the first order with the given ID.
func (r *FileOrderRepository) UpdateStatus(id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.modify(func(orders []models.Order) ([]models.Order, error) {
		for i := range orders {
			if orders[i].ID == id {
				orders[i].Status = status
				return orders, nil
			}
		}
		return nil, fmt.Errorf("order with ID %s not found for status update: %w", id, ErrOrderNotFound)
	})
	metrics.ObserveStore("update_status", err)
	return err
}

// Delete removes every order with the given ID.
func (r *FileOrderRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.modify(func(orders []models.Order) ([]models.Order, error) {
		kept := make([]models.Order, 0, len(orders))
		for _, order := range orders {
			if order.ID != id {
				kept = append(kept, order)
			}
		}
		return kept, nil
	})
	metrics.ObserveStore("delete", err)
	return err
}

func (r *FileOrderRepository) modify(fn func([]models.Order) ([]models.Order, error)) error {
	orders, err := r.read()
	if err != nil {
		return err
	}
	orders, err = fn(orders)
	if err != nil {
		return err
	}
	return r.write(orders)
}

// read loads the file. A missing, empty or unparsable file reads as no orders.
func (r *FileOrderRepository) read() ([]models.Order, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Order{}, nil
		}
		return nil, fmt.Errorf("failed to read orders file: %w", err)
	}
	return decodeOrders(raw), nil
}

func (r *FileOrderRepository) write(orders []models.Order) error {
	if orders == nil {
		orders = []models.Order{}
	}
	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode orders: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write orders file: %w", err)
	}
	return nil
}

// decodeOrders accepts a top-level array, an {"orders": [...]} wrapper or an
// object keyed by anything. Elements that are not objects are dropped.
func decodeOrders(raw []byte) []models.Order {
	raw = bytes.TrimSpace(raw)
	orders := []models.Order{}
	if len(raw) == 0 {
		return orders
	}

	var elements []json.RawMessage
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &elements); err != nil {
			log.Printf("orders file parse error, treating as empty: %v", err)
			return orders
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			log.Printf("orders file parse error, treating as empty: %v", err)
			return orders
		}
		if wrapped, ok := obj["orders"]; ok && json.Unmarshal(wrapped, &elements) == nil {
			break
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			elements = append(elements, obj[k])
		}
	default:
		return orders
	}

	for _, element := range elements {
		order, ok := decodeOrder(element)
		if ok {
			orders = append(orders, order)
		}
	}
	return orders
}

// decodeOrder reads one stored order. Every object is kept: values of the
// wrong type are converted where possible and zeroed otherwise, and unknown
// fields are carried in Extra.
func decodeOrder(element json.RawMessage) (models.Order, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(element, &fields); err != nil || fields == nil {
		return models.Order{}, false
	}

	var order models.Order
	for key, raw := range fields {
		switch key {
		case "id":
			order.ID = scalarString(raw)
		case "reff_id":
			order.ReffID = scalarString(raw)
		case "nominal":
			order.Nominal, _ = catalog.ParseNumber(scalar(raw))
		case "type":
			order.Type = scalarString(raw)
		case "method":
			order.Method = scalarString(raw)
		case "status":
			order.Status = scalarString(raw)
		case "created_at":
			order.CreatedAt = timestamp(raw)
		case "expired_at":
			order.ExpiredAt = timestamp(raw)
		case "product":
			order.Product = value(raw)
		case "account_number":
			order.AccountNumber = scalarString(raw)
		case "destination_number":
			order.DestinationNumber = scalarString(raw)
		case "url":
			order.URL = scalarString(raw)
		case "qr_string":
			order.QRString = scalarString(raw)
		case "qr_image":
			order.QRImage = scalarString(raw)
		case "addition":
			order.Addition = value(raw)
		case "fee":
			order.Fee = value(raw)
		case "get_balance":
			order.GetBalance = value(raw)
		default:
			if order.Extra == nil {
				order.Extra = make(map[string]json.RawMessage)
			}
			order.Extra[key] = raw
		}
	}

	if order.ID == "" {
		order.ID = refs.Generate(refs.DefaultLength)
	}
	return order, true
}

// scalar decodes raw keeping numbers exact, so large ids survive.
func scalar(raw json.RawMessage) interface{} {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

func scalarString(raw json.RawMessage) string {
	return catalog.String(scalar(raw))
}

func value(raw json.RawMessage) interface{} {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// timestamp reads an RFC 3339 string or milliseconds since the epoch.
// Anything else reads as the zero time.
func timestamp(raw json.RawMessage) time.Time {
	switch v := scalar(raw).(type) {
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}
		}
		return t
	case json.Number:
		ms, err := v.Int64()
		if err != nil {
			return time.Time{}
		}
		return time.UnixMilli(ms).UTC()
	default:
		return time.Time{}
	}
}
