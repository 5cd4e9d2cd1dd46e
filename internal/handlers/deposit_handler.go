package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"tokotopup/internal/atlantic"
	"tokotopup/internal/services"
)

// DepositHandler proxies deposit and transaction requests.
type DepositHandler struct {
	service  *services.DepositService
	validate *validator.Validate
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(service *services.DepositService) *DepositHandler {
	return &DepositHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the deposit and transaction routes.
func (h *DepositHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/deposit-methods", h.HandleDepositMethods)
	router.Post("/create-deposit", h.HandleCreateDeposit)
	router.Post("/deposit-status", h.HandleDepositStatus)
	router.Post("/deposit-cancel", h.HandleDepositCancel)
	router.Post("/transaction-create", h.HandleTransactionCreate)
	router.Post("/transaction-status", h.HandleTransactionStatus)
}

type depositMethodsRequest struct {
	Type   string `json:"type" form:"type"`
	Method string `json:"method" form:"method"`
}

type createDepositRequest struct {
	Price   flexString  `json:"price" form:"price" validate:"required"`
	Type    string      `json:"type" form:"type"`
	Method  string      `json:"method" form:"method"`
	Phone   flexString  `json:"phone" form:"phone"`
	Product interface{} `json:"product" form:"-"`
}

type idRequest struct {
	ID   flexString `json:"id" form:"id" validate:"required"`
	Type string     `json:"type" form:"type"`
}

type transactionCreateRequest struct {
	ReffID flexString `json:"reff_id" form:"reff_id" validate:"required"`
	Code   flexString `json:"code" form:"code" validate:"required"`
	Target flexString `json:"target" form:"target" validate:"required"`
}

// HandleDepositMethods lists the deposit methods, QRIS first.
func (h *DepositHandler) HandleDepositMethods(c *fiber.Ctx) error {
	var req depositMethodsRequest
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c, err)
	}

	result, err := h.service.Methods(c.UserContext(), req.Type, req.Method)
	if err != nil {
		log.Printf("deposit-methods proxy error: %v", err)
		var detail interface{} = fiber.Map{"message": err.Error()}
		var apiErr *atlantic.APIError
		if errors.As(err, &apiErr) {
			detail = apiErr.Body
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":      false,
			"message": "fetch deposit methods failed",
			"error":   detail,
		})
	}
	return c.JSON(result)
}

// HandleCreateDeposit opens a deposit for the requested price.
func (h *DepositHandler) HandleCreateDeposit(c *fiber.Ctx) error {
	var req createDepositRequest
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err, services.ErrPriceRequired.Error())
	}

	result, err := h.service.CreateDeposit(c.UserContext(), services.DepositInput{
		Price:   req.Price.String(),
		Type:    req.Type,
		Method:  req.Method,
		Phone:   req.Phone.String(),
		Product: req.Product,
	})
	if err != nil {
		log.Printf("create-deposit error: %v", err)
		if errors.Is(err, services.ErrPriceRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"ok":      false,
				"message": err.Error(),
			})
		}
		var rejected *services.UpstreamRejectedError
		if errors.As(err, &rejected) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"ok":      false,
				"message": rejected.Message,
				"raw":     rejected.Raw,
			})
		}
		return failed(c, "create deposit failed", err)
	}

	return c.JSON(fiber.Map{
		"ok":       true,
		"reff_id":  result.ReffID,
		"price":    result.Price,
		"deposit":  result.Deposit,
		"order_id": result.OrderID,
	})
}

func (h *DepositHandler) parseID(c *fiber.Ctx) (*idRequest, error) {
	var req idRequest
	if err := parseBody(c, &req); err != nil {
		return nil, invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, validationFailed(c, err, "id required")
	}
	return &req, nil
}

// HandleDepositStatus returns the provider's deposit status.
func (h *DepositHandler) HandleDepositStatus(c *fiber.Ctx) error {
	req, errResp := h.parseID(c)
	if req == nil {
		return errResp
	}

	payload, err := h.service.DepositStatus(c.UserContext(), req.ID.String())
	if err != nil {
		log.Printf("deposit-status error: %v", err)
		return failed(c, "deposit status failed", err)
	}
	return c.JSON(fiber.Map{"ok": true, "data": payload})
}

// HandleDepositCancel cancels a deposit.
func (h *DepositHandler) HandleDepositCancel(c *fiber.Ctx) error {
	req, errResp := h.parseID(c)
	if req == nil {
		return errResp
	}

	payload, err := h.service.CancelDeposit(c.UserContext(), req.ID.String())
	if err != nil {
		log.Printf("deposit-cancel error: %v", err)
		return failed(c, "cancel failed", err)
	}
	return c.JSON(fiber.Map{"ok": true, "data": payload})
}

// HandleTransactionCreate buys a product with the deposit balance.
func (h *DepositHandler) HandleTransactionCreate(c *fiber.Ctx) error {
	var req transactionCreateRequest
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err, "reff_id, code, target required")
	}

	data, err := h.service.CreateTransaction(c.UserContext(), services.TransactionInput{
		ReffID: req.ReffID.String(),
		Code:   req.Code.String(),
		Target: req.Target.String(),
	})
	if err != nil {
		log.Printf("transaction-create error: %v", err)
		var rejected *services.UpstreamRejectedError
		if errors.As(err, &rejected) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"ok":      false,
				"message": rejected.Message,
				"raw":     rejected.Raw,
			})
		}
		return failed(c, "transaksi create failed", err)
	}
	return c.JSON(fiber.Map{"ok": true, "data": data})
}

// HandleTransactionStatus returns the provider's transaction status.
func (h *DepositHandler) HandleTransactionStatus(c *fiber.Ctx) error {
	req, errResp := h.parseID(c)
	if req == nil {
		return errResp
	}

	payload, err := h.service.TransactionStatus(c.UserContext(), req.ID.String(), req.Type)
	if err != nil {
		log.Printf("transaction-status error: %v", err)
		return failed(c, "transaksi status failed", err)
	}
	return c.JSON(fiber.Map{"ok": true, "data": payload})
}
