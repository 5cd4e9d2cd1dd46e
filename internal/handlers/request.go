package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// flexString accepts both JSON strings and JSON numbers, since storefront
// clients send prices and ids either way.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string {
	return strings.TrimSpace(string(f))
}

// parseBody decodes a JSON or form body into out. An empty body leaves out untouched.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

func invalidBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body for %s: %v", c.Path(), err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"ok":      false,
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// validationFailed answers 400 with message and the failing fields.
func validationFailed(c *fiber.Ctx, err error, message string) error {
	errorMessages := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"ok":      false,
		"message": message,
		"errors":  errorMessages,
	})
}

func failed(c *fiber.Ctx, message string, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"ok":      false,
		"message": message,
		"error":   err.Error(),
	})
}
