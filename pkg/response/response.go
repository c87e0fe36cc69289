// Package response writes the {success, data|error} envelope every
// storefront endpoint answers with.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK writes a 200 success envelope. A typed nil data value is kept and
// rendered as "data": null.
func OK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func Error(c echo.Context, code int, msg string) error {
	return c.JSON(code, Envelope{Success: false, Error: msg})
}
