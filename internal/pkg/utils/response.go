package utils

import (
	"github.com/ev-station-service/internal/pkg/errors"
	"github.com/gofiber/fiber/v2"
)

type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Errors  []errors.FieldError `json:"errors,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}) error {
	return c.JSON(SuccessResponse{
		Success: true,
		Data:    data,
	})
}

// SendMessage отправляет успешный ответ с сообщением и произвольным статусом
func SendMessage(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := errors.As(err); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Success: false,
			Message: appErr.Message,
			Code:    appErr.Code,
			Errors:  appErr.Fields,
		})
	}

	// Unknown error - return 500
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Success: false,
		Message: errors.ErrInternalServer.Message,
		Code:    errors.ErrInternalServer.Code,
	})
}
