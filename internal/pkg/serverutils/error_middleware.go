package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"flipkart-recommender/internal/apperr"
	"flipkart-recommender/internal/dto"
	"flipkart-recommender/internal/metrics"
	"flipkart-recommender/internal/pkg/logger"
)

// ErrorHandlerMiddleware maps application errors to the public error
// envelope. Internal diagnostic detail stays in the logs; callers only see
// the safe message.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		message := "An internal error occurred. Please try again later."
		errorType := "unknown"

		if appErr, ok := apperr.As(err); ok {
			errorType = appErr.ErrorType()
			switch appErr.Kind {
			case apperr.KindInvalidInput:
				status = fiber.StatusBadRequest
				message = appErr.Message
			case apperr.KindRetrievalUnavailable, apperr.KindGenerationUnavailable:
				status = fiber.StatusInternalServerError
				log.Error("chat", "dependency failure", map[string]interface{}{
					"dependency": appErr.Dependency,
					"session_id": ctx.Locals("session_id"),
					"error":      appErr.Err,
				})
			}
		} else {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
			log.Error("http", "unhandled error", map[string]interface{}{
				"path":  ctx.Path(),
				"error": err,
			})
		}

		if ctx.Path() == "/chat" {
			metrics.ChatErrorCount.WithLabelValues(errorType).Inc()
		}

		return ctx.Status(status).JSON(dto.ErrorResponse{
			Error:  message,
			Status: "error",
		})
	}
}
