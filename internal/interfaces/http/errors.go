package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/perfumes-admin-api/internal/application/dto"
	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/pkg/logger"
)

type shortageDetail struct {
	ProductID int64 `json:"product_id"`
	Available int64 `json:"available"`
	Requested int64 `json:"requested"`
}

// mapError traduce un error de dominio a status + cuerpo. ok=false para errores no previstos.
func mapError(err error) (status int, body dto.ErrorResponse, ok bool) {
	var (
		missing    *domain.MissingProductsError
		shortage   *domain.InsufficientStockError
		validation *domain.ValidationError
	)
	switch {
	case errors.As(err, &missing):
		return fiber.StatusNotFound, dto.ErrorResponse{
			Code: "NOT_FOUND", Message: err.Error(),
			Details: fiber.Map{"missing_product_ids": missing.IDs},
		}, true
	case errors.As(err, &shortage):
		details := make([]shortageDetail, 0, len(shortage.Shortages))
		for _, s := range shortage.Shortages {
			details = append(details, shortageDetail{ProductID: s.ProductID, Available: s.Available, Requested: s.Requested})
		}
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error(), Details: details}, true
	case errors.As(err, &validation):
		body := dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
		if validation.Field != "" {
			body.Details = fiber.Map{"field": validation.Field}
		}
		return fiber.StatusBadRequest, body, true
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()}, true
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}, true
	case errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "ALREADY_EXISTS", Message: err.Error()}, true
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}, true
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}, true
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()}, true
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()}, true
	}
	return 0, dto.ErrorResponse{}, false
}

// respondError responde errores de dominio; el resto sube al ErrorHandler de la app.
func respondError(c *fiber.Ctx, err error) error {
	status, body, ok := mapError(err)
	if !ok {
		return err
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler último recurso de la app: errores de fiber conservan su status,
// lo demás es 500 INTERNAL y el detalle solo se expone si exposeInternal.
func ErrorHandler(log *logger.Logger, exposeInternal bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if status, body, ok := mapError(err); ok {
			return c.Status(status).JSON(body)
		}
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = "NOT_FOUND"
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			case fiber.StatusRequestEntityTooLarge:
				code = "PAYLOAD_TOO_LARGE"
			case fiber.StatusBadRequest:
				code = "INVALID_BODY"
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}

		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		msg := "error interno"
		if exposeInternal {
			msg = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: msg})
	}
}
