package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

// AuditRecorder persiste registros de auditoría.
type AuditRecorder interface {
	RecordAudit(ctx context.Context, log *entity.AuditLog) error
}

// auditActions método HTTP → acción auditada.
var auditActions = map[string]string{
	fiber.MethodGet:    "VIEW",
	fiber.MethodPost:   "CREATE",
	fiber.MethodPut:    "UPDATE",
	fiber.MethodPatch:  "UPDATE",
	fiber.MethodDelete: "DELETE",
}

// AuditMiddleware registra cada petición autenticada después de atenderla.
// Un fallo al escribir la auditoría se registra en el log y no altera la respuesta.
func AuditMiddleware(rec AuditRecorder, log *logger.Logger) fiber.Handler {
	log = log.Component("audit")
	return func(c *fiber.Ctx) error {
		err := c.Next()

		action, ok := auditActions[c.Method()]
		if !ok {
			return err
		}
		status := c.Response().StatusCode()
		if fe, isFiber := err.(*fiber.Error); isFiber {
			status = fe.Code
		}
		entry := &entity.AuditLog{
			ID:         uuid.New().String(),
			UserID:     GetUserID(c),
			Action:     action,
			Method:     c.Method(),
			Path:       c.Path(),
			StatusCode: status,
			IPAddress:  c.IP(),
			UserAgent:  c.Get(fiber.HeaderUserAgent),
			CreatedAt:  time.Now(),
		}
		if recErr := rec.RecordAudit(c.UserContext(), entry); recErr != nil {
			log.Error().Err(recErr).Str("path", entry.Path).Str("user_id", entry.UserID).Msg("no se pudo registrar la auditoría")
		}
		return err
	}
}
