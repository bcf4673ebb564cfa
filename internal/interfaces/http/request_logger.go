package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

// RequestObserver recibe una observación por petición atendida (métricas).
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RequestLogger registra método, ruta, status, latencia y usuario de cada petición,
// y la reporta al observer si no es nil.
func RequestLogger(log *logger.Logger, obs RequestObserver) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		route := c.Route().Path
		if obs != nil {
			obs.ObserveRequest(c.Method(), route, status, elapsed)
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", elapsed).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return err
	}
}
