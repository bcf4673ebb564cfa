package http

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// CacheMiddleware cachea en Redis las respuestas 200 de peticiones GET durante ttl.
// La clave incluye ruta, query y rol: usuarios de distinto rol no comparten entrada.
func CacheMiddleware(client redis.Cmdable, ttl time.Duration, log *logger.Logger) fiber.Handler {
	log = log.Component("cache")
	return func(c *fiber.Ctx) error {
		if client == nil || c.Method() != fiber.MethodGet {
			return c.Next()
		}

		key := cacheKey(c)
		ctx := c.UserContext()
		if cached, err := client.Get(ctx, key).Bytes(); err == nil && len(cached) > 0 {
			c.Set("X-Cache", "HIT")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(cached)
		}

		if err := c.Next(); err != nil {
			return err
		}
		if c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}
		body := append([]byte(nil), c.Response().Body()...)
		if err := client.Set(ctx, key, body, ttl).Err(); err != nil {
			log.Warn().Err(err).Str("path", c.Path()).Msg("no se pudo cachear la respuesta")
		}
		c.Set("X-Cache", "MISS")
		return nil
	}
}

func cacheKey(c *fiber.Ctx) string {
	raw := fmt.Sprintf("%s:%s:%s", c.Path(), string(c.Request().URI().QueryString()), GetRole(c))
	sum := sha256.Sum256([]byte(raw))
	return "fabrica:cache:" + hex.EncodeToString(sum[:])
}
