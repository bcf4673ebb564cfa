package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const (
	defaultLimit = 20
	maxLimit     = 100
	dateLayout   = "2006-01-02"
)

// pagination lee limit/offset de la query con límites 1..100 y offset ≥ 0.
func pagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", defaultLimit)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// queryDate interpreta ?key=YYYY-MM-DD (o RFC3339). nil si no viene.
func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// queryDecimal interpreta ?key= como decimal; def si no viene.
func queryDecimal(c *fiber.Ctx, key string, def decimal.Decimal) (decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return decimal.NewFromString(raw)
}

// queryStartDate lee ?start_date=; tiempo cero si no viene (el caso de uso aplica su ventana).
func queryStartDate(c *fiber.Ctx) (time.Time, error) {
	t, err := queryDate(c, "start_date")
	if err != nil || t == nil {
		return time.Time{}, err
	}
	return *t, nil
}
