package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagination_Limites(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", defaultLimit, 0},
		{"?limit=50&offset=10", 50, 10},
		{"?limit=500", maxLimit, 0},
		{"?limit=0&offset=-3", defaultLimit, 0},
		{"?limit=abc", defaultLimit, 0},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			app := fiber.New()
			var gotLimit, gotOffset int
			app.Get("/", func(c *fiber.Ctx) error {
				gotLimit, gotOffset = pagination(c)
				return nil
			})
			_, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tc.query, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.wantLimit, gotLimit)
			assert.Equal(t, tc.wantOffset, gotOffset)
		})
	}
}

func TestQueryStartDate(t *testing.T) {
	cases := []struct {
		query   string
		want    time.Time
		wantErr bool
	}{
		{"", time.Time{}, false},
		{"?start_date=2026-03-01", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"?start_date=01/03/2026", time.Time{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			app := fiber.New()
			var got time.Time
			var gotErr error
			app.Get("/", func(c *fiber.Ctx) error {
				got, gotErr = queryStartDate(c)
				return nil
			})
			_, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tc.query, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.wantErr, gotErr != nil)
			assert.True(t, tc.want.Equal(got), "obtuvo %s", got)
		})
	}
}

func TestRespondError_Mapeo(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: cantidad", domain.ErrInvalidInput), http.StatusBadRequest, "VALIDATION"},
		{fmt.Errorf("%w: material", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{fmt.Errorf("%w: L1", domain.ErrInsufficientStock), http.StatusConflict, "INSUFFICIENT_STOCK"},
		{domain.ErrInsufficientCapacity, http.StatusConflict, "INSUFFICIENT_CAPACITY"},
		{domain.ErrStockRecordNotFound, http.StatusNotFound, "STOCK_RECORD_NOT_FOUND"},
		{domain.ErrInsufficientMaterials, http.StatusConflict, "INSUFFICIENT_MATERIALS"},
		{domain.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{fmt.Errorf("conexión rechazada"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tc.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)

			body := make([]byte, 512)
			n, _ := resp.Body.Read(body)
			assert.Contains(t, string(body[:n]), `"code":"`+tc.code+`"`)
		})
	}
}
