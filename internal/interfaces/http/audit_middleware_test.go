package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Fabrica-api/internal/interfaces/http"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

type auditRecorder struct {
	mu   sync.Mutex
	logs []*entity.AuditLog
	err  error
}

func (r *auditRecorder) RecordAudit(_ context.Context, log *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.logs = append(r.logs, log)
	return nil
}

func auditApp(rec apphttp.AuditRecorder) *fiber.App {
	app := fiber.New()
	api := app.Group("/api", apphttp.AuthMiddleware(testJWTSecret), apphttp.AuditMiddleware(rec, logger.Nop()))
	api.Get("/materials", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	api.Post("/materials", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })
	api.Patch("/materials/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	api.Delete("/materials/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	return app
}

func TestAuditMiddleware_MapeaMetodoAAccion(t *testing.T) {
	cases := []struct {
		method string
		path   string
		action string
		status int
	}{
		{http.MethodGet, "/api/materials", "VIEW", http.StatusOK},
		{http.MethodPost, "/api/materials", "CREATE", http.StatusCreated},
		{http.MethodPatch, "/api/materials/m1", "UPDATE", http.StatusOK},
		{http.MethodDelete, "/api/materials/m1", "DELETE", http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.action, func(t *testing.T) {
			rec := &auditRecorder{}
			app := auditApp(rec)

			req := httptest.NewRequest(tc.method, tc.path, nil)
			req.Header.Set("Authorization", tokenForRole(t, "admin"))
			req.Header.Set("User-Agent", "test-agent")
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			require.Len(t, rec.logs, 1)
			got := rec.logs[0]
			assert.Equal(t, tc.action, got.Action)
			assert.Equal(t, tc.method, got.Method)
			assert.Equal(t, tc.path, got.Path)
			assert.Equal(t, tc.status, got.StatusCode)
			assert.Equal(t, testUserID, got.UserID)
			assert.Equal(t, "test-agent", got.UserAgent)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestAuditMiddleware_ErrorAlGuardarNoAfectaLaRespuesta(t *testing.T) {
	rec := &auditRecorder{err: errors.New("db caída")}
	app := auditApp(rec)

	req := httptest.NewRequest(http.MethodPost, "/api/materials", nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAuditMiddleware_SinTokenNoAudita(t *testing.T) {
	rec := &auditRecorder{}
	app := auditApp(rec)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/materials", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, rec.logs)
}
