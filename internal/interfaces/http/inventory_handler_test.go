package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory/inventorytest"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Fabrica-api/internal/interfaces/http"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// inventoryApp monta las rutas de inventario sobre el store en memoria:
// material M (1 m³/u) y ubicaciones L1 (10 m³) y L2 (100 m³).
func inventoryApp(t *testing.T) (*fiber.App, *inventorytest.Store) {
	t.Helper()
	store := inventorytest.NewStore()
	store.AddWarehouse(entity.Warehouse{ID: "W1", Code: "W1", Capacity: d("200"), Active: true}).
		AddMaterial(entity.Material{ID: "M", Code: "MAT-1", Name: "Acero", Unit: entity.UnitKilogram,
			UnitPrice: d("4"), VolumePerUnit: d("1"), Active: true}).
		AddLocation(entity.StorageLocation{ID: "L1", WarehouseID: "W1", Name: "A", LocationType: entity.LocationTypeRack, Capacity: d("10"), Active: true}).
		AddLocation(entity.StorageLocation{ID: "L2", WarehouseID: "W1", Name: "B", LocationType: entity.LocationTypeFloor, Capacity: d("100"), Active: true})

	repos := store.Repos()
	proc := inventory.NewMovementProcessor(store, &inventorytest.Metrics{}, &inventorytest.Publisher{}, logger.Nop())
	h := apphttp.NewInventoryHandler(inventory.NewMovementUseCase(proc, repos.Stock, repos.Movements))

	app := fiber.New()
	inv := app.Group("/api/inventory", apphttp.AuthMiddleware(testJWTSecret))
	inv.Get("/stock", h.ListStock)
	inv.Get("/movements", h.ListMovements)
	inv.Post("/movements", apphttp.RequireRole(entity.RoleAdmin, entity.RoleAlmacenista, entity.RoleSupervisor), h.ApplyMovement)
	return app, store
}

func postMovement(t *testing.T, app *fiber.App, role, body string) (*http.Response, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/movements", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var errBody dto.ErrorResponse
	if resp.StatusCode >= 400 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	}
	return resp, errBody
}

func TestApplyMovement_RecepcionCreada(t *testing.T) {
	app, store := inventoryApp(t)

	resp, _ := postMovement(t, app, "almacenista",
		`{"material_id":"M","type":"receipt","quantity":"8","destination_location_id":"L1"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.MovementResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "M", out.MaterialID)
	assert.Equal(t, testUserID, out.PerformedBy)
	assert.NotEmpty(t, out.ReferenceNumber)
	assert.True(t, store.Quantity(entity.StockKey{MaterialID: "M", LocationID: "L1"}).Equal(d("8")))
}

func TestApplyMovement_ErroresDeDominio(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"capacidad insuficiente", `{"material_id":"M","type":"receipt","quantity":"11","destination_location_id":"L1"}`,
			http.StatusConflict, "INSUFFICIENT_CAPACITY"},
		{"salida sin registro de stock", `{"material_id":"M","type":"issue","quantity":"1","source_location_id":"L2"}`,
			http.StatusNotFound, "STOCK_RECORD_NOT_FOUND"},
		{"salida mayor al stock", `{"material_id":"M","type":"issue","quantity":"6","source_location_id":"L1"}`,
			http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"tipo desconocido", `{"material_id":"M","type":"scrap","quantity":"1","source_location_id":"L1"}`,
			http.StatusBadRequest, "VALIDATION"},
		{"material inexistente", `{"material_id":"X","type":"receipt","quantity":"1","destination_location_id":"L2"}`,
			http.StatusNotFound, "NOT_FOUND"},
		{"cuerpo inválido", `{"material_id":`, http.StatusBadRequest, "INVALID_BODY"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, _ := inventoryApp(t)
			seed, _ := postMovement(t, app, "admin",
				`{"material_id":"M","type":"receipt","quantity":"5","destination_location_id":"L1"}`)
			seed.Body.Close()
			require.Equal(t, http.StatusCreated, seed.StatusCode)

			resp, errBody := postMovement(t, app, "admin", tc.body)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, errBody.Code)
		})
	}
}

func TestApplyMovement_VendedorNoPuedeMoverStock(t *testing.T) {
	app, store := inventoryApp(t)

	resp, errBody := postMovement(t, app, "vendedor",
		`{"material_id":"M","type":"receipt","quantity":"1","destination_location_id":"L1"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errBody.Code)
	assert.Empty(t, store.Movements())
}

func TestListStock_FiltraPorUbicacion(t *testing.T) {
	app, _ := inventoryApp(t)
	for _, body := range []string{
		`{"material_id":"M","type":"receipt","quantity":"3","destination_location_id":"L1"}`,
		`{"material_id":"M","type":"receipt","quantity":"7","destination_location_id":"L2"}`,
	} {
		resp, _ := postMovement(t, app, "almacenista", body)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/stock?location_id=L2", nil)
	req.Header.Set("Authorization", tokenForRole(t, "vendedor"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.StockListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Items, 1)
	assert.Equal(t, "L2", out.Items[0].LocationID)
	assert.True(t, out.Items[0].Quantity.Equal(d("7")))
}

func TestListMovements_FechaInvalida(t *testing.T) {
	app, _ := inventoryApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/movements?from=ayer", nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
