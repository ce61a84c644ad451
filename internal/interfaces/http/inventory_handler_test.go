package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Kardex-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos para montar el handler de asientos sin base de datos
// ──────────────────────────────────────────────────────────────────────────────

type kardexProductos struct{ byID map[string]*entity.Product }

func (k *kardexProductos) Create(*entity.Product) error               { return nil }
func (k *kardexProductos) GetByID(id string) (*entity.Product, error) { return k.byID[id], nil }
func (k *kardexProductos) GetByCompanyAndSKU(string, string) (*entity.Product, error) {
	return nil, nil
}
func (k *kardexProductos) Update(*entity.Product) error { return nil }
func (k *kardexProductos) ListByCompany(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (k *kardexProductos) ListAllByCompany(context.Context, string) ([]*entity.Product, error) {
	return nil, nil
}
func (k *kardexProductos) Delete(string) error { return nil }

type kardexBodegas struct{ byID map[string]*entity.Warehouse }

func (k *kardexBodegas) Create(*entity.Warehouse) error { return nil }
func (k *kardexBodegas) GetByID(id string) (*entity.Warehouse, error) {
	return k.byID[id], nil
}
func (k *kardexBodegas) GetByIDs([]string) (map[string]*entity.Warehouse, error) {
	return k.byID, nil
}
func (k *kardexBodegas) Update(*entity.Warehouse) error { return nil }
func (k *kardexBodegas) ListByCompany(string, int, int) ([]*entity.Warehouse, error) {
	return nil, nil
}
func (k *kardexBodegas) Delete(string) error { return nil }

type kardexStock struct{ niveles map[string]int64 }

func (k *kardexStock) Get(_ context.Context, p, w string) (*entity.StockLevel, error) {
	return &entity.StockLevel{ProductID: p, WarehouseID: w, Quantity: k.niveles[p+"|"+w]}, nil
}
func (k *kardexStock) GetForUpdate(ctx context.Context, p, w string) (*entity.StockLevel, error) {
	return k.Get(ctx, p, w)
}
func (k *kardexStock) Upsert(_ context.Context, l *entity.StockLevel) error {
	k.niveles[l.ProductID+"|"+l.WarehouseID] = l.Quantity
	return nil
}
func (k *kardexStock) ListByCompany(context.Context, string) ([]*entity.StockLevel, error) {
	return nil, nil
}

type kardexAsientos struct{ asientos []*entity.LedgerEntry }

func (k *kardexAsientos) Create(_ context.Context, e *entity.LedgerEntry) error {
	cp := *e
	k.asientos = append(k.asientos, &cp)
	return nil
}
func (k *kardexAsientos) ListInWindow(context.Context, string, string, string, time.Time, time.Time) ([]*entity.LedgerEntry, error) {
	return nil, nil
}
func (k *kardexAsientos) SumSalesByCompany(context.Context, string, time.Time, time.Time) ([]repository.SalesTotal, error) {
	return nil, nil
}

type kardexTx struct {
	asientos  *kardexAsientos
	stock     *kardexStock
	productos *kardexProductos
}

func (k *kardexTx) Run(_ context.Context, fn func(
	entryRepo repository.LedgerEntryRepository,
	stockRepo repository.StockLevelRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(k.asientos, k.stock, k.productos)
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

func montarKardex(t *testing.T) (*fiber.App, *kardexAsientos) {
	t.Helper()
	productos := &kardexProductos{byID: map[string]*entity.Product{
		"p1": {ID: "p1", CompanyID: "empresa-1", SKU: "SKU-1", Name: "Café"},
	}}
	bodegas := &kardexBodegas{byID: map[string]*entity.Warehouse{
		"b1": {ID: "b1", CompanyID: "empresa-1", Name: "Central"},
	}}
	asientos := &kardexAsientos{}
	stock := &kardexStock{niveles: make(map[string]int64)}
	uc := ledger.NewApplyEntryUseCase(&kardexTx{asientos: asientos, stock: stock, productos: productos}, productos, bodegas)
	handler := apphttp.NewInventoryHandler(uc, nil, nil, nil)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(apphttp.LocalCompanyID, "empresa-1")
		return c.Next()
	})
	app.Post("/api/inventory/entries", handler.ApplyEntry)
	return app, asientos
}

func postAsiento(t *testing.T, app *fiber.App, body dto.ApplyEntryRequest) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, "/api/inventory/entries", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// occurred_at permite registrar el asiento con la hora real del evento
// (backfill); el asiento persiste ese instante, no la hora del servidor.
func TestApplyEntry_OccurredAtRetroactivo(t *testing.T) {
	app, asientos := montarKardex(t)
	ayer := time.Now().UTC().Add(-24 * time.Hour).Truncate(time.Second)

	resp := postAsiento(t, app, dto.ApplyEntryRequest{
		ProductID: "p1", WarehouseID: "b1", Delta: 10, Reason: entity.ReasonRestock,
		OccurredAt: ayer.Format(time.RFC3339),
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out dto.LedgerEntryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.CreatedAt.Equal(ayer), "el asiento debe conservar occurred_at, obtuve %s", out.CreatedAt)

	require.Len(t, asientos.asientos, 1)
	assert.True(t, asientos.asientos[0].CreatedAt.Equal(ayer))
}

func TestApplyEntry_OccurredAtMalformado(t *testing.T) {
	app, asientos := montarKardex(t)

	resp := postAsiento(t, app, dto.ApplyEntryRequest{
		ProductID: "p1", WarehouseID: "b1", Delta: 10, Reason: entity.ReasonRestock,
		OccurredAt: "ayer a las tres",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, asientos.asientos, "un occurred_at inválido no debe generar asiento")
}

// Sin occurred_at el asiento usa la hora del servidor.
func TestApplyEntry_SinOccurredAtUsaHoraDelServidor(t *testing.T) {
	app, _ := montarKardex(t)
	antes := time.Now().UTC().Add(-time.Minute)

	resp := postAsiento(t, app, dto.ApplyEntryRequest{
		ProductID: "p1", WarehouseID: "b1", Delta: 10, Reason: entity.ReasonRestock,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out dto.LedgerEntryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.CreatedAt.After(antes), "sin occurred_at se usa la hora actual")
}
