package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/bundles"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/forecast"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP del kardex: asientos,
// consultas de ventana, disponibilidad (incluye combos) y pronóstico (protegido).
type InventoryHandler struct {
	applyEntry *ledger.ApplyEntryUseCase
	queries    *ledger.Queries
	resolver   *bundles.Resolver
	engine     *forecast.Engine
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	applyEntry *ledger.ApplyEntryUseCase,
	queries *ledger.Queries,
	resolver *bundles.Resolver,
	engine *forecast.Engine,
) *InventoryHandler {
	return &InventoryHandler{applyEntry: applyEntry, queries: queries, resolver: resolver, engine: engine}
}

// ApplyEntry godoc
// @Summary      Aplicar asiento de kardex
// @Description  Registra un cambio firmado de stock (sale, restock, return, adjustment).
//
//	El asiento y la proyección se actualizan en la misma transacción.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyEntryRequest  true  "product_id, warehouse_id, delta, reason, occurred_at (opcional)"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/entries [post]
func (h *InventoryHandler) ApplyEntry(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ApplyEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	var occurredAt time.Time
	if in.OccurredAt != "" {
		t, err := time.Parse(time.RFC3339, in.OccurredAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "occurred_at debe ser RFC3339"})
		}
		occurredAt = t
	}
	entry, err := h.applyEntry.Apply(c.Context(), ledger.ApplyInput{
		CompanyID:   companyID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Delta:       in.Delta,
		Reason:      in.Reason,
		OccurredAt:  occurredAt,
	})
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos (delta ≠ 0, razón conocida, producto no combo)"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o bodega no encontrado"})
		}
		if err == domain.ErrForbidden {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		}
		if err == domain.ErrInsufficientStock {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "el asiento dejaría el stock en negativo"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.LedgerEntryResponse{
		ID:          entry.ID,
		ProductID:   entry.ProductID,
		WarehouseID: entry.WarehouseID,
		Delta:       entry.Delta,
		Reason:      entry.Reason,
		CreatedAt:   entry.CreatedAt,
	})
}

// ListEntries godoc
// @Summary      Kardex de un producto en una bodega
// @Description  Asientos en la ventana [since, until), orden cronológico ascendente.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "ID del producto"
// @Param        warehouse_id  query  string  true   "ID de la bodega"
// @Param        reason        query  string  false  "Filtrar por razón (sale, restock, return, adjustment)"
// @Param        since         query  string  false  "RFC3339; default: hace 30 días"
// @Param        until         query  string  false  "RFC3339; default: ahora"
// @Success      200  {object}  dto.LedgerWindowResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/entries [get]
func (h *InventoryHandler) ListEntries(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	until := time.Now().UTC()
	since := until.AddDate(0, 0, -30)
	if v := c.Query("until"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "until debe ser RFC3339"})
		}
		until = t
	}
	if v := c.Query("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "since debe ser RFC3339"})
		}
		since = t
	}

	entries, err := h.queries.EntriesInWindow(c.Context(), companyID, productID, warehouseID, c.Query("reason"), since, until)
	if err != nil {
		return kardexError(c, err)
	}
	out := dto.LedgerWindowResponse{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Since:       since,
		Until:       until,
		Entries:     make([]dto.LedgerEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, dto.LedgerEntryResponse{
			ID:          e.ID,
			ProductID:   e.ProductID,
			WarehouseID: e.WarehouseID,
			Delta:       e.Delta,
			Reason:      e.Reason,
			CreatedAt:   e.CreatedAt,
		})
	}
	return c.JSON(out)
}

// GetAvailability godoc
// @Summary      Disponibilidad vendible de un producto en una bodega
// @Description  Para productos físicos es la proyección del kardex; para combos
//
//	es el mínimo derivado recursivamente de sus componentes.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id            path   string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/availability [get]
func (h *InventoryHandler) GetAvailability(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Params("id")
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	snap, err := h.resolver.Snapshot(c.Context(), companyID)
	if err != nil {
		return kardexError(c, err)
	}
	product := snap.Product(productID)
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	available, err := snap.Availability(productID, warehouseID)
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(dto.AvailabilityResponse{
		ProductID:   productID,
		WarehouseID: warehouseID,
		IsBundle:    product.IsBundle,
		Available:   available,
	})
}

// GetForecast godoc
// @Summary      Pronóstico de quiebre de stock
// @Description  Tasa de venta sobre una ventana móvil y días hasta quiebre
//
//	(floor(stock / tasa)). days_until_stockout es null cuando no hay
//	consumo medible en la ventana.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id            path   string  true   "ID del producto"
// @Param        warehouse_id  query  string  true   "ID de la bodega"
// @Param        window_days   query  int     false  "Ventana en días"  default(30)
// @Success      200  {object}  dto.ForecastResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/forecast [get]
func (h *InventoryHandler) GetForecast(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Params("id")
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	windowDays := c.QueryInt("window_days", 0)
	out, err := h.engine.Forecast(c.Context(), companyID, productID, warehouseID, windowDays, time.Time{})
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(out)
}

// kardexError mapea errores de dominio del kardex/resolver a HTTP.
func kardexError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrForbidden:
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrBundleCycle:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BUNDLE_CYCLE", Message: "ciclo detectado en la composición del combo"})
	case domain.ErrBundleTooDeep:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BUNDLE_TOO_DEEP", Message: "profundidad máxima de combos excedida"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
