package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ApplyEntryUseCase aplica asientos de kardex de forma transaccional:
// inserta el asiento (append-only) y actualiza la proyección de stock en la
// misma transacción, con bloqueo de fila (SELECT FOR UPDATE) por (producto, bodega).
type ApplyEntryUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewApplyEntryUseCase construye el caso de uso.
func NewApplyEntryUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *ApplyEntryUseCase {
	return &ApplyEntryUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// ApplyInput entrada para aplicar un asiento de kardex.
// Delta es el cambio firmado de unidades. OccurredAt vacío usa la hora actual.
type ApplyInput struct {
	CompanyID   string
	ProductID   string
	WarehouseID string
	Delta       int64
	Reason      string
	OccurredAt  time.Time
}

// Apply valida la entrada, bloquea la fila de stock y aplica el asiento.
// Regla de no-negatividad: ningún asiento puede dejar el stock bajo cero salvo
// que su razón sea 'adjustment' (los ajustes concilian cualquier valor, incluso
// drift negativo). Los combos no admiten asientos: su stock es siempre derivado.
func (uc *ApplyEntryUseCase) Apply(ctx context.Context, input ApplyInput) (*entity.LedgerEntry, error) {
	if !entity.ValidReason(input.Reason) || input.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.ProductID == "" || input.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != input.CompanyID {
		return nil, domain.ErrForbidden
	}
	if product.IsBundle {
		// Un combo nunca tiene stock propio; vender un combo se registra
		// como asientos sobre sus componentes.
		return nil, domain.ErrInvalidInput
	}

	wh, _ := uc.warehouseRepo.GetByID(input.WarehouseID)
	if wh == nil || wh.CompanyID != input.CompanyID {
		return nil, domain.ErrNotFound
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	entry := &entity.LedgerEntry{
		ID:          uuid.New().String(),
		CompanyID:   input.CompanyID,
		ProductID:   input.ProductID,
		WarehouseID: input.WarehouseID,
		Delta:       input.Delta,
		Reason:      input.Reason,
		CreatedAt:   occurredAt,
	}

	// Inicia transacción; Commit si todo ok, Rollback si algo falla (TxRunner.Run lo hace)
	err = uc.txRunner.Run(ctx, func(
		entryRepo repository.LedgerEntryRepository,
		stockRepo repository.StockLevelRepository,
		_ repository.ProductRepository,
	) error {
		// Bloquea la fila en stock_levels (SELECT FOR UPDATE): los appliers
		// concurrentes sobre la misma llave quedan serializados.
		level, err := stockRepo.GetForUpdate(ctx, input.ProductID, input.WarehouseID)
		if err != nil {
			return err
		}
		newQty := level.Quantity + input.Delta
		if newQty < 0 && input.Reason != entity.ReasonAdjustment {
			return domain.ErrInsufficientStock
		}
		level.Quantity = newQty
		level.UpdatedAt = occurredAt
		if err := stockRepo.Upsert(ctx, level); err != nil {
			return err
		}
		return entryRepo.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
