// Package inventory orquesta el libro de inventario: alta de productos con código asignado,
// cambios de cantidad con auditoría en la misma transacción y aviso de reposición después del commit.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fiecl/barcode-inventory-management/internal/application/notify"
	"github.com/fiecl/barcode-inventory-management/internal/domain"
	"github.com/fiecl/barcode-inventory-management/internal/domain/entity"
	"github.com/fiecl/barcode-inventory-management/internal/domain/inventory"
	"github.com/fiecl/barcode-inventory-management/internal/domain/repository"
	"github.com/fiecl/barcode-inventory-management/pkg/logger"
	"github.com/fiecl/barcode-inventory-management/pkg/metrics"
)

// UnknownActor se registra cuando el cliente no indica quién escaneó.
const UnknownActor = "unknown"

// LedgerDeps dependencias del libro. Events es opcional.
type LedgerDeps struct {
	Tx        TxRunner
	Items     repository.ItemRepository
	Allocator *IdentifierAllocator
	Renderer  BarcodeRenderer
	Artifacts ArtifactStore
	Alerts    AlertPublisher
	Events    StockEventPublisher
	Metrics   *metrics.Metrics
	Logger    *logger.Logger
}

// LedgerUseCase casos de uso del libro de inventario.
type LedgerUseCase struct {
	tx        TxRunner
	items     repository.ItemRepository
	allocator *IdentifierAllocator
	renderer  BarcodeRenderer
	artifacts ArtifactStore
	alerts    AlertPublisher
	events    nilSafeEvents
	metrics   *metrics.Metrics
	log       *logger.Logger
	now       func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(d LedgerDeps) *LedgerUseCase {
	return &LedgerUseCase{
		tx:        d.Tx,
		items:     d.Items,
		allocator: d.Allocator,
		renderer:  d.Renderer,
		artifacts: d.Artifacts,
		alerts:    d.Alerts,
		events:    nilSafeEvents{d.Events},
		metrics:   d.Metrics,
		log:       d.Logger.Named("ledger"),
		now:       time.Now,
	}
}

// CreateItemInput datos de alta. Threshold nil usa entity.DefaultThreshold.
type CreateItemInput struct {
	Name            string
	Quantity        int
	Threshold       *int
	ReorderQuantity *int
	Classification  *string
}

// UpdateItemInput cambios de detalle; los campos nil no se tocan.
type UpdateItemInput struct {
	Name            *string
	Threshold       *int
	ReorderQuantity *int
	Classification  *string
}

// DecrementInput escaneo de salida.
type DecrementInput struct {
	Barcode   string
	Amount    int
	Purpose   string
	ScannedBy string
}

// SetQuantityInput corrección manual de la cantidad.
type SetQuantityInput struct {
	Barcode   string
	Quantity  int
	Purpose   string
	ScannedBy string
}

// MutationResult estado confirmado tras un cambio de cantidad.
type MutationResult struct {
	Item    *entity.Item
	Crossed bool
	Entry   *entity.AuditEntry
}

// CreateItem asigna un código, genera su imagen y persiste el producto.
func (uc *LedgerUseCase) CreateItem(ctx context.Context, in CreateItemInput) (*entity.Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	threshold := entity.DefaultThreshold
	if in.Threshold != nil {
		threshold = *in.Threshold
	}
	if threshold < 0 || (in.ReorderQuantity != nil && *in.ReorderQuantity < 0) {
		return nil, domain.ErrInvalidInput
	}

	code, err := uc.allocator.Allocate(ctx)
	if err != nil {
		return nil, err
	}

	img, err := uc.renderer.Render(code)
	if err != nil {
		return nil, fmt.Errorf("%w: generar imagen: %v", domain.ErrStorage, err)
	}
	key := ArtifactKey(code)
	if err := uc.artifacts.Put(ctx, key, img, "image/png"); err != nil {
		return nil, fmt.Errorf("%w: guardar imagen: %v", domain.ErrStorage, err)
	}

	now := uc.now()
	item := &entity.Item{
		Barcode:         code,
		Name:            name,
		Quantity:        in.Quantity,
		Threshold:       threshold,
		ReorderQuantity: in.ReorderQuantity,
		Classification:  in.Classification,
		ArtifactKey:     &key,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.items.Create(ctx, item); err != nil {
		_ = uc.artifacts.Delete(ctx, key)
		return nil, storageErr(err)
	}
	uc.log.Info().Str("barcode", code).Str("name", name).Int("quantity", item.Quantity).Msg("producto creado")
	uc.events.publish(item, false)
	return item, nil
}

// GetItem busca por código. domain.ErrNotFound si no existe.
func (uc *LedgerUseCase) GetItem(ctx context.Context, barcode string) (*entity.Item, error) {
	item, err := uc.items.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, storageErr(err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ListItems devuelve todos los productos.
func (uc *LedgerUseCase) ListItems(ctx context.Context) ([]*entity.Item, error) {
	list, err := uc.items.List(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	return list, nil
}

// UpdateItem cambia nombre, umbral, cantidad sugerida o clasificación.
// Un cambio de umbral no dispara alertas: solo los cambios de cantidad lo hacen.
func (uc *LedgerUseCase) UpdateItem(ctx context.Context, barcode string, in UpdateItemInput) (*entity.Item, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if (in.Threshold != nil && *in.Threshold < 0) || (in.ReorderQuantity != nil && *in.ReorderQuantity < 0) {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Item
	err := uc.tx.Run(ctx, func(items repository.ItemRepository, _ repository.AuditRepository) error {
		item, err := items.GetForUpdate(ctx, barcode)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			item.Name = strings.TrimSpace(*in.Name)
		}
		if in.Threshold != nil {
			item.Threshold = *in.Threshold
		}
		if in.ReorderQuantity != nil {
			item.ReorderQuantity = in.ReorderQuantity
		}
		if in.Classification != nil {
			item.Classification = in.Classification
		}
		item.UpdatedAt = uc.now()
		if err := items.UpdateDetails(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	uc.events.publish(updated, false)
	return updated, nil
}

// DecrementQuantity resta Amount unidades. Amount <= 0 se rechaza antes de tocar el almacén.
func (uc *LedgerUseCase) DecrementQuantity(ctx context.Context, in DecrementInput) (*MutationResult, error) {
	if in.Amount <= 0 {
		uc.metrics.RejectedMutations.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidInput
	}
	return uc.mutate(ctx, in.Barcode, in.Amount, inventory.ModeDecrement, orDefault(in.Purpose, entity.PurposeScan), in.ScannedBy)
}

// SetQuantity reemplaza la cantidad; un valor negativo queda en 0.
func (uc *LedgerUseCase) SetQuantity(ctx context.Context, in SetQuantityInput) (*MutationResult, error) {
	return uc.mutate(ctx, in.Barcode, in.Quantity, inventory.ModeSetAbsolute, orDefault(in.Purpose, entity.PurposeCorrection), in.ScannedBy)
}

// mutate: bloqueo de fila, regla del libro, actualización y auditoría en una transacción.
// La alerta se encola solo después del commit.
func (uc *LedgerUseCase) mutate(ctx context.Context, barcode string, amount int, mode inventory.Mode, purpose, actor string) (*MutationResult, error) {
	var res MutationResult
	err := uc.tx.Run(ctx, func(items repository.ItemRepository, audits repository.AuditRepository) error {
		item, err := items.GetForUpdate(ctx, barcode)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		previous := item.Quantity
		next, err := inventory.ApplyDelta(previous, amount, mode)
		if err != nil {
			return err
		}
		if err := items.UpdateQuantity(ctx, barcode, next); err != nil {
			return err
		}
		now := uc.now()
		item.Quantity = next
		item.UpdatedAt = now

		entry := &entity.AuditEntry{
			ItemID:         item.ID,
			Barcode:        item.Barcode,
			ItemName:       item.Name,
			Purpose:        purpose,
			ScannedBy:      orDefault(actor, UnknownActor),
			ScannedAt:      now,
			Quantity:       next,
			Threshold:      item.Threshold,
			DecrementedBy:  previous - next,
			Classification: item.Classification,
		}
		if err := audits.Create(ctx, entry); err != nil {
			return err
		}
		res = MutationResult{Item: item, Crossed: inventory.Crossed(next, item.Threshold), Entry: entry}
		return nil
	})
	if err != nil {
		uc.metrics.RejectedMutations.WithLabelValues(rejectReason(err)).Inc()
		return nil, storageErr(err)
	}

	uc.metrics.Mutations.WithLabelValues(mode.String()).Inc()
	uc.log.Info().
		Str("barcode", barcode).
		Str("mode", mode.String()).
		Int("quantity", res.Item.Quantity).
		Int("threshold", res.Item.Threshold).
		Bool("crossed", res.Crossed).
		Msg("cantidad actualizada")

	uc.events.publish(res.Item, res.Crossed)
	if res.Crossed {
		uc.metrics.Crossings.Inc()
		uc.signal(res.Item)
	}
	return &res, nil
}

func (uc *LedgerUseCase) signal(item *entity.Item) {
	if uc.alerts == nil {
		return
	}
	uc.alerts.Enqueue(notify.ThresholdAlert{
		Barcode:         item.Barcode,
		Name:            item.Name,
		Quantity:        item.Quantity,
		Threshold:       item.Threshold,
		ReorderQuantity: item.ReorderQuantity,
		OccurredAt:      item.UpdatedAt,
	})
}

// DeleteItem borra el producto y su historial. La imagen se libera sin bloquear el borrado.
func (uc *LedgerUseCase) DeleteItem(ctx context.Context, barcode string) error {
	item, err := uc.items.GetByBarcode(ctx, barcode)
	if err != nil {
		return storageErr(err)
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if err := uc.items.Delete(ctx, barcode); err != nil {
		return storageErr(err)
	}
	key := ArtifactKey(barcode)
	if item.ArtifactKey != nil {
		key = *item.ArtifactKey
	}
	if err := uc.artifacts.Delete(ctx, key); err != nil {
		uc.log.Warn().Err(err).Str("barcode", barcode).Msg("no se pudo borrar la imagen del código")
	}
	uc.log.Info().Str("barcode", barcode).Msg("producto eliminado")
	return nil
}

// BarcodeImage devuelve el PNG del código. Si la imagen se perdió se vuelve a generar y guardar.
func (uc *LedgerUseCase) BarcodeImage(ctx context.Context, barcode string) ([]byte, error) {
	item, err := uc.GetItem(ctx, barcode)
	if err != nil {
		return nil, err
	}
	key := ArtifactKey(item.Barcode)
	if item.ArtifactKey != nil {
		key = *item.ArtifactKey
	}
	data, err := uc.artifacts.Get(ctx, key)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: leer imagen: %v", domain.ErrStorage, err)
	}
	data, err = uc.renderer.Render(item.Barcode)
	if err != nil {
		return nil, fmt.Errorf("%w: generar imagen: %v", domain.ErrStorage, err)
	}
	if err := uc.artifacts.Put(ctx, key, data, "image/png"); err != nil {
		uc.log.Warn().Err(err).Str("barcode", barcode).Msg("no se pudo guardar la imagen regenerada")
	}
	return data, nil
}

// ArtifactKey clave de la imagen de un código en el almacén.
func ArtifactKey(barcode string) string {
	return barcode + ".png"
}

type nilSafeEvents struct{ StockEventPublisher }

func (p nilSafeEvents) publish(item *entity.Item, crossed bool) {
	if p.StockEventPublisher != nil && item != nil {
		p.PublishStock(item.Clone(), crossed)
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "storage"
	}
}

// storageErr deja pasar los errores de dominio y envuelve el resto como domain.ErrStorage.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		domain.ErrNotFound, domain.ErrInvalidInput, domain.ErrInsufficientStock,
		domain.ErrAllocationExhausted, domain.ErrDuplicate, domain.ErrStorage, domain.ErrUnauthorized,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrStorage, err)
}
