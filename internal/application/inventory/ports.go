package inventory

import (
	"context"

	"github.com/fiecl/barcode-inventory-management/internal/application/notify"
	"github.com/fiecl/barcode-inventory-management/internal/domain/entity"
	"github.com/fiecl/barcode-inventory-management/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// El cambio de cantidad y su registro de auditoría se confirman o se descartan juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		auditRepo repository.AuditRepository,
	) error) error
}

// BarcodeRenderer genera la imagen PNG de un código (función pura del código).
type BarcodeRenderer interface {
	Render(barcode string) ([]byte, error)
}

// ArtifactStore guarda las imágenes generadas (disco local o S3).
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// LabelGenerator genera la etiqueta imprimible (PDF) de un producto.
type LabelGenerator interface {
	GenerateLabel(ctx context.Context, item *entity.Item) ([]byte, error)
}

// AlertPublisher encola una ronda de alertas sin bloquear. Lo implementa *notify.Dispatcher.
type AlertPublisher interface {
	Enqueue(alert notify.ThresholdAlert) bool
}

// StockEventPublisher difunde cambios de stock a clientes conectados (websocket).
type StockEventPublisher interface {
	PublishStock(item *entity.Item, crossed bool)
}
