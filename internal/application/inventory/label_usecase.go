package inventory

import (
	"context"
	"fmt"

	"github.com/fiecl/barcode-inventory-management/internal/domain"
)

// LabelUseCase genera la etiqueta imprimible de un producto.
type LabelUseCase struct {
	ledger    *LedgerUseCase
	generator LabelGenerator
}

// NewLabelUseCase construye el caso de uso.
func NewLabelUseCase(ledger *LedgerUseCase, generator LabelGenerator) *LabelUseCase {
	return &LabelUseCase{ledger: ledger, generator: generator}
}

// Label devuelve el PDF de la etiqueta del producto.
func (uc *LabelUseCase) Label(ctx context.Context, barcode string) ([]byte, error) {
	item, err := uc.ledger.GetItem(ctx, barcode)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.generator.GenerateLabel(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("%w: generar etiqueta: %v", domain.ErrStorage, err)
	}
	return pdf, nil
}
