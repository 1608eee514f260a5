// Package inventory contiene las reglas puras del libro de inventario: cómo un cambio
// modifica la cantidad y cuándo el resultado queda en o bajo el umbral.
package inventory

import (
	"fmt"

	"github.com/fiecl/barcode-inventory-management/internal/domain"
)

// Mode tipo de cambio de cantidad.
type Mode int

const (
	// ModeDecrement resta una cantidad positiva (escaneo / salida).
	ModeDecrement Mode = iota
	// ModeSetAbsolute reemplaza la cantidad (corrección manual).
	ModeSetAbsolute
)

func (m Mode) String() string {
	switch m {
	case ModeDecrement:
		return "decrement"
	case ModeSetAbsolute:
		return "set"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ApplyDelta calcula la nueva cantidad sin efectos secundarios.
//   - ModeDecrement: amount <= 0 -> ErrInvalidInput; amount > current -> ErrInsufficientStock.
//   - ModeSetAbsolute: un valor negativo se recorta a 0.
func ApplyDelta(current, amount int, mode Mode) (int, error) {
	switch mode {
	case ModeDecrement:
		if amount <= 0 {
			return current, domain.ErrInvalidInput
		}
		if amount > current {
			return current, domain.ErrInsufficientStock
		}
		return current - amount, nil
	case ModeSetAbsolute:
		if amount < 0 {
			return 0, nil
		}
		return amount, nil
	default:
		return current, domain.ErrInvalidInput
	}
}

// Crossed indica si la cantidad quedó en o bajo el umbral.
// Se evalúa en cada cambio, no solo en la primera bajada.
func Crossed(quantity, threshold int) bool {
	return quantity <= threshold
}
