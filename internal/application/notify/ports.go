package notify

import (
	"context"
	"errors"
	"time"
)

// ErrDeliveryUnknown el envío se abandonó sin saber si llegó al servidor.
// El despachador no reintenta estos errores para no duplicar el correo.
var ErrDeliveryUnknown = errors.New("resultado del envío desconocido")

// ThresholdAlert foto del producto en el momento en que el cambio quedó en o bajo el umbral.
type ThresholdAlert struct {
	Barcode         string
	Name            string
	Quantity        int
	Threshold       int
	ReorderQuantity *int
	OccurredAt      time.Time
}

// Mailer transporte de correo: una llamada síncrona por destinatario.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// RecipientLister resuelve la lista actual de destinatarios.
type RecipientLister interface {
	ListEmails(ctx context.Context) ([]string, error)
}
