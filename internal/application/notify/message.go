package notify

import (
	"fmt"
	"strings"
)

// Compose arma asunto y cuerpo del correo de reposición.
func Compose(a ThresholdAlert) (subject, body string) {
	subject = fmt.Sprintf("Alerta de reposición: %s", a.Name)

	var b strings.Builder
	b.WriteString("Estimado/a responsable de inventario:\n\n")
	b.WriteString("Esta es una notificación automática sobre el inventario.\n\n")
	fmt.Fprintf(&b, "Producto: %s\n", a.Name)
	fmt.Fprintf(&b, "Código: %s\n", a.Barcode)
	fmt.Fprintf(&b, "Cantidad actual: %d\n", a.Quantity)
	fmt.Fprintf(&b, "Umbral: %d\n", a.Threshold)
	if a.ReorderQuantity != nil && *a.ReorderQuantity > 0 {
		fmt.Fprintf(&b, "Cantidad sugerida de pedido: %d\n", *a.ReorderQuantity)
	}
	if !a.OccurredAt.IsZero() {
		fmt.Fprintf(&b, "Fecha: %s\n", a.OccurredAt.Format("2006-01-02 15:04:05"))
	}
	b.WriteString("\nEl stock llegó o bajó del umbral definido. ")
	b.WriteString("Por favor reponga este producto a la brevedad para evitar faltantes.\n\n")
	b.WriteString("Saludos,\nSistema de Gestión de Inventario\n")
	return subject, b.String()
}
