package dto

// Límites del listado de auditoría.
const (
	DefaultAuditLimit = 100
	MaxAuditLimit     = 500
)

// SkipLimit paginación por desplazamiento para listados.
type SkipLimit struct {
	Skip  int `query:"skip"`
	Limit int `query:"limit"`
}

// Normalize aplica valores por defecto y recorta límites fuera de rango.
func (p *SkipLimit) Normalize() {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultAuditLimit
	}
	if p.Limit > MaxAuditLimit {
		p.Limit = MaxAuditLimit
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
