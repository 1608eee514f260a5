package inventory

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/fiecl/barcode-inventory-management/internal/domain"
	"github.com/fiecl/barcode-inventory-management/internal/domain/repository"
	"github.com/fiecl/barcode-inventory-management/pkg/logger"
	"github.com/fiecl/barcode-inventory-management/pkg/metrics"
)

// Rango de los códigos: 8 dígitos exactos.
const (
	BarcodeMin int64 = 10_000_000
	BarcodeMax int64 = 99_999_999

	DefaultMaxAttempts = 10
)

// IdentifierSource genera candidatos a código.
type IdentifierSource interface {
	Next() (string, error)
}

// RandomSource candidatos uniformes en [Min, Max] con crypto/rand.
type RandomSource struct {
	Min, Max int64
}

// NewRandomSource fuente con el rango de 8 dígitos.
func NewRandomSource() RandomSource {
	return RandomSource{Min: BarcodeMin, Max: BarcodeMax}
}

// Next devuelve un candidato.
func (s RandomSource) Next() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(s.Max-s.Min+1))
	if err != nil {
		return "", fmt.Errorf("generar candidato: %w", err)
	}
	return fmt.Sprintf("%d", s.Min+n.Int64()), nil
}

// IdentifierAllocator asigna códigos únicos con un número acotado de intentos.
// Cada intento es una única inserción atómica en el registro de códigos; una colisión
// (también la de otra asignación concurrente) cuenta como intento fallido.
type IdentifierAllocator struct {
	repo        repository.ItemRepository
	source      IdentifierSource
	maxAttempts int
	metrics     *metrics.Metrics
	log         *logger.Logger
}

// NewIdentifierAllocator construye el asignador. maxAttempts <= 0 usa DefaultMaxAttempts.
func NewIdentifierAllocator(repo repository.ItemRepository, source IdentifierSource, maxAttempts int, m *metrics.Metrics, log *logger.Logger) *IdentifierAllocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &IdentifierAllocator{repo: repo, source: source, maxAttempts: maxAttempts, metrics: m, log: log.Named("allocator")}
}

// Allocate reserva y devuelve un código nuevo, o domain.ErrAllocationExhausted.
func (a *IdentifierAllocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		candidate, err := a.source.Next()
		if err != nil {
			return "", err
		}
		err = a.repo.ReserveBarcode(ctx, candidate)
		if err == nil {
			a.metrics.Allocations.WithLabelValues("ok").Inc()
			return candidate, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return "", storageErr(err)
		}
		a.metrics.Allocations.WithLabelValues("collision").Inc()
		a.log.Debug().Str("candidate", candidate).Int("attempt", attempt).Msg("código ya emitido, reintentando")
	}
	a.metrics.Allocations.WithLabelValues("exhausted").Inc()
	a.log.Error().Int("attempts", a.maxAttempts).Msg("asignación de código agotada")
	return "", domain.ErrAllocationExhausted
}
