package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiecl/barcode-inventory-management/internal/application/inventory"
	"github.com/fiecl/barcode-inventory-management/internal/domain"
	"github.com/fiecl/barcode-inventory-management/internal/infrastructure/memory"
	"github.com/fiecl/barcode-inventory-management/pkg/logger"
	"github.com/fiecl/barcode-inventory-management/pkg/metrics"
)

// seqSource devuelve los candidatos en orden.
type seqSource struct {
	codes []string
	i     int
}

func (s *seqSource) Next() (string, error) {
	c := s.codes[s.i%len(s.codes)]
	s.i++
	return c, nil
}

func TestRandomSource_OchoDigitosEnRango(t *testing.T) {
	src := inventory.NewRandomSource()
	for i := 0; i < 200; i++ {
		c, err := src.Next()
		require.NoError(t, err)
		require.Len(t, c, 8)
		assert.GreaterOrEqual(t, c, "10000000")
		assert.LessOrEqual(t, c, "99999999")
	}
}

func TestAllocate_ColisionReintenta(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Items().ReserveBarcode(ctx, "11111111"))

	src := &seqSource{codes: []string{"11111111", "22222222"}}
	a := inventory.NewIdentifierAllocator(store.Items(), src, 3, metrics.New(), logger.Nop())

	code, err := a.Allocate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "22222222", code)
	assert.Equal(t, 2, src.i)
}

func TestAllocate_AgotaIntentos(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Items().ReserveBarcode(ctx, "11111111"))

	src := &seqSource{codes: []string{"11111111"}}
	a := inventory.NewIdentifierAllocator(store.Items(), src, 4, metrics.New(), logger.Nop())

	_, err := a.Allocate(ctx)
	assert.ErrorIs(t, err, domain.ErrAllocationExhausted)
	assert.Equal(t, 4, src.i)
}
