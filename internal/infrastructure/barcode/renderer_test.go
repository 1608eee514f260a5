package barcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_DevuelvePNGDecodificable(t *testing.T) {
	out, err := NewRenderer().Render("12345678")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, img.Bounds().Dx())
	assert.Equal(t, DefaultBarHeight+captionHeight+2*margin, img.Bounds().Dy())
}

func TestRender_EsDeterminista(t *testing.T) {
	r := NewRenderer()
	a, err := r.Render("87654321")
	require.NoError(t, err)
	b, err := r.Render("87654321")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRender_CodigoVacio(t *testing.T) {
	_, err := NewRenderer().Render("")
	assert.Error(t, err)
}
