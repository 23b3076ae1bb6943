package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostBackendMatchesKernelSemantics(t *testing.T) {
	var h Host[float64, float64]

	x := h.NewVector(3)
	y := h.NewVector(3)
	h.Upload(x, []float64{1, 2, 3})
	h.Upload(y, []float64{4, 5, 6})

	h.Axpy(2, x, y) // y <- 2x + y
	out := make([]float64, 3)
	h.Download(out, y)
	assert.Equal(t, []float64{6, 9, 12}, out)

	assert.InDelta(t, 28, h.Dot(x, x)+h.Dot(x, x), 1e-9) // sanity: 2*(1+4+9)
	assert.InDelta(t, 14, h.Dotr(x, x), 1e-9)
	assert.InDelta(t, 3.7416573867739413, h.Nrm2(x), 1e-9)
}

func TestHostVectorLen(t *testing.T) {
	var h Host[float64, float64]
	v := h.NewVector(5)
	assert.Equal(t, 5, v.Len())
}
