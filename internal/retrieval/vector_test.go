package retrieval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeVector_RoundTrips(t *testing.T) {
	v := []float32{1.5, -2.25, 0, 3.125, -0.000123}
	decoded := DecodeVector(EncodeVector(v))
	require.Equal(t, v, decoded)
}

func TestCosine_IdenticalVectorsIsOne(t *testing.T) {
	v := []float32{1, 2, 3}
	require.InDelta(t, 1.0, Cosine(v, v), 1e-9)
}

func TestCosine_OrthogonalVectorsIsZero(t *testing.T) {
	require.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
}

func TestCosine_ZeroNormReturnsZeroNotNaN(t *testing.T) {
	sim := Cosine([]float32{0, 0}, []float32{1, 2})
	require.False(t, math.IsNaN(sim))
	require.Equal(t, 0.0, sim)
}

func TestCosine_TruncatesToShorterLength(t *testing.T) {
	a := []float32{1, 0, 0, 0}
	b := []float32{1, 0}
	require.InDelta(t, 1.0, Cosine(a, b), 1e-9)
}

func TestNormalize_ProducesUnitLength(t *testing.T) {
	n := Normalize([]float32{3, 4})
	var sumSq float64
	for _, f := range n {
		sumSq += float64(f) * float64(f)
	}
	require.InDelta(t, 1.0, math.Sqrt(sumSq), 1e-6)
}

func TestNormalize_ZeroVectorStaysZero(t *testing.T) {
	n := Normalize([]float32{0, 0, 0})
	require.Equal(t, []float32{0, 0, 0}, n)
}

func TestFuseTextVision_IsUnitLength(t *testing.T) {
	fused := FuseTextVision([]float32{1, 0}, []float32{0, 1})
	var sumSq float64
	for _, f := range fused {
		sumSq += float64(f) * float64(f)
	}
	require.InDelta(t, 1.0, math.Sqrt(sumSq), 1e-6)
}
