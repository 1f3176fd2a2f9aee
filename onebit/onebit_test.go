package onebit

import (
	"testing"

	"github.com/flowmesh/gradcompress/compressor"
	"github.com/flowmesh/gradcompress/kernel"
	"github.com/flowmesh/gradcompress/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SelfConsistency(t *testing.T) {
	for _, name := range []string{TypeName, TypeNameV2, TypeNameV2Fused} {
		c := compressor.Create(name)
		assert.Equal(t, name, c.TypeString())
	}
}

func TestOneBit_ChargingRoundTrip(t *testing.T) {
	c := New()
	c.InitParams([]compressor.KV{{Key: "threshold", Value: "1"}})

	e := []float32{0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3}
	residual := make([]float32, 8)
	compressed := make([]byte, kernel.CompressedByteLen(8, kernel.OneBitFactor))

	require.NoError(t, c.Compress(runtime.HOST, e, residual, compressed))
	for _, r := range residual {
		assert.InDelta(t, 1.3, r, 1e-6)
	}

	decoded := make([]float32, 8)
	require.NoError(t, c.Decompress(runtime.HOST, compressed, decoded))
	for _, d := range decoded {
		assert.Equal(t, float32(-1), d)
	}
}

func TestOneBit_RejectsNegativeThreshold(t *testing.T) {
	c := New()
	assert.Panics(t, func() {
		c.InitParams([]compressor.KV{{Key: "threshold", Value: "-1"}})
	})
}

func TestOneBit_FastAggregateNotSupported(t *testing.T) {
	c := New()
	err := c.DecompressAndAdd(runtime.HOST, nil, nil)
	assert.ErrorIs(t, err, compressor.ErrNotImplemented)
	assert.False(t, c.SupportsFastAggregate())
}

func TestOneBitV2_SignForm(t *testing.T) {
	c := NewV2()
	c.InitParams(nil) // defaults: threshold=0, ef_alpha=1

	x := []float32{-2, -0.5, 0.5, 2}
	residual := make([]float32, 4)
	compressed := make([]byte, kernel.CompressedByteLen(4, kernel.OneBitFactor))
	require.NoError(t, c.Compress(runtime.HOST, x, residual, compressed))
	assert.Equal(t, byte(0b0011_0000), compressed[0])

	decoded := make([]float32, 4)
	require.NoError(t, c.Decompress(runtime.HOST, compressed, decoded))
	assert.Equal(t, []float32{-1, -1, 1, 1}, decoded)
}

func TestOneBitV2Fused_FastAggregate(t *testing.T) {
	c1, c2 := NewV2Fused(), NewV2Fused()
	c1.InitParams([]compressor.KV{{Key: "threshold", Value: "0"}})
	c2.InitParams([]compressor.KV{{Key: "threshold", Value: "0"}})

	n := 4
	e1 := []float32{5, -5, 5, -5}
	e2 := []float32{5, 5, -5, -5}
	r1 := make([]float32, n)
	r2 := make([]float32, n)
	comp1 := make([]byte, kernel.CompressedByteLen(n, kernel.OneBitFactor))
	comp2 := make([]byte, kernel.CompressedByteLen(n, kernel.OneBitFactor))
	require.NoError(t, c1.Compress(runtime.HOST, e1, r1, comp1))
	require.NoError(t, c2.Compress(runtime.HOST, e2, r2, comp2))

	acc := make([]float32, n)
	require.NoError(t, c1.DecompressAndAdd(runtime.HOST, comp1, acc))
	require.NoError(t, c2.DecompressAndAdd(runtime.HOST, comp2, acc))
	assert.Equal(t, []float32{2, 0, 0, -2}, acc)
	assert.True(t, c1.SupportsFastAggregate())
}
