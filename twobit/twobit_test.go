package twobit

import (
	"testing"

	"github.com/flowmesh/gradcompress/compressor"
	"github.com/flowmesh/gradcompress/kernel"
	"github.com/flowmesh/gradcompress/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SelfConsistency(t *testing.T) {
	for _, name := range []string{TypeName, TypeNameV2} {
		c := compressor.Create(name)
		assert.Equal(t, name, c.TypeString())
	}
}

func TestTwoBit_DefaultThreshold(t *testing.T) {
	c := New()
	assert.Equal(t, float32(0.5), c.Params().Threshold)
}

func TestTwoBit_RejectsNonPositiveThreshold(t *testing.T) {
	c := New()
	assert.Panics(t, func() {
		c.InitParams([]compressor.KV{{Key: "threshold", Value: "0"}})
	})
}

func TestTwoBit_S3ZeroBand(t *testing.T) {
	c := New()
	c.InitParams([]compressor.KV{{Key: "threshold", Value: "0.5"}})

	x := []float32{0.1, 0.6, -0.6, -0.1}
	residual := make([]float32, 4)
	compressed := make([]byte, kernel.CompressedByteLen(4, kernel.TwoBitFactor))
	require.NoError(t, c.Compress(runtime.HOST, x, residual, compressed))
	assert.Equal(t, byte(0b0011_1000), compressed[0])

	decoded := make([]float32, 4)
	require.NoError(t, c.Decompress(runtime.HOST, compressed, decoded))
	assert.Equal(t, []float32{0, 0.5, -0.5, 0}, decoded)
}

func TestTwoBit_EncodeParams_S5(t *testing.T) {
	c := New()
	c.InitParams([]compressor.KV{{Key: "threshold", Value: "0.5"}, {Key: "ef_alpha", Value: "0.9"}})
	got := compressor.EncodeParams(c.TypeString(), c.Params())
	assert.Equal(t, "TwoBitCompressor,threshold,0.5,ef_alpha,0.9", got)
}

func TestTwoBitV2_SignForm(t *testing.T) {
	c := NewV2()
	c.InitParams([]compressor.KV{{Key: "threshold", Value: "0.5"}})

	x := []float32{0.1, 0.6, -0.6, -0.1}
	residual := make([]float32, 4)
	compressed := make([]byte, kernel.CompressedByteLen(4, kernel.TwoBitFactor))
	require.NoError(t, c.Compress(runtime.HOST, x, residual, compressed))
	// alpha=1 prepass means residual becomes x exactly, no charge-back.
	assert.Equal(t, x, residual)
}
