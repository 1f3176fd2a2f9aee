package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1: one-bit symbol, V2 sign form.
func TestS1_OneBitSignSymbol(t *testing.T) {
	x := []float32{-2, -0.5, 0.5, 2}
	r := make([]float32, 4)
	MomentumPrepass(x, r, 1) // alpha=1, R starts at 0 -> r becomes x
	compressed := make([]byte, CompressedByteLen(4, OneBitFactor))
	OneBitSignPack(r, 0, compressed)
	assert.Equal(t, byte(0b0011_0000), compressed[0])

	decoded := make([]float32, 4)
	OneBitUnpack(compressed, decoded)
	assert.Equal(t, []float32{-1, -1, 1, 1}, decoded)
}

// S2: one-bit charging residual trajectory over repeated calls.
func TestS2_OneBitChargeTrajectory(t *testing.T) {
	e := make([]float32, 8)
	for i := range e {
		e[i] = 0.3
	}
	residual := make([]float32, 8)
	compressed := make([]byte, CompressedByteLen(8, OneBitFactor))

	OneBitChargePack(e, residual, 1, 1, compressed)
	for _, r := range residual {
		assert.InDelta(t, 1.3, r, 1e-6)
	}
	for i := range e {
		assert.False(t, getBit(compressed, i), "first call should clear every bit")
	}

	OneBitChargePack(e, residual, 1, 1, compressed)
	for _, r := range residual {
		assert.InDelta(t, 0.6, r, 1e-6)
	}
	for i := range e {
		assert.True(t, getBit(compressed, i), "second call should set every bit")
	}

	OneBitChargePack(e, residual, 1, 1, compressed)
	for _, r := range residual {
		assert.InDelta(t, 1.9, r, 1e-6)
	}
}

// S3: two-bit zero band, charging form.
func TestS3_TwoBitZeroBand(t *testing.T) {
	x := []float32{0.1, 0.6, -0.6, -0.1}
	residual := make([]float32, 4)
	compressed := make([]byte, CompressedByteLen(4, TwoBitFactor))
	TwoBitChargePack(x, residual, 0.5, 1, compressed)
	assert.Equal(t, byte(0b0011_1000), compressed[0])

	decoded := make([]float32, 4)
	TwoBitUnpack(compressed, 0.5, decoded)
	assert.Equal(t, []float32{0, 0.5, -0.5, 0}, decoded)
}

// S4: compressed size law.
func TestS4_Size(t *testing.T) {
	assert.Equal(t, 2, CeilDiv(33, OneBitFactor))
	assert.Equal(t, 1, CeilDiv(32, OneBitFactor))
	assert.Equal(t, 2, CeilDiv(17, TwoBitFactor))
}

// S6: fast-aggregate equivalence for the fused one-bit form.
func TestS6_FastAggregate(t *testing.T) {
	n := 8
	c1 := make([]byte, CompressedByteLen(n, OneBitFactor))
	c2 := make([]byte, CompressedByteLen(n, OneBitFactor))
	signs1 := []bool{true, false, true, false, true, false, true, false}   // +1,-1,+1,-1,...
	signs2 := []bool{true, true, false, false, true, true, false, false} // +1,+1,-1,-1,...
	for i, s := range signs1 {
		setBit(c1, i, s)
	}
	for i, s := range signs2 {
		setBit(c2, i, s)
	}

	acc := make([]float32, n)
	OneBitUnpackAndAdd(c1, acc)
	OneBitUnpackAndAdd(c2, acc)
	assert.Equal(t, []float32{2, 0, 0, -2, 2, 0, 0, -2}, acc)

	// Property 6: decompress_and_add == acc + decompress(c) element-wise.
	viaSeparate := make([]float32, n)
	d1 := make([]float32, n)
	d2 := make([]float32, n)
	OneBitUnpack(c1, d1)
	OneBitUnpack(c2, d2)
	for i := range viaSeparate {
		viaSeparate[i] = d1[i] + d2[i]
	}
	assert.Equal(t, viaSeparate, acc)
}

// Property 1: size law, for both factors, various N.
func TestProperty_SizeLaw(t *testing.T) {
	for _, n := range []int{0, 1, 8, 16, 17, 31, 32, 33, 1000, 1024} {
		require.Equal(t, (n+OneBitFactor-1)/OneBitFactor, CeilDiv(n, OneBitFactor))
		require.Equal(t, (n+TwoBitFactor-1)/TwoBitFactor, CeilDiv(n, TwoBitFactor))
	}
}

// Property 3: round-trip symbol law for the one-bit sign form and
// two-bit charging form starting from R=0, alpha=1.
func TestProperty_RoundTripSymbol(t *testing.T) {
	x := []float32{-5, -0.1, 0, 0.1, 5}
	n := len(x)

	// One-bit sign form: decode is sign(x), with theta=0 boundary at >=0.
	r := make([]float32, n)
	MomentumPrepass(x, r, 1)
	c := make([]byte, CompressedByteLen(n, OneBitFactor))
	OneBitSignPack(r, 0, c)
	decoded := make([]float32, n)
	OneBitUnpack(c, decoded)
	for i, xi := range x {
		want := float32(1)
		if xi < 0 {
			want = -1
		}
		assert.Equal(t, want, decoded[i], "index %d", i)
	}

	// Two-bit charging form with a mid-range theta: |x| < theta -> 0.
	theta := float32(1.0)
	r2 := make([]float32, n)
	c2 := make([]byte, CompressedByteLen(n, TwoBitFactor))
	TwoBitChargePack(x, r2, theta, 1, c2)
	decoded2 := make([]float32, n)
	TwoBitUnpack(c2, theta, decoded2)
	want := []float32{-theta, 0, 0, 0, theta}
	assert.Equal(t, want, decoded2)
}

// Property 5: momentum decay geometric ratio for the pre-pass update.
func TestProperty_MomentumDecay(t *testing.T) {
	alpha := float32(0.25)
	residual := []float32{100}
	zero := []float32{0}
	for step := 0; step < 5; step++ {
		want := float32(100)
		for i := 0; i < step; i++ {
			want *= 1 - alpha
		}
		assert.InDelta(t, want, residual[0], 1e-3, "step %d", step)
		MomentumPrepass(zero, residual, alpha)
	}
}

// Property 8: host/accelerator parity is exercised in internal/accelsim's
// own test suite, which calls these exact kernel functions per-block and
// compares against a single whole-array host call.
