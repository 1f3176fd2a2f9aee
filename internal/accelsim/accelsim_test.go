package accelsim

import (
	"math/rand"
	"testing"

	"github.com/flowmesh/gradcompress/kernel"
	"github.com/stretchr/testify/assert"
)

func randomGradient(n int, seed int64) []float32 {
	rnd := rand.New(rand.NewSource(seed))
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(rnd.NormFloat64())
	}
	return out
}

// Property 8: host/accelerator parity, bit-exact packed bytes and
// decoded floats, for every kernel this package parallelizes.
func TestParity_OneBitCharge(t *testing.T) {
	n := 777
	e := randomGradient(n, 1)
	rHost := make([]float32, n)
	rAccel := make([]float32, n)
	cHost := make([]byte, kernel.CompressedByteLen(n, kernel.OneBitFactor))
	cAccel := make([]byte, kernel.CompressedByteLen(n, kernel.OneBitFactor))

	kernel.OneBitChargePack(e, rHost, 0.1, 0.9, cHost)
	OneBitChargePack(e, rAccel, 0.1, 0.9, cAccel)

	assert.Equal(t, cHost, cAccel)
	assert.Equal(t, rHost, rAccel)
}

func TestParity_OneBitFused(t *testing.T) {
	n := 513
	e := randomGradient(n, 2)
	rHost := make([]float32, n)
	rAccel := make([]float32, n)
	cHost := make([]byte, kernel.CompressedByteLen(n, kernel.OneBitFactor))
	cAccel := make([]byte, kernel.CompressedByteLen(n, kernel.OneBitFactor))

	kernel.OneBitFusedPack(e, rHost, 0, 0.5, cHost)
	OneBitFusedPack(e, rAccel, 0, 0.5, cAccel)

	assert.Equal(t, cHost, cAccel)
	assert.Equal(t, rHost, rAccel)
}

func TestParity_OneBitSign(t *testing.T) {
	n := 1025
	r := randomGradient(n, 3)
	rCopy := append([]float32(nil), r...)
	cHost := make([]byte, kernel.CompressedByteLen(n, kernel.OneBitFactor))
	cAccel := make([]byte, kernel.CompressedByteLen(n, kernel.OneBitFactor))

	kernel.OneBitSignPack(r, 0.2, cHost)
	OneBitSignPack(rCopy, 0.2, cAccel)

	assert.Equal(t, cHost, cAccel)
}

func TestParity_TwoBitCharge(t *testing.T) {
	n := 999
	e := randomGradient(n, 4)
	rHost := make([]float32, n)
	rAccel := make([]float32, n)
	cHost := make([]byte, kernel.CompressedByteLen(n, kernel.TwoBitFactor))
	cAccel := make([]byte, kernel.CompressedByteLen(n, kernel.TwoBitFactor))

	kernel.TwoBitChargePack(e, rHost, 0.5, 0.8, cHost)
	TwoBitChargePack(e, rAccel, 0.5, 0.8, cAccel)

	assert.Equal(t, cHost, cAccel)
	assert.Equal(t, rHost, rAccel)
}

func TestParity_TwoBitSign(t *testing.T) {
	n := 640
	r := randomGradient(n, 5)
	rCopy := append([]float32(nil), r...)
	cHost := make([]byte, kernel.CompressedByteLen(n, kernel.TwoBitFactor))
	cAccel := make([]byte, kernel.CompressedByteLen(n, kernel.TwoBitFactor))

	kernel.TwoBitSignPack(r, 0.3, cHost)
	TwoBitSignPack(rCopy, 0.3, cAccel)

	assert.Equal(t, cHost, cAccel)
}

func TestParity_MomentumPrepass(t *testing.T) {
	n := 2050
	e := randomGradient(n, 6)
	rHost := randomGradient(n, 7)
	rAccel := append([]float32(nil), rHost...)

	kernel.MomentumPrepass(e, rHost, 0.3)
	MomentumPrepass(e, rAccel, 0.3)

	assert.InDeltaSlice(t, rHost, rAccel, 1e-6)
}

func TestParity_Decode(t *testing.T) {
	n := 4321
	e := randomGradient(n, 8)
	r := make([]float32, n)
	c := make([]byte, kernel.CompressedByteLen(n, kernel.TwoBitFactor))
	kernel.TwoBitChargePack(e, r, 0.4, 1, c)

	dHost := make([]float32, n)
	dAccel := make([]float32, n)
	kernel.TwoBitUnpack(c, 0.4, dHost)
	TwoBitUnpack(c, 0.4, dAccel)
	assert.Equal(t, dHost, dAccel)

	accHost := make([]float32, n)
	accAccel := make([]float32, n)
	kernel.TwoBitUnpackAndAdd(c, 0.4, accHost)
	TwoBitUnpackAndAdd(c, 0.4, accAccel)
	assert.Equal(t, accHost, accAccel)
}
