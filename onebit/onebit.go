// Package onebit registers the one-bit compressor variants: the default
// threshold-charging "OneBitCompressor", the sign-only "OneBitCompressorV2",
// and the fused fast-aggregating "OneBitCompressorV2Fused" (spec §4.4).
// Importing this package for its side effect (init) is how a binary opts
// into these schemes, the same way importing backends/simplego opts a
// GoMLX binary into the pure-Go backend.
package onebit

import (
	"github.com/flowmesh/gradcompress/compressor"
	"github.com/flowmesh/gradcompress/internal/accelsim"
	"github.com/flowmesh/gradcompress/kernel"
	"github.com/flowmesh/gradcompress/runtime"
)

// TypeName is the registered name of the threshold-charging scheme.
const TypeName = "OneBitCompressor"

func init() {
	compressor.Register(TypeName, func() compressor.Compressor { return New() })
}

func validateOneBit(p compressor.Params) {
	if p.Threshold < 0 {
		compressor.Panic(compressor.KindConfiguration, "one_bit.threshold must be non-negative, got %v", p.Threshold)
	}
	if p.EFAlpha <= 0 || p.EFAlpha > 1 {
		compressor.Panic(compressor.KindConfiguration, "one_bit.ef_alpha must be in (0, 1], got %v", p.EFAlpha)
	}
}

// OneBit is the threshold-charging form: Compress folds the gradient into
// the residual and charges the emitted bit's magnitude (theta) back out
// of it in one fused pass (spec §4.3, "OneBit, threshold-charging form").
type OneBit struct {
	compressor.Base
}

// New returns a OneBit instance with defaults from spec §3 (threshold=0,
// ef_alpha=1).
func New() *OneBit {
	c := &OneBit{}
	c.Base = compressor.NewBase(TypeName, compressor.DefaultParams(), validateOneBit)
	return c
}

func (c *OneBit) Factor() int                 { return kernel.OneBitFactor }
func (c *OneBit) SupportsFastAggregate() bool { return false }

func (c *OneBit) Compress(device compressor.Device, original, residual []float32, compressed []byte) error {
	p := c.Params()
	if device == runtime.ACCEL {
		accelsim.OneBitChargePack(original, residual, p.Threshold, p.EFAlpha, compressed)
	} else {
		kernel.OneBitChargePack(original, residual, p.Threshold, p.EFAlpha, compressed)
	}
	return nil
}

func (c *OneBit) Decompress(device compressor.Device, compressed []byte, decoded []float32) error {
	if device == runtime.ACCEL {
		accelsim.OneBitUnpack(compressed, decoded)
	} else {
		kernel.OneBitUnpack(compressed, decoded)
	}
	return nil
}

func (c *OneBit) DecompressAndAdd(_ compressor.Device, _ []byte, _ []float32) error {
	return compressor.ErrNotImplemented
}
