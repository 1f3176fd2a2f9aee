// Package twobit registers the two-bit compressor variants: the default
// charging "TwoBitCompressor" and the sign-only "TwoBitCompressorV2"
// (spec §4.4). Neither supports fast aggregation.
package twobit

import (
	"github.com/flowmesh/gradcompress/compressor"
	"github.com/flowmesh/gradcompress/internal/accelsim"
	"github.com/flowmesh/gradcompress/kernel"
	"github.com/flowmesh/gradcompress/runtime"
)

// TypeName is the registered name of the charging scheme.
const TypeName = "TwoBitCompressor"

func init() {
	compressor.Register(TypeName, func() compressor.Compressor { return New() })
}

func defaultTwoBitParams() compressor.Params {
	return compressor.Params{Threshold: 0.5, EFAlpha: 1}
}

func validateTwoBit(p compressor.Params) {
	if p.Threshold <= 0 {
		compressor.Panic(compressor.KindConfiguration, "two_bit.threshold must be strictly positive, got %v", p.Threshold)
	}
	if p.EFAlpha <= 0 || p.EFAlpha > 1 {
		compressor.Panic(compressor.KindConfiguration, "two_bit.ef_alpha must be in (0, 1], got %v", p.EFAlpha)
	}
}

// TwoBit is the charging form: quantizes to {-theta, 0, +theta} with a
// zero band for |r| < theta, charging the emitted magnitude back out of
// the residual (spec §4.3, "Two-Bit").
type TwoBit struct {
	compressor.Base
}

// New returns a TwoBit instance with defaults from spec §3
// (threshold=0.5, ef_alpha=1).
func New() *TwoBit {
	c := &TwoBit{}
	c.Base = compressor.NewBase(TypeName, defaultTwoBitParams(), validateTwoBit)
	return c
}

func (c *TwoBit) Factor() int                 { return kernel.TwoBitFactor }
func (c *TwoBit) SupportsFastAggregate() bool { return false }

func (c *TwoBit) Compress(device compressor.Device, original, residual []float32, compressed []byte) error {
	p := c.Params()
	if device == runtime.ACCEL {
		accelsim.TwoBitChargePack(original, residual, p.Threshold, p.EFAlpha, compressed)
	} else {
		kernel.TwoBitChargePack(original, residual, p.Threshold, p.EFAlpha, compressed)
	}
	return nil
}

func (c *TwoBit) Decompress(device compressor.Device, compressed []byte, decoded []float32) error {
	theta := c.Params().Threshold
	if device == runtime.ACCEL {
		accelsim.TwoBitUnpack(compressed, theta, decoded)
	} else {
		kernel.TwoBitUnpack(compressed, theta, decoded)
	}
	return nil
}

func (c *TwoBit) DecompressAndAdd(_ compressor.Device, _ []byte, _ []float32) error {
	return compressor.ErrNotImplemented
}
