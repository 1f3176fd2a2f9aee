package twobit

import (
	"github.com/flowmesh/gradcompress/compressor"
	"github.com/flowmesh/gradcompress/internal/accelsim"
	"github.com/flowmesh/gradcompress/kernel"
	"github.com/flowmesh/gradcompress/runtime"
)

// TypeNameV2 is the registered name of the sign-only two-bit scheme.
const TypeNameV2 = "TwoBitCompressorV2"

func init() {
	compressor.Register(TypeNameV2, func() compressor.Compressor { return NewV2() })
}

// TwoBitV2 defers error-feedback bookkeeping to a momentum pre-pass, then
// packs the post-prepass residual's zero band / sign without charging
// anything back out (spec §4.3, "Two-Bit ... V2 uses sign-only").
type TwoBitV2 struct {
	compressor.Base
}

// NewV2 returns a TwoBitV2 instance with defaults from spec §3.
func NewV2() *TwoBitV2 {
	c := &TwoBitV2{}
	c.Base = compressor.NewBase(TypeNameV2, defaultTwoBitParams(), validateTwoBit)
	return c
}

func (c *TwoBitV2) Factor() int                 { return kernel.TwoBitFactor }
func (c *TwoBitV2) SupportsFastAggregate() bool { return false }

func (c *TwoBitV2) Compress(device compressor.Device, original, residual []float32, compressed []byte) error {
	p := c.Params()
	if device == runtime.ACCEL {
		accelsim.MomentumPrepass(original, residual, p.EFAlpha)
		accelsim.TwoBitSignPack(residual, p.Threshold, compressed)
	} else {
		kernel.MomentumPrepass(original, residual, p.EFAlpha)
		kernel.TwoBitSignPack(residual, p.Threshold, compressed)
	}
	return nil
}

func (c *TwoBitV2) Decompress(device compressor.Device, compressed []byte, decoded []float32) error {
	theta := c.Params().Threshold
	if device == runtime.ACCEL {
		accelsim.TwoBitUnpack(compressed, theta, decoded)
	} else {
		kernel.TwoBitUnpack(compressed, theta, decoded)
	}
	return nil
}

func (c *TwoBitV2) DecompressAndAdd(_ compressor.Device, _ []byte, _ []float32) error {
	return compressor.ErrNotImplemented
}
