package onebit

import (
	"github.com/flowmesh/gradcompress/compressor"
	"github.com/flowmesh/gradcompress/internal/accelsim"
	"github.com/flowmesh/gradcompress/kernel"
	"github.com/flowmesh/gradcompress/runtime"
)

// TypeNameV2Fused is the registered name of the fused, fast-aggregating
// scheme.
const TypeNameV2Fused = "OneBitCompressorV2Fused"

func init() {
	compressor.Register(TypeNameV2Fused, func() compressor.Compressor { return NewV2Fused() })
}

// OneBitV2Fused fuses the momentum update into the pack, like OneBit, but
// charges a fixed ±1 instead of ±theta -- theta only decides which side
// of the sign boundary an element falls on. That makes the decoded ±1
// symbols directly summable across workers, so it is the one one-bit
// scheme that supports fast aggregation (spec §4.4).
type OneBitV2Fused struct {
	compressor.Base
}

// NewV2Fused returns a OneBitV2Fused instance with defaults from spec §3.
func NewV2Fused() *OneBitV2Fused {
	c := &OneBitV2Fused{}
	c.Base = compressor.NewBase(TypeNameV2Fused, compressor.DefaultParams(), validateOneBit)
	return c
}

func (c *OneBitV2Fused) Factor() int                 { return kernel.OneBitFactor }
func (c *OneBitV2Fused) SupportsFastAggregate() bool { return true }

func (c *OneBitV2Fused) Compress(device compressor.Device, original, residual []float32, compressed []byte) error {
	p := c.Params()
	if device == runtime.ACCEL {
		accelsim.OneBitFusedPack(original, residual, p.Threshold, p.EFAlpha, compressed)
	} else {
		kernel.OneBitFusedPack(original, residual, p.Threshold, p.EFAlpha, compressed)
	}
	return nil
}

func (c *OneBitV2Fused) Decompress(device compressor.Device, compressed []byte, decoded []float32) error {
	if device == runtime.ACCEL {
		accelsim.OneBitUnpack(compressed, decoded)
	} else {
		kernel.OneBitUnpack(compressed, decoded)
	}
	return nil
}

func (c *OneBitV2Fused) DecompressAndAdd(device compressor.Device, compressed []byte, accumulator []float32) error {
	if device == runtime.ACCEL {
		accelsim.OneBitUnpackAndAdd(compressed, accumulator)
	} else {
		kernel.OneBitUnpackAndAdd(compressed, accumulator)
	}
	return nil
}
