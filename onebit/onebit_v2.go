package onebit

import (
	"github.com/flowmesh/gradcompress/compressor"
	"github.com/flowmesh/gradcompress/internal/accelsim"
	"github.com/flowmesh/gradcompress/kernel"
	"github.com/flowmesh/gradcompress/runtime"
)

// TypeNameV2 is the registered name of the sign-only scheme.
const TypeNameV2 = "OneBitCompressorV2"

func init() {
	compressor.Register(TypeNameV2, func() compressor.Compressor { return NewV2() })
}

// OneBitV2 is the sign-only form: the error-feedback update runs as a
// separate momentum pre-pass over residual, then Compress packs the
// residual's sign without touching it further (spec §4.3, "OneBit,
// sign-only form"). Decompress emits ±1, same as OneBit.
type OneBitV2 struct {
	compressor.Base
}

// NewV2 returns a OneBitV2 instance with defaults from spec §3.
func NewV2() *OneBitV2 {
	c := &OneBitV2{}
	c.Base = compressor.NewBase(TypeNameV2, compressor.DefaultParams(), validateOneBit)
	return c
}

func (c *OneBitV2) Factor() int                 { return kernel.OneBitFactor }
func (c *OneBitV2) SupportsFastAggregate() bool { return false }

func (c *OneBitV2) Compress(device compressor.Device, original, residual []float32, compressed []byte) error {
	p := c.Params()
	if device == runtime.ACCEL {
		accelsim.MomentumPrepass(original, residual, p.EFAlpha)
		accelsim.OneBitSignPack(residual, p.Threshold, compressed)
	} else {
		kernel.MomentumPrepass(original, residual, p.EFAlpha)
		kernel.OneBitSignPack(residual, p.Threshold, compressed)
	}
	return nil
}

func (c *OneBitV2) Decompress(device compressor.Device, compressed []byte, decoded []float32) error {
	if device == runtime.ACCEL {
		accelsim.OneBitUnpack(compressed, decoded)
	} else {
		kernel.OneBitUnpack(compressed, decoded)
	}
	return nil
}

func (c *OneBitV2) DecompressAndAdd(_ compressor.Device, _ []byte, _ []float32) error {
	return compressor.ErrNotImplemented
}
