// Package scheduler is the scheduling shim (spec §4.5): it validates
// tensor shapes/devices, then wraps a Compress/Decompress/
// DecompressAndAdd call as a task submitted to the external runtime.Engine
// with an explicit read/write dependency set, so the engine can serialize
// tasks that share a residual or compressed buffer and run everything
// else concurrently (spec §5).
package scheduler

import (
	"fmt"

	"github.com/flowmesh/gradcompress/compressor"
	"github.com/flowmesh/gradcompress/kernel"
	"github.com/flowmesh/gradcompress/runtime"
)

func label(base string, device runtime.Device) string {
	if device == runtime.ACCEL {
		return base + "Accel"
	}
	return base + "Host"
}

func validateKnown(t runtime.Tensor, name string) {
	if t == nil || t.Len() <= 0 {
		compressor.Panic(compressor.KindShape, "%s tensor has unknown or zero shape", name)
	}
}

func validateSameDevice(a, b runtime.Tensor, aName, bName string) {
	if a.Device() != b.Device() {
		compressor.Panic(compressor.KindDevice, "%s is on %s but %s is on %s", aName, a.Device(), bName, b.Device())
	}
}

// Compress validates original/residual/compressed and submits a Compress
// task to eng. It does not block: CompressEx only returns after the task
// is enqueued, not after it runs (spec §5, "the submit call is
// non-blocking").
func Compress(eng runtime.Engine, c compressor.Compressor, original, residual, compressed runtime.Tensor, priority runtime.Priority) {
	validateKnown(original, "original")
	validateKnown(residual, "residual")
	validateKnown(compressed, "compressed")
	if residual.Len() != original.Len() {
		compressor.Panic(compressor.KindShape, "residual has %d elements, original has %d", residual.Len(), original.Len())
	}
	wantCompressed := kernel.CeilDiv(original.Len(), c.Factor())
	if compressed.Len() != wantCompressed {
		compressor.Panic(compressor.KindShape, "compressed has %d elements, want ceil(%d/%d)=%d", compressed.Len(), original.Len(), c.Factor(), wantCompressed)
	}
	validateSameDevice(original, residual, "original", "residual")
	validateSameDevice(original, compressed, "original", "compressed")

	device := original.Device()
	fn := func(rc runtime.RunContext) error {
		bytes := kernel.AsBytes(compressed.Floats())
		if err := c.Compress(device, original.Floats(), residual.Floats(), bytes); err != nil {
			return err
		}
		if device == runtime.ACCEL {
			return rc.Stream().Wait()
		}
		return nil
	}
	eng.PushSync(fn, []*runtime.Var{original.Var()}, []*runtime.Var{compressed.Var(), residual.Var()}, priority, label("Compress", device))
}

// Decompress validates compressed/decoded and submits a Decompress task.
func Decompress(eng runtime.Engine, c compressor.Compressor, compressed, decoded runtime.Tensor, priority runtime.Priority) {
	validateKnown(compressed, "compressed")
	validateKnown(decoded, "decoded")
	validateSameDevice(compressed, decoded, "compressed", "decoded")

	device := compressed.Device()
	fn := func(rc runtime.RunContext) error {
		bytes := kernel.AsBytes(compressed.Floats())
		if err := c.Decompress(device, bytes, decoded.Floats()); err != nil {
			return err
		}
		if device == runtime.ACCEL {
			return rc.Stream().Wait()
		}
		return nil
	}
	eng.PushSync(fn, []*runtime.Var{compressed.Var()}, []*runtime.Var{decoded.Var()}, priority, label("Decompress", device))
}

// DecompressAndAdd validates compressed/accumulator and submits a fast
// aggregation task. It fails immediately (not as a task error) with a
// KindCapability error if c doesn't support fast aggregation, since that
// is a property of the scheme known before any tensor work begins.
func DecompressAndAdd(eng runtime.Engine, c compressor.Compressor, compressed, accumulator runtime.Tensor, priority runtime.Priority) error {
	if !c.SupportsFastAggregate() {
		return fmt.Errorf("%s: %w", c.TypeString(), compressor.ErrNotImplemented)
	}
	validateKnown(compressed, "compressed")
	validateKnown(accumulator, "accumulator")
	validateSameDevice(compressed, accumulator, "compressed", "accumulator")

	device := compressed.Device()
	fn := func(rc runtime.RunContext) error {
		bytes := kernel.AsBytes(compressed.Floats())
		if err := c.DecompressAndAdd(device, bytes, accumulator.Floats()); err != nil {
			return err
		}
		if device == runtime.ACCEL {
			return rc.Stream().Wait()
		}
		return nil
	}
	eng.PushSync(fn, []*runtime.Var{compressed.Var(), accumulator.Var()}, []*runtime.Var{accumulator.Var()}, priority, label("DecompressAndAdd", device))
	return nil
}
