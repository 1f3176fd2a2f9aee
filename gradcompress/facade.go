// Package gradcompress is the facade a training driver links against
// (spec §4.6): a single active compressor chosen at Init time by name and
// wire-encoded parameter string, exposed through a small set of
// process-wide entry points so call sites never import a scheme package
// directly. Compression and decompression are submitted through the
// scheduling shim to a caller-supplied runtime.Engine; this package holds
// no engine of its own.
package gradcompress

import (
	"sync"

	"github.com/flowmesh/gradcompress/compressor"
	"github.com/flowmesh/gradcompress/kernel"
	"github.com/flowmesh/gradcompress/runtime"
	"github.com/flowmesh/gradcompress/scheduler"
	"k8s.io/klog/v2"
)

var (
	mu     sync.Mutex
	active compressor.Compressor
)

// Init parses spec (the "name,k1,v1,..." wire form from spec §4.2),
// creates the named compressor, and applies its parameters. Calling Init
// a second time is not an error -- it logs a warning and keeps the first
// compressor active, since re-initializing mid-training would silently
// change the wire format of in-flight compressed tensors.
func Init(spec string) error {
	mu.Lock()
	defer mu.Unlock()

	name, kv, err := compressor.DecodeParams(spec)
	if err != nil {
		return err
	}
	if active != nil {
		klog.Warningf("gradcompress: Init(%q) ignored, already initialized as %s", spec, compressor.EncodeParams(active.TypeString(), active.Params()))
		return nil
	}
	c := compressor.Create(name)
	c.InitParams(kv)
	active = c
	return nil
}

// resetForTest clears the active compressor. Only called from this
// package's own tests, which each need a clean Init.
func resetForTest() {
	mu.Lock()
	defer mu.Unlock()
	active = nil
}

func mustActive() compressor.Compressor {
	mu.Lock()
	c := active
	mu.Unlock()
	if c == nil {
		compressor.Panic(compressor.KindConfiguration, "gradcompress: not initialized, call Init first")
	}
	return c
}

// GetTypeStr returns the active compressor's registered name.
func GetTypeStr() string {
	return mustActive().TypeString()
}

// GetCompressionFactor returns K, the number of original elements packed
// per compressed float32.
func GetCompressionFactor() int {
	return mustActive().Factor()
}

// GetCompressedSize returns ceil(n/K), the compressed element count for n
// original elements (spec §4.2).
func GetCompressedSize(n int) int {
	return kernel.CeilDiv(n, mustActive().Factor())
}

// EncodeParams renders the active compressor's current parameters in the
// wire form of spec §4.2.
func EncodeParams() string {
	c := mustActive()
	return compressor.EncodeParams(c.TypeString(), c.Params())
}

// DecodeParams parses a wire-form parameter string without touching the
// active compressor; it is exposed so a caller can validate a string
// received over the network before deciding whether to Init with it.
func DecodeParams(spec string) (name string, kv []compressor.KV, err error) {
	return compressor.DecodeParams(spec)
}

// CompressEx submits a Compress task for the active compressor to eng.
func CompressEx(eng runtime.Engine, original, residual, compressed runtime.Tensor, priority runtime.Priority) {
	scheduler.Compress(eng, mustActive(), original, residual, compressed, priority)
}

// DecompressEx submits a Decompress task for the active compressor to eng.
func DecompressEx(eng runtime.Engine, compressed, decoded runtime.Tensor, priority runtime.Priority) {
	scheduler.Decompress(eng, mustActive(), compressed, decoded, priority)
}

// DecompressAndAddEx submits a fused decode+accumulate task. It returns a
// KindCapability error (compressor.ErrNotImplemented) without touching
// eng if the active compressor doesn't support fast aggregation.
func DecompressAndAddEx(eng runtime.Engine, compressed, accumulator runtime.Tensor, priority runtime.Priority) error {
	return scheduler.DecompressAndAdd(eng, mustActive(), compressed, accumulator, priority)
}
