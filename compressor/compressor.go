// Package compressor defines the pluggable quantizer contract: the
// Compressor interface every scheme implements, the wire form of its
// parameters, and the process-wide name-to-factory registry that lets a
// training driver ship a compressor *choice* over the network without
// compiling in the list of schemes at the call site (spec §4.1).
package compressor

import "github.com/flowmesh/gradcompress/runtime"

// Compressor is the tagged-union of quantization schemes: OneBit,
// OneBitV2, OneBitV2Fused, TwoBit, TwoBitV2. Each commits to exactly one
// residual-update form (spec §4.3) and one compression factor.
//
// Compress and Decompress operate on flat host or accelerator storage
// already validated by the caller (the scheduling shim validates shapes
// and devices before invoking these); a Compressor implementation may
// assume len(compressed) == 4*ceil(len(original)/Factor()) bytes (one
// 4-byte block per compressed float32) and, when
// residual is non-nil, len(residual) == len(original).
type Compressor interface {
	// TypeString is this instance's self-reported scheme name. The
	// registry requires it to equal the name it was registered under.
	TypeString() string

	// InitParams validates and applies kv on top of this scheme's
	// defaults (spec §3: threshold defaults to 0 for one-bit schemes,
	// 0.5 for two-bit; ef_alpha defaults to 1 for all). It panics with a
	// KindConfiguration error if a value is out of range. Called exactly
	// once, by the facade's Init, right after Create.
	InitParams(kv []KV)

	// Params returns the currently applied parameter block, so the
	// facade can render it back out via EncodeParams.
	Params() Params

	// Factor is K, the number of original elements packed per
	// compressed float (32 for one-bit schemes, 16 for two-bit).
	Factor() int

	// SupportsFastAggregate reports whether DecompressAndAdd is
	// implemented. Schemes that don't fuse decode with accumulation
	// (spec §4.3, "decompress-and-add") return false here.
	SupportsFastAggregate() bool

	// Compress quantizes original into compressed, mutating residual in
	// place per this scheme's error-feedback update. device selects
	// which kernel implementation runs (spec §4.3: host and accelerator
	// must be bit-identical); the scheduling shim is what decides device
	// from the input tensor's tag, per spec §4.5 item 2, and passes it
	// down here rather than dispatching itself, so a Compressor package
	// stays the single place that owns "which kernel variant for which
	// device" for its scheme.
	Compress(device Device, original, residual []float32, compressed []byte) error

	// Decompress unpacks compressed into decoded, overwriting it.
	Decompress(device Device, compressed []byte, decoded []float32) error

	// DecompressAndAdd unpacks compressed and adds the decoded values
	// into accumulator element-wise, without materializing an
	// intermediate decoded tensor. Returns ErrNotImplemented if
	// SupportsFastAggregate() is false.
	DecompressAndAdd(device Device, compressed []byte, accumulator []float32) error
}

// Params is the immutable, per-scheme configuration parsed at Init time
// (spec §3, "Parameter block"). Field order here is also the declared
// order EncodeParams emits (spec §4.2).
type Params struct {
	// Threshold (theta): non-negative for one-bit schemes (default 0),
	// strictly positive for two-bit schemes (default 0.5).
	Threshold float32
	// EFAlpha (alpha): momentum for error feedback, in (0, 1]. 1 means
	// no momentum -- the residual is the raw accumulator.
	EFAlpha float32
}

// DefaultParams returns the scheme-agnostic defaults from spec §3;
// two-bit schemes construct their Base with Threshold 0.5 instead.
func DefaultParams() Params {
	return Params{Threshold: 0, EFAlpha: 1}
}

// Factory constructs a fresh, uninitialized Compressor instance.
type Factory func() Compressor

// Device is re-exported for convenience so callers of this package don't
// also need to import runtime for the common case of tagging tensors.
type Device = runtime.Device
