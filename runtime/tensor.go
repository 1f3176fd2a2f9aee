package runtime

import "github.com/google/uuid"

// Var is a dependency variable the scheduling shim declares as read or
// written by a task, so the external engine can serialize tasks with
// overlapping write sets and run everything else concurrently (spec §5).
//
// Var carries a stable identifier purely so a real dataflow engine (or the
// reference simengine) can log/trace which buffer a completion callback
// refers to; the core never inspects the identifier itself.
type Var struct {
	id uuid.UUID
}

// NewVar allocates a fresh dependency variable. Callers (the tensor
// runtime, in production; the driver code in tests) own exactly one Var
// per buffer for its lifetime.
func NewVar() *Var {
	return &Var{id: uuid.New()}
}

func (v *Var) String() string {
	if v == nil {
		return "<nil>"
	}
	return v.id.String()
}

// Tensor is the flat float buffer the core consumes: an opaque handle
// tagged with a device, exposing element count, a raw host-addressable
// view (Floats), and a dependency variable for the scheduler. Producing
// and owning Tensors -- shape/stride metadata, device placement, transfer
// between HOST and ACCEL -- is entirely the tensor runtime's job; this
// core only ever sees the flat view.
type Tensor interface {
	// Device is where the backing storage lives.
	Device() Device
	// Len is the element count (N for a gradient/residual, M for a
	// compressed buffer).
	Len() int
	// Floats returns the flat backing storage as a mutable []float32.
	// For an ACCEL tensor this is a host-visible staging view a real
	// runtime would keep in sync with device memory; the core never
	// assumes it is *the* device memory.
	Floats() []float32
	// Var is this tensor's dependency variable for scheduling.
	Var() *Var
}

// hostTensor is the reference Tensor implementation used by tests and
// cmd/gradbench. A production integration replaces this
// with a real tensor-runtime handle; the core only depends on the Tensor
// interface above.
type hostTensor struct {
	device Device
	data   []float32
	v      *Var
}

// NewHostTensor wraps data as a HOST tensor with a freshly allocated
// dependency variable.
func NewHostTensor(data []float32) Tensor {
	return &hostTensor{device: HOST, data: data, v: NewVar()}
}

// NewAccelTensor wraps data as an ACCEL tensor. Since this repo has no
// real accelerator, the backing storage is still host memory; only the
// Device tag differs, which is exactly what internal/accelsim dispatches
// on.
func NewAccelTensor(data []float32) Tensor {
	return &hostTensor{device: ACCEL, data: data, v: NewVar()}
}

func (t *hostTensor) Device() Device    { return t.device }
func (t *hostTensor) Len() int          { return len(t.data) }
func (t *hostTensor) Floats() []float32 { return t.data }
func (t *hostTensor) Var() *Var         { return t.v }
