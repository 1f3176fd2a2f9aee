package runtime

import "context"

// RunContext is handed to a task body when the engine invokes it. On an
// accelerator context it yields the stream the task should enqueue work
// on and wait on before returning; on a host context Stream returns nil.
type RunContext interface {
	// Context is the ambient cancellation/deadline context for the task.
	Context() context.Context
	// Stream is non-nil only when the task was dispatched to ACCEL.
	Stream() Stream
}

// Stream is an accelerator execution stream. The core never issues work
// on it directly (that is internal/accelsim's job, standing in for a real
// device kernel launch); it only needs Wait so a task body can block
// until device-side work has completed before the task's completion edge
// fires in the engine's dependency graph (spec §5, "suspension points").
type Stream interface {
	Wait() error
}

// TaskFunc is a unit of work submitted to the engine. It must not block on
// anything but its own accelerator stream (spec §5: "none inside a
// kernel" other than the stream wait).
type TaskFunc func(rc RunContext) error

// Priority is a scheduling hint passed through to the engine unmodified.
type Priority int

const (
	PriorityNormal Priority = 0
	PriorityHigh   Priority = 1
)

// Engine is the external asynchronous dataflow scheduler the core submits
// tasks to. It guarantees tasks whose write sets overlap are serialized,
// and everything else may run concurrently (spec §4.5, §5). The core
// never creates threads itself; it only calls PushSync.
type Engine interface {
	// PushSync submits fn for execution against the given dependency
	// sets. It does not block: ordering is expressed purely through
	// reads/writes, not through the caller waiting for completion.
	// label is a human-readable tag such as "CompressHost" used for
	// diagnostics/tracing; it carries no semantics.
	PushSync(fn TaskFunc, reads, writes []*Var, priority Priority, label string)
}
