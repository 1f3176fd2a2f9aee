// Package simengine is a reference, in-process implementation of
// runtime.Engine. It exists because the real dataflow engine (spec §1,
// "the asynchronous execution engine") is an external collaborator with
// no implementation in this repo -- without a stand-in the scheduling
// shim and facade would have nothing to submit tasks to, and could never
// be exercised or tested. It is not a performance-oriented scheduler: it
// exists to enforce the one guarantee the core actually relies on --
// tasks with overlapping write sets run one at a time, in submission
// order (spec §5) -- and to run everything else concurrently.
package simengine

import (
	"context"
	"sort"
	"sync"
	"unsafe"

	"github.com/flowmesh/gradcompress/internal/workerspool"
	"github.com/flowmesh/gradcompress/runtime"
	"golang.org/x/sync/errgroup"
)

// Engine is a runtime.Engine backed by a bounded worker pool. Var
// ordering is enforced with one sync.RWMutex per Var: a task takes a
// write-lock on every Var in its write set and a read-lock on every Var
// in its read set that isn't already in the write set, acquiring them in
// a fixed pointer order across all callers to avoid deadlock.
type Engine struct {
	pool *workerspool.Pool

	mu    sync.Mutex
	locks map[*runtime.Var]*sync.RWMutex

	wg sync.WaitGroup

	// errMu guards firstErr, the first task error observed, surfaced by
	// Drain so tests/cmd tools can fail loudly on a bad kernel.
	errMu    sync.Mutex
	firstErr error

	// lastAcquired is closed once the most recently submitted task holds
	// all its dependency locks. Each task waits on its predecessor's
	// channel before locking, so locks are taken in submission order.
	lastAcquired chan struct{}
}

// New returns an Engine with the default (NumCPU) parallelism.
func New() *Engine {
	return &Engine{
		pool:  workerspool.New(),
		locks: make(map[*runtime.Var]*sync.RWMutex),
	}
}

func (e *Engine) lockFor(v *runtime.Var) *sync.RWMutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[v]
	if !ok {
		l = &sync.RWMutex{}
		e.locks[v] = l
	}
	return l
}

type lockRequest struct {
	v       *runtime.Var
	exclusive bool
}

// PushSync implements runtime.Engine. It does not wait for the task's
// dependencies: the task runs on a pool goroutine once every earlier
// submitted task holds its locks and its own locks are acquired. The call
// itself blocks only while the worker pool is full.
func (e *Engine) PushSync(fn runtime.TaskFunc, reads, writes []*runtime.Var, priority runtime.Priority, label string) {
	reqs := buildLockPlan(reads, writes)
	e.mu.Lock()
	prev, acquired := e.lastAcquired, make(chan struct{})
	e.lastAcquired = acquired
	e.mu.Unlock()
	e.wg.Add(1)
	e.pool.WaitToStart(func() {
		defer e.wg.Done()
		if prev != nil {
			<-prev
		}
		locks := make([]*sync.RWMutex, len(reqs))
		for i, r := range reqs {
			locks[i] = e.lockFor(r.v)
		}
		for i, r := range reqs {
			if r.exclusive {
				locks[i].Lock()
			} else {
				locks[i].RLock()
			}
		}
		close(acquired)
		defer func() {
			for i, r := range reqs {
				if r.exclusive {
					locks[i].Unlock()
				} else {
					locks[i].RUnlock()
				}
			}
		}()

		rc := &runContext{ctx: context.Background(), stream: &syncStream{}}
		if err := fn(rc); err != nil {
			e.errMu.Lock()
			if e.firstErr == nil {
				e.firstErr = err
			}
			e.errMu.Unlock()
		}
	})
}

// buildLockPlan merges reads/writes into a deduplicated, pointer-ordered
// lock acquisition plan (writes win over reads for the same Var).
func buildLockPlan(reads, writes []*runtime.Var) []lockRequest {
	exclusive := make(map[*runtime.Var]bool, len(writes))
	for _, w := range writes {
		if w != nil {
			exclusive[w] = true
		}
	}
	seen := make(map[*runtime.Var]bool, len(reads)+len(writes))
	var plan []lockRequest
	add := func(v *runtime.Var) {
		if v == nil || seen[v] {
			return
		}
		seen[v] = true
		plan = append(plan, lockRequest{v: v, exclusive: exclusive[v]})
	}
	for _, w := range writes {
		add(w)
	}
	for _, r := range reads {
		add(r)
	}
	key := func(v *runtime.Var) uintptr { return uintptr(unsafe.Pointer(v)) }
	sort.Slice(plan, func(i, j int) bool { return key(plan[i].v) < key(plan[j].v) })
	return plan
}

// Drain blocks until every task submitted so far has completed, and
// returns the first task error observed (nil if none). It is not part of
// runtime.Engine -- production callers rely on the dependency graph, not
// on draining -- but tests and cmd/gradbench need a synchronization point.
func (e *Engine) Drain() error {
	e.wg.Wait()
	e.errMu.Lock()
	defer e.errMu.Unlock()
	return e.firstErr
}

type runContext struct {
	ctx    context.Context
	stream runtime.Stream
}

func (rc *runContext) Context() context.Context { return rc.ctx }
func (rc *runContext) Stream() runtime.Stream    { return rc.stream }

// syncStream is a no-op runtime.Stream: this engine has no real
// accelerator, so accelerator kernels (internal/accelsim) run their own
// bounded parallelism synchronously inside the task body via errgroup,
// and Wait is purely a formality that lets the task body's shape match
// what a real accelerator-backed engine would require.
type syncStream struct {
	group *errgroup.Group
}

func (s *syncStream) Wait() error {
	if s.group == nil {
		return nil
	}
	return s.group.Wait()
}
