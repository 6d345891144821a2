package editorconfig

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dop251/goja"
	"golang.org/x/sync/semaphore"
)

// isolator runs each evaluation on its own worker and bounds how many may run at once
type isolator struct {
	sem     *semaphore.Weighted
	timeout time.Duration
}

func newIsolator(cfg Config) *isolator {
	iso := &isolator{timeout: cfg.Timeout}
	if cfg.MaxConcurrent > 0 {
		iso.sem = semaphore.NewWeighted(cfg.MaxConcurrent)
	}
	return iso
}

// worker is the handle an isolated function uses to expose its runtime for
// interruption. Once stopped it stays stopped.
type worker struct {
	mu     sync.Mutex
	vm     *goja.Runtime
	reason error
}

// attach registers the runtime to interrupt. It fails if the worker was
// already stopped.
func (w *worker) attach(vm *goja.Runtime) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.reason != nil {
		return w.reason
	}
	w.vm = vm
	return nil
}

func (w *worker) interrupt(reason error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.reason != nil {
		return
	}
	w.reason = reason
	if w.vm != nil {
		w.vm.Interrupt(reason)
	}
}

func (w *worker) stopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reason != nil
}

// runIsolated runs fn on a dedicated goroutine pinned to its own OS thread and
// waits for it. Panics become ThreadPanic errors. When ctx ends first the
// running script is interrupted, the worker is still joined, and the call
// fails with a Timeout error.
func runIsolated[T any](ctx context.Context, iso *isolator, fn func(w *worker) (T, error)) (T, error) {
	var zero T

	if iso.sem != nil {
		if err := iso.sem.Acquire(ctx, 1); err != nil {
			return zero, newError(KindThreadSpawn, StageSpawn, "", err)
		}
		defer iso.sem.Release(1)
	}

	if iso.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, iso.timeout)
		defer cancel()
	}

	type outcome struct {
		value T
		err   error
	}

	w := &worker{}
	done := make(chan outcome, 1)

	go func() {
		// Never unlocked: the thread is discarded when the goroutine exits.
		runtime.LockOSThread()

		var out outcome
		defer func() {
			if r := recover(); r != nil {
				out = outcome{err: newError(KindThreadPanic, StageJoin, "",
					fmt.Errorf("%v\n%s", r, debug.Stack()))}
			}
			done <- out
		}()

		value, err := fn(w)
		out = outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		w.interrupt(ctx.Err())
		out := <-done
		if kind, ok := KindOf(out.err); ok && kind == KindThreadPanic {
			return zero, out.err
		}
		return zero, newError(KindTimeout, StageJoin, "", ctx.Err())
	}
}
