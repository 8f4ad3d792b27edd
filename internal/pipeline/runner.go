package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// Outcome is what a background run delivers.
type Outcome struct {
	Result *Result
	Err    error
}

// Runner executes one pipeline run at a time in the background. It is a
// busy/idle gate, not a queue: Start fails while a run is outstanding.
type Runner struct {
	p    *Pipeline
	busy atomic.Bool
}

// NewRunner wraps p.
func NewRunner(p *Pipeline) *Runner {
	return &Runner{p: p}
}

// Busy reports whether a run is outstanding.
func (r *Runner) Busy() bool {
	return r.busy.Load()
}

// Start launches req on a new goroutine. The returned channel receives
// exactly one Outcome and is then closed; the runner is idle again before
// the Outcome is sent.
func (r *Runner) Start(ctx context.Context, req types.Request) (<-chan Outcome, error) {
	return r.start(func() (*Result, error) { return r.p.Run(ctx, req.Clone()) })
}

// StartResume launches a resume of runID under the same gate.
func (r *Runner) StartResume(ctx context.Context, runID string) (<-chan Outcome, error) {
	return r.start(func() (*Result, error) { return r.p.Resume(ctx, runID) })
}

func (r *Runner) start(fn func() (*Result, error)) (<-chan Outcome, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, types.ErrBusy
	}
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		res, err := call(fn)
		r.busy.Store(false)
		ch <- Outcome{Result: res, Err: err}
	}()
	return ch, nil
}

// call runs fn, turning a panic into an error so the gate always reopens.
func call(fn func() (*Result, error)) (res *Result, err error) {
	defer func() {
		if v := recover(); v != nil {
			res, err = nil, fmt.Errorf("pipeline run panicked: %v", v)
		}
	}()
	return fn()
}
