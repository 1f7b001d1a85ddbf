package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chazu/strata/pkg/model"
)

// EvalTimeout bounds one evaluation unless WithTimeout sets another limit.
const EvalTimeout = 5 * time.Second

// ErrSuperseded is returned by an evaluation that finished after a newer
// one was started on the same Engine.
var ErrSuperseded = errors.New("engine: evaluation superseded by newer request")

// outcome is what the evaluating goroutine hands back.
type outcome struct {
	model    *model.Model
	evalErrs []EvalError
	err      error
}

// begin starts a new generation and returns its number.
func (e *Engine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

func (e *Engine) isCurrent(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation == gen
}

// await blocks until generation gen reports on done or ctx ends. zygomys
// cannot be interrupted, so an abandoned goroutine keeps running and its
// outcome is dropped.
func (e *Engine) await(ctx context.Context, done <-chan outcome, gen uint64) (*model.Model, []EvalError, error) {
	select {
	case out := <-done:
		if !e.isCurrent(gen) {
			return nil, nil, ErrSuperseded
		}
		return out.model, out.evalErrs, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("engine: evaluation timed out: %w", ctx.Err())
		}
		return nil, nil, fmt.Errorf("engine: evaluation canceled: %w", ctx.Err())
	}
}
