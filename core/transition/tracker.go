package transition

import (
	"context"
	"errors"
	"sync"

	"github.com/huangsam/dealflow/schema"
)

// ErrSuperseded is returned by a refresh that a newer refresh replaced before it finished.
var ErrSuperseded = errors.New("transition refresh superseded by a newer request")

// Tracker serializes refreshes so that the last request wins.
// Each refresh cancels the one in flight and only the newest may commit its report.
type Tracker struct {
	engine *Engine

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	state      State
	page       int
	latest     *schema.TransitionReport
	lastErr    error
}

// NewTracker creates a tracker around engine.
func NewTracker(engine *Engine) *Tracker {
	return &Tracker{engine: engine}
}

// Refresh runs the engine, cancelling any refresh still in flight.
func (t *Tracker) Refresh(ctx context.Context, deals []schema.Deal) (*schema.TransitionReport, error) {
	t.mu.Lock()
	t.generation++
	gen := t.generation
	if t.cancel != nil {
		t.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.state, t.page = Idle, 0
	t.mu.Unlock()
	defer cancel()

	report, err := t.engine.Run(runCtx, deals, func(s State, page int) {
		t.mu.Lock()
		defer t.mu.Unlock()
		if gen == t.generation {
			t.state, t.page = s, page
		}
	})

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation {
		return nil, ErrSuperseded
	}
	t.cancel = nil
	if err != nil {
		t.state = Aborted
		t.lastErr = err
		return nil, err
	}
	t.latest = report
	t.lastErr = nil
	return report, nil
}

// Latest returns the last committed report, or nil before the first success.
func (t *Tracker) Latest() *schema.TransitionReport {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest
}

// State returns the state of the newest refresh, its current page and its error if it failed.
func (t *Tracker) State() (State, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, t.page, t.lastErr
}
