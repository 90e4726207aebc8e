package logic

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/awmpietro/golang-logic-trace-case/internal/logic/eval"
)

type PlaybackState string

const (
	PlaybackStopped PlaybackState = "stopped"
	PlaybackPaused  PlaybackState = "paused"
	PlaybackPlaying PlaybackState = "playing"
)

const DefaultPlaybackSpeed = 500 * time.Millisecond

// Debugger replays a recorded execution trace over a converted graph. A
// cursor of -1 is the sentinel "no active debug overlay" state, distinct
// from stopped at index 0. All mutations go through the action methods; the
// auto-step timer is the only asynchronous element and at most one timer is
// live per debugger.
type Debugger struct {
	mu         sync.Mutex
	steps      []ExecutionStep
	index      int
	state      PlaybackState
	speed      time.Duration
	nodeMap    TraceNodeMap
	parents    map[string]string
	breakpoint string
	listener   func(Snapshot)
	stop       chan struct{}
	closed     bool
}

type DebuggerOption func(*Debugger)

// WithNodeMap installs the trace-id to node-id mapping from Correlate.
func WithNodeMap(m TraceNodeMap) DebuggerOption {
	return func(d *Debugger) { d.nodeMap = m }
}

// WithParentMap installs the node parent links used to derive the on-path
// set; see Graph.ParentMap.
func WithParentMap(m map[string]string) DebuggerOption {
	return func(d *Debugger) { d.parents = m }
}

// WithStepListener registers a callback invoked after every state change.
// The callback runs outside the debugger lock and must not block for long;
// it may be invoked from the timer goroutine.
func WithStepListener(fn func(Snapshot)) DebuggerOption {
	return func(d *Debugger) { d.listener = fn }
}

func WithSpeed(speed time.Duration) DebuggerOption {
	return func(d *Debugger) {
		if speed > 0 {
			d.speed = speed
		}
	}
}

func NewDebugger(opts ...DebuggerOption) *Debugger {
	d := &Debugger{
		index: -1,
		state: PlaybackStopped,
		speed: DefaultPlaybackSpeed,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Initialize loads a new step sequence and rewinds to the first step. An
// empty sequence leaves the debugger in the sentinel state.
func (d *Debugger) Initialize(steps []ExecutionStep) {
	d.mu.Lock()
	d.stopTimerLocked()
	d.steps = steps
	if len(steps) > 0 {
		d.index = 0
	} else {
		d.index = -1
	}
	d.state = PlaybackStopped
	d.unlockAndNotify()
}

// Play starts timed playback. Playing from the last step restarts from the
// beginning.
func (d *Debugger) Play() {
	d.mu.Lock()
	if len(d.steps) == 0 || d.closed {
		d.mu.Unlock()
		return
	}
	if d.index < 0 || d.index == len(d.steps)-1 {
		d.index = 0
	}
	d.state = PlaybackPlaying
	d.startTimerLocked()
	d.unlockAndNotify()
}

func (d *Debugger) Pause() {
	d.mu.Lock()
	d.stopTimerLocked()
	d.state = PlaybackPaused
	d.unlockAndNotify()
}

func (d *Debugger) Stop() {
	d.mu.Lock()
	d.stopTimerLocked()
	d.state = PlaybackStopped
	if len(d.steps) > 0 {
		d.index = 0
	}
	d.unlockAndNotify()
}

// StepForward advances one step and pauses. Stepping past the last step is a
// no-op that still settles into paused.
func (d *Debugger) StepForward() {
	d.mu.Lock()
	d.stopTimerLocked()
	if d.index >= 0 && d.index < len(d.steps)-1 {
		d.index++
	}
	d.state = PlaybackPaused
	d.unlockAndNotify()
}

func (d *Debugger) StepBackward() {
	d.mu.Lock()
	d.stopTimerLocked()
	if d.index > 0 {
		d.index--
	}
	d.state = PlaybackPaused
	d.unlockAndNotify()
}

// GoToStep jumps to step i, clamped into range, and pauses.
func (d *Debugger) GoToStep(i int) {
	d.mu.Lock()
	d.stopTimerLocked()
	if len(d.steps) > 0 {
		if i < 0 {
			i = 0
		}
		if i > len(d.steps)-1 {
			i = len(d.steps) - 1
		}
		d.index = i
	}
	d.state = PlaybackPaused
	d.unlockAndNotify()
}

// SetSpeed changes the auto-step period; a running timer picks it up on its
// next tick.
func (d *Debugger) SetSpeed(speed time.Duration) {
	if speed <= 0 {
		return
	}
	d.mu.Lock()
	d.speed = speed
	d.mu.Unlock()
}

func (d *Debugger) Reset() {
	d.mu.Lock()
	d.stopTimerLocked()
	if len(d.steps) > 0 {
		d.index = 0
	}
	d.state = PlaybackStopped
	d.unlockAndNotify()
}

// SetBreakpoint installs a condition over the step variables (index,
// node_id, result, error, has_error); auto-play pauses on the first step
// that matches. The condition is validated here, not per step.
func (d *Debugger) SetBreakpoint(cond string) error {
	if err := eval.Validate(cond); err != nil {
		return err
	}
	d.mu.Lock()
	d.breakpoint = cond
	d.mu.Unlock()
	return nil
}

func (d *Debugger) ClearBreakpoint() {
	d.mu.Lock()
	d.breakpoint = ""
	d.mu.Unlock()
}

// Close cancels any live timer and makes the debugger inert. Idempotent.
func (d *Debugger) Close() {
	d.mu.Lock()
	d.stopTimerLocked()
	d.state = PlaybackStopped
	d.closed = true
	d.mu.Unlock()
}

func (d *Debugger) startTimerLocked() {
	d.stopTimerLocked()
	stop := make(chan struct{})
	d.stop = stop
	go d.run(stop)
}

func (d *Debugger) stopTimerLocked() {
	if d.stop != nil {
		close(d.stop)
		d.stop = nil
	}
}

func (d *Debugger) run(stop chan struct{}) {
	for {
		d.mu.Lock()
		speed := d.speed
		d.mu.Unlock()

		select {
		case <-stop:
			return
		case <-time.After(speed):
			if !d.autoStep() {
				return
			}
		}
	}
}

// autoStep is the timer tick: advance while playing, pause at the end or on
// a breakpoint hit. Returns false when the timer should die.
func (d *Debugger) autoStep() bool {
	d.mu.Lock()
	if d.state != PlaybackPlaying {
		d.mu.Unlock()
		return false
	}
	if d.index < len(d.steps)-1 {
		d.index++
		if d.breakpointHitLocked() {
			d.stopTimerLocked()
			d.state = PlaybackPaused
		}
	} else {
		d.stopTimerLocked()
		d.state = PlaybackPaused
	}
	cont := d.state == PlaybackPlaying
	d.unlockAndNotify()
	return cont
}

func (d *Debugger) breakpointHitLocked() bool {
	if d.breakpoint == "" || d.index < 0 || d.index >= len(d.steps) {
		return false
	}
	ok, err := eval.Eval(d.breakpoint, stepVars(d.steps[d.index], d.index))
	return err == nil && ok
}

func stepVars(step ExecutionStep, index int) map[string]any {
	var result any
	if len(step.Result) > 0 {
		_ = json.Unmarshal(step.Result, &result)
	}
	return map[string]any{
		"index":     index,
		"node_id":   step.NodeID,
		"result":    result,
		"error":     step.Error,
		"has_error": step.Error != "",
	}
}

// unlockAndNotify snapshots under the lock, releases it, then invokes the
// listener so callbacks can call back into the debugger.
func (d *Debugger) unlockAndNotify() {
	var snap Snapshot
	if d.listener != nil {
		snap = d.snapshotLocked()
	}
	listener := d.listener
	d.mu.Unlock()
	if listener != nil {
		listener(snap)
	}
}
