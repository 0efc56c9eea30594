package kompute

import "github.com/imaginationtech/kompute/internal/engine"

// Sequence is a command-buffer-backed recorder and submitter; owns a
// fence-equivalent and an optional per-op timestamp list; supports
// sync eval, async eval, await, and re-record (spec.md §4.6).
type Sequence = engine.Sequence

// State is a Sequence's position in the FSM of spec.md §4.6.
type State = engine.State

const (
	StateCreated   = engine.StateCreated
	StateRecording = engine.StateRecording
	StateRecorded  = engine.StateRecorded
	StateRunning   = engine.StateRunning
	StateDestroyed = engine.StateDestroyed
)

// WaitForever is the EvalAwait timeout sentinel meaning "block until
// the fence signals" (spec.md §6.1's no-argument eval_await() default).
const WaitForever = engine.WaitForever
