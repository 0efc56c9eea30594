package engine

import (
	"sync"
	"time"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/google/uuid"
)

// State is a Sequence's position in the FSM of spec.md §4.6:
// Created -> Recording <-> Recorded -> Running -> Recorded -> ... -> Destroyed.
type State int

const (
	StateCreated State = iota
	StateRecording
	StateRecorded
	StateRunning
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateRecording:
		return "Recording"
	case StateRecorded:
		return "Recorded"
	case StateRunning:
		return "Running"
	case StateDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// Sequence is a command-buffer-backed recorder and submitter: owns a
// fence-equivalent (a done channel closed once Device.Poll returns,
// see evalAsync) and an optional per-op timestamp list (see
// Timestamps); supports sync eval, async eval, await, and re-record
// (spec.md §4.6). Not safe for concurrent Record/Eval from multiple
// goroutines — "a Sequence is NOT thread-safe" (spec.md §5) — the
// mutex here guards the state, operation list and timestamp fields
// for accessors such as IsRunning, not against a caller misusing the
// same Sequence from two goroutines at once.
type Sequence struct {
	id    uuid.UUID
	Label string

	mu    sync.Mutex
	state State

	device       *GPUDevice
	queueIndex   int
	encoder      *wgpu.CommandEncoder
	commandBuf   *wgpu.CommandBuffer

	ops []Operation

	maxTimestamps int
	timestampVals []uint64

	done chan struct{}
}

func newSequence(device *GPUDevice, queueIndex, maxTimestamps int) *Sequence {
	return &Sequence{
		id:            uuid.New(),
		device:        device,
		queueIndex:    queueIndex,
		maxTimestamps: maxTimestamps,
		state:         StateCreated,
	}
}

func (s *Sequence) ID() uuid.UUID     { return s.id }
func (s *Sequence) IsRunning() bool   { s.mu.Lock(); defer s.mu.Unlock(); return s.state == StateRunning }
func (s *Sequence) IsRecording() bool { s.mu.Lock(); defer s.mu.Unlock(); return s.state == StateRecording }

// Begin transitions Created/Recorded -> Recording: allocates a
// command encoder if absent, and resets the timestamp bookkeeping
// (spec.md §4.6).
func (s *Sequence) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCreated && s.state != StateRecorded {
		return newErr("Sequence.Begin", KindAlreadyRunning, nil)
	}
	if s.encoder == nil {
		s.encoder = s.device.Device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: s.Label})
	}
	if s.maxTimestamps > 0 {
		s.timestampVals = make([]uint64, 0, s.maxTimestamps)
		s.timestampVals = append(s.timestampVals, 0)
	}
	s.ops = s.ops[:0]
	s.state = StateRecording
	return nil
}

// Record implements spec.md §4.6: valid only in Recording; calls
// op.PreEval immediately (so host-side prep happens before recording
// proceeds), then op.Record; appends op to the list.
func (s *Sequence) Record(op Operation) error {
	s.mu.Lock()
	recording := s.state == StateRecording
	s.mu.Unlock()
	if !recording {
		return newErr("Sequence.Record", KindNotRecording, nil)
	}
	if err := op.PreEval(s.encoder); err != nil {
		return err
	}
	if err := op.Record(s.encoder); err != nil {
		return err
	}
	s.mu.Lock()
	s.ops = append(s.ops, op)
	if s.maxTimestamps > 0 && len(s.timestampVals) < s.maxTimestamps {
		s.timestampVals = append(s.timestampVals, uint64(len(s.timestampVals)))
	}
	s.mu.Unlock()
	return nil
}

// End transitions Recording -> Recorded, finishing the encoder into a
// submittable command buffer.
func (s *Sequence) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecording {
		return newErr("Sequence.End", KindNotRecording, nil)
	}
	s.commandBuf = s.encoder.Finish(&wgpu.CommandBufferDescriptor{Label: s.Label})
	s.encoder = nil
	s.state = StateRecorded
	return nil
}

// WaitForever is the EvalAwait timeout sentinel meaning "block until
// the fence signals" — spec.md §6.1's no-argument eval_await() default.
// A timeout of exactly 0 is a distinct, valid request: poll once and
// return fence-timeout immediately if the fence has not yet signaled
// (spec.md §8 scenario 4).
const WaitForever int64 = -1

// Eval implements spec.md §4.6: Recorded -> Running -> (await) ->
// Recorded. Submits with a fence-equivalent wait, blocks with no
// timeout, then runs every op's PostEval in insertion order.
func (s *Sequence) Eval() error {
	if err := s.evalAsync(); err != nil {
		return err
	}
	return s.EvalAwait(WaitForever)
}

// EvalAsync implements spec.md §4.6's eval_async(): Recorded ->
// Running, returns immediately after submission.
func (s *Sequence) EvalAsync() error {
	return s.evalAsync()
}

func (s *Sequence) evalAsync() error {
	s.mu.Lock()
	if s.state != StateRecorded {
		s.mu.Unlock()
		return newErr("Sequence.Eval", KindNotRecorded, nil)
	}
	buf := s.commandBuf
	s.state = StateRunning
	s.done = make(chan struct{})
	s.mu.Unlock()

	queue := s.device.Queue(s.queueIndex)
	queue.Submit(buf)

	done := s.done
	go func() {
		s.device.Device.Poll(true, nil)
		close(done)
	}()
	return nil
}

// EvalAwait implements spec.md §4.6's eval_await(timeout_ns):
// Running -> Recorded (or remains Running on timeout, returning
// fence-timeout, invariant S4). Invariant S3: called on a Sequence not
// in Running, it returns immediately with success. timeoutNs ==
// WaitForever blocks indefinitely; timeoutNs == 0 polls once and
// returns fence-timeout immediately if unsignaled; any positive value
// waits up to that many nanoseconds.
func (s *Sequence) EvalAwait(timeoutNs int64) error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return nil
	}
	done := s.done
	s.mu.Unlock()

	switch {
	case timeoutNs == WaitForever:
		<-done
	case timeoutNs == 0:
		select {
		case <-done:
		default:
			return newErr("Sequence.EvalAwait", KindFenceTimeout, nil)
		}
	default:
		select {
		case <-done:
		case <-time.After(time.Duration(timeoutNs)):
			return newErr("Sequence.EvalAwait", KindFenceTimeout, nil)
		}
	}

	s.mu.Lock()
	ops := s.ops
	s.state = StateRecorded
	s.mu.Unlock()

	for _, op := range ops {
		if err := op.PostEval(nil); err != nil {
			return err
		}
	}
	return nil
}

// Clear implements spec.md §4.6: Recorded -> Created, discarding the
// recorded operation list; re-recording is required afterward.
func (s *Sequence) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecorded {
		return newErr("Sequence.Clear", KindNotRecorded, nil)
	}
	s.ops = nil
	s.commandBuf = nil
	s.state = StateCreated
	return nil
}

// Rerecord resets the command buffer and re-records each stored op in
// order, useful when bindings changed underneath (spec.md §4.6).
func (s *Sequence) Rerecord() error {
	s.mu.Lock()
	ops := append([]Operation(nil), s.ops...)
	s.mu.Unlock()

	if err := s.Begin(); err != nil {
		return err
	}
	for _, op := range ops {
		if err := s.Record(op); err != nil {
			return err
		}
	}
	return s.End()
}

// Timestamps returns the per-op index list built since the last
// Begin: Begin writes 0 and each recorded op appends the next index
// (1, 2, ...), up to maxTimestamps entries. The values are not GPU
// timestamp-query counters and are not captured during eval.
func (s *Sequence) Timestamps() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint64(nil), s.timestampVals...)
}

// Destroy releases the command encoder/buffer; any -> Destroyed
// (spec.md §4.6).
func (s *Sequence) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.encoder = nil
	s.commandBuf = nil
	s.ops = nil
	s.state = StateDestroyed
}
