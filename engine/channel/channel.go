// Package channel links host callers to the render loop: an unbounded edit queue flowing in and
// a result queue flowing back, with exactly one outcome per edit.
package channel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// OutcomeOK is the outcome reported for an edit that was applied.
const OutcomeOK = "ok"

// ErrChannelClosed is returned by every send and await once the render loop has stopped.
var ErrChannelClosed = errors.New("channel closed: render loop is no longer running")

// EditKind tags the payload carried by an EditEvent.
type EditKind int

const (
	EditShaderSource EditKind = iota
	EditTextureBytes
)

func (k EditKind) String() string {
	switch k {
	case EditShaderSource:
		return "shader"
	case EditTextureBytes:
		return "texture"
	default:
		return "unknown"
	}
}

// EditEvent is one edit submitted by the host: either fragment shader source or encoded image bytes.
type EditEvent struct {
	Kind   EditKind
	Source string
	Bytes  []byte

	seq uint64
}

// ShaderSource returns an edit carrying WGSL fragment shader source.
func ShaderSource(text string) EditEvent {
	return EditEvent{Kind: EditShaderSource, Source: text}
}

// TextureBytes returns an edit carrying encoded image file contents.
func TextureBytes(data []byte) EditEvent {
	return EditEvent{Kind: EditTextureBytes, Bytes: data}
}

// Size returns the payload size in bytes.
func (e EditEvent) Size() int {
	if e.Kind == EditShaderSource {
		return len(e.Source)
	}
	return len(e.Bytes)
}

// Result is the value delivered by the asynchronous send variants.
type Result struct {
	Outcome string
	Err     error
}

// outcome pairs a reply with the sequence number of the edit it answers.
type outcome struct {
	seq     uint64
	message string
}

// Handle is the host-facing side of the channel pair. It is safe for concurrent use and can be cloned freely.
type Handle interface {
	// SendShader submits fragment shader source and waits for its outcome.
	//
	// Parameters:
	//   - ctx: cancels the wait; the edit may still be applied
	//   - source: WGSL fragment shader source
	//
	// Returns:
	//   - string: "ok" or the compiler diagnostic, verbatim
	//   - error: ErrChannelClosed once the render loop stopped, or ctx.Err()
	SendShader(ctx context.Context, source string) (string, error)

	// SendTexture submits encoded image bytes and waits for their outcome.
	//
	// Parameters:
	//   - ctx: cancels the wait; the edit may still be applied
	//   - data: encoded image file contents
	//
	// Returns:
	//   - string: "ok" or the decoder message, verbatim
	//   - error: ErrChannelClosed once the render loop stopped, or ctx.Err()
	SendTexture(ctx context.Context, data []byte) (string, error)

	// Submit enqueues an arbitrary edit and waits for its outcome.
	Submit(ctx context.Context, event EditEvent) (string, error)

	// SendShaderAsync runs SendShader on the host task pool and delivers the result on the returned channel.
	// It returns immediately, even when the pool is saturated.
	SendShaderAsync(source string) <-chan Result

	// SendTextureAsync runs SendTexture on the host task pool and delivers the result on the returned channel.
	SendTextureAsync(data []byte) <-chan Result

	// Clone returns another handle bound to the same render loop.
	Clone() Handle

	// Done is closed once the render loop has closed the channels.
	Done() <-chan struct{}
}

// Receiver is the render-loop side of the channel pair. It must only be used from the render loop.
type Receiver interface {
	// TryRecv takes at most one pending edit without blocking.
	//
	// Returns:
	//   - EditEvent: the edit, valid when ok is true
	//   - bool: whether an edit was taken
	//   - error: ErrChannelClosed when the channels were closed
	TryRecv() (EditEvent, bool, error)

	// Reply sends the outcome for an edit previously taken with TryRecv.
	//
	// Parameters:
	//   - event: the edit being answered
	//   - message: "ok" or the diagnostic text
	//
	// Returns:
	//   - error: ErrChannelClosed when the channels were closed
	Reply(event EditEvent, message string) error

	// Pending returns the number of edits waiting to be taken.
	Pending() int

	// Close closes both directions and releases every waiting host call with ErrChannelClosed.
	Close()
}

// link is the state shared by every handle clone and the receiver.
type link struct {
	edits   *queue[EditEvent]
	results *queue[outcome]

	// turn admits one outstanding edit at a time so outcomes cannot be handed to the wrong caller.
	turn chan struct{}
	seq  atomic.Uint64

	// submit hands a task to the host worker pool; nil means one goroutine per async call.
	submit func(task worker.Task)
	taskID atomic.Int64

	closeOnce sync.Once
}

type handle struct {
	l *link
}

type receiver struct {
	l *link
}

var (
	_ Handle   = &handle{}
	_ Receiver = &receiver{}
)

// New creates a linked Handle and Receiver.
//
// Parameters:
//   - options: functional options for the channel pair
//
// Returns:
//   - Handle: the host side
//   - Receiver: the render loop side
func New(options ...ChannelBuilderOption) (Handle, Receiver) {
	l := &link{
		edits:   newQueue[EditEvent](),
		results: newQueue[outcome](),
		turn:    make(chan struct{}, 1),
	}
	for _, opt := range options {
		opt(l)
	}
	return &handle{l: l}, &receiver{l: l}
}

func (h *handle) SendShader(ctx context.Context, source string) (string, error) {
	return h.Submit(ctx, ShaderSource(source))
}

func (h *handle) SendTexture(ctx context.Context, data []byte) (string, error) {
	return h.Submit(ctx, TextureBytes(data))
}

func (h *handle) Submit(ctx context.Context, event EditEvent) (string, error) {
	select {
	case h.l.turn <- struct{}{}:
	case <-h.l.edits.Done():
		return "", ErrChannelClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-h.l.turn }()

	event.seq = h.l.seq.Add(1)
	if err := h.l.edits.Push(event); err != nil {
		return "", err
	}

	for {
		out, err := h.l.results.Pop(ctx)
		if err != nil {
			return "", err
		}
		// Outcomes of earlier submissions whose callers gave up are dropped here.
		if out.seq == event.seq {
			return out.message, nil
		}
	}
}

func (h *handle) SendShaderAsync(source string) <-chan Result {
	return h.submitAsync(ShaderSource(source))
}

func (h *handle) SendTextureAsync(data []byte) <-chan Result {
	return h.submitAsync(TextureBytes(data))
}

func (h *handle) Clone() Handle {
	return &handle{l: h.l}
}

func (h *handle) Done() <-chan struct{} {
	return h.l.edits.Done()
}

// submitAsync runs Submit on the configured pool, or on its own goroutine when there is none.
// It never blocks the caller.
func (h *handle) submitAsync(event EditEvent) <-chan Result {
	out := make(chan Result, 1)
	run := func() {
		msg, err := h.Submit(context.Background(), event)
		out <- Result{Outcome: msg, Err: err}
	}

	if h.l.submit == nil {
		go run()
		return out
	}

	task := worker.Task{
		ID: int(h.l.taskID.Add(1)),
		Do: func() (any, error) {
			run()
			return nil, nil
		},
	}
	// SubmitTask blocks while the pool queue is full, and the queued tasks wait on the render loop.
	go h.l.submit(task)
	return out
}

func (r *receiver) TryRecv() (EditEvent, bool, error) {
	return r.l.edits.TryPop()
}

func (r *receiver) Reply(event EditEvent, message string) error {
	return r.l.results.Push(outcome{seq: event.seq, message: message})
}

func (r *receiver) Pending() int {
	return r.l.edits.Len()
}

func (r *receiver) Close() {
	r.l.closeOnce.Do(func() {
		r.l.edits.Close()
		r.l.results.Close()
	})
}
