// Package suggest issues inline text suggestions for the entry being edited.
//
// The completion backend is an external collaborator; what lives here is the
// cancellation discipline: a request is tied to the exact input that triggered
// it, and the moment the input moves on, the in-flight request is cancelled
// and its result - even if it arrives - is never applied. Without this, a slow
// response for "hello worl" could overwrite state derived from
// "hello world!".
package suggest

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultWindow is the quiet period after the last keystroke before a
// suggestion request is issued.
const DefaultWindow = 300 * time.Millisecond

// Completer produces a continuation for the given prompt.
// Implementations must honor context cancellation.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Requester debounces input changes into at most one in-flight completion
// request, cancelling the previous request whenever the input changes.
//
// Results are delivered through the apply callback, and only when the input
// that produced them is still current.
type Requester struct {
	completer Completer
	window    time.Duration
	apply     func(input, suggestion string)

	mu     sync.Mutex
	input  string
	timer  *time.Timer
	cancel context.CancelFunc
	gen    int // identifies the request r.cancel belongs to
	closed bool
}

// Option configures a Requester.
type Option func(*Requester)

// WithWindow overrides the debounce window.
func WithWindow(d time.Duration) Option {
	return func(r *Requester) {
		r.window = d
	}
}

// New creates a requester. apply is invoked with the triggering input and the
// suggestion, never concurrently with itself for the same requester.
func New(completer Completer, apply func(input, suggestion string), opts ...Option) *Requester {
	r := &Requester{
		completer: completer,
		window:    DefaultWindow,
		apply:     apply,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Input reports the current editor content. Any pending debounce timer is
// reset and any in-flight request for a previous input is cancelled.
func (r *Requester) Input(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.input = text

	// The old request is for an input that no longer exists.
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.timer != nil {
		r.timer.Stop()
	}

	r.timer = time.AfterFunc(r.window, func() { r.request(text) })
}

// request issues the completion call for input, on the timer goroutine.
func (r *Requester) request(input string) {
	r.mu.Lock()
	if r.closed || input != r.input {
		// Typing continued while the timer was firing.
		r.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.gen++
	gen := r.gen
	r.cancel = cancel
	r.mu.Unlock()

	suggestion, err := r.completer.Complete(ctx, input)
	cancel()

	r.mu.Lock()
	current := r.input
	closed := r.closed
	// Deregister only our own cancel; a newer request may have replaced it.
	if r.gen == gen {
		r.cancel = nil
	}
	r.mu.Unlock()

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Debug("suggestion request failed", "error", err)
		}
		return
	}

	// Stale guard: the result only applies to the input that produced it.
	if closed || current != input {
		slog.Debug("discarding stale suggestion", "input_len", len(input))
		return
	}

	r.apply(input, suggestion)
}

// Close cancels any pending timer and in-flight request; their results are
// discarded.
func (r *Requester) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
