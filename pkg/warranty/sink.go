package warranty

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/pkg/logger"
)

// Sink receives progress messages as a run advances. Emit must not block.
type Sink interface {
	Emit(message string)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(message string)

// Emit implements Sink
func (f SinkFunc) Emit(message string) { f(message) }

// Discard drops every message
var Discard Sink = SinkFunc(func(string) {})

// ChannelSink buffers messages for a streaming response. Once the buffer is
// full or the sink is closed, further messages are dropped.
type ChannelSink struct {
	mu      sync.Mutex
	ch      chan string
	closed  bool
	dropped int
}

// NewChannelSink creates a sink buffering up to size messages
func NewChannelSink(size int) *ChannelSink {
	if size <= 0 {
		size = 64
	}
	return &ChannelSink{ch: make(chan string, size)}
}

// Emit implements Sink
func (s *ChannelSink) Emit(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.dropped++
		return
	}
	select {
	case s.ch <- message:
	default:
		s.dropped++
	}
}

// Messages returns the receive side; it is closed by Close
func (s *ChannelSink) Messages() <-chan string {
	return s.ch
}

// Close stops delivery; buffered messages stay readable
func (s *ChannelSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Dropped returns how many messages could not be delivered
func (s *ChannelSink) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// recorder keeps every step of a run and shields it from a failing sink
type recorder struct {
	ctx   context.Context
	sink  Sink
	steps []string
}

func newRecorder(ctx context.Context, sink Sink) *recorder {
	if sink == nil {
		sink = Discard
	}
	return &recorder{ctx: ctx, sink: sink}
}

func (r *recorder) Emit(message string) {
	r.steps = append(r.steps, message)
	log := logger.FromContext(r.ctx)
	log.Debug("Warranty progress", zap.String("step", message))

	defer func() {
		if p := recover(); p != nil {
			log.Warn("Progress sink panicked", zap.Any("panic", p))
		}
	}()
	r.sink.Emit(message)
}

func (r *recorder) Steps() []string {
	return append([]string(nil), r.steps...)
}
