package api

import (
	"io"
	"sync"
)

// StatusStream receives the manager's status lines, mirrors them to an
// output stream (stdout, for piping into a panel) and fans them out to
// websocket subscribers. The manager publishes from its own goroutine;
// subscribers read from theirs, so the stream is the one place in the
// program that needs locking.
type StatusStream struct {
	out io.Writer

	mu   sync.Mutex
	last string
	subs map[chan string]struct{}
}

// NewStatusStream creates a stream mirroring to out. A nil out disables
// mirroring.
func NewStatusStream(out io.Writer) *StatusStream {
	return &StatusStream{out: out, subs: map[chan string]struct{}{}}
}

// Publish stores the line, forwards it to every subscriber and mirrors
// it to the output stream. Slow subscribers miss lines instead of
// blocking the manager.
func (s *StatusStream) Publish(line string) {
	s.mu.Lock()
	s.last = line
	for ch := range s.subs {
		select {
		case ch <- line:
		default:
		}
	}
	s.mu.Unlock()
	if s.out != nil {
		io.WriteString(s.out, line)
	}
}

// Last returns the most recently published line, empty before the
// first publish.
func (s *StatusStream) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Subscribe registers a consumer. The returned cancel must be called to
// release the subscription.
func (s *StatusStream) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 16)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch, func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
}
