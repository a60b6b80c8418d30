// Package spinner provides a terminal progress indicator for long-running
// engine operations, chiefly the O(n²) similarity-matrix build during fit.
package spinner

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Spinner animates a progress line on a terminal writer. On non-terminal
// writers it still works but clears with a bare carriage return.
type Spinner struct {
	frames  []string
	delay   time.Duration
	writer  io.Writer
	message string
	started time.Time

	mu     sync.RWMutex
	active bool
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a spinner writing to w with the given status message.
// ctx cancellation stops the animation goroutine.
func New(ctx context.Context, w io.Writer, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		delay:   100 * time.Millisecond,
		writer:  w,
		message: message,
		ctx:     sctx,
		cancel:  cancel,
	}
}

// Start begins the animation; calling it twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true
	s.started = time.Now()
	s.wg.Add(1)
	go s.run()
}

// Stop halts the animation and clears the progress line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()

	if f, ok := s.writer.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(s.writer, "\r\033[2K")
	} else {
		fmt.Fprint(s.writer, "\r")
	}
}

// IsActive reports whether the animation is running.
func (s *Spinner) IsActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// UpdateMessage swaps the status message mid-run.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

func (s *Spinner) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			glyph := s.frames[frame%len(s.frames)]
			message := s.message
			elapsed := time.Since(s.started).Truncate(time.Second)
			s.mu.RUnlock()

			// show elapsed time once an operation stops feeling instant
			if elapsed >= 2*time.Second {
				fmt.Fprintf(s.writer, "\r%s %s (%s)", glyph, message, elapsed)
			} else {
				fmt.Fprintf(s.writer, "\r%s %s", glyph, message)
			}
			frame++
		}
	}
}
