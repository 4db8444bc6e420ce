package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 80 * time.Millisecond

// spinner animates a status line on w until stopped or until ctx ends.
type spinner struct {
	w    io.Writer
	quit chan struct{}
	exit chan struct{}
	once sync.Once

	mu    sync.Mutex
	msg   string
	drawn int // widest line written, for clearing
}

func startSpinner(ctx context.Context, w io.Writer, msg string) *spinner {
	s := &spinner{w: w, quit: make(chan struct{}), exit: make(chan struct{}), msg: msg}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.exit)
	t := time.NewTicker(spinnerTick)
	defer t.Stop()
	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		case <-t.C:
			s.draw(spinnerFrames[frame%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawn = max(s.drawn, len(s.msg)+2)
	fmt.Fprintf(s.w, "\r%s %s", styleAccent.Render(frame), styleMuted.Render(s.msg))
}

// set replaces the message from the next frame on.
func (s *spinner) set(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// stop ends the animation and blanks the line. Later calls do nothing.
func (s *spinner) stop() {
	s.once.Do(func() {
		close(s.quit)
		<-s.exit
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.drawn > 0 {
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.drawn))
		}
	})
}

// spin runs fn under a spinner and clears it afterwards.
func spin(ctx context.Context, w io.Writer, msg string, fn func(*spinner) error) error {
	s := startSpinner(ctx, w, msg)
	defer s.stop()
	return fn(s)
}
