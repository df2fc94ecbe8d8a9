package scan

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	kanerr "github.com/pasjesplank/plank/internal/errors"
)

// LineScanner reads one code per line from r, as keyboard-wedge scanners
// produce. Lines that are not valid EAN codes are skipped.
type LineScanner struct {
	r io.Reader

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewLineScanner creates a scanner over r. If r is an io.Closer, Stop closes
// it so a blocked read returns.
func NewLineScanner(r io.Reader) *LineScanner {
	return &LineScanner{r: r}
}

// Start begins reading in a goroutine.
func (s *LineScanner) Start(ctx context.Context, h Handlers) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return kanerr.Unavailable("scanner", errors.New("already started"))
	}
	if s.r == nil {
		return kanerr.Unavailable("scanner", errors.New("no input"))
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.started = true

	lines := bufio.NewScanner(s.r)
	go func(done chan struct{}) {
		defer close(done)
		for lines.Scan() {
			if ctx.Err() != nil {
				return
			}
			code := Normalize(lines.Text())
			if !ValidEAN(code) {
				continue
			}
			h.detected(code)
		}
		if err := lines.Err(); err != nil && ctx.Err() == nil {
			h.failed(fmt.Errorf("read scanner input: %w", err))
		}
	}(s.done)
	return nil
}

// Stop cancels reading and closes the input if possible.
func (s *LineScanner) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.cancel()
	done := s.done
	s.mu.Unlock()

	var err error
	if c, ok := s.r.(io.Closer); ok {
		err = c.Close()
		<-done
	}
	return err
}

// Done is closed when the reading goroutine exits.
func (s *LineScanner) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}
