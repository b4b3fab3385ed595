// Package keyreader watches an input stream for quit keys while the plain
// panel occupies the terminal.
package keyreader

import (
	"context"
	"io"
	"sync"

	"github.com/muesli/cancelreader"
)

// Reader owns the background read loop. Stop is safe to call on a nil
// receiver and after the loop has already exited.
type Reader struct {
	cancel func()
	wg     sync.WaitGroup
	cr     cancelreader.CancelReader
}

// Start begins watching r and calls onQuit once when a quit key arrives.
// A nil reader or callback yields an inert Reader.
func Start(ctx context.Context, r io.Reader, onQuit func()) (*Reader, error) {
	if r == nil || onQuit == nil {
		return &Reader{cancel: func() {}}, nil
	}
	cr, err := cancelreader.NewReader(r)
	if err != nil {
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	s := &Reader{cancel: cancel, cr: cr}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		buf := make([]byte, 32)
		for {
			if streamCtx.Err() != nil {
				return
			}
			n, err := cr.Read(buf)
			for _, b := range buf[:n] {
				if isQuitKey(b) {
					onQuit()
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	return s, nil
}

// Stop cancels the watch and waits for the read loop to exit.
func (s *Reader) Stop() {
	if s == nil {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.cr != nil {
		s.cr.Cancel()
		_ = s.cr.Close()
	}
	s.wg.Wait()
}

// isQuitKey matches q, Q, and Ctrl+C.
func isQuitKey(b byte) bool {
	switch b {
	case 'q', 'Q', 0x03:
		return true
	}
	return false
}
