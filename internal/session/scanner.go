package session

import (
	"github.com/pasjesplank/plank/internal/logger"
	"github.com/pasjesplank/plank/internal/scan"
)

// OpenScanner shows the scanner and starts the collaborator. If it cannot
// start, the scanner closes again with a message.
func (s *Session) OpenScanner() {
	if s.state.ScannerOpen {
		return
	}
	s.state.ScannerOpen = true
	s.state.scanGen++
	gen := s.state.scanGen
	s.deps.View.Scanner(true, s.opts.Scan)

	if s.deps.Scanner == nil {
		s.scanFailed(gen, nil)
		return
	}

	err := s.deps.Scanner.Start(s.ctx, scan.Handlers{
		Detected: func(code string) {
			s.deps.Post(func() { s.scanDetected(gen, code) })
		},
		Failed: func(err error) {
			s.deps.Post(func() { s.scanFailed(gen, err) })
		},
	})
	if err != nil {
		s.scanFailed(gen, err)
	}
}

// CloseScanner stops the collaborator and hides the scanner.
func (s *Session) CloseScanner() {
	s.state.scanGen++
	if s.deps.Scanner != nil {
		if err := s.deps.Scanner.Stop(); err != nil {
			logger.Get().Debugw("Scanner stop failed", "error", err)
		}
	}
	s.state.ScannerOpen = false
	s.deps.View.Scanner(false, s.opts.Scan)
}

func (s *Session) scanDetected(gen uint64, code string) {
	if !s.state.ScannerOpen || gen != s.state.scanGen {
		return // scanner already closed
	}
	s.state.Add.Barcode = code
	s.deps.View.AddForm(s.state.Add)
	s.CloseScanner()
	s.toast(ToastScannedPrefix + code)
}

func (s *Session) scanFailed(gen uint64, err error) {
	if !s.state.ScannerOpen || gen != s.state.scanGen {
		return
	}
	if err != nil {
		logger.Get().Warnw("Scanner unavailable", "error", err)
	}
	s.CloseScanner()
	s.toast(ToastCameraMissing)
}
