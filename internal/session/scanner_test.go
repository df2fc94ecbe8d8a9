package session

import (
	"errors"
	"testing"
)

func TestSession_ScanDetectionPrefillsForm(t *testing.T) {
	h := newHarness()
	h.session.OpenAdd()
	h.session.OpenScanner()

	if !h.view.lastScannerOpen() || h.scanner.started != 1 {
		t.Fatal("Scanner not started")
	}

	h.scanner.handlers.Detected("4006381333931")

	if h.session.State().Add.Barcode != "4006381333931" || h.view.lastForm().Barcode != "4006381333931" {
		t.Errorf("Form not prefilled: %+v", h.view.lastForm())
	}
	if h.view.lastScannerOpen() || h.session.State().ScannerOpen {
		t.Error("Scanner should close after a detection")
	}
	if h.scanner.stopped != 1 {
		t.Errorf("Scanner stopped %d times", h.scanner.stopped)
	}
	if h.view.lastToast() != "Barcode gescand: 4006381333931" {
		t.Errorf("Toast = %q", h.view.lastToast())
	}
}

func TestSession_ScanInitFailure(t *testing.T) {
	h := newHarness()
	h.scanner.startErr = errors.New("permission denied")

	h.session.OpenScanner()

	if h.session.State().ScannerOpen || h.view.lastScannerOpen() {
		t.Error("Scanner should close when it cannot start")
	}
	if h.view.lastToast() != ToastCameraMissing {
		t.Errorf("Toast = %q", h.view.lastToast())
	}
}

func TestSession_ScanFailureAfterStart(t *testing.T) {
	h := newHarness()
	h.session.OpenScanner()

	h.scanner.handlers.Failed(errors.New("no camera"))

	if h.session.State().ScannerOpen {
		t.Error("Scanner should close on failure")
	}
	if h.view.lastToast() != ToastCameraMissing {
		t.Errorf("Toast = %q", h.view.lastToast())
	}
}

func TestSession_DetectionAfterCloseIgnored(t *testing.T) {
	h := newHarness()
	h.session.OpenAdd()
	h.session.OpenScanner()
	detected := h.scanner.handlers.Detected

	h.session.CloseScanner()
	detected("4006381333931")

	if h.session.State().Add.Barcode != "" {
		t.Error("Detection after close prefilled the form")
	}
	if len(h.view.toasts) != 0 {
		t.Errorf("Unexpected toasts: %v", h.view.toasts)
	}
}

func TestSession_DetectionFromEarlierOpenIgnored(t *testing.T) {
	h := newHarness()
	h.session.OpenScanner()
	stale := h.scanner.handlers.Detected
	h.session.CloseScanner()
	h.session.OpenScanner()

	stale("4006381333931")

	if !h.session.State().ScannerOpen {
		t.Error("Stale detection closed the new scanner")
	}
}

func TestSession_CloseScannerIgnoresStopError(t *testing.T) {
	h := newHarness()
	h.scanner.stopErr = errors.New("already stopped")
	h.session.OpenScanner()

	h.session.CloseScanner()

	if h.session.State().ScannerOpen || h.view.lastScannerOpen() {
		t.Error("Scanner should be hidden even when stop fails")
	}
}

func TestSession_NoScannerAvailable(t *testing.T) {
	h := newHarness()
	h.session.deps.Scanner = nil

	h.session.OpenScanner()

	if h.session.State().ScannerOpen || h.view.lastToast() != ToastCameraMissing {
		t.Error("Missing scanner should behave like an init failure")
	}
}
