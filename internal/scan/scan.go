// Package scan defines the barcode-scanner collaborator used to prefill the
// add form, and a scanner that reads codes typed by a USB/HID scanner.
package scan

import (
	"context"
	"strings"
)

// Reader names a decoder the scanner should run.
type Reader string

const (
	ReaderEAN13 Reader = "ean_reader"
	ReaderEAN8  Reader = "ean_8_reader"
)

// Config describes the camera stream and decoder settings.
type Config struct {
	Target     string   `json:"target"`
	FacingMode string   `json:"facingMode"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Readers    []Reader `json:"readers"`
	Locate     bool     `json:"locate"`
	Frequency  int      `json:"frequency"`
}

// DefaultConfig uses the rear camera at 1280x720 and decodes EAN codes.
func DefaultConfig() Config {
	return Config{
		Target:     "#scanner-viewport",
		FacingMode: "environment",
		Width:      1280,
		Height:     720,
		Readers:    []Reader{ReaderEAN13, ReaderEAN8},
		Locate:     true,
		Frequency:  10,
	}
}

// Handlers receive scanner output. Either may be nil.
type Handlers struct {
	Detected func(code string)
	Failed   func(err error)
}

func (h Handlers) detected(code string) {
	if h.Detected != nil {
		h.Detected(code)
	}
}

func (h Handlers) failed(err error) {
	if h.Failed != nil {
		h.Failed(err)
	}
}

// Scanner is a source of decoded barcodes.
type Scanner interface {
	// Start begins scanning. An error means the device could not be
	// initialized; no handler will be called in that case.
	Start(ctx context.Context, h Handlers) error

	// Stop ends scanning. It is safe to call when not started.
	Stop() error
}

// ValidEAN reports whether code is an EAN-13 or EAN-8 with a correct check digit.
func ValidEAN(code string) bool {
	if len(code) != 13 && len(code) != 8 {
		return false
	}
	sum := 0
	for i, r := range code {
		if r < '0' || r > '9' {
			return false
		}
		d := int(r - '0')
		if i == len(code)-1 {
			return (10-sum%10)%10 == d
		}
		// Weights alternate 3,1 from the digit left of the check digit.
		if (len(code)-1-i)%2 == 1 {
			sum += 3 * d
		} else {
			sum += d
		}
	}
	return false
}

// Normalize strips whitespace and control characters scanners append.
func Normalize(raw string) string {
	return strings.TrimFunc(raw, func(r rune) bool {
		return r <= ' ' || r == 0x7f
	})
}
