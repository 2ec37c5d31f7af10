//go:build !cgo

package ocr

import "image"

// Engine is the stand-in used when the binary is built without CGO. Every
// recognition call fails with ErrUnavailable so detection strategies skip
// their OCR stage instead of crashing.
type Engine struct {
	opts Options
}

// New returns an Engine configured with opts.
func New(opts Options) *Engine {
	if opts.Language == "" {
		opts.Language = DefaultOptions().Language
	}
	return &Engine{opts: opts}
}

// RecognizeCharacter always returns ErrUnavailable.
func (e *Engine) RecognizeCharacter(img image.Image) (string, float64, error) {
	return "", 0, ErrUnavailable
}

// Info reports OCR as unavailable.
func (e *Engine) Info() Info {
	return Info{
		Available: false,
		Error:     ErrUnavailable.Error(),
		Backend:   Backend,
		Language:  e.opts.Language,
	}
}

// Close is a no-op.
func (e *Engine) Close() error {
	return nil
}
