//go:build cgo

package ocr

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes single characters with Tesseract.
//
// One gosseract client is created lazily and reused for every call; calls are
// serialized because a Tesseract handle is not safe for concurrent use.
type Engine struct {
	opts Options

	mu      sync.Mutex
	client  *gosseract.Client
	closed  bool
	initErr error
	once    sync.Once
}

// errClosed is returned by calls made after Close.
var errClosed = fmt.Errorf("%w: engine closed", ErrUnavailable)

// New returns an Engine configured with opts. Empty fields fall back to
// DefaultOptions.
func New(opts Options) *Engine {
	def := DefaultOptions()
	if opts.Language == "" {
		opts.Language = def.Language
	}
	if opts.Whitelist == "" {
		opts.Whitelist = def.Whitelist
	}
	return &Engine{opts: opts}
}

func (e *Engine) init() error {
	e.once.Do(func() {
		client := gosseract.NewClient()

		if e.opts.TessdataPrefix != "" {
			if err := client.SetTessdataPrefix(e.opts.TessdataPrefix); err != nil {
				client.Close()
				e.initErr = fmt.Errorf("failed to set tessdata path: %w", err)
				return
			}
		}
		if err := client.SetLanguage(e.opts.Language); err != nil {
			client.Close()
			e.initErr = fmt.Errorf("failed to set language: %w", err)
			return
		}
		if err := client.SetPageSegMode(gosseract.PSM_SINGLE_CHAR); err != nil {
			client.Close()
			e.initErr = fmt.Errorf("failed to set page segmentation mode: %w", err)
			return
		}
		if err := client.SetWhitelist(e.opts.Whitelist); err != nil {
			client.Close()
			e.initErr = fmt.Errorf("failed to set whitelist: %w", err)
			return
		}
		e.mu.Lock()
		e.client = client
		e.mu.Unlock()
	})
	return e.initErr
}

// RecognizeCharacter runs single-character OCR on img and returns the trimmed
// text Tesseract produced together with its symbol confidence (0.0 to 1.0).
//
// The text is returned as recognized; callers decide whether it is a usable
// letter. Confidence is 0 when Tesseract reports no symbol boxes.
func (e *Engine) RecognizeCharacter(img image.Image) (string, float64, error) {
	if err := e.init(); err != nil {
		return "", 0, err
	}

	data, err := encodePNG(img)
	if err != nil {
		return "", 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.client == nil {
		return "", 0, errClosed
	}

	if err := e.client.SetImageFromBytes(data); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("OCR failed: %w", err)
	}

	confidence := 0.0
	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_SYMBOL)
	if err == nil && len(boxes) > 0 {
		confidence = float64(boxes[0].Confidence) / 100.0
	}

	return strings.TrimSpace(text), confidence, nil
}

// Info reports whether Tesseract initialized and which version is linked.
func (e *Engine) Info() Info {
	info := Info{
		Backend:      Backend,
		Language:     e.opts.Language,
		TessdataPath: e.opts.TessdataPrefix,
	}
	if err := e.init(); err != nil {
		info.Error = err.Error()
		return info
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.client == nil {
		info.Error = errClosed.Error()
		return info
	}
	info.Version = e.client.Version()
	info.Available = true
	return info
}

// Close releases the Tesseract handle. Later calls fail with ErrUnavailable;
// calls already holding the handle finish first.
func (e *Engine) Close() error {
	// An engine closed before first use must never create a client.
	e.once.Do(func() {})

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}
