package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
)

// ErrUnavailable is returned by every recognition call when the binary was
// built without Tesseract support (CGO disabled).
var ErrUnavailable = errors.New("ocr: tesseract support not compiled in")

// Backend names the recognition engine reported by Info.
const Backend = "gosseract"

// DefaultWhitelist restricts recognition to the letters a puzzle tile can show.
const DefaultWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Options configures the Tesseract client.
type Options struct {
	// Language is the Tesseract language code. Default "eng".
	Language string `mapstructure:"language"`

	// TessdataPrefix points at a directory containing <Language>.traineddata.
	// Empty uses the system installation.
	TessdataPrefix string `mapstructure:"tessdata_prefix"`

	// Whitelist limits the characters Tesseract may emit.
	Whitelist string `mapstructure:"whitelist"`
}

// DefaultOptions returns English single-letter recognition settings.
func DefaultOptions() Options {
	return Options{
		Language:  "eng",
		Whitelist: DefaultWhitelist,
	}
}

// Info contains information about the OCR subsystem.
type Info struct {
	Available    bool   `json:"available"`
	Version      string `json:"version,omitempty"`
	Error        string `json:"error,omitempty"`
	Backend      string `json:"backend"`
	Language     string `json:"language"`
	TessdataPath string `json:"tessdata_path,omitempty"`
}

// encodePNG renders img for Tesseract, which reads images from encoded bytes.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode glyph: %w", err)
	}
	return buf.Bytes(), nil
}
