// Package ocr provides single-character recognition using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2) in an Engine
// tuned for puzzle tiles: page segmentation mode "single character" and an
// A-Z whitelist.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Binaries built with CGO_ENABLED=0 compile a stand-in Engine whose
// RecognizeCharacter always returns ErrUnavailable. Info reports which
// variant is running.
//
// # Training Data
//
// Options.TessdataPrefix selects a directory holding <language>.traineddata.
// When empty, Tesseract's compiled-in default location is used.
//
// # Concurrency
//
// An Engine owns one Tesseract handle and serializes calls on it. Share one
// Engine per process rather than creating one per request.
package ocr
