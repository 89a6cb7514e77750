// Package ocr provides the text recognition capability consumed by the
// scoreboard pipeline.
//
// The pipeline depends only on the Recognizer interface, so tests and
// alternative engines can be injected with RecognizerFunc. The production
// implementation, Tesseract, wraps the Tesseract engine through gosseract/v2.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// gosseract requires cgo. Builds without cgo get a stub whose Recognize
// always fails with ErrRecognitionUnavailable.
//
// # Recognition Mode
//
// DefaultMode selects English and page segmentation mode 6 (a single uniform
// block of text), which suits the short column-aligned rows of a scoreboard.
// The engine mode is left at Tesseract's default (LSTM with legacy fallback).
//
// # Error Handling
//
// Every engine failure (missing library, unknown language, bad tessdata path,
// recognition error) is wrapped with ErrRecognitionUnavailable. There is no
// retry.
package ocr
