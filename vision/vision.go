// Package vision extracts text lines and object/scene labels from image bytes
// through a pluggable Detector (AWS Rekognition in production).
package vision

import (
	"context"
	"errors"
	"time"

	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/logging"
)

// DefaultMaxLabels is the label cap requested from the vision service.
const DefaultMaxLabels = 10

// TextKind classifies a detected text region.
type TextKind string

const (
	// TextKindLine is a full line of text.
	TextKindLine TextKind = "LINE"
	// TextKindWord is a single word inside a line.
	TextKindWord TextKind = "WORD"
)

// TextRegion is one text detection as reported by the service.
type TextRegion struct {
	Text       string
	Confidence float64
	Kind       TextKind
}

// Detector is the vision service boundary. Each method issues exactly one
// network call and returns results in service order.
type Detector interface {
	DetectText(ctx context.Context, image []byte) ([]TextRegion, error)
	DetectLabels(ctx context.Context, image []byte, maxLabels int) ([]core.Detection, error)
}

// Extraction is the result of a full extraction.
type Extraction struct {
	Text   []core.Detection
	Labels []core.Detection
}

// Options configures an Extractor.
type Options struct {
	MaxLabels   int
	CallTimeout time.Duration
	Logger      logging.Logger
}

// Extractor turns Detector output into line-level text and capped labels.
// Every call allocates fresh result slices.
type Extractor struct {
	detector Detector
	opts     Options
}

// NewExtractor wraps d.
func NewExtractor(d Detector, optFns ...func(o *Options)) *Extractor {
	opts := Options{
		MaxLabels:   DefaultMaxLabels,
		CallTimeout: 30 * time.Second,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MaxLabels <= 0 {
		opts.MaxLabels = DefaultMaxLabels
	}

	opts.Logger = logging.OrNoOp(opts.Logger)

	return &Extractor{detector: d, opts: opts}
}

// Extract runs text and label detection (two service calls). Image bytes
// are passed through without local validation.
func (e *Extractor) Extract(ctx context.Context, image []byte) (Extraction, error) {
	text, err := e.ExtractText(ctx, image)
	if err != nil {
		return Extraction{}, err
	}

	labels, err := e.ExtractLabels(ctx, image)
	if err != nil {
		return Extraction{}, err
	}

	return Extraction{Text: text, Labels: labels}, nil
}

// ExtractText returns the LINE detections in service order. WORD fragments are dropped.
func (e *Extractor) ExtractText(ctx context.Context, image []byte) ([]core.Detection, error) {
	var regions []TextRegion

	err := e.call(ctx, "DetectText", func(ctx context.Context) error {
		var err error
		regions, err = e.detector.DetectText(ctx, image)
		return err
	})
	if err != nil {
		return nil, err
	}

	lines := make([]core.Detection, 0, len(regions))
	for _, r := range regions {
		if r.Kind != TextKindLine {
			continue
		}
		lines = append(lines, core.Detection{Text: r.Text, Confidence: r.Confidence})
	}

	e.opts.Logger.Debug("vision.text.detected", "regions", len(regions), "lines", len(lines))

	return lines, nil
}

// ExtractLabels returns at most MaxLabels labels in service order.
func (e *Extractor) ExtractLabels(ctx context.Context, image []byte) ([]core.Detection, error) {
	var detected []core.Detection

	err := e.call(ctx, "DetectLabels", func(ctx context.Context) error {
		var err error
		detected, err = e.detector.DetectLabels(ctx, image, e.opts.MaxLabels)
		return err
	})
	if err != nil {
		return nil, err
	}

	n := min(len(detected), e.opts.MaxLabels)
	labels := make([]core.Detection, n)
	copy(labels, detected[:n])

	e.opts.Logger.Debug("vision.labels.detected", "labels", n)

	return labels, nil
}

// MaxLabels returns the configured label cap.
func (e *Extractor) MaxLabels() int { return e.opts.MaxLabels }

// call bounds fn by CallTimeout and maps any failure to *core.ExternalServiceError.
func (e *Extractor) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, e.opts.CallTimeout)
	defer cancel()

	start := time.Now()
	err := fn(callCtx)
	if err == nil {
		err = callCtx.Err()
	}

	if err != nil {
		e.opts.Logger.Error("vision.call.failed", "op", op, "duration_ms", time.Since(start).Milliseconds(), "error", err.Error())

		var ext *core.ExternalServiceError
		if errors.As(err, &ext) {
			return ext
		}

		return &core.ExternalServiceError{Service: "vision", Op: op, Err: err}
	}

	e.opts.Logger.Debug("vision.call.completed", "op", op, "duration_ms", time.Since(start).Milliseconds())

	return nil
}
