package vision

import (
	"context"
	"sync"

	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
)

// StaticDetector is an in-memory Detector returning fixed results. It is
// used by tests and by the CLI's dry-run mode.
type StaticDetector struct {
	Text      []TextRegion
	Labels    []core.Detection
	TextErr   error
	LabelsErr error

	mu         sync.Mutex
	textCalls  int
	labelCalls int
}

// NewStaticDetector returns a detector reporting lines and labels.
func NewStaticDetector(lines, labels []core.Detection) *StaticDetector {
	regions := make([]TextRegion, 0, len(lines))
	for _, l := range lines {
		regions = append(regions, TextRegion{Text: l.Text, Confidence: l.Confidence, Kind: TextKindLine})
	}

	return &StaticDetector{Text: regions, Labels: labels}
}

// DetectText implements Detector.
func (d *StaticDetector) DetectText(ctx context.Context, _ []byte) ([]TextRegion, error) {
	d.mu.Lock()
	d.textCalls++
	d.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if d.TextErr != nil {
		return nil, d.TextErr
	}

	out := make([]TextRegion, len(d.Text))
	copy(out, d.Text)

	return out, nil
}

// DetectLabels implements Detector.
func (d *StaticDetector) DetectLabels(ctx context.Context, _ []byte, maxLabels int) ([]core.Detection, error) {
	d.mu.Lock()
	d.labelCalls++
	d.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if d.LabelsErr != nil {
		return nil, d.LabelsErr
	}

	n := len(d.Labels)
	if maxLabels > 0 && n > maxLabels {
		n = maxLabels
	}

	out := make([]core.Detection, n)
	copy(out, d.Labels[:n])

	return out, nil
}

// Calls returns the number of DetectText and DetectLabels calls made.
func (d *StaticDetector) Calls() (text, labels int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.textCalls, d.labelCalls
}
