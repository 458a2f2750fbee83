package vision

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_KeepsOnlyLines(t *testing.T) {
	d := &StaticDetector{
		Text: []TextRegion{
			{Text: "Hello World", Confidence: 99.5, Kind: TextKindLine},
			{Text: "Hello", Confidence: 99.1, Kind: TextKindWord},
			{Text: "World", Confidence: 98.7, Kind: TextKindWord},
		},
		Labels: []core.Detection{{Text: "Sign", Confidence: 87}},
	}

	got, err := NewExtractor(d).Extract(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, []core.Detection{{Text: "Hello World", Confidence: 99.5}}, got.Text)
	assert.Equal(t, []core.Detection{{Text: "Sign", Confidence: 87}}, got.Labels)

	textCalls, labelCalls := d.Calls()
	assert.Equal(t, 1, textCalls)
	assert.Equal(t, 1, labelCalls)
}

func TestExtractor_CapsLabels(t *testing.T) {
	labels := make([]core.Detection, 15)
	for i := range labels {
		labels[i] = core.Detection{Text: strings.Repeat("x", i+1), Confidence: float64(100 - i)}
	}

	// the cap is enforced even when the detector ignores maxLabels
	d := &uncappedDetector{labels: labels}

	got, err := NewExtractor(d).ExtractLabels(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, got, DefaultMaxLabels)
	assert.Equal(t, "x", got[0].Text)
	assert.Equal(t, DefaultMaxLabels, d.requested)
}

func TestExtractor_FreshResultsPerCall(t *testing.T) {
	d := NewStaticDetector([]core.Detection{{Text: "Hello", Confidence: 99.1}}, nil)
	e := NewExtractor(d)

	first, err := e.Extract(context.Background(), []byte("a"))
	require.NoError(t, err)
	second, err := e.Extract(context.Background(), []byte("b"))
	require.NoError(t, err)

	assert.Len(t, first.Text, 1)
	assert.Len(t, second.Text, 1)

	first.Text[0].Text = "mutated"
	assert.Equal(t, "Hello", second.Text[0].Text)
	assert.NotNil(t, second.Labels)
}

func TestExtractor_FailureIsExternalServiceError(t *testing.T) {
	d := &StaticDetector{LabelsErr: errors.New("AccessDenied")}

	_, err := NewExtractor(d).Extract(context.Background(), []byte("img"))

	var ext *core.ExternalServiceError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, "vision", ext.Service)
	assert.Equal(t, "DetectLabels", ext.Op)
}

func TestExtractor_TimeoutIsExternalServiceError(t *testing.T) {
	e := NewExtractor(blockingDetector{}, func(o *Options) { o.CallTimeout = 10 * time.Millisecond })

	_, err := e.ExtractText(context.Background(), []byte("img"))

	var ext *core.ExternalServiceError
	require.ErrorAs(t, err, &ext)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type uncappedDetector struct {
	labels    []core.Detection
	requested int
}

func (d *uncappedDetector) DetectText(context.Context, []byte) ([]TextRegion, error) {
	return nil, nil
}

func (d *uncappedDetector) DetectLabels(_ context.Context, _ []byte, maxLabels int) ([]core.Detection, error) {
	d.requested = maxLabels
	return d.labels, nil
}

type blockingDetector struct{}

func (blockingDetector) DetectText(ctx context.Context, _ []byte) ([]TextRegion, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingDetector) DetectLabels(ctx context.Context, _ []byte, _ int) ([]core.Detection, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
