// Package rekognition implements vision.Detector on top of AWS Rekognition.
package rekognition

import (
	"context"
	"errors"
	"fmt"

	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/vision"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-1"

// API is the subset of the Rekognition client used by Detector.
type API interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// Options configures the Rekognition client.
type Options struct {
	Region string
	// Static credentials. When empty the default AWS credential chain is used.
	AccessKeyID     string
	SecretAccessKey string
}

// Detector implements vision.Detector.
type Detector struct {
	api API
}

var _ vision.Detector = (*Detector)(nil)

// New builds a Detector from AWS configuration.
func New(ctx context.Context, optFns ...func(o *Options)) (*Detector, error) {
	opts := Options{Region: DefaultRegion}
	for _, fn := range optFns {
		fn(&opts)
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return NewFromAPI(rekognition.NewFromConfig(cfg)), nil
}

// NewFromAPI wraps an existing client (or a fake in tests).
func NewFromAPI(api API) *Detector {
	return &Detector{api: api}
}

// DetectText implements vision.Detector. Both LINE and WORD regions are returned.
func (d *Detector) DetectText(ctx context.Context, image []byte) ([]vision.TextRegion, error) {
	out, err := d.api.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: image},
	})
	if err != nil {
		return nil, wrap("DetectText", err)
	}

	regions := make([]vision.TextRegion, 0, len(out.TextDetections))
	for _, td := range out.TextDetections {
		kind := vision.TextKindWord
		if td.Type == types.TextTypesLine {
			kind = vision.TextKindLine
		}

		regions = append(regions, vision.TextRegion{
			Text:       aws.ToString(td.DetectedText),
			Confidence: float64(aws.ToFloat32(td.Confidence)),
			Kind:       kind,
		})
	}

	return regions, nil
}

// DetectLabels implements vision.Detector.
func (d *Detector) DetectLabels(ctx context.Context, image []byte, maxLabels int) ([]core.Detection, error) {
	in := &rekognition.DetectLabelsInput{
		Image: &types.Image{Bytes: image},
	}
	if maxLabels > 0 {
		in.MaxLabels = aws.Int32(int32(maxLabels))
	}

	out, err := d.api.DetectLabels(ctx, in)
	if err != nil {
		return nil, wrap("DetectLabels", err)
	}

	labels := make([]core.Detection, 0, len(out.Labels))
	for _, l := range out.Labels {
		labels = append(labels, core.Detection{
			Text:       aws.ToString(l.Name),
			Confidence: float64(aws.ToFloat32(l.Confidence)),
		})
	}

	return labels, nil
}

// wrap attaches the AWS error code when the service returned one. The
// vision.Extractor turns the result into *core.ExternalServiceError.
func wrap(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("rekognition %s [%s]: %w", op, apiErr.ErrorCode(), err)
	}

	return fmt.Errorf("rekognition %s: %w", op, err)
}
