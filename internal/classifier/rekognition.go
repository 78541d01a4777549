package classifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// RekognitionClassifier is the primary stage backed by AWS Rekognition
// label detection.
type RekognitionClassifier struct {
	client *rekognition.Client
}

func NewRekognitionClassifier(ctx context.Context, region string) (*RekognitionClassifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &RekognitionClassifier{client: rekognition.NewFromConfig(cfg)}, nil
}

// Classify returns the highest-confidence label for the image, with the
// confidence normalized from Rekognition's percentage to [0,1].
func (r *RekognitionClassifier) Classify(ctx context.Context, image []byte) (string, float64, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:     &types.Image{Bytes: image},
		MaxLabels: aws.Int32(5),
	})
	if err != nil {
		return "", 0, fmt.Errorf("rekognition detect labels failed: %w", err)
	}

	if len(out.Labels) == 0 {
		return "", 0, errors.New("rekognition returned no labels")
	}

	// Labels come back sorted by confidence, highest first.
	top := out.Labels[0]
	label := ""
	if top.Name != nil {
		label = *top.Name
	}
	confidence := 0.0
	if top.Confidence != nil {
		confidence = float64(*top.Confidence) / 100.0
	}

	return label, confidence, nil
}
