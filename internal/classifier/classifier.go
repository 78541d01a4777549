// Package classifier implements the two-stage food image classification
// cascade: a pretrained vision model, then a vision oracle fallback
// behind a confidence gate.
package classifier

import (
	"context"
	"strings"

	"gachipet/internal/oracle"
	"gachipet/pkg/logger"
)

// ConfidenceGate is the threshold above which the primary stage's own
// probability estimate is trusted.
const ConfidenceGate = 0.6

// fallbackConfidence is assigned to every fallback result. The oracle
// gives no calibrated probability, so the value is fixed rather than
// computed.
const fallbackConfidence = 0.75

const unknownLabel = "unknown food"

const fallbackPrompt = "Look at this image and answer with a single lowercase word naming the food shown. " +
	"If more than one food is visible, name the most prominent one. " +
	"If no food is visible at all, answer exactly: unknown"

// Outcome is the typed result of one stage.
type Outcome struct {
	Label      string
	Confidence float64
	Failed     bool
}

func failed() Outcome {
	return Outcome{Failed: true}
}

// Primary is a pretrained image classifier returning its arg-max label
// and probability.
type Primary interface {
	Classify(ctx context.Context, image []byte) (label string, confidence float64, err error)
}

type Classifier struct {
	primary Primary
	oracle  oracle.Oracle
	logger  *logger.Logger
}

func New(primary Primary, o oracle.Oracle, l *logger.Logger) *Classifier {
	return &Classifier{
		primary: primary,
		oracle:  o,
		logger:  l,
	}
}

// accept is the confidence gate between the two stages.
func accept(o Outcome) bool {
	return !o.Failed && o.Confidence >= ConfidenceGate
}

// Classify runs the cascade. It never returns an error: when both stages
// fail the result degrades to ("unknown food", 0.0) and the caller's
// pipeline continues.
func (c *Classifier) Classify(ctx context.Context, image []byte, mimeType string) (string, float64) {
	primary := c.runPrimary(ctx, image)
	if accept(primary) {
		c.logger.Info("primary classification accepted",
			"label", primary.Label, "confidence", primary.Confidence)
		return primary.Label, primary.Confidence
	}

	c.logger.Info("escalating to vision fallback",
		"primary_failed", primary.Failed, "primary_confidence", primary.Confidence)

	fallback := c.runFallback(ctx, image, mimeType)
	if !fallback.Failed {
		return fallback.Label, fallback.Confidence
	}

	c.logger.Warn("both classification stages failed")
	return unknownLabel, 0.0
}

func (c *Classifier) runPrimary(ctx context.Context, image []byte) Outcome {
	label, confidence, err := c.primary.Classify(ctx, image)
	if err != nil {
		c.logger.Error("primary classification failed", "error", err)
		return failed()
	}
	return Outcome{Label: label, Confidence: confidence}
}

func (c *Classifier) runFallback(ctx context.Context, image []byte, mimeType string) Outcome {
	res, err := c.oracle.GenerateVision(ctx, fallbackPrompt, image, mimeType)
	if err != nil {
		c.logger.Error("fallback classification failed", "error", err)
		return failed()
	}
	if !res.OK {
		return failed()
	}

	label := strings.ToLower(strings.TrimSpace(strings.Trim(res.Text, ".!\"'")))
	if label == "" {
		return failed()
	}

	return Outcome{Label: label, Confidence: fallbackConfidence}
}
