package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"gachipet/internal/oracle"
	"gachipet/pkg/logger"
)

type fakePrimary struct {
	label      string
	confidence float64
	err        error
	calls      int
}

func (f *fakePrimary) Classify(ctx context.Context, image []byte) (string, float64, error) {
	f.calls++
	return f.label, f.confidence, f.err
}

type fakeVisionOracle struct {
	result oracle.Result
	err    error
	calls  int
}

func (f *fakeVisionOracle) Generate(ctx context.Context, prompt string) (oracle.Result, error) {
	return f.result, f.err
}

func (f *fakeVisionOracle) GenerateVision(ctx context.Context, prompt string, image []byte, mimeType string) (oracle.Result, error) {
	f.calls++
	return f.result, f.err
}

func TestPrimaryAboveGateIsAccepted(t *testing.T) {
	primary := &fakePrimary{label: "banana", confidence: 0.61}
	fallback := &fakeVisionOracle{result: oracle.Result{Text: "apple", OK: true}}
	c := New(primary, fallback, logger.Nop())

	label, confidence := c.Classify(context.Background(), []byte("img"), "image/jpeg")

	assert.Equal(t, "banana", label)
	assert.Equal(t, 0.61, confidence)
	assert.Equal(t, 0, fallback.calls, "fallback must not be invoked above the gate")
}

func TestPrimaryBelowGateEscalates(t *testing.T) {
	primary := &fakePrimary{label: "banana", confidence: 0.59}
	fallback := &fakeVisionOracle{result: oracle.Result{Text: "apple", OK: true}}
	c := New(primary, fallback, logger.Nop())

	label, confidence := c.Classify(context.Background(), []byte("img"), "image/jpeg")

	assert.Equal(t, "apple", label)
	assert.Equal(t, 0.75, confidence, "fallback confidence is fixed, not computed")
	assert.Equal(t, 1, fallback.calls)
}

func TestPrimaryErrorEscalates(t *testing.T) {
	primary := &fakePrimary{err: errors.New("model unavailable")}
	fallback := &fakeVisionOracle{result: oracle.Result{Text: "Pizza.", OK: true}}
	c := New(primary, fallback, logger.Nop())

	label, confidence := c.Classify(context.Background(), []byte("img"), "image/jpeg")

	assert.Equal(t, "pizza", label, "fallback output is lowercased and trimmed")
	assert.Equal(t, 0.75, confidence)
}

func TestBothStagesFailingDegrades(t *testing.T) {
	primary := &fakePrimary{err: errors.New("model unavailable")}
	fallback := &fakeVisionOracle{err: errors.New("oracle down")}
	c := New(primary, fallback, logger.Nop())

	label, confidence := c.Classify(context.Background(), []byte("img"), "image/jpeg")

	assert.Equal(t, "unknown food", label)
	assert.Equal(t, 0.0, confidence)
}

func TestEmptyFallbackResultCountsAsFailed(t *testing.T) {
	primary := &fakePrimary{label: "", confidence: 0.1}
	fallback := &fakeVisionOracle{result: oracle.Result{Text: "", OK: false}}
	c := New(primary, fallback, logger.Nop())

	label, confidence := c.Classify(context.Background(), []byte("img"), "image/jpeg")

	assert.Equal(t, "unknown food", label)
	assert.Equal(t, 0.0, confidence)
}
