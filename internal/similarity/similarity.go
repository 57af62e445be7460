// Package similarity scores how close a learner's query text is to the
// reference solution. The score only steers which hint a learner sees; it
// never decides correctness.
package similarity

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// Provider scores the similarity of two SQL texts in [0,1].
type Provider interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// HintTier is the bucket a similarity score falls into.
type HintTier int

const (
	BroadRedirect HintTier = iota
	Conceptual
	Structural
	NearMiss
)

func (h HintTier) String() string {
	switch h {
	case NearMiss:
		return "near-miss"
	case Structural:
		return "structural"
	case Conceptual:
		return "conceptual"
	default:
		return "broad-redirect"
	}
}

// Thresholds are the lower bounds of each hint tier.
type Thresholds struct {
	NearMiss   float64 `mapstructure:"near_miss"`
	Structural float64 `mapstructure:"structural"`
	Conceptual float64 `mapstructure:"conceptual"`
}

// DefaultThresholds returns the standard bucketing bounds.
func DefaultThresholds() Thresholds {
	return Thresholds{NearMiss: 0.85, Structural: 0.60, Conceptual: 0.40}
}

// Validate checks that the bounds lie in [0,1] and strictly decrease from
// NearMiss to Conceptual.
func (t Thresholds) Validate() error {
	for _, v := range []float64{t.NearMiss, t.Structural, t.Conceptual} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("similarity thresholds must be within [0,1], got %+v", t)
		}
	}
	if !(t.NearMiss > t.Structural && t.Structural > t.Conceptual) {
		return fmt.Errorf("similarity thresholds must decrease near_miss > structural > conceptual, got %+v", t)
	}
	return nil
}

// Bucket maps a score to its hint tier.
func (t Thresholds) Bucket(score float64) HintTier {
	switch {
	case score >= t.NearMiss:
		return NearMiss
	case score >= t.Structural:
		return Structural
	case score >= t.Conceptual:
		return Conceptual
	default:
		return BroadRedirect
	}
}

// Cosine returns the cosine similarity of two equal-length vectors. A zero
// vector has similarity 0 with everything.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have the same length: %d != %d", len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

func normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
