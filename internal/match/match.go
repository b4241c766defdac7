// Package match scores a submitted face descriptor against an enrolled one.
package match

import (
	"errors"
	"math"
)

// ErrDescriptorMismatch is returned when the two descriptors cannot be
// compared: different lengths, or either empty.
var ErrDescriptorMismatch = errors.New("descriptor length mismatch")

// Scorer converts descriptor distance into a bounded confidence score.
// MaxDistance is the distance at which confidence reaches zero; it is a
// deployment setting, tuned to the feature extractor producing the vectors.
type Scorer struct {
	MaxDistance float64
}

// NewScorer builds a scorer. A non-positive maxDistance falls back to 1.0,
// which suits unit-normalized descriptors.
func NewScorer(maxDistance float64) Scorer {
	if maxDistance <= 0 {
		maxDistance = 1.0
	}
	return Scorer{MaxDistance: maxDistance}
}

// Score computes the euclidean distance between stored and submitted and
// maps it to a confidence in [0,1], rounded to 3 decimal places. Identical
// vectors score 1.0; anything at or beyond MaxDistance scores 0.
func (s Scorer) Score(stored, submitted []float64) (float64, error) {
	if len(stored) == 0 || len(submitted) == 0 || len(stored) != len(submitted) {
		return 0, ErrDescriptorMismatch
	}
	var sum float64
	for i := range stored {
		d := stored[i] - submitted[i]
		sum += d * d
	}
	dist := math.Sqrt(sum)
	conf := 1 - dist/s.MaxDistance
	if conf < 0 {
		conf = 0
	}
	return math.Round(conf*1000) / 1000, nil
}
