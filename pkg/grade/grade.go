// Package grade holds the scoring primitives shared by every roster: the
// graded components, the roster-wide weight vector, weighted averages and
// the letter grade bands derived from them.
package grade

import (
	"errors"
	"fmt"
)

const (
	// MaxWeightSum is the upper bound for the sum of all weights.
	MaxWeightSum = 1.0

	// weightSumTolerance absorbs float rounding, 0.1+0.1+0.1+0.3+0.4 > 1.0 in float64.
	weightSumTolerance = 1e-9
)

var (
	// ErrWeightSumExceeded is returned when the weights add up to more than MaxWeightSum.
	ErrWeightSumExceeded = errors.New("weight sum exceeds 1.0")

	// ErrNegativeWeight is returned for weights below zero.
	ErrNegativeWeight = errors.New("weight must not be negative")
)

// Scores holds the raw score of each component in positional order.
type Scores [ComponentCount]float64

// Weights is the per component multiplier used to compute averages.
type Weights [ComponentCount]float64

// DefaultWeights returns the initial weight vector: 10% per lab, 30% midterm, 40% final.
func DefaultWeights() Weights {
	return Weights{0.1, 0.1, 0.1, 0.3, 0.4}
}

// WeightsFromSlice converts a slice of exactly ComponentCount values.
func WeightsFromSlice(list []float64) (Weights, error) {
	var w Weights
	if len(list) != ComponentCount {
		return w, fmt.Errorf("expected %d weights, got %d", ComponentCount, len(list))
	}
	copy(w[:], list)
	return w, nil
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}

// Validate checks that no weight is negative and the vector sums to at most 1.0.
func (w Weights) Validate() error {
	for i, v := range w {
		if v < 0 {
			return fmt.Errorf("%w: %s=%v", ErrNegativeWeight, Component(i), v)
		}
	}
	if sum := w.Sum(); sum > MaxWeightSum+weightSumTolerance {
		return fmt.Errorf("%w: %.4f", ErrWeightSumExceeded, sum)
	}
	return nil
}

// Apply returns a copy of w with the changes applied in order.
func (w Weights) Apply(changes []Change) (Weights, error) {
	for _, c := range changes {
		if !c.Component.Valid() {
			return w, fmt.Errorf("%w: %d", ErrUnknownComponent, int(c.Component))
		}
		w[c.Component] = c.Value
	}
	return w, nil
}

// Map returns the weights keyed by component.
func (w Weights) Map() map[Component]float64 {
	m := make(map[Component]float64, ComponentCount)
	for i, v := range w {
		m[Component(i)] = v
	}
	return m
}

// Apply returns a copy of s with the changes applied in order.
func (s Scores) Apply(changes []Change) (Scores, error) {
	for _, c := range changes {
		if !c.Component.Valid() {
			return s, fmt.Errorf("%w: %d", ErrUnknownComponent, int(c.Component))
		}
		s[c.Component] = c.Value
	}
	return s, nil
}

// Labs returns the lab scores.
func (s Scores) Labs() []float64 {
	return []float64{s[Lab1], s[Lab2], s[Lab3]}
}

// Average is the weighted dot product of scores and weights. It is not
// normalized, weights summing below 1.0 cap the average below 100.
func Average(s Scores, w Weights) float64 {
	var total float64
	for i := range s {
		total += s[i] * w[i]
	}
	return total
}
