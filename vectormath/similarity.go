// Package vectormath holds the numeric core of the recommendation service:
// Pearson correlation, cosine similarity, and the projection of raw feature
// vectors into a fixed-dimension embedding space. All functions are pure and
// safe for concurrent use.
package vectormath

import (
	"errors"
	"math"
)

// ErrBadVectors is returned by Pearson when the inputs are empty or differ in
// length. Callers are expected to pre-filter by length, so hitting this is a
// contract violation rather than a data condition.
var ErrBadVectors = errors.New("vectors must be non-empty and of the same length")

// Pearson computes the Pearson correlation coefficient between two vectors of
// equal length. The result is always finite and within [-1, 1]. When either
// vector is constant, or its variance underflows to 0, the correlation is
// undefined and 0 is returned as the neutral value instead of NaN.
func Pearson(a, b []float64) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, ErrBadVectors
	}

	if isConstant(a) || isConstant(b) {
		return 0, nil
	}

	n := float64(len(a))
	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= n
	meanB /= n

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	if varA == 0 || varB == 0 {
		return 0, nil
	}

	// Taking the square roots before multiplying keeps the denominator from
	// underflowing to 0 when both variances are sub-denormal.
	r := cov / (math.Sqrt(varA) * math.Sqrt(varB))
	if math.IsNaN(r) {
		return 0, nil
	}
	return math.Max(-1, math.Min(1, r)), nil
}

// Cosine computes the cosine similarity between two vectors of equal length.
// ok is false when either vector has zero norm, or when the norm accumulators
// overflow and the quotient is not finite; such pairs carry no signal and
// callers exclude them from ranking rather than scoring them as 0.
func Cosine(a, b []float64) (score float64, ok bool) {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	score = dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, false
	}
	return score, true
}

func isConstant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}
