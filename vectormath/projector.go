package vectormath

import (
	"math"
	"strings"
)

// NormPolicy selects how a raw feature vector is normalized before it is
// truncated or padded to the target dimension.
type NormPolicy int

const (
	// NormL2 divides by the Euclidean norm when it is strictly positive.
	// This is the policy used for the shared user/job embedding space.
	NormL2 NormPolicy = iota

	// NormBinary clamps every nonzero component to 1, matching binary
	// skill-tag vectors.
	NormBinary

	// NormNone leaves components untouched.
	NormNone
)

// DefaultEmbeddingDim is the dimensionality of the job-posting embeddings
// produced by the sentence-embedding model (all-MiniLM-L6-v2). User feature
// vectors are projected into this space so the two can be compared with
// cosine similarity.
const DefaultEmbeddingDim = 384

// Projector converts variable-length feature vectors into fixed-length
// vectors comparable within one embedding space. Projection is total: any
// input, including an empty one, yields a vector of exactly Dim components.
type Projector struct {
	Dim    int
	Policy NormPolicy
}

// Project applies the normalization policy, then truncates to Dim components
// or right-pads with zeros. The input slice is never modified.
func (p Projector) Project(features []float64) []float64 {
	out := make([]float64, p.Dim)
	if len(features) == 0 {
		return out
	}

	vec := make([]float64, len(features))
	copy(vec, features)

	switch p.Policy {
	case NormL2:
		var sq float64
		for _, x := range vec {
			sq += x * x
		}
		if norm := math.Sqrt(sq); norm > 0 {
			for i := range vec {
				vec[i] /= norm
			}
		}
	case NormBinary:
		for i, x := range vec {
			if x != 0 {
				vec[i] = 1
			}
		}
	case NormNone:
	}

	copy(out, vec)
	return out
}

// DefaultSkillVocab is the small skill vocabulary used when job and user
// profiles are described by tags rather than numeric features.
var DefaultSkillVocab = []string{
	"python",
	"java",
	"javascript",
	"data-science",
	"backend",
	"frontend",
	"ml",
	"devops",
}

// SkillsToVector maps a list of skill tags to a binary vector over vocab.
// A nil vocab falls back to DefaultSkillVocab. Matching is case-insensitive
// on the tag side; vocab entries are assumed lowercase.
func SkillsToVector(skills []string, vocab []string) []float64 {
	if vocab == nil {
		vocab = DefaultSkillVocab
	}

	have := make(map[string]bool, len(skills))
	for _, s := range skills {
		have[strings.ToLower(s)] = true
	}

	vec := make([]float64, len(vocab))
	for i, token := range vocab {
		if have[token] {
			vec[i] = 1
		}
	}
	return vec
}
