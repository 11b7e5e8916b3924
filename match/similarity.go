// Package match implements the matching core: the rule-based scoring
// strategies, vector similarity, the hybrid blend, and the assessment
// pipeline that turns questionnaire answers into ranked opportunities.
package match

import "math"

// Hybrid blend weights between the rule-based score and the semantic score.
const (
	ruleWeight     = 0.6
	semanticWeight = 0.4
)

// CosineSimilarity returns the cosine of the angle between two vectors.
// Returns 0 when the lengths differ or either vector has zero magnitude.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// HybridScore blends a rule-based score (0-100) with a semantic similarity
// score (0-1) into a single 0-100 value.
func HybridScore(ruleScore int, semanticScore float64) int {
	return int(math.Round(float64(ruleScore)*ruleWeight + semanticScore*100*semanticWeight))
}
