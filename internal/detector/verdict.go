package detector

import "math"

// Prediction is the discrete label attached to an analysis.
type Prediction string

const (
	PredictionPhishing Prediction = "phishing"
	PredictionSafe     Prediction = "safe"
)

// PredictionFromProbability labels text as phishing when its phishing
// probability is at least one half.
func PredictionFromProbability(phishing float64) Prediction {
	if phishing >= 0.5 {
		return PredictionPhishing
	}
	return PredictionSafe
}

// String returns the wire representation.
func (p Prediction) String() string {
	return string(p)
}

// Confidence buckets the gap between the two class probabilities.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ConfidenceFromProbabilities derives the tier from |phishing - safe|.
func ConfidenceFromProbabilities(phishing, safe float64) Confidence {
	diff := math.Abs(phishing - safe)
	switch {
	case diff >= 0.3:
		return ConfidenceHigh
	case diff >= 0.15:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// String returns the wire representation.
func (c Confidence) String() string {
	return string(c)
}
