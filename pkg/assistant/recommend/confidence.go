package recommend

import (
	"jewelry-assistant-be/pkg/assistant/preference"
	"jewelry-assistant-be/pkg/store"
)

// Confidence is the coarse match-quality label attached to a recommendation
// event. It only drives presentation tone, never the ranking itself.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ConfidenceConfig holds the classification thresholds. Defaults are policy
// carried over from production, not validated against user data.
type ConfidenceConfig struct {
	HighSimilarity   float64
	MediumSimilarity float64
	HighRatio        float64
	MediumRatio      float64
}

func DefaultConfidenceConfig() ConfidenceConfig {
	return ConfidenceConfig{
		HighSimilarity:   0.7,
		MediumSimilarity: 0.5,
		HighRatio:        0.5,
		MediumRatio:      0.3,
	}
}

// Classify scores a result set against the preference completeness and the
// mean similarity of the surfaced products. Empty results are always low.
func Classify(cfg ConfidenceConfig, prefs preference.Preferences, products []store.Product) Confidence {
	if len(products) == 0 {
		return ConfidenceLow
	}

	ratio := prefs.Ratio()

	var sum float64
	for _, p := range products {
		sum += p.Similarity
	}
	avgSimilarity := sum / float64(len(products))

	switch {
	case ratio >= cfg.HighRatio && avgSimilarity >= cfg.HighSimilarity && prefs.Category != nil:
		return ConfidenceHigh
	case ratio >= cfg.MediumRatio && avgSimilarity >= cfg.MediumSimilarity:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
