package recommend

import (
	"testing"

	"jewelry-assistant-be/pkg/assistant/preference"
	"jewelry-assistant-be/pkg/store"
)

func productsWithSimilarity(sims ...float64) []store.Product {
	out := make([]store.Product, len(sims))
	for i, s := range sims {
		out[i] = store.Product{ID: "p", Similarity: s}
	}
	return out
}

func TestClassify(t *testing.T) {
	cfg := DefaultConfidenceConfig()
	richPrefs := preference.Preferences{
		Category:  strPtr("ring"),
		Metal:     strPtr("gold"),
		Occasion:  strPtr("wedding"),
		BudgetMax: f64Ptr(2000),
	}

	tests := []struct {
		name     string
		prefs    preference.Preferences
		products []store.Product
		want     Confidence
	}{
		{
			name:     "empty result is always low",
			prefs:    richPrefs,
			products: nil,
			want:     ConfidenceLow,
		},
		{
			name:     "half the slots and strong similarity",
			prefs:    richPrefs, // 4 of 8 slots
			products: productsWithSimilarity(0.8, 0.75),
			want:     ConfidenceHigh,
		},
		{
			name:     "strong similarity but no category set",
			prefs:    preference.Preferences{Metal: strPtr("gold"), Occasion: strPtr("wedding"), Style: strPtr("classic"), BudgetMax: f64Ptr(2000)},
			products: productsWithSimilarity(0.9, 0.85),
			want:     ConfidenceMedium,
		},
		{
			name:     "category plus two more slots lands medium",
			prefs:    preference.Preferences{Category: strPtr("ring"), Metal: strPtr("gold"), BudgetMax: f64Ptr(2000)},
			products: productsWithSimilarity(0.8),
			want:     ConfidenceMedium,
		},
		{
			name:     "weak similarity drags a full profile down",
			prefs:    richPrefs,
			products: productsWithSimilarity(0.4, 0.3),
			want:     ConfidenceLow,
		},
		{
			name:     "sparse profile is low regardless of similarity",
			prefs:    preference.Preferences{Metal: strPtr("gold")},
			products: productsWithSimilarity(0.95),
			want:     ConfidenceLow,
		},
		{
			name:     "attribute tier products with zero similarity",
			prefs:    richPrefs,
			products: []store.Product{{ID: "a"}, {ID: "b"}},
			want:     ConfidenceLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(cfg, tt.prefs, tt.products); got != tt.want {
				t.Errorf("Classify = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyMonotoneInSimilarity(t *testing.T) {
	cfg := DefaultConfidenceConfig()
	prefs := preference.Preferences{
		Category:  strPtr("ring"),
		Metal:     strPtr("gold"),
		Occasion:  strPtr("wedding"),
		BudgetMax: f64Ptr(2000),
	}

	rank := map[Confidence]int{ConfidenceLow: 0, ConfidenceMedium: 1, ConfidenceHigh: 2}

	prev := -1
	for _, sim := range []float64{0.1, 0.3, 0.5, 0.6, 0.7, 0.9} {
		got := rank[Classify(cfg, prefs, productsWithSimilarity(sim, sim))]
		if got < prev {
			t.Fatalf("confidence dropped as similarity rose at %v", sim)
		}
		prev = got
	}
}
