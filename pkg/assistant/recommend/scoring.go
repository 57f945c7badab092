package recommend

import (
	"strings"

	"jewelry-assistant-be/pkg/assistant/preference"
	"jewelry-assistant-be/pkg/store"
)

// Attribute point table for the Tier 2 scan. Carried over from the documented
// policy; tunable in principle but stable enough to keep as constants.
const (
	pointsCategory     = 100.0
	pointsCategoryOnly = 50.0 // category is the only slot set: flat browse-like score
	pointsGemstone     = 30.0
	pointsMetal        = 20.0
	pointsBudget       = 20.0
	pointsBudgetNear   = 5.0 // price within 70-100% of the ceiling
	pointsStyle        = 15.0
	pointsDesign       = 10.0
	pointsOccasion     = 10.0
	pointsGemstoneNone = 10.0
	pointsRecipient    = 5.0
)

// matchScore computes the deterministic Tier 2 relevance of one product.
// A set category acts as a gate: mismatched products score zero. A product
// matching no stated preference also scores zero.
func matchScore(p store.Product, prefs preference.Preferences) float64 {
	score := 0.0
	matchedAny := false

	if prefs.Category != nil {
		if !equalFold(p.Category, *prefs.Category) {
			return 0
		}
		score += pointsCategory
		matchedAny = true

		if onlyCategorySet(prefs) {
			return pointsCategoryOnly
		}
	}

	if prefs.Metal != nil && strings.Contains(strings.ToLower(p.Metal), strings.ToLower(*prefs.Metal)) {
		score += pointsMetal
		matchedAny = true
	}

	if prefs.Gemstone != nil {
		if strings.EqualFold(*prefs.Gemstone, "none") {
			if len(p.Gemstones) == 0 || containsFold(p.Gemstones, "none") {
				score += pointsGemstoneNone
				matchedAny = true
			}
		} else if containsFold(p.Gemstones, *prefs.Gemstone) {
			score += pointsGemstone
			matchedAny = true
		}
	}

	if prefs.Style != nil && containsFold(p.StyleTags, *prefs.Style) {
		score += pointsStyle
		matchedAny = true
	}

	if prefs.DesignType != nil && equalFold(p.DesignType, *prefs.DesignType) {
		score += pointsDesign
		matchedAny = true
	}

	if prefs.Occasion != nil && containsFold(p.OccasionTags, *prefs.Occasion) {
		score += pointsOccasion
		matchedAny = true
	}

	if prefs.Recipient != nil && containsFold(p.RecipientTags, *prefs.Recipient) {
		score += pointsRecipient
		matchedAny = true
	}

	if prefs.BudgetMax != nil && p.Price <= *prefs.BudgetMax {
		score += pointsBudget
		matchedAny = true
		if p.Price >= *prefs.BudgetMax*0.70 {
			score += pointsBudgetNear
		}
	}

	if !matchedAny {
		return 0
	}
	return score
}

func onlyCategorySet(prefs preference.Preferences) bool {
	return prefs.Occasion == nil &&
		prefs.Recipient == nil &&
		prefs.Metal == nil &&
		prefs.DesignType == nil &&
		prefs.Style == nil &&
		prefs.BudgetMax == nil &&
		prefs.Gemstone == nil
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if equalFold(h, needle) {
			return true
		}
	}
	return false
}
