package preference

import (
	"encoding/json"
	"testing"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestMergeTriState(t *testing.T) {
	current := Preferences{
		Category: strPtr("ring"),
		Metal:    strPtr("gold"),
		Occasion: strPtr("anniversary"),
	}

	tests := []struct {
		name    string
		payload string
		check   func(t *testing.T, got Preferences)
	}{
		{
			name:    "absent slot stays untouched",
			payload: `{"metal":"silver"}`,
			check: func(t *testing.T, got Preferences) {
				if got.Category == nil || *got.Category != "ring" {
					t.Errorf("category changed, want untouched ring, got %v", got.Category)
				}
				if got.Metal == nil || *got.Metal != "silver" {
					t.Errorf("metal = %v, want silver", got.Metal)
				}
			},
		},
		{
			name:    "present non-null overwrites",
			payload: `{"category":"necklace"}`,
			check: func(t *testing.T, got Preferences) {
				if got.Category == nil || *got.Category != "necklace" {
					t.Errorf("category = %v, want necklace", got.Category)
				}
			},
		},
		{
			name:    "explicit null clears",
			payload: `{"occasion":null}`,
			check: func(t *testing.T, got Preferences) {
				if got.Occasion != nil {
					t.Errorf("occasion = %v, want cleared", *got.Occasion)
				}
			},
		},
		{
			name:    "empty string clears",
			payload: `{"metal":""}`,
			check: func(t *testing.T, got Preferences) {
				if got.Metal != nil {
					t.Errorf("metal = %v, want cleared", *got.Metal)
				}
			},
		},
		{
			name:    "literal null string clears",
			payload: `{"metal":"null"}`,
			check: func(t *testing.T, got Preferences) {
				if got.Metal != nil {
					t.Errorf("metal = %v, want cleared", *got.Metal)
				}
			},
		},
		{
			name:    "budget set from number",
			payload: `{"budget_max":1500}`,
			check: func(t *testing.T, got Preferences) {
				if got.BudgetMax == nil || *got.BudgetMax != 1500 {
					t.Errorf("budget = %v, want 1500", got.BudgetMax)
				}
			},
		},
		{
			name:    "budget set from currency string",
			payload: `{"budget_max":"$2,000"}`,
			check: func(t *testing.T, got Preferences) {
				if got.BudgetMax == nil || *got.BudgetMax != 2000 {
					t.Errorf("budget = %v, want 2000", got.BudgetMax)
				}
			},
		},
		{
			name:    "budget null clears",
			payload: `{"budget_max":null}`,
			check: func(t *testing.T, got Preferences) {
				if got.BudgetMax != nil {
					t.Errorf("budget = %v, want cleared", *got.BudgetMax)
				}
			},
		},
		{
			name:    "unknown keys ignored",
			payload: `{"color":"red"}`,
			check: func(t *testing.T, got Preferences) {
				if got != current {
					t.Errorf("preferences changed by unknown key: %+v", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var delta Delta
			if err := json.Unmarshal([]byte(tt.payload), &delta); err != nil {
				t.Fatalf("unmarshal delta: %v", err)
			}
			tt.check(t, Merge(current, &delta))
		})
	}
}

func TestMergeEverySlotIndependently(t *testing.T) {
	full := Preferences{
		Occasion:   strPtr("wedding"),
		Recipient:  strPtr("wife"),
		Category:   strPtr("ring"),
		Metal:      strPtr("gold"),
		DesignType: strPtr("solitaire"),
		Style:      strPtr("classic"),
		BudgetMax:  f64Ptr(3000),
		Gemstone:   strPtr("diamond"),
	}

	for _, slot := range Slots {
		t.Run(slot+" clear", func(t *testing.T) {
			got := Merge(full, NewDelta().Clear(slot))
			if got.HasAny(slot) {
				t.Errorf("slot %s not cleared", slot)
			}
			if got.FilledCount() != len(Slots)-1 {
				t.Errorf("FilledCount = %d, want %d", got.FilledCount(), len(Slots)-1)
			}
		})
		t.Run(slot+" untouched", func(t *testing.T) {
			got := Merge(full, NewDelta())
			if !got.HasAny(slot) {
				t.Errorf("slot %s lost without being touched", slot)
			}
		})
	}
}

func TestClearAll(t *testing.T) {
	got := ClearAll()
	if got.FilledCount() != 0 {
		t.Errorf("FilledCount after ClearAll = %d, want 0", got.FilledCount())
	}
}

func TestPreferencesMarshalKeepsAllKeys(t *testing.T) {
	data, err := json.Marshal(Preferences{Category: strPtr("ring")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, slot := range Slots {
		if _, ok := m[slot]; !ok {
			t.Errorf("slot %s missing from marshaled preferences", slot)
		}
	}
}

func TestQueryText(t *testing.T) {
	p := Preferences{
		Category:  strPtr("ring"),
		Metal:     strPtr("gold"),
		Occasion:  strPtr("wedding"),
		BudgetMax: f64Ptr(2000),
	}
	got := p.QueryText()
	want := "gold ring for wedding under $2000"
	if got != want {
		t.Errorf("QueryText = %q, want %q", got, want)
	}

	if (Preferences{}).QueryText() != "" {
		t.Errorf("empty preferences should produce an empty query")
	}
}

func TestRatio(t *testing.T) {
	p := Preferences{Category: strPtr("ring"), Metal: strPtr("gold"), BudgetMax: f64Ptr(2000)}
	if got := p.Ratio(); got != 3.0/8.0 {
		t.Errorf("Ratio = %v, want 0.375", got)
	}
}
