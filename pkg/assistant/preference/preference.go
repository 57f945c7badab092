package preference

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The fixed, closed set of preference slots. Every Preferences value carries
// all of them; nil means "unknown", never "missing key".
const (
	SlotOccasion   = "occasion"
	SlotRecipient  = "recipient"
	SlotCategory   = "category"
	SlotMetal      = "metal"
	SlotDesignType = "design_type"
	SlotStyle      = "style"
	SlotBudgetMax  = "budget_max"
	SlotGemstone   = "gemstone"
)

// Slots lists every slot name in canonical order.
var Slots = []string{
	SlotOccasion,
	SlotRecipient,
	SlotCategory,
	SlotMetal,
	SlotDesignType,
	SlotStyle,
	SlotBudgetMax,
	SlotGemstone,
}

// Preferences is the accumulated preference set for one session. All slots
// marshal even when nil, so consumers never special-case missing keys.
type Preferences struct {
	Occasion   *string  `json:"occasion"`
	Recipient  *string  `json:"recipient"`
	Category   *string  `json:"category"`
	Metal      *string  `json:"metal"`
	DesignType *string  `json:"design_type"`
	Style      *string  `json:"style"`
	BudgetMax  *float64 `json:"budget_max"`
	Gemstone   *string  `json:"gemstone"`
}

// FilledCount returns how many of the eight slots hold a value.
func (p Preferences) FilledCount() int {
	count := 0
	for _, s := range []*string{p.Occasion, p.Recipient, p.Category, p.Metal, p.DesignType, p.Style, p.Gemstone} {
		if s != nil {
			count++
		}
	}
	if p.BudgetMax != nil {
		count++
	}
	return count
}

// Ratio returns filled slots over total slots, in [0,1].
func (p Preferences) Ratio() float64 {
	return float64(p.FilledCount()) / float64(len(Slots))
}

// HasAny reports whether at least one of the named slots is set.
func (p Preferences) HasAny(slots ...string) bool {
	for _, name := range slots {
		switch name {
		case SlotOccasion:
			if p.Occasion != nil {
				return true
			}
		case SlotRecipient:
			if p.Recipient != nil {
				return true
			}
		case SlotCategory:
			if p.Category != nil {
				return true
			}
		case SlotMetal:
			if p.Metal != nil {
				return true
			}
		case SlotDesignType:
			if p.DesignType != nil {
				return true
			}
		case SlotStyle:
			if p.Style != nil {
				return true
			}
		case SlotBudgetMax:
			if p.BudgetMax != nil {
				return true
			}
		case SlotGemstone:
			if p.Gemstone != nil {
				return true
			}
		}
	}
	return false
}

// QueryText builds the natural-language search query for semantic retrieval
// from the non-nil slots.
func (p Preferences) QueryText() string {
	var parts []string
	if p.Style != nil {
		parts = append(parts, *p.Style)
	}
	if p.DesignType != nil {
		parts = append(parts, *p.DesignType)
	}
	if p.Metal != nil {
		parts = append(parts, *p.Metal)
	}
	if p.Gemstone != nil && !strings.EqualFold(*p.Gemstone, "none") {
		parts = append(parts, *p.Gemstone)
	}
	if p.Category != nil {
		parts = append(parts, *p.Category)
	}
	if p.Occasion != nil {
		parts = append(parts, "for "+*p.Occasion)
	}
	if p.Recipient != nil {
		parts = append(parts, "for "+*p.Recipient)
	}
	if p.BudgetMax != nil {
		parts = append(parts, fmt.Sprintf("under $%.0f", *p.BudgetMax))
	}
	return strings.Join(parts, " ")
}

// ClearAll returns the empty preference set (every slot unknown). Used when
// the user asks to start over.
func ClearAll() Preferences {
	return Preferences{}
}

// Delta carries the preference changes of a single turn. Unlike Preferences
// it is tri-state per slot: a slot can be set to a value, explicitly cleared,
// or left entirely untouched (absent from the payload). Collapsing "cleared"
// and "untouched" is a correctness bug, so the raw JSON presence of each key
// is preserved.
type Delta struct {
	raw map[string]json.RawMessage
}

// NewDelta returns an empty delta that touches no slot.
func NewDelta() *Delta {
	return &Delta{raw: make(map[string]json.RawMessage)}
}

func (d *Delta) UnmarshalJSON(data []byte) error {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	d.raw = make(map[string]json.RawMessage, len(Slots))
	for _, slot := range Slots {
		if v, ok := fields[slot]; ok {
			d.raw[slot] = v
		}
	}
	return nil
}

func (d *Delta) MarshalJSON() ([]byte, error) {
	if d.raw == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d.raw)
}

// Set marks a slot to be overwritten with the given value.
func (d *Delta) Set(slot, value string) *Delta {
	b, _ := json.Marshal(value)
	d.ensure()[slot] = b
	return d
}

// SetBudget marks the budget slot to be overwritten.
func (d *Delta) SetBudget(value float64) *Delta {
	b, _ := json.Marshal(value)
	d.ensure()[SlotBudgetMax] = b
	return d
}

// Clear marks a slot as explicitly retracted by the user.
func (d *Delta) Clear(slot string) *Delta {
	d.ensure()[slot] = json.RawMessage("null")
	return d
}

// Touches reports whether the delta carries the slot at all.
func (d *Delta) Touches(slot string) bool {
	if d == nil || d.raw == nil {
		return false
	}
	_, ok := d.raw[slot]
	return ok
}

// Empty reports whether the delta touches no slot.
func (d *Delta) Empty() bool {
	return d == nil || len(d.raw) == 0
}

func (d *Delta) ensure() map[string]json.RawMessage {
	if d.raw == nil {
		d.raw = make(map[string]json.RawMessage)
	}
	return d.raw
}

// Merge applies a turn delta to the current preference set and returns the
// updated set. Per slot: absent leaves the current value untouched, a
// non-empty value overwrites, and null/""/"null" clears (explicit retraction).
func Merge(current Preferences, delta *Delta) Preferences {
	updated := current
	if delta == nil || delta.raw == nil {
		return updated
	}

	mergeString(delta, SlotOccasion, &updated.Occasion)
	mergeString(delta, SlotRecipient, &updated.Recipient)
	mergeString(delta, SlotCategory, &updated.Category)
	mergeString(delta, SlotMetal, &updated.Metal)
	mergeString(delta, SlotDesignType, &updated.DesignType)
	mergeString(delta, SlotStyle, &updated.Style)
	mergeString(delta, SlotGemstone, &updated.Gemstone)
	mergeBudget(delta, &updated.BudgetMax)

	return updated
}

func mergeString(d *Delta, slot string, target **string) {
	raw, ok := d.raw[slot]
	if !ok {
		return
	}
	if isJSONNull(raw) {
		*target = nil
		return
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		// Tolerate the odd non-string scalar by stringifying it.
		value = strings.Trim(string(raw), `"`)
	}
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "null") {
		*target = nil
		return
	}
	*target = &value
}

func mergeBudget(d *Delta, target **float64) {
	raw, ok := d.raw[SlotBudgetMax]
	if !ok {
		return
	}
	if isJSONNull(raw) {
		*target = nil
		return
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err == nil {
		*target = &value
		return
	}
	// Budget occasionally arrives as a string like "$1,500".
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return
	}
	s = strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '$', ',':
			return -1
		}
		return r
	}, s))
	if s == "" || strings.EqualFold(s, "null") {
		*target = nil
		return
	}
	if parsed, err := strconv.ParseFloat(s, 64); err == nil {
		*target = &parsed
	}
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
