package scenario

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Tier classifies a cash flow trajectory for labelling. The numeric order of
// the constants is the display order used in legends and tables.
type Tier int

// Tiers in display order.
const (
	TierVeryLow Tier = iota
	TierLow
	TierMedium
	TierHigh
)

var tierNames = [...]string{
	TierVeryLow: "Very Low",
	TierLow:     "Low",
	TierMedium:  "Medium",
	TierHigh:    "High",
}

// Tiers returns every tier in display order.
func Tiers() []Tier {
	return []Tier{TierVeryLow, TierLow, TierMedium, TierHigh}
}

// String returns the display name, e.g. "Very Low".
func (t Tier) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return tierNames[t]
}

// Valid reports whether t is one of the declared tiers.
func (t Tier) Valid() bool {
	return t >= TierVeryLow && t <= TierHigh
}

// ParseTier accepts display names and their snake/kebab case forms
// ("Very Low", "very_low", "very-low").
func ParseTier(s string) (Tier, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	for _, t := range Tiers() {
		if strings.ToLower(tierNames[t]) == key {
			return t, nil
		}
	}
	return 0, eris.Errorf("scenario: unknown tier %q", s)
}

// MarshalText encodes the tier as snake case.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, eris.Errorf("scenario: invalid tier %d", int(t))
	}
	return []byte(strings.ReplaceAll(strings.ToLower(tierNames[t]), " ", "_")), nil
}

// UnmarshalText decodes any form accepted by ParseTier.
func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
