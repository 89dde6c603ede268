package question

import (
	"fmt"
	"sort"
)

// Band is an inclusive range of difficulty tiers.
type Band struct {
	Min int `json:"min" koanf:"min"`
	Max int `json:"max" koanf:"max"`
}

// Contains reports whether tier lies within the band.
func (b Band) Contains(tier int) bool {
	return tier >= b.Min && tier <= b.Max
}

// Tiers lists the tiers in the band.
func (b Band) Tiers() []int {
	out := make([]int, 0, b.Max-b.Min+1)
	for t := b.Min; t <= b.Max; t++ {
		out = append(out, t)
	}
	return out
}

// Widen grows the band by one tier on each side, clamped to [MinTier, ceiling].
func (b Band) Widen(ceiling int) Band {
	w := Band{Min: b.Min - 1, Max: b.Max + 1}
	if w.Min < MinTier {
		w.Min = MinTier
	}
	if w.Max > ceiling {
		w.Max = ceiling
	}
	return w
}

func (b Band) String() string {
	return fmt.Sprintf("%d-%d", b.Min, b.Max)
}

// BandRule maps ratings at or above MinRating to a band.
type BandRule struct {
	MinRating float64 `koanf:"min_rating"`
	Band      Band    `koanf:"band"`
}

// BandTable is the rating bracket -> allowed tiers configuration.
type BandTable struct {
	rules []BandRule
}

// DefaultBandTable spaces brackets 300 rating points apart, two tiers per bracket.
func DefaultBandTable() BandTable {
	table, _ := NewBandTable([]BandRule{
		{MinRating: -1e18, Band: Band{Min: 1, Max: 1}},
		{MinRating: 450, Band: Band{Min: 1, Max: 2}},
		{MinRating: 750, Band: Band{Min: 2, Max: 3}},
		{MinRating: 1050, Band: Band{Min: 3, Max: 4}},
		{MinRating: 1350, Band: Band{Min: 4, Max: 5}},
		{MinRating: 1650, Band: Band{Min: 5, Max: 5}},
	})
	return table
}

// NewBandTable validates and sorts rules. The lowest rule applies to every rating below it too.
func NewBandTable(rules []BandRule) (BandTable, error) {
	if len(rules) == 0 {
		return BandTable{}, fmt.Errorf("band table: no rules")
	}
	sorted := append([]BandRule(nil), rules...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinRating < sorted[j].MinRating })
	for _, r := range sorted {
		if r.Band.Min < MinTier || r.Band.Max > MaxTier || r.Band.Min > r.Band.Max {
			return BandTable{}, fmt.Errorf("band table: invalid band %s at rating %.0f", r.Band, r.MinRating)
		}
	}
	return BandTable{rules: sorted}, nil
}

// GradeCeiling is the highest tier a grade may see: grade+1, at most MaxTier.
func GradeCeiling(grade int) int {
	c := grade + 1
	if c > MaxTier {
		c = MaxTier
	}
	if c < MinTier {
		c = MinTier
	}
	return c
}

// BandFor returns the band for a rating, capped by the grade ceiling.
func (t BandTable) BandFor(rating float64, grade int) Band {
	if len(t.rules) == 0 {
		t = DefaultBandTable()
	}
	band := t.rules[0].Band
	for _, r := range t.rules {
		if rating >= r.MinRating {
			band = r.Band
		}
	}
	ceiling := GradeCeiling(grade)
	if band.Max > ceiling {
		band.Max = ceiling
	}
	if band.Min > band.Max {
		band.Min = band.Max
	}
	return band
}
