package model

import (
	"math"
	"unicode/utf16"
)

// LinearCategories contribute value*weight/100 with no adjustment.
var LinearCategories = []Category{
	Security, Shops, Schools, Hospitals, FireStations, PoliceStations,
	NightLeisure, DayLeisure, Universities, PublicTransport, Taxis,
	BikeLanes, Walkability, Parking, Connectivity, Occupability, Accessibility,
}

// WeightBracket classifies a weight's magnitude for the threshold tables.
type WeightBracket int

const (
	BracketNeutral WeightBracket = iota
	BracketExtreme
	BracketStrong
	BracketInverted
)

func (b WeightBracket) String() string {
	switch b {
	case BracketExtreme:
		return "extreme"
	case BracketStrong:
		return "strong"
	case BracketInverted:
		return "inverted"
	default:
		return "neutral"
	}
}

// BracketFor maps a weight to its bracket. Order matters: extreme is checked first.
func BracketFor(weight int) WeightBracket {
	switch {
	case weight >= 100:
		return BracketExtreme
	case weight > 60:
		return BracketStrong
	case weight < 30:
		return BracketInverted
	default:
		return BracketNeutral
	}
}

// ValueStep adds Adjust when the value is strictly below Below.
type ValueStep struct {
	Below  float64
	Adjust float64
}

// above closes a step ladder.
var above = math.Inf(1)

// ThresholdTable is the ordered (weight bracket, value bracket) -> constant table
// of one threshold-adjusted category. A nil ladder means no adjustment.
type ThresholdTable struct {
	Category Category
	Extreme  []ValueStep
	Strong   []ValueStep
	Inverted []ValueStep
}

// Adjustment returns the additive constant for weight and value.
func (t ThresholdTable) Adjustment(weight int, value float64) float64 {
	var ladder []ValueStep
	switch BracketFor(weight) {
	case BracketExtreme:
		ladder = t.Extreme
	case BracketStrong:
		ladder = t.Strong
	case BracketInverted:
		ladder = t.Inverted
	}
	for _, s := range ladder {
		if value < s.Below {
			return s.Adjust
		}
	}
	return 0
}

var (
	GreenZonesAdjustments = ThresholdTable{
		Category: GreenZones,
		Extreme:  []ValueStep{{30, -60}, {50, -35}, {70, -10}, {above, 25}},
		Strong:   []ValueStep{{30, -30}, {50, -15}, {70, 0}, {above, 15}},
		Inverted: []ValueStep{{30, 20}, {50, 10}, {70, 0}, {above, -15}},
	}
	NoiseAdjustments = ThresholdTable{
		Category: Noise,
		Extreme:  []ValueStep{{25, -50}, {45, -30}, {65, -10}, {above, 20}},
		Strong:   []ValueStep{{25, -25}, {45, -12}, {65, 0}, {above, 10}},
		Inverted: []ValueStep{{25, 15}, {45, 8}, {65, 0}, {above, -15}},
	}
	// Air quality has no inverted preference.
	AirQualityAdjustments = ThresholdTable{
		Category: AirQuality,
		Extreme:  []ValueStep{{35, -45}, {55, -25}, {75, -5}, {above, 20}},
		Strong:   []ValueStep{{35, -20}, {55, -10}, {75, 0}, {above, 10}},
	}

	ThresholdTables = []ThresholdTable{GreenZonesAdjustments, NoiseAdjustments, AirQualityAdjustments}
)

// SalaryRow is one weight bracket of the salary table.
type SalaryRow struct {
	Name              string
	Match             func(weight int) bool
	High, Medium, Low float64
}

// SalaryAdjustments is evaluated top to bottom; the first matching row wins.
var SalaryAdjustments = []SalaryRow{
	{"high-extreme", func(w int) bool { return w > 70 }, 50, -40, -90},
	{"low-extreme", func(w int) bool { return w < -70 }, -90, -40, 50},
	{"high-strong", func(w int) bool { return w > 40 }, 30, 0, -50},
	{"low-strong", func(w int) bool { return w < -40 }, -50, 0, 30},
	{"mild", func(w int) bool { return w != 0 }, 10, 25, 10},
	{"neutral", func(w int) bool { return w == 0 }, 50, 50, 50},
}

// SalaryAdjustment returns the additive salary term. An unknown tier only earns the
// flat neutral bonus of a zero weight.
func SalaryAdjustment(weight int, tier SalaryTier) float64 {
	for _, row := range SalaryAdjustments {
		if !row.Match(weight) {
			continue
		}
		switch tier {
		case SalaryHigh:
			return row.High
		case SalaryMedium:
			return row.Medium
		case SalaryLow:
			return row.Low
		}
		if weight == 0 {
			return row.Medium
		}
		return 0
	}
	return 0
}

// Score combines a neighborhood's signals with weights into a base score.
// A zero weight total yields 0.
func Score(values CategoryValues, extras LifestyleExtras, weights WeightVector) float64 {
	total := weights.Total()
	if total == 0 {
		return 0
	}
	score := 0.0
	for _, c := range LinearCategories {
		v, ok := values.Value(c)
		if !ok {
			v, _ = extras.Value(c)
		}
		score += v * float64(weights[c]) / 100
	}
	for _, t := range ThresholdTables {
		v, _ := extras.Value(t.Category)
		w := weights[t.Category]
		score += v*float64(w)/100 + t.Adjustment(w, v)
	}
	score += SalaryAdjustment(weights[Salary], extras.SalaryTier)
	return score / float64(total) * 100
}

// TieBreak returns a deterministic perturbation in [-1, 1) keyed by name and seed.
// The name hash sums UTF-16 code units, so characters outside the BMP count as
// their surrogate pair and invalid UTF-8 bytes count as U+FFFD.
func TieBreak(name string, seed int64) float64 {
	var hash int64
	for _, u := range utf16.Encode([]rune(name)) {
		hash += int64(u)
	}
	m := (hash + seed) % 100
	if m < 0 {
		m += 100
	}
	return (float64(m)/100 - 0.5) * 2
}
