package model

import (
	"math"
	"testing"
)

func baseline() WeightVector {
	return WeightVector{
		Security: 60, Shops: 30, Schools: 20, Hospitals: 30, FireStations: 10,
		PoliceStations: 15, NightLeisure: 20, DayLeisure: 30, Universities: 10,
		PublicTransport: 40, Taxis: 10, BikeLanes: 15, Walkability: 35, Parking: 20,
		Connectivity: 30, GreenZones: 40, Noise: 40, AirQuality: 40, Occupability: 20,
		Accessibility: 25, Salary: 0,
	}
}

func uniformValues(v float64) CategoryValues {
	return CategoryValues{
		Security: v, Shops: v, Schools: v, Hospitals: v, FireStations: v, PoliceStations: v,
		NightLeisure: v, DayLeisure: v, Universities: v, PublicTransport: v, Taxis: v,
		BikeLanes: v, Walkability: v, Parking: v,
	}
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScoreZeroTotalWeight(t *testing.T) {
	w := WeightVector{Security: 50, Parking: -50}
	got := Score(uniformValues(80), LifestyleExtras{GreenZones: 90, SalaryTier: SalaryHigh}, w)
	if got != 0 {
		t.Fatalf("score with zero total weight = %v, want 0", got)
	}
}

func TestScoreLinearAndNeutralSalary(t *testing.T) {
	w := WeightVector{Security: 50}
	values := CategoryValues{Security: 80}
	// inverted brackets for GreenZones/Noise land on their zero steps
	extras := LifestyleExtras{GreenZones: 60, Noise: 50, SalaryTier: SalaryMedium}
	got := Score(values, extras, w)
	// (80*50/100 + 50 salary) / 50 * 100
	if !almostEqual(got, 180) {
		t.Fatalf("score = %v, want 180", got)
	}
}

func TestThresholdTablesGolden(t *testing.T) {
	cases := []struct {
		table  ThresholdTable
		weight int
		value  float64
		want   float64
	}{
		{GreenZonesAdjustments, 100, 20, -60},
		{GreenZonesAdjustments, 100, 30, -35},
		{GreenZonesAdjustments, 100, 65, -10},
		{GreenZonesAdjustments, 100, 85, 25},
		{GreenZonesAdjustments, 80, 10, -30},
		{GreenZonesAdjustments, 61, 90, 15},
		{GreenZonesAdjustments, 60, 10, 0},
		{GreenZonesAdjustments, 45, 10, 0},
		{GreenZonesAdjustments, 10, 10, 20},
		{GreenZonesAdjustments, -40, 95, -15},
		{NoiseAdjustments, 100, 24, -50},
		{NoiseAdjustments, 100, 70, 20},
		{NoiseAdjustments, 70, 40, -12},
		{NoiseAdjustments, 20, 30, 8},
		{NoiseAdjustments, 20, 80, -15},
		{AirQualityAdjustments, 100, 50, -25},
		{AirQualityAdjustments, 90, 80, 10},
		{AirQualityAdjustments, 0, 10, 0},
	}
	for _, c := range cases {
		if got := c.table.Adjustment(c.weight, c.value); got != c.want {
			t.Fatalf("%s adjustment(w=%d, v=%v) = %v, want %v", c.table.Category, c.weight, c.value, got, c.want)
		}
	}
}

func TestSalaryAdjustment(t *testing.T) {
	cases := []struct {
		weight int
		tier   SalaryTier
		want   float64
	}{
		{90, SalaryHigh, 50},
		{90, SalaryMedium, -40},
		{90, SalaryLow, -90},
		{-90, SalaryLow, 50},
		{-90, SalaryHigh, -90},
		{50, SalaryLow, -50},
		{-50, SalaryLow, 30},
		{20, SalaryMedium, 25},
		{0, SalaryLow, 50},
		{0, "", 50},
		{90, "", 0},
	}
	for _, c := range cases {
		if got := SalaryAdjustment(c.weight, c.tier); got != c.want {
			t.Fatalf("salary(w=%d, tier=%q) = %v, want %v", c.weight, c.tier, got, c.want)
		}
	}
}

func TestGreenPreferenceOutranksModestlyBetterNeighborhood(t *testing.T) {
	w := baseline()
	w[GreenZones] = 100
	a := Score(uniformValues(70), LifestyleExtras{GreenZones: 20, Noise: 50, AirQuality: 50, SalaryTier: SalaryMedium}, w)
	b := Score(uniformValues(60), LifestyleExtras{GreenZones: 85, Noise: 50, AirQuality: 50, SalaryTier: SalaryMedium}, w)
	if b <= a {
		t.Fatalf("green neighborhood should outrank: a=%v b=%v", a, b)
	}
}

func TestHighSalaryWeightFavoursHighTier(t *testing.T) {
	w := baseline()
	w[Salary] = 90
	values := uniformValues(50)
	high := Score(values, LifestyleExtras{GreenZones: 50, Noise: 50, AirQuality: 50, SalaryTier: SalaryHigh}, w)
	low := Score(values, LifestyleExtras{GreenZones: 50, Noise: 50, AirQuality: 50, SalaryTier: SalaryLow}, w)
	gap := (50.0 - -90.0) / float64(w.Total()) * 100
	if !almostEqual(high-low, gap) {
		t.Fatalf("high-low = %v, want %v", high-low, gap)
	}
	if high-low <= 2 {
		t.Fatalf("gap %v must survive tie-break noise", high-low)
	}
}

func TestTieBreak(t *testing.T) {
	// "Abc": 65+98+99 = 262
	if got := TieBreak("Abc", 0); !almostEqual(got, (0.62-0.5)*2) {
		t.Fatalf("TieBreak = %v", got)
	}
	// U+1F600 encodes as 0xD83D 0xDE00: 55357 + 56832 = 112189
	if got := TieBreak("\U0001F600", 0); !almostEqual(got, (0.89-0.5)*2) {
		t.Fatalf("TieBreak over surrogate pair = %v", got)
	}
	if TieBreak("Centro", 1700000000123) != TieBreak("Centro", 1700000000123) {
		t.Fatalf("tie break not deterministic")
	}
	if TieBreak("Centro", 1) == TieBreak("Centro", 2) {
		t.Fatalf("seed change should move the tie break")
	}
	for seed := int64(-250); seed < 250; seed++ {
		n := TieBreak("Ruzafa", seed)
		if n < -1 || n >= 1 {
			t.Fatalf("noise %v out of range for seed %d", n, seed)
		}
	}
}

func TestBracketFor(t *testing.T) {
	cases := map[int]WeightBracket{100: BracketExtreme, 99: BracketStrong, 61: BracketStrong, 60: BracketNeutral, 30: BracketNeutral, 29: BracketInverted, -100: BracketInverted}
	for w, want := range cases {
		if got := BracketFor(w); got != want {
			t.Fatalf("BracketFor(%d) = %s, want %s", w, got, want)
		}
	}
}
