package model

import "time"

// Category names one axis of neighborhood quality.
type Category string

const (
	Security        Category = "Security"
	Shops           Category = "Shops"
	Schools         Category = "Schools"
	Hospitals       Category = "Hospitals"
	FireStations    Category = "FireStations"
	PoliceStations  Category = "PoliceStations"
	NightLeisure    Category = "NightLeisure"
	DayLeisure      Category = "DayLeisure"
	Universities    Category = "Universities"
	PublicTransport Category = "PublicTransport"
	Taxis           Category = "Taxis"
	BikeLanes       Category = "BikeLanes"
	Walkability     Category = "Walkability"
	Parking         Category = "Parking"
	Connectivity    Category = "Connectivity"
	GreenZones      Category = "GreenZones"
	Noise           Category = "Noise"
	AirQuality      Category = "AirQuality"
	Occupability    Category = "Occupability"
	Accessibility   Category = "Accessibility"
	Salary          Category = "Salary"
)

// Categories lists every category in a fixed order.
var Categories = []Category{
	Security, Shops, Schools, Hospitals, FireStations, PoliceStations,
	NightLeisure, DayLeisure, Universities, PublicTransport, Taxis,
	BikeLanes, Walkability, Parking, Connectivity, GreenZones, Noise,
	AirQuality, Occupability, Accessibility, Salary,
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Weight bounds applied after all profile rules are summed.
const (
	MinWeight = -100
	MaxWeight = 100
)

// WeightVector maps every category to a signed importance in [MinWeight, MaxWeight].
type WeightVector map[Category]int

// Total sums the weights of all categories.
func (w WeightVector) Total() int {
	total := 0
	for _, c := range Categories {
		total += w[c]
	}
	return total
}

// Clone returns an independent copy.
func (w WeightVector) Clone() WeightVector {
	out := make(WeightVector, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// UserProfile is the free-form questionnaire a recommendation run is personalized by.
// Every field is optional; unknown values are ignored.
type UserProfile struct {
	Age          string   `json:"age,omitempty" yaml:"age,omitempty"`
	Family       string   `json:"family,omitempty" yaml:"family,omitempty"`
	Lifestyle    []string `json:"lifestyle,omitempty" yaml:"lifestyle,omitempty"`
	Priorities   []string `json:"priorities,omitempty" yaml:"priorities,omitempty"`
	Environment  string   `json:"environment,omitempty" yaml:"environment,omitempty"`
	AirQuality   string   `json:"airQuality,omitempty" yaml:"airQuality,omitempty"`
	WorkMode     string   `json:"workMode,omitempty" yaml:"workMode,omitempty"`
	Housing      string   `json:"housing,omitempty" yaml:"housing,omitempty"`
	Budget       string   `json:"budget,omitempty" yaml:"budget,omitempty"`
	Security     string   `json:"security,omitempty" yaml:"security,omitempty"`
	Commute      string   `json:"commute,omitempty" yaml:"commute,omitempty"`
	Nightlife    string   `json:"nightlife,omitempty" yaml:"nightlife,omitempty"`
	DayLeisure   string   `json:"dayLeisure,omitempty" yaml:"dayLeisure,omitempty"`
	Shopping     string   `json:"shopping,omitempty" yaml:"shopping,omitempty"`
	Transit      string   `json:"transit,omitempty" yaml:"transit,omitempty"`
	Taxi         string   `json:"taxi,omitempty" yaml:"taxi,omitempty"`
	Bike         string   `json:"bike,omitempty" yaml:"bike,omitempty"`
	Parking      string   `json:"parking,omitempty" yaml:"parking,omitempty"`
	Trails       string   `json:"trails,omitempty" yaml:"trails,omitempty"`
	Hospitals    string   `json:"hospitals,omitempty" yaml:"hospitals,omitempty"`
	Schools      string   `json:"schools,omitempty" yaml:"schools,omitempty"`
	Universities string   `json:"universities,omitempty" yaml:"universities,omitempty"`
}

// SalaryTier is the coarse affordability class of a neighborhood.
type SalaryTier string

const (
	SalaryLow    SalaryTier = "Low"
	SalaryMedium SalaryTier = "Medium"
	SalaryHigh   SalaryTier = "High"
)

// Neighborhood is an entry of the master list.
type Neighborhood struct {
	Name string  `json:"name" yaml:"name" validate:"required,max=120"`
	Lat  float64 `json:"lat" yaml:"lat" validate:"latitude"`
	Lon  float64 `json:"lon" yaml:"lon" validate:"longitude"`
}

// CategoryValues holds the 0..100 normalized signals of one neighborhood.
type CategoryValues struct {
	Security        float64 `json:"Security" yaml:"Security"`
	Shops           float64 `json:"Shops" yaml:"Shops"`
	Schools         float64 `json:"Schools" yaml:"Schools"`
	Hospitals       float64 `json:"Hospitals" yaml:"Hospitals"`
	FireStations    float64 `json:"FireStations" yaml:"FireStations"`
	PoliceStations  float64 `json:"PoliceStations" yaml:"PoliceStations"`
	NightLeisure    float64 `json:"NightLeisure" yaml:"NightLeisure"`
	DayLeisure      float64 `json:"DayLeisure" yaml:"DayLeisure"`
	Universities    float64 `json:"Universities" yaml:"Universities"`
	PublicTransport float64 `json:"PublicTransport" yaml:"PublicTransport"`
	Taxis           float64 `json:"Taxis" yaml:"Taxis"`
	BikeLanes       float64 `json:"BikeLanes" yaml:"BikeLanes"`
	Walkability     float64 `json:"Walkability" yaml:"Walkability"`
	Parking         float64 `json:"Parking" yaml:"Parking"`
}

// Value returns the signal for c, or false when c is not carried by CategoryValues.
func (v CategoryValues) Value(c Category) (float64, bool) {
	switch c {
	case Security:
		return v.Security, true
	case Shops:
		return v.Shops, true
	case Schools:
		return v.Schools, true
	case Hospitals:
		return v.Hospitals, true
	case FireStations:
		return v.FireStations, true
	case PoliceStations:
		return v.PoliceStations, true
	case NightLeisure:
		return v.NightLeisure, true
	case DayLeisure:
		return v.DayLeisure, true
	case Universities:
		return v.Universities, true
	case PublicTransport:
		return v.PublicTransport, true
	case Taxis:
		return v.Taxis, true
	case BikeLanes:
		return v.BikeLanes, true
	case Walkability:
		return v.Walkability, true
	case Parking:
		return v.Parking, true
	}
	return 0, false
}

// LifestyleExtras holds the lifestyle sub-record. Noise is expressed as quietness:
// higher values mean quieter streets, like every other signal where higher is better.
type LifestyleExtras struct {
	Connectivity  float64    `json:"connectivity" yaml:"connectivity"`
	GreenZones    float64    `json:"greenZones" yaml:"greenZones"`
	Noise         float64    `json:"noise" yaml:"noise"`
	AirQuality    float64    `json:"airQuality" yaml:"airQuality"`
	Occupability  float64    `json:"occupability" yaml:"occupability"`
	Accessibility float64    `json:"accessibility" yaml:"accessibility"`
	SalaryTier    SalaryTier `json:"salaryTier" yaml:"salaryTier"`
}

// Value returns the signal for c, or false when c is not carried by LifestyleExtras.
func (e LifestyleExtras) Value(c Category) (float64, bool) {
	switch c {
	case Connectivity:
		return e.Connectivity, true
	case GreenZones:
		return e.GreenZones, true
	case Noise:
		return e.Noise, true
	case AirQuality:
		return e.AirQuality, true
	case Occupability:
		return e.Occupability, true
	case Accessibility:
		return e.Accessibility, true
	}
	return 0, false
}

// NeighborhoodSignals is what a signals provider returns for one neighborhood.
type NeighborhoodSignals struct {
	Values CategoryValues  `json:"values" yaml:"values"`
	Extras LifestyleExtras `json:"extras" yaml:"extras"`
}

// ScoredNeighborhood is one ranked entry of a recommendation run.
type ScoredNeighborhood struct {
	Name            string          `json:"name"`
	BaseScore       float64         `json:"baseScore"`
	AppliedNoise    float64         `json:"appliedNoise"`
	FinalScore      float64         `json:"finalScore"`
	CategoryValues  CategoryValues  `json:"categoryValues"`
	LifestyleExtras LifestyleExtras `json:"lifestyleExtras"`
}

// RunMetadata identifies a recommendation run. Seed replays the run's tie-breaking.
type RunMetadata struct {
	RunID              string    `json:"runId"`
	Timestamp          time.Time `json:"timestamp"`
	Seed               int64     `json:"seed"`
	TotalNeighborhoods int       `json:"totalNeighborhoods"`
}

// RecommendationResponse is the packaged result of one run.
type RecommendationResponse struct {
	Profile         UserProfile          `json:"profile"`
	Weights         WeightVector         `json:"weights"`
	Recommendations []ScoredNeighborhood `json:"recommendations"`
	Metadata        RunMetadata          `json:"metadata"`
}
