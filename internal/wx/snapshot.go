// Package wx normalizes raw AVWX observations into the display projection
// and decides when the panel actually needs a refresh.
package wx

import (
	"slices"
	"time"
)

// Snapshot is the normalized projection of one observation, carrying
// exactly what the rendered page consumes. Value fields are display-ready
// strings; quantities absent from the report are empty.
type Snapshot struct {
	StationID     string    `json:"station_id"`
	StationName   string    `json:"station_name"`
	FlightRules   string    `json:"flight_rules"`
	Visibility    string    `json:"visibility"`
	CloudLayers   []string  `json:"cloud_layers"`
	Altimeter     string    `json:"altimeter"`
	Temperature   string    `json:"temperature"`
	Dewpoint      string    `json:"dewpoint"`
	WindSpeed     string    `json:"wind_speed"`
	WindGust      string    `json:"wind_gust"`
	WindDirection string    `json:"wind_direction"`
	ArrowRotation string    `json:"arrow_rotation"`
	PressureAlt   string    `json:"pressure_altitude"`
	DensityAlt    string    `json:"density_altitude"`
	WxCodes       []string  `json:"wx_codes"`
	Condition     string    `json:"condition"`
	RawMETAR      string    `json:"raw_metar"`
	TAFLines      []string  `json:"taf_lines"`
	ObservedAt    time.Time `json:"observed_at"`
	ObservedText  string    `json:"observed_text"`
}

// Changed reports whether next differs from prev in any displayed weather
// field. The observation timestamp and the raw report text are ignored: a
// reissued METAR with identical conditions must not cost a panel refresh.
func Changed(prev, next *Snapshot) bool {
	if prev == nil || next == nil {
		return prev != next
	}
	if prev.StationID != next.StationID ||
		prev.StationName != next.StationName ||
		prev.FlightRules != next.FlightRules ||
		prev.Visibility != next.Visibility ||
		prev.Altimeter != next.Altimeter ||
		prev.Temperature != next.Temperature ||
		prev.Dewpoint != next.Dewpoint ||
		prev.WindSpeed != next.WindSpeed ||
		prev.WindGust != next.WindGust ||
		prev.WindDirection != next.WindDirection ||
		prev.ArrowRotation != next.ArrowRotation ||
		prev.PressureAlt != next.PressureAlt ||
		prev.DensityAlt != next.DensityAlt ||
		prev.Condition != next.Condition {
		return true
	}
	if !slices.Equal(prev.CloudLayers, next.CloudLayers) {
		return true
	}
	if !slices.Equal(prev.WxCodes, next.WxCodes) {
		return true
	}
	return !slices.Equal(prev.TAFLines, next.TAFLines)
}
