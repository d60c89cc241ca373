// Package avwx fetches METAR, TAF and station data from the AVWX REST API.
package avwx

import "time"

// Value is AVWX's number envelope, e.g. {"repr": "21", "value": 21}.
// Value is nil when the report omits the quantity.
type Value struct {
	Repr  string   `json:"repr"`
	Value *float64 `json:"value"`
}

// CloudLayer is one reported cloud deck. Altitude is in hundreds of feet
// and nil for indeterminate decks.
type CloudLayer struct {
	Type     string `json:"type"`
	Altitude *int   `json:"altitude"`
	Repr     string `json:"repr"`
}

// WxCode is a decoded present-weather group, e.g. {"repr": "-RA", "value": "Light Rain"}.
type WxCode struct {
	Repr  string `json:"repr"`
	Value string `json:"value"`
}

// Timestamp is AVWX's observation time envelope.
type Timestamp struct {
	Repr string    `json:"repr"`
	Dt   time.Time `json:"dt"`
}

// METAR is the subset of the AVWX METAR response the dashboard uses.
type METAR struct {
	Station          string       `json:"station"`
	Sanitized        string       `json:"sanitized"`
	FlightRules      string       `json:"flight_rules"`
	Visibility       Value        `json:"visibility"`
	Altimeter        Value        `json:"altimeter"`
	Temperature      Value        `json:"temperature"`
	Dewpoint         Value        `json:"dewpoint"`
	WindDirection    Value        `json:"wind_direction"`
	WindSpeed        Value        `json:"wind_speed"`
	WindGust         *Value       `json:"wind_gust"`
	Clouds           []CloudLayer `json:"clouds"`
	WxCodes          []WxCode     `json:"wx_codes"`
	PressureAltitude *int         `json:"pressure_altitude"`
	DensityAltitude  *int         `json:"density_altitude"`
	Time             Timestamp    `json:"time"`
}

// Station is the subset of the AVWX station response the dashboard uses.
type Station struct {
	Name      string `json:"name"`
	City      string `json:"city"`
	Country   string `json:"country"`
	Elevation *int   `json:"elevation_ft"`
	ICAO      string `json:"icao"`
}

// TAFPeriod is one forecast line of a TAF.
type TAFPeriod struct {
	Sanitized   string `json:"sanitized"`
	FlightRules string `json:"flight_rules"`
}

// TAF is the subset of the AVWX TAF response the dashboard uses.
type TAF struct {
	Station  string      `json:"station"`
	Forecast []TAFPeriod `json:"forecast"`
	Time     Timestamp   `json:"time"`
}

// Bundle carries everything one update cycle fetches for a station.
type Bundle struct {
	METAR       *METAR
	StationName string
	TAFLines    []string
}
