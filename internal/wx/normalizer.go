package wx

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/tomargood/weather-dashboardv2/internal/avwx"
)

// ErrIncompleteObservation marks METAR payloads missing the identity
// fields the panel cannot render without.
var ErrIncompleteObservation = errors.New("incomplete observation")

// Headline conditions used when the METAR carries no weather code.
const (
	ConditionCloudy   = "CLOUDY"
	ConditionSkyClear = "SKY CLEAR"
)

// lowDeckAltitude is the deck height (hundreds of feet) below which a
// code-free observation is summarized as CLOUDY instead of SKY CLEAR.
const lowDeckAltitude = 100

// observedLayout renders observation times for the page footer.
const observedLayout = "2006-01-02 15:04:05 MST"

// Normalize projects a fetched bundle into the display snapshot.
func Normalize(bundle *avwx.Bundle, station string) (*Snapshot, error) {
	if bundle == nil || bundle.METAR == nil {
		return nil, fmt.Errorf("%w: empty bundle for %s", ErrIncompleteObservation, station)
	}
	metar := bundle.METAR
	if metar.Station == "" {
		return nil, fmt.Errorf("%w: report carries no station identifier", ErrIncompleteObservation)
	}
	if metar.Time.Dt.IsZero() {
		return nil, fmt.Errorf("%w: report carries no observation time", ErrIncompleteObservation)
	}

	snap := &Snapshot{
		StationID:   metar.Station,
		StationName: bundle.StationName,
		FlightRules: metar.FlightRules,
		Visibility:  metar.Visibility.Repr,
		Altimeter:   formatFixed(metar.Altimeter),
		Temperature: formatValue(metar.Temperature),
		Dewpoint:    formatValue(metar.Dewpoint),
		WindSpeed:   formatValue(metar.WindSpeed),
		PressureAlt: formatInt(metar.PressureAltitude),
		DensityAlt:  formatInt(metar.DensityAltitude),
		RawMETAR:    metar.Sanitized,
		TAFLines:    append([]string(nil), bundle.TAFLines...),
		ObservedAt:  metar.Time.Dt.UTC(),
	}
	snap.ObservedText = snap.ObservedAt.Format(observedLayout)

	if snap.StationName == "" {
		snap.StationName = metar.Station
	}

	if metar.WindGust != nil {
		snap.WindGust = formatValue(*metar.WindGust)
	}

	// Variable winds report no direction; the arrow is omitted then.
	if metar.WindDirection.Value != nil {
		dir := int(math.Round(*metar.WindDirection.Value))
		snap.WindDirection = fmt.Sprintf("%03d", dir)
		snap.ArrowRotation = strconv.Itoa((dir+180)%360) + "deg"
	}

	snap.CloudLayers = make([]string, 0, len(metar.Clouds))
	for _, layer := range metar.Clouds {
		snap.CloudLayers = append(snap.CloudLayers, layer.Repr)
	}

	snap.WxCodes = make([]string, 0, len(metar.WxCodes))
	for _, code := range metar.WxCodes {
		snap.WxCodes = append(snap.WxCodes, code.Repr)
	}

	snap.Condition = primaryCondition(metar)

	return snap, nil
}

// primaryCondition picks the headline condition: the first decoded weather
// code, else CLOUDY when a low deck is present, else SKY CLEAR.
func primaryCondition(metar *avwx.METAR) string {
	if len(metar.WxCodes) > 0 && metar.WxCodes[0].Value != "" {
		return metar.WxCodes[0].Value
	}
	for _, layer := range metar.Clouds {
		if layer.Altitude != nil && *layer.Altitude < lowDeckAltitude {
			return ConditionCloudy
		}
	}
	return ConditionSkyClear
}

// formatValue renders an AVWX number envelope, empty when absent.
func formatValue(v avwx.Value) string {
	if v.Value == nil {
		return ""
	}
	return strconv.FormatFloat(*v.Value, 'f', -1, 64)
}

// formatFixed renders a number envelope with two decimals, the display
// convention for altimeter settings (30 reads as 30.00 inHg).
func formatFixed(v avwx.Value) string {
	if v.Value == nil {
		return ""
	}
	return strconv.FormatFloat(*v.Value, 'f', 2, 64)
}

// formatInt renders an optional integer, empty when absent.
func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
