package wx

import (
	"testing"
	"time"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		StationID:     "KSKA",
		StationName:   "Fairchild Air Force Base",
		FlightRules:   "VFR",
		Visibility:    "10",
		CloudLayers:   []string{"FEW120"},
		Altimeter:     "29.92",
		Temperature:   "21",
		Dewpoint:      "9",
		WindSpeed:     "12",
		WindGust:      "",
		WindDirection: "230",
		ArrowRotation: "50deg",
		PressureAlt:   "2441",
		DensityAlt:    "3866",
		WxCodes:       []string{},
		Condition:     ConditionSkyClear,
		RawMETAR:      "KSKA 261958Z 23012KT 10SM FEW120 21/09 A2992",
		TAFLines:      []string{"2620/2720 23012KT 9999"},
		ObservedAt:    time.Date(2025, 8, 26, 19, 58, 0, 0, time.UTC),
		ObservedText:  "2025-08-26 19:58:00 UTC",
	}
}

func TestChangedIgnoresTimestamp(t *testing.T) {
	prev := sampleSnapshot()
	next := sampleSnapshot()
	next.ObservedAt = next.ObservedAt.Add(time.Hour)
	next.ObservedText = next.ObservedAt.Format("2006-01-02 15:04:05 MST")
	next.RawMETAR = "KSKA 262058Z 23012KT 10SM FEW120 21/09 A2992"

	if Changed(prev, next) {
		t.Error("Reissued observation with identical conditions must not count as a change")
	}
}

func TestChangedIdenticalSnapshots(t *testing.T) {
	if Changed(sampleSnapshot(), sampleSnapshot()) {
		t.Error("Identical snapshots reported as changed")
	}
}

func TestChangedDetectsEveryField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"station id", func(s *Snapshot) { s.StationID = "KBFI" }},
		{"station name", func(s *Snapshot) { s.StationName = "Boeing Field" }},
		{"flight rules", func(s *Snapshot) { s.FlightRules = "IFR" }},
		{"visibility", func(s *Snapshot) { s.Visibility = "1/2" }},
		{"cloud layer swap", func(s *Snapshot) { s.CloudLayers = []string{"OVC005"} }},
		{"cloud layer added", func(s *Snapshot) { s.CloudLayers = append(s.CloudLayers, "BKN250") }},
		{"altimeter", func(s *Snapshot) { s.Altimeter = "29.71" }},
		{"temperature", func(s *Snapshot) { s.Temperature = "22" }},
		{"dewpoint", func(s *Snapshot) { s.Dewpoint = "10" }},
		{"wind speed", func(s *Snapshot) { s.WindSpeed = "15" }},
		{"gust appears", func(s *Snapshot) { s.WindGust = "25" }},
		{"wind direction", func(s *Snapshot) { s.WindDirection = "240"; s.ArrowRotation = "60deg" }},
		{"pressure altitude", func(s *Snapshot) { s.PressureAlt = "2500" }},
		{"density altitude", func(s *Snapshot) { s.DensityAlt = "4100" }},
		{"wx codes", func(s *Snapshot) { s.WxCodes = []string{"-RA"} }},
		{"condition", func(s *Snapshot) { s.Condition = "Light Rain" }},
		{"taf lines", func(s *Snapshot) { s.TAFLines = []string{"TAF not available"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := sampleSnapshot()
			next := sampleSnapshot()
			tt.mutate(next)
			if !Changed(prev, next) {
				t.Errorf("Mutation of %s was not detected", tt.name)
			}
		})
	}
}

func TestChangedNilHandling(t *testing.T) {
	snap := sampleSnapshot()
	if !Changed(nil, snap) {
		t.Error("First observation must count as a change")
	}
	if Changed(nil, nil) {
		t.Error("Two nil snapshots are not a change")
	}
}

func TestChangedIgnoresRawReport(t *testing.T) {
	prev := sampleSnapshot()
	next := sampleSnapshot()
	next.RawMETAR = prev.RawMETAR + " RMK AO2"

	if Changed(prev, next) {
		t.Error("Raw report text alone must not trigger a refresh")
	}
}
