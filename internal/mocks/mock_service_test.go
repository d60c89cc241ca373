package mocks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomargood/weather-dashboardv2/internal/avwx"
)

func TestMockServiceFetchAll(t *testing.T) {
	svc := NewMockService("data", zerolog.Nop())

	bundle, err := svc.FetchAll(context.Background(), "KBFI")
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	// The canned observation is restamped to the requested station
	if bundle.METAR.Station != "KBFI" {
		t.Errorf("Expected station rewritten to 'KBFI', got '%s'", bundle.METAR.Station)
	}

	// The observation time is refreshed so the page looks current
	if time.Since(bundle.METAR.Time.Dt) > time.Minute {
		t.Errorf("Expected fresh observation time, got %v", bundle.METAR.Time.Dt)
	}

	if bundle.StationName != "Fairchild Air Force Base" {
		t.Errorf("Expected canned station name, got '%s'", bundle.StationName)
	}
	if len(bundle.TAFLines) != 3 {
		t.Errorf("Expected 3 canned TAF lines, got %d", len(bundle.TAFLines))
	}
	if bundle.METAR.WindGust == nil || bundle.METAR.WindGust.Value == nil || *bundle.METAR.WindGust.Value != 18 {
		t.Errorf("Expected canned gust of 18, got %v", bundle.METAR.WindGust)
	}
	if len(bundle.METAR.WxCodes) != 1 || bundle.METAR.WxCodes[0].Value != "Light Rain" {
		t.Errorf("Expected canned wx code 'Light Rain', got %v", bundle.METAR.WxCodes)
	}
}

func TestMockServiceMissingData(t *testing.T) {
	svc := NewMockService(t.TempDir(), zerolog.Nop())

	_, err := svc.FetchAll(context.Background(), "KSKA")
	if !errors.Is(err, avwx.ErrObservationUnavailable) {
		t.Errorf("Expected ErrObservationUnavailable without mock data, got: %v", err)
	}
}
