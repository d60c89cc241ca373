// Package mocks serves canned AVWX payloads for offline development.
package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomargood/weather-dashboardv2/internal/avwx"
)

// MockService replays canned AVWX responses from disk so the full pipeline
// can run without network access or an API token.
type MockService struct {
	dataDir string
	logger  zerolog.Logger
}

// NewMockService creates a mock weather source reading from dataDir.
func NewMockService(dataDir string, logger zerolog.Logger) *MockService {
	return &MockService{dataDir: dataDir, logger: logger}
}

// FetchAll loads the canned bundle. The observation is restamped with the
// requested station and the current time so the rendered page looks live.
func (m *MockService) FetchAll(ctx context.Context, station string) (*avwx.Bundle, error) {
	var metar avwx.METAR
	if err := m.loadJSON("metar.json", &metar); err != nil {
		return nil, fmt.Errorf("%w: %v", avwx.ErrObservationUnavailable, err)
	}

	metar.Station = station
	metar.Time.Dt = time.Now().UTC()

	bundle := &avwx.Bundle{
		METAR:       &metar,
		StationName: station,
		TAFLines:    []string{avwx.TAFUnavailable},
	}

	var info avwx.Station
	if err := m.loadJSON("station.json", &info); err == nil && info.Name != "" {
		bundle.StationName = info.Name
	}

	var taf avwx.TAF
	if err := m.loadJSON("taf.json", &taf); err == nil && len(taf.Forecast) > 0 {
		lines := make([]string, 0, len(taf.Forecast))
		for _, period := range taf.Forecast {
			lines = append(lines, period.Sanitized)
		}
		bundle.TAFLines = lines
	}

	m.logger.Debug().Str("station", station).Msg("Served mock weather bundle")
	return bundle, nil
}

// loadJSON reads one canned payload from the data directory.
func (m *MockService) loadJSON(name string, out interface{}) error {
	path := filepath.Join(m.dataDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read mock file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse mock file %s: %w", path, err)
	}
	return nil
}
