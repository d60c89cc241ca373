package config

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Panel output modes.
const (
	PanelModeOff     = "off"
	PanelModeCommand = "command"
	PanelModePNG     = "png"
)

var stationPattern = regexp.MustCompile(`^[A-Z0-9]{4}$`)

// ErrInvalidStation rejects identifiers that are not 4-character ICAO codes.
var ErrInvalidStation = errors.New("invalid station identifier")

// Config holds all configuration for the weather dashboard service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8980"`

	// AVWX configuration
	AVWXAPIToken string `env:"AVWX_API_TOKEN"`
	AVWXBaseURL  string `env:"AVWX_BASE_URL,default=https://avwx.rest/api"`

	// Update cycle configuration
	Station        string        `env:"STATION,default=KSKA"`
	UpdateInterval time.Duration `env:"UPDATE_INTERVAL,default=5m"`
	FetchTimeout   time.Duration `env:"FETCH_TIMEOUT,default=10s"`
	RenderTimeout  time.Duration `env:"RENDER_TIMEOUT,default=60s"`
	KeepCycles     int           `env:"KEEP_CYCLES,default=24"`
	ControlFile    string        `env:"CONTROL_FILE"`

	// Render configuration
	TemplatesDir     string `env:"TEMPLATES_DIR,default=./internal/templates"`
	OutputDir        string `env:"OUTPUT_DIR,default=./output"`
	WkhtmltoimageBin string `env:"WKHTMLTOIMAGE_BIN,default=wkhtmltoimage"`
	ChromiumBin      string `env:"CHROMIUM_BIN,default=chromium-browser"`

	// Panel configuration
	PanelMode   string `env:"PANEL_MODE,default=off"`
	PanelCmd    string `env:"PANEL_CMD"`
	PanelWidth  int    `env:"PANEL_WIDTH,default=800"`
	PanelHeight int    `env:"PANEL_HEIGHT,default=480"`

	// Local testing configuration
	MockupMode bool   `env:"MOCKUP_MODE,default=false"`
	MocksDir   string `env:"MOCKS_DIR,default=./internal/mocks/data"`

	// Service configuration
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=auto"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	cfg.Station = strings.ToUpper(strings.TrimSpace(cfg.Station))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that env tags cannot express
func (c *Config) Validate() error {
	if !ValidStation(c.Station) {
		return fmt.Errorf("STATION must be a 4-character ICAO identifier, got %q", c.Station)
	}
	if c.AVWXAPIToken == "" && !c.MockupMode {
		return fmt.Errorf("AVWX_API_TOKEN is required unless MOCKUP_MODE is enabled")
	}
	switch c.PanelMode {
	case PanelModeOff, PanelModePNG:
	case PanelModeCommand:
		if c.PanelCmd == "" {
			return fmt.Errorf("PANEL_CMD is required when PANEL_MODE=command")
		}
	default:
		return fmt.Errorf("PANEL_MODE must be off, command or png, got %q", c.PanelMode)
	}
	if c.PanelWidth <= 0 || c.PanelHeight <= 0 {
		return fmt.Errorf("panel dimensions must be positive, got %dx%d", c.PanelWidth, c.PanelHeight)
	}
	if c.UpdateInterval <= 0 {
		return fmt.Errorf("UPDATE_INTERVAL must be positive, got %s", c.UpdateInterval)
	}
	if c.FetchTimeout <= 0 || c.RenderTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive, got fetch=%s render=%s", c.FetchTimeout, c.RenderTimeout)
	}
	return nil
}

// ValidStation reports whether code looks like a 4-character ICAO
// station identifier after trimming and uppercasing.
func ValidStation(code string) bool {
	return stationPattern.MatchString(strings.ToUpper(strings.TrimSpace(code)))
}
