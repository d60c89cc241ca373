package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration unmarshals from YAML as either a Go duration string ("5m")
// or a bare number of seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var secs int
	if err := value.Decode(&secs); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("invalid duration value on line %d", value.Line)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the plain time.Duration value.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Control mirrors the operator control file. Zero fields leave the
// corresponding running value untouched.
type Control struct {
	Station        string   `yaml:"station"`
	UpdateInterval Duration `yaml:"update_interval"`
	AutoUpdate     *bool    `yaml:"auto_update"`
}

// ControlWatcher tracks a control file by modification time so the
// daemon can pick up edits without restarting.
type ControlWatcher struct {
	path    string
	lastMod time.Time
}

// NewControlWatcher creates a watcher for path. The first successful
// Poll reports a change so an existing file is applied on startup.
func NewControlWatcher(path string) *ControlWatcher {
	return &ControlWatcher{path: path}
}

// Poll re-reads the control file when its mtime has moved. The bool is
// true when a freshly parsed Control is returned. A missing file is not
// an error; the watcher waits for it to appear.
func (w *ControlWatcher) Poll() (*Control, bool, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to stat control file: %w", err)
	}
	if !info.ModTime().After(w.lastMod) {
		return nil, false, nil
	}

	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read control file: %w", err)
	}
	var ctl Control
	if err := yaml.Unmarshal(data, &ctl); err != nil {
		return nil, false, fmt.Errorf("failed to parse control file: %w", err)
	}

	w.lastMod = info.ModTime()
	return &ctl, true, nil
}
