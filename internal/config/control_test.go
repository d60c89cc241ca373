package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDurationUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    time.Duration
		wantErr bool
	}{
		{"duration string", "interval: 5m", 5 * time.Minute, false},
		{"bare seconds", "interval: 300", 300 * time.Second, false},
		{"compound duration", "interval: 1h30m", 90 * time.Minute, false},
		{"garbage", "interval: soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				Interval Duration `yaml:"interval"`
			}
			err := yaml.Unmarshal([]byte(tt.yaml), &out)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got none", tt.yaml)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%q) failed: %v", tt.yaml, err)
			}
			if out.Interval.Std() != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, out.Interval.Std())
			}
		})
	}
}

func TestControlWatcherMissingFile(t *testing.T) {
	w := NewControlWatcher(filepath.Join(t.TempDir(), "nope.yaml"))

	ctl, changed, err := w.Poll()
	if err != nil {
		t.Fatalf("Poll on missing file should not error, got: %v", err)
	}
	if changed || ctl != nil {
		t.Error("Poll on missing file should report no change")
	}
}

func TestControlWatcherDetectsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "control.yaml")
	content := "station: KBFI\nupdate_interval: 2m\nauto_update: false\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	w := NewControlWatcher(path)

	ctl, changed, err := w.Poll()
	if err != nil {
		t.Fatalf("First poll failed: %v", err)
	}
	if !changed {
		t.Fatal("First poll should report a change")
	}
	if ctl.Station != "KBFI" {
		t.Errorf("Expected station 'KBFI', got '%s'", ctl.Station)
	}
	if ctl.UpdateInterval.Std() != 2*time.Minute {
		t.Errorf("Expected interval 2m, got %v", ctl.UpdateInterval.Std())
	}
	if ctl.AutoUpdate == nil || *ctl.AutoUpdate {
		t.Error("Expected auto_update to be false")
	}

	// Unmodified file reports no change
	if _, changed, _ := w.Poll(); changed {
		t.Error("Second poll without edits should report no change")
	}

	// Touch the file forward and poll again
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	if _, changed, err := w.Poll(); err != nil || !changed {
		t.Errorf("Poll after touch: changed=%v err=%v, want a change", changed, err)
	}
}

func TestControlWatcherPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "control.yaml")
	if err := os.WriteFile(path, []byte("station: EGLL\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w := NewControlWatcher(path)
	ctl, changed, err := w.Poll()
	if err != nil || !changed {
		t.Fatalf("Poll failed: changed=%v err=%v", changed, err)
	}
	if ctl.Station != "EGLL" {
		t.Errorf("Expected station 'EGLL', got '%s'", ctl.Station)
	}
	if ctl.UpdateInterval.Std() != 0 {
		t.Errorf("Expected zero interval for absent field, got %v", ctl.UpdateInterval.Std())
	}
	if ctl.AutoUpdate != nil {
		t.Error("Expected nil AutoUpdate for absent field")
	}
}

func TestControlWatcherBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "control.yaml")
	if err := os.WriteFile(path, []byte("station: [unterminated\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w := NewControlWatcher(path)
	if _, _, err := w.Poll(); err == nil {
		t.Error("Expected parse error for malformed control file")
	}
}
