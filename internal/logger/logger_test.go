package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit_WritesLogFile(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	Warn("sync failed", "source", "u1")

	if _, err := os.Stat(filepath.Dir(LogPath(configDir))); err != nil {
		t.Errorf("log directory was not created: %v", err)
	}
	if !strings.HasSuffix(LogPath(configDir), filepath.Join("logs", "freeweek.log")) {
		t.Errorf("unexpected log path %s", LogPath(configDir))
	}
}

func TestInit_Levels(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantInfo  bool
		wantWarn  bool
		wantError bool
	}{
		{"default is warn", Config{}, false, true, false},
		{"explicit info", Config{Level: "INFO"}, true, true, false},
		{"invalid level", Config{Level: "chatty"}, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.cfg.Output = &buf
			err := Init(tt.cfg)
			t.Cleanup(func() { Logger = nil })
			if (err != nil) != tt.wantError {
				t.Fatalf("Init() error = %v, wantError %v", err, tt.wantError)
			}
			if err != nil {
				return
			}
			Info("info line")
			Warn("warn line")
			if got := strings.Contains(buf.String(), "info line"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(buf.String(), "warn line"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestHelpersBeforeInit(t *testing.T) {
	Logger = nil
	Debug("no-op")
	Info("no-op")
	Warn("no-op")
	Error("no-op")
	Component("fetch").Info("discarded")
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Output: &buf, Level: "info"}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	Component("watch").Info("tick")
	if !strings.Contains(buf.String(), "component=watch") {
		t.Errorf("expected component field, got %q", buf.String())
	}
}
