package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/sortviz/internal/session"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Algorithm != "bubble" {
		t.Errorf("expected algorithm bubble, got %s", cfg.Algorithm)
	}
	if cfg.Speed() != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", cfg.Speed())
	}
	if !cfg.Narration.Await {
		t.Error("narration should be awaited by default")
	}
	if cfg.Narration.Enabled {
		t.Error("narration should start disabled")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sortviz.yaml")

	cfg := DefaultConfig()
	cfg.Algorithm = "merge"
	cfg.Input = "4,2,1,3"
	cfg.SpeedMs = 120
	cfg.Narration.Enabled = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Algorithm != "merge" || loaded.SpeedMs != 120 || !loaded.Narration.Enabled {
		t.Errorf("unexpected config %+v", loaded)
	}
	values, err := loaded.Values()
	if err != nil || len(values) != 4 {
		t.Errorf("unexpected values %v (%v)", values, err)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	cfg := DefaultConfig()
	cfg.Input = "1,,2"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, session.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		speedMs int
		wantErr bool
	}{
		{-1, true},
		{0, true},
		{1, false},
		{DefaultSpeedMs, false},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.SpeedMs = tt.speedMs
		if err := cfg.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("speed_ms %d: err = %v, wantErr %v", tt.speedMs, err, tt.wantErr)
		}
	}
}

func TestParseArray(t *testing.T) {
	tests := []struct {
		in      string
		want    []float64
		wantErr bool
	}{
		{"5,3,8,1", []float64{5, 3, 8, 1}, false},
		{" 5 , 3 ,8 ", []float64{5, 3, 8}, false},
		{"1", []float64{1}, false},
		{"-2.5,0", []float64{-2.5, 0}, false},
		{"", nil, true},
		{"   ", nil, true},
		{"1,,2", nil, true},
		{"1,a", nil, true},
		{"NaN", nil, true},
		{"1,Inf", nil, true},
	}

	for _, tt := range tests {
		got, err := ParseArray(tt.in)
		if tt.wantErr {
			if !errors.Is(err, session.ErrInvalidInput) {
				t.Errorf("%q: expected ErrInvalidInput, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.in, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
			}
		}
	}
}

func TestFormatArray(t *testing.T) {
	if got := FormatArray([]float64{1, 3, 5.5}); got != "1,3,5.5" {
		t.Errorf("unexpected %s", got)
	}
}

func TestPresets(t *testing.T) {
	in, ok := GetPreset("textbook")
	if !ok || in != "5,3,8,1" {
		t.Errorf("unexpected textbook preset %q", in)
	}
	if _, ok := GetPreset("nonexistent"); ok {
		t.Error("expected missing preset")
	}
	for _, name := range ListPresets() {
		in, _ := GetPreset(name)
		if _, err := ParseArray(in); err != nil {
			t.Errorf("preset %s does not parse: %v", name, err)
		}
	}
}
