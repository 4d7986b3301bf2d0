package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := &Config{
		Log:     LogConfig{Level: "info", Format: "text"},
		Autofit: AutofitConfig{ShrinkStep: 0.075, MinScale: 0.25},
		Fonts:   FontConfig{},
		Media:   MediaConfig{Hash: "sha512"},
	}
	if diff := cmp.Diff(want, cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `log:
  level: debug
  format: json
autofit:
  shrink_step: 0.1
  min_scale: 0.5
fonts:
  dirs: [/opt/fonts, /usr/local/share/fonts]
media:
  hash: blake2b
`
	if err := os.WriteFile(filepath.Join(dir, "slidedom.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := &Config{
		Log:     LogConfig{Level: "debug", Format: "json"},
		Autofit: AutofitConfig{ShrinkStep: 0.1, MinScale: 0.5},
		Fonts:   FontConfig{Dirs: []string{"/opt/fonts", "/usr/local/share/fonts"}},
		Media:   MediaConfig{Hash: "blake2b"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "slidedom.yaml"), []byte("log:\n  level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SLIDEDOM_LOG_LEVEL", "error")
	t.Setenv("SLIDEDOM_AUTOFIT_SHRINK_STEP", "0.05")
	t.Setenv("SLIDEDOM_MEDIA_HASH", "blake2b")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error from the environment", cfg.Log.Level)
	}
	if cfg.Autofit.ShrinkStep != 0.05 {
		t.Errorf("Autofit.ShrinkStep = %v, want 0.05", cfg.Autofit.ShrinkStep)
	}
	if cfg.Media.Hash != "blake2b" {
		t.Errorf("Media.Hash = %q, want blake2b", cfg.Media.Hash)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		env, value, wantErr string
	}{
		{"SLIDEDOM_LOG_LEVEL", "verbose", "log level"},
		{"SLIDEDOM_LOG_FORMAT", "xml", "log format"},
		{"SLIDEDOM_AUTOFIT_SHRINK_STEP", "1.5", "shrink step"},
		{"SLIDEDOM_AUTOFIT_MIN_SCALE", "0", "min scale"},
		{"SLIDEDOM_MEDIA_HASH", "md5", "media hash"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadBrokenFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "slidedom.yaml"), []byte("log: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Errorf("Load() of a broken file succeeded")
	}
}
