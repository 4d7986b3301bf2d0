package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/VantageDataChat/slidedom"
	"github.com/VantageDataChat/slidedom/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(args, "--config", t.TempDir()))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeDeck(t *testing.T) string {
	t.Helper()
	d := slidedom.New()
	s, _ := d.GetSlide(0)
	box, err := s.GetShapes().AddTextBox(10, 10, 200, 80, "draft")
	if err != nil {
		t.Fatalf("AddTextBox() error = %v", err)
	}
	box.SetName("Box")
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := d.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return path
}

func TestSetTextAndInspect(t *testing.T) {
	path := writeDeck(t)
	edited := filepath.Join(t.TempDir(), "edited.pptx")
	if _, err := run(t, "set-text", path, "--shape", "Box", "--slide", "1",
		"--text", "**Done**\nnext", "--markdown", "-o", edited); err != nil {
		t.Fatalf("set-text error = %v", err)
	}

	d, err := slidedom.Open(edited)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s, _ := d.GetSlide(0)
	box, _ := s.GetShapes().GetByName("Box")
	tb, _ := box.GetTextBox()
	if tb.GetText() != "Done\nnext" {
		t.Errorf("GetText() = %q, want Done\\nnext", tb.GetText())
	}

	out, err := run(t, "inspect", edited, "--metrics")
	if err != nil {
		t.Fatalf("inspect error = %v", err)
	}
	for _, want := range []string{"1 slides", `"Box"`, "Done", "next"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestSetFill(t *testing.T) {
	path := writeDeck(t)
	if _, err := run(t, "set-fill", path, "--shape", "2", "--slide", "1", "--color", "00FF00", "--scheme", "", "-o", ""); err != nil {
		t.Fatalf("set-fill error = %v", err)
	}
	d, err := slidedom.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s, _ := d.GetSlide(0)
	box, _ := s.GetShapes().GetByID(2)
	f, _ := box.GetFill()
	if c, _ := f.GetColor(); c != "00FF00" {
		t.Errorf("GetColor() = %q, want 00FF00", c)
	}

	if _, err := run(t, "set-fill", path, "--shape", "Nope", "--slide", "1", "--color", "00FF00", "--scheme", "", "-o", ""); err == nil {
		t.Errorf("set-fill on a missing shape succeeded")
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if strings.TrimSpace(out) != slidedom.Version {
		t.Errorf("version output = %q, want %q", out, slidedom.Version)
	}
}

func TestFindShape(t *testing.T) {
	d := slidedom.New()
	s, _ := d.GetSlide(0)
	sh, err := s.GetShapes().AddShape(0, 0, 10, 10)
	if err != nil {
		t.Fatalf("AddShape() error = %v", err)
	}
	sh.SetName("42")

	got, err := findShape(s.GetShapes(), "2")
	if err != nil {
		t.Fatalf("findShape(id) error = %v", err)
	}
	if id, _ := got.GetID(); id != 2 {
		t.Errorf("findShape(2) id = %d", id)
	}
	// numeric references are ids, never names
	if _, err := findShape(s.GetShapes(), "42"); err == nil {
		t.Errorf("findShape(42) matched by name")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, config.LogConfig{Level: "warn", Format: "json"}).Info("hidden")
	newLogger(&buf, config.LogConfig{Level: "warn", Format: "json"}).Warn("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("log output = %q", out)
	}
}
