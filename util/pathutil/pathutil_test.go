package pathutil

import (
	"path/filepath"
	"testing"
)

func TestExpandTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := Expand("~/sounds/ding.wav")
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	want := filepath.Join(home, "sounds", "ding.wav")
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestExpandBareTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := Expand("~")
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if got != home {
		t.Errorf("Expected %q, got %q", home, got)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("CHIME_SOUND_DIR", "/opt/sounds")

	got, err := Expand("$CHIME_SOUND_DIR/ding.wav")
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if got != "/opt/sounds/ding.wav" {
		t.Errorf("Expected /opt/sounds/ding.wav, got %q", got)
	}
}

func TestExpandRelativeBecomesAbsolute(t *testing.T) {
	got, err := Expand("ding.wav")
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("Expected an absolute path, got %q", got)
	}
}

func TestExpandTildeInMiddleIsLiteral(t *testing.T) {
	got, err := Expand("/data/~backup/ding.wav")
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if got != "/data/~backup/ding.wav" {
		t.Errorf("Expected interior ~ kept literal, got %q", got)
	}
}
