package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")
	if err := os.WriteFile(path, []byte("previous run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	log, closer, err := New("warn", path)
	if err != nil {
		t.Fatal(err)
	}
	log.Info().Msg("hidden")
	log.Warn().Str("game", "7").Msg("feature failed")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.HasPrefix(out, "previous run\n") {
		t.Fatalf("log file was truncated: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, `"game":"7"`) || !strings.Contains(out, "feature failed") {
		t.Fatalf("missing warn line: %q", out)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, _, err := New("loud", ""); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
