package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Message != "OS Rullz!" {
		t.Fatalf("Message = %q, want %q", cfg.Message, "OS Rullz!")
	}
	if cfg.Delay != 5*time.Second {
		t.Fatalf("Delay = %s, want 5s", cfg.Delay)
	}
	if cfg.Format != "text" {
		t.Fatalf("Format = %q, want text", cfg.Format)
	}
}

func TestParseDelay(t *testing.T) {
	tests := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{"5s", 5 * time.Second, false},
		{"250ms", 250 * time.Millisecond, false},
		{" 5 ", 5 * time.Second, false},
		{"0.5", 500 * time.Millisecond, false},
		{"0", 0, false},
		{"", 0, true},
		{"soon", 0, true},
		{"-1s", 0, true},
		{"2h", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDelay(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDelay(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("ParseDelay(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNewViperReadsEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CREATETHREAD_MESSAGE", "from env")
	t.Setenv("CREATETHREAD_DELAY", "1s")

	v, err := NewViper("")
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}
	if got := v.GetString("message"); got != "from env" {
		t.Fatalf("message = %q, want %q", got, "from env")
	}
	if got := v.GetString("delay"); got != "1s" {
		t.Fatalf("delay = %q, want %q", got, "1s")
	}
}

func TestNewViperReadsHomeConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".create-thread")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("message: from file\nformat: json\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	v, err := NewViper("")
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}
	if got := v.GetString("message"); got != "from file" {
		t.Fatalf("message = %q, want %q", got, "from file")
	}
	if got := v.GetString("format"); got != "json" {
		t.Fatalf("format = %q, want json", got)
	}
}

func TestNewViperMissingHomeConfigIsFine(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	v, err := NewViper("")
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}
	if v.IsSet("message") {
		t.Fatalf("message should be unset without config")
	}
}

func TestNewViperExplicitFileMustExist(t *testing.T) {
	if _, err := NewViper(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("NewViper() expected error for missing explicit config file")
	}
}
