package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnvLookups(t *testing.T) {
	env := MapEnv(map[string]string{
		"NAME":  " midnight ",
		"FLAG":  "true",
		"COUNT": "26",
		"LEVEL": "0.75",
		"EMPTY": "  ",
		"BAD":   "lots",
	})

	if got := env.String("NAME", "x"); got != "midnight" {
		t.Errorf("String = %q", got)
	}
	if got := env.String("EMPTY", "fallback"); got != "fallback" {
		t.Errorf("empty value not treated as unset: %q", got)
	}
	if got, err := env.Bool("FLAG", false); err != nil || !got {
		t.Errorf("Bool = %v, %v", got, err)
	}
	if got, err := env.Int("COUNT", 0); err != nil || got != 26 {
		t.Errorf("Int = %v, %v", got, err)
	}
	if got, err := env.Float("LEVEL", 0); err != nil || got != 0.75 {
		t.Errorf("Float = %v, %v", got, err)
	}
	if got, err := env.Int("MISSING", 7); err != nil || got != 7 {
		t.Errorf("missing Int = %v, %v", got, err)
	}
}

func TestEnvInvalidValues(t *testing.T) {
	env := MapEnv(map[string]string{"BAD": "lots"})

	tests := []struct {
		name string
		call func() error
	}{
		{"bool", func() error { _, err := env.Bool("BAD", false); return err }},
		{"int", func() error { _, err := env.Int("BAD", 0); return err }},
		{"float", func() error { _, err := env.Float("BAD", 0); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrInvalidEnv) {
				t.Errorf("err = %v, want ErrInvalidEnv", err)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	if err := os.WriteFile(file, []byte("MIDNIGHT_TEST_A=from-file\nMIDNIGHT_TEST_B=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MIDNIGHT_TEST_B", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("MIDNIGHT_TEST_A") })

	if err := LoadEnv(file, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if v, _ := OSEnv("MIDNIGHT_TEST_A"); v != "from-file" {
		t.Errorf("A = %q", v)
	}
	if v, _ := OSEnv("MIDNIGHT_TEST_B"); v != "from-env" {
		t.Errorf("existing variable overwritten: %q", v)
	}
}

func TestLoadEnvNoFiles(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := LoadEnv(); err != nil {
		t.Errorf("LoadEnv without .env = %v", err)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	t.Setenv("MIDNIGHT_CACHE_DIR", "")
	if got := CacheDir(); got != filepath.Join("/tmp/xdg", "midnight") {
		t.Errorf("CacheDir = %q", got)
	}
}

func TestCacheDirOverride(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	t.Setenv("MIDNIGHT_CACHE_DIR", "/tmp/elsewhere")
	if got := CacheDir(); got != "/tmp/elsewhere" {
		t.Errorf("CacheDir = %q", got)
	}
	if got := LogFile("play"); got != filepath.Join("/tmp/elsewhere", "play.log") {
		t.Errorf("LogFile = %q", got)
	}
}

func TestEnvKey(t *testing.T) {
	if got := EnvKey("VOLUME"); got != "MIDNIGHT_VOLUME" {
		t.Errorf("EnvKey = %q", got)
	}
}
