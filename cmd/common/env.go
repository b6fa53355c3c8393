package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var ErrInvalidEnv = errors.New("invalid environment value")

// LoadEnv loads the given .env files (".env" when none) into the process
// environment. Missing files are skipped and variables already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// Env looks up variables, treating empty values as unset.
type Env func(key string) (string, bool)

// OSEnv reads the process environment.
var OSEnv Env = func(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	return v, ok && strings.TrimSpace(v) != ""
}

// MapEnv serves variables from a map, for tests and parsed files.
func MapEnv(m map[string]string) Env {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok && strings.TrimSpace(v) != ""
	}
}

func (e Env) String(key, def string) string {
	if v, ok := e(key); ok {
		return strings.TrimSpace(v)
	}
	return def
}

func (e Env) Bool(key string, def bool) (bool, error) {
	v, ok := e(key)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%s=%q: %w", key, v, ErrInvalidEnv)
	}
	return b, nil
}

func (e Env) Int(key string, def int) (int, error) {
	v, ok := e(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%s=%q: %w", key, v, ErrInvalidEnv)
	}
	return n, nil
}

func (e Env) Float(key string, def float64) (float64, error) {
	v, ok := e(key)
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def, fmt.Errorf("%s=%q: %w", key, v, ErrInvalidEnv)
	}
	return f, nil
}
