package common

import (
	"os"
	"path/filepath"
)

// CacheDir is where midnight keeps logs. MIDNIGHT_CACHE_DIR overrides the
// XDG location.
func CacheDir() string {
	if dir, ok := OSEnv(EnvKey("CACHE_DIR")); ok {
		return dir
	}
	return filepath.Join(cacheHome(), AppName)
}

// LogFile is the default log path for a sub command.
func LogFile(cmd string) string {
	return filepath.Join(CacheDir(), cmd+".log")
}

// https://specifications.freedesktop.org/basedir/latest/#variables
func cacheHome() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".cache")
	}
	return dir
}
