package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

var prefixRules = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d+$`), Name}, // default output from dlv
	{regexp.MustCompile(`^\.+`), ""},
}

// Prefix returns the base name of the running executable, without extension
// or leading dots. It names the per-user configuration and cache
// directories, so a renamed binary keeps separate settings.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string {
	id := os.Args[0]
	if exe, err := os.Executable(); err == nil {
		id = exe
	}

	id = filepath.Base(id)
	id = strings.TrimSuffix(id, filepath.Ext(id))

	for _, r := range prefixRules {
		id = r.rex.ReplaceAllString(id, r.rep)
	}

	if id == "" {
		return Name
	}

	return id
})

// userDir returns dir() joined with the prefix. If dir fails, the
// fallback directory under the home directory is used, then the working
// directory.
func userDir(dir func() (string, error), fallback string) string {
	base, err := dir()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			base = filepath.Join(home, fallback)
		} else if wd, werr := os.Getwd(); werr == nil {
			base = wd
		} else {
			base = "."
		}
	}

	return filepath.Join(base, Prefix())
}

// ConfigDir returns the per-user configuration directory.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// CacheDir returns the per-user directory for transient files such as the
// REPL history.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// ConfigFile returns the path of the re0 file holding CLI defaults.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config"+Extension)
}

// HistoryFile returns the path of the REPL history file.
func HistoryFile() string {
	return filepath.Join(CacheDir(), "history")
}
