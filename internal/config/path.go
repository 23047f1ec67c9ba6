package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ExpandPath expands a leading ~ and $VAR references in path.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}

// ResolvePath expands path and, when it is still relative, joins it onto base.
// An empty base leaves relative paths relative to the working directory.
func ResolvePath(base, path string) string {
	path = ExpandPath(path)
	if path == "" || base == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// resolveKey resolves the path under key against the config file's directory when the file
// sets key. Defaults stay relative to the working directory.
func resolveKey(v *viper.Viper, key, path string) string {
	base := ""
	if file := v.ConfigFileUsed(); file != "" && v.InConfig(key) {
		base = filepath.Dir(file)
	}
	return ResolvePath(base, path)
}
