// Package appid holds the fixed identity of the finder binary: its name,
// config directory and environment prefix.
package appid

import "strings"

// Identity names the binary and where it looks for configuration.
type Identity struct {
	BinaryName  string
	ConfigName  string
	EnvPrefix   string
	Description string
}

var identity = Identity{
	BinaryName:  "finder",
	ConfigName:  "finder",
	EnvPrefix:   "FINDER_",
	Description: "日本企業の公式ドメインと本社郵便番号を検索する",
}

// Get returns the application identity.
func Get() Identity {
	return identity
}

// Prefix returns the environment prefix with a trailing underscore.
func (i Identity) Prefix() string {
	prefix := strings.TrimSpace(i.EnvPrefix)
	if prefix != "" && !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}
	return prefix
}
