package appid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	id := Get()
	require.Equal(t, "finder", id.BinaryName)
	require.Equal(t, "finder", id.ConfigName)
	require.Equal(t, "FINDER_", id.Prefix())
	require.NotEmpty(t, id.Description)
}

func TestPrefixAddsUnderscore(t *testing.T) {
	require.Equal(t, "APP_", Identity{EnvPrefix: "APP"}.Prefix())
	require.Equal(t, "", Identity{}.Prefix())
}
