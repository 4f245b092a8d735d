package channels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadInputs(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		path := writeFile(t, "channels.json", `["@a", " https://www.youtube.com/@b ", "@a", ""]`)
		got, err := LoadInputs(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"@a", "@b"}, got)
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, "channels.yaml", "- \"@a\"\n- "+testChannelID+"\n- LegacyName\n")
		got, err := LoadInputs(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"@a", testChannelID, "LegacyName"}, got)
	})

	t.Run("malformed", func(t *testing.T) {
		path := writeFile(t, "channels.json", `{"not":"a list"}`)
		_, err := LoadInputs(path)
		assert.Error(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadInputs(filepath.Join(t.TempDir(), "none.json"))
		assert.Error(t, err)
	})
}
