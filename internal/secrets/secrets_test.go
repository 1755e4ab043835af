// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Store
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "browser-ws-url", "  wss://browser.example.com/devtools?token=abc  \n")
				return dir
			},
			want: Store{"browser-ws-url": "wss://browser.example.com/devtools?token=abc"},
		},
		{
			name: "missing directory is empty",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Store{},
		},
		{
			name: "skips empty files, dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "browser-ws-url", "ws://127.0.0.1:9222")
				writeFile(t, dir, "blank", "  \n\t")
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden", "secret")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
				return dir
			},
			want: Store{"browser-ws-url": "ws://127.0.0.1:9222"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), &bytes.Buffer{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good", "value")
	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(bad, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(bad, 0o644) })

	var warn bytes.Buffer
	got, err := Load(dir, &warn)
	require.NoError(t, err)
	assert.Equal(t, Store{"good": "value"}, got)
	assert.Contains(t, warn.String(), "could not read secret bad")
}

func TestLookup(t *testing.T) {
	s := Store{"browser-ws-url": "ws://stored"}

	assert.Equal(t, "ws://flag", s.Lookup("browser-ws-url", "ws://flag"))
	assert.Equal(t, "ws://stored", s.Lookup("browser-ws-url", ""))
	assert.Empty(t, s.Lookup("missing", ""))
	assert.Empty(t, Store(nil).Lookup("browser-ws-url", ""))
}

func TestKeysSorted(t *testing.T) {
	s := Store{"b": "2", "a": "1", "c": "3"}
	assert.Equal(t, []string{"a", "b", "c"}, s.Keys())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
