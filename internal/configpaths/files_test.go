package configpaths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG lookup is not used on Windows")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "gkospad"), dir)

	p, err := DefaultNamedConfigPath("run", "yml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "gkospad", "run.yaml"), p)
}

func TestConfigCandidatePaths_UserPathFirst(t *testing.T) {
	cases := []struct {
		path  string
		check func(j, y, tm []string) string
	}{
		{"my.json", func(j, _, _ []string) string { return j[0] }},
		{"my.yml", func(_, y, _ []string) string { return y[0] }},
		{"my.toml", func(_, _, tm []string) string { return tm[0] }},
		{"my.conf", func(j, _, _ []string) string { return j[0] }},
	}
	for _, tc := range cases {
		j, y, tm := ConfigCandidatePaths(tc.path)
		assert.Equal(t, tc.path, tc.check(j, y, tm))
	}
}

func TestFindProfile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("AppData", filepath.Join(dir, "xdg"))
	t.Chdir(dir)

	assert.Equal(t, "", FindProfile())

	cfgDir, err := DefaultConfigDir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	want := filepath.Join(cfgDir, "profile.toml")
	require.NoError(t, os.WriteFile(want, []byte(""), 0o644))
	assert.Equal(t, want, FindProfile())

	local := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(local, []byte(""), 0o644))
	assert.Equal(t, local, FindProfile())
}
