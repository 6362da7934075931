package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubPlatform(t *testing.T) string {
	t.Helper()
	saved := platformDir
	t.Cleanup(func() { platformDir = saved })
	platformDir.homeDir = func() (string, error) { return "/home/geo", nil }
	platformDir.userConfigDir = func() (string, error) { return "/cfg", nil }
	t.Setenv("XDG_CONFIG_HOME", "")
	if runtime.GOOS == "linux" {
		return filepath.Join("/home/geo", ".config", "prograde")
	}
	return filepath.Join("/cfg", "prograde")
}

func TestDefaultConfigDir(t *testing.T) {
	want := stubPlatform(t)
	got, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	platformDir.homeDir = func() (string, error) { return "", os.ErrNotExist }
	platformDir.userConfigDir = platformDir.homeDir
	_, err = DefaultConfigDir()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveConfigFile(t *testing.T) {
	def := stubPlatform(t)
	wd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name string
		flag string
		env  string
		want string
	}{
		{"flag wins over env", "/etc/prograde/custom.yaml", "/env/config", "/etc/prograde/custom.yaml"},
		{"relative flag", "custom.yaml", "", filepath.Join(wd, "custom.yaml")},
		{"env directory", "", "/env/config", filepath.Join("/env/config", ConfigFileName)},
		{"relative env directory", "", "conf", filepath.Join(wd, "conf", ConfigFileName)},
		{"platform default", "", "", filepath.Join(def, ConfigFileName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.env)
			got, err := ResolveConfigFile(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"basin.jsonl", "prograde_out_basin.jsonl"},
		{"projects/north/basin.db", filepath.Join("projects", "north", "prograde_out_basin.db")},
		{"/data/basin.jsonl.gz", "/data/prograde_out_basin.jsonl.gz"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultOutputPath(tt.in), tt.in)
	}
}
