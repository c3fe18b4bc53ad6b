package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procmon/process"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "procmon.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Interval)
	assert.Equal(t, process.ColumnName, cfg.Sort)
	assert.Equal(t, process.Ascending, cfg.Order)
	assert.Equal(t, "", cfg.Search)
	assert.Equal(t, SourceProcfs, cfg.Source)
	assert.Equal(t, "/proc", cfg.ProcRoot)
	assert.Equal(t, "/etc/passwd", cfg.Passwd)
	assert.True(t, cfg.Color)
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, `
interval = "500ms"
sort = "cpu"
order = "desc"
search = "@user root"
source = "psutil"
color = false
`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	assert.Equal(t, process.ColumnCPU, cfg.Sort)
	assert.Equal(t, process.Descending, cfg.Order)
	assert.Equal(t, "@user root", cfg.Search)
	assert.Equal(t, SourcePsutil, cfg.Source)
	assert.Equal(t, "/proc", cfg.ProcRoot, "unset keys keep their default")
	assert.False(t, cfg.Color)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, `sort = "cpu"`)
	t.Setenv("PROCMON_SORT", "pid")
	t.Setenv("PROCMON_PROC_ROOT", "/host/proc")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, process.ColumnID, cfg.Sort)
	assert.Equal(t, "/host/proc", cfg.ProcRoot)
}

func TestExplicitValueOverridesEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("PROCMON_ORDER", "desc")

	v := viper.New()
	v.Set(KeyOrder, "asc")

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, process.Ascending, cfg.Order)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"sort", `sort = "size"`},
		{"order", `order = "sideways"`},
		{"source", `source = "wmi"`},
		{"interval", `interval = "soon"`},
		{"negative interval", `interval = "-1s"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)

			_, err := Load(viper.New(), writeFile(t, tt.contents))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestWriteDefault(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDefault(&buf))

	var decoded map[string]any
	require.NoError(t, toml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "3s", decoded[KeyInterval])
	assert.Equal(t, "Name", decoded[KeySort])
	assert.Equal(t, SourceProcfs, decoded[KeySource])
	assert.Equal(t, true, decoded[KeyColor])

	// the written file loads back to the defaults
	isolate(t)
	cfg, err := Load(viper.New(), writeFile(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Interval)
	assert.Equal(t, process.ColumnName, cfg.Sort)
}
