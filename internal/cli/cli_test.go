package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/prograde/internal/model"
	"github.com/mesh-intelligence/prograde/internal/model/modeltest"
	"github.com/mesh-intelligence/prograde/internal/project"
	"github.com/mesh-intelligence/prograde/internal/sqlite"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// isolate keeps the user's configuration out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PROGRADE_CONFIG_DIR", filepath.Join(dir, "config"))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// writeProject saves a small legacy project and returns its path.
func writeProject(t *testing.T, dir string, baseAge float64) string {
	t.Helper()
	f := modeltest.New(t)
	f.Add(types.StratIoTbl, modeltest.Row{
		model.ColSurfaceName: "Top-1",
		model.ColLayerName:   "Sand (upper)",
		model.ColDepoAge:     0.0,
	})
	f.Add(types.StratIoTbl, modeltest.Row{
		model.ColSurfaceName: "Base",
		model.ColDepoAge:     baseAge,
	})
	require.NoError(t, f.Store.CreateTable(types.TimeIoTbl, []types.Column{{Name: "Time", Kind: types.KindFloat}}))
	row, err := f.Store.AddRow(types.TimeIoTbl)
	require.NoError(t, err)
	require.NoError(t, f.Store.SetValue(types.TimeIoTbl, row, "Time", types.Float(10)))

	path := filepath.Join(dir, "basin.jsonl")
	p := &project.Project{Store: f.Store, Grids: f.Grids}
	require.NoError(t, p.Save(path, types.SaveFormatJSONL))
	return path
}

func surfaceNames(t *testing.T, p *project.Project) []string {
	t.Helper()
	rows, err := p.Store.Rows(types.StratIoTbl)
	require.NoError(t, err)
	var names []string
	for _, r := range rows {
		v, err := p.Store.Value(types.StratIoTbl, r, model.ColSurfaceName)
		require.NoError(t, err)
		names = append(names, v.AsString())
	}
	return names
}

func TestUpgradeWritesDefaultOutput(t *testing.T) {
	dir := isolate(t)
	in := writeProject(t, dir, 100)

	out, err := execute(t, in, "--verbosity", "quiet")
	require.NoError(t, err)
	want := filepath.Join(dir, "prograde_out_basin.jsonl")
	assert.Contains(t, out, want)

	p, err := project.Load(want)
	require.NoError(t, err)
	assert.Equal(t, []string{"Top1", "Base"}, surfaceNames(t, p))

	orig, err := project.Load(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Top-1", "Base"}, surfaceNames(t, orig), "input left untouched")
}

func TestUpgradeProjectFlagAndSQLiteOutput(t *testing.T) {
	dir := isolate(t)
	in := writeProject(t, dir, 100)
	save := filepath.Join(dir, "upgraded.db")

	_, err := execute(t, "--project", in, "--save", save, "--verbosity", "quiet")
	require.NoError(t, err)

	p, err := project.Load(save)
	require.NoError(t, err)
	assert.Equal(t, []string{"Top1", "Base"}, surfaceNames(t, p))
}

func TestUpgradeClean(t *testing.T) {
	dir := isolate(t)
	in := writeProject(t, dir, 100)
	save := filepath.Join(dir, "out.jsonl")

	_, err := execute(t, in, "--save", save, "--clean="+types.TimeIoTbl+",NoSuchIoTbl", "--verbosity", "quiet")
	require.NoError(t, err)
	p, err := project.Load(save)
	require.NoError(t, err)
	n, err := p.Store.Size(types.TimeIoTbl)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = execute(t, in, "--save", save, "--verbosity", "quiet")
	require.NoError(t, err)
	p, err = project.Load(save)
	require.NoError(t, err)
	n, err = p.Store.Size(types.TimeIoTbl)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "tables are kept without --clean")
}

func TestUpgradeFailureSavesNothing(t *testing.T) {
	dir := isolate(t)
	in := writeProject(t, dir, 1200)

	_, err := execute(t, in, "--verbosity", "quiet")
	require.Error(t, err)
	assert.Equal(t, 21, errors.ExitCode(err))
	assert.NoFileExists(t, filepath.Join(dir, "prograde_out_basin.jsonl"))
}

func TestUpgradeArgumentErrors(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, "--verbosity", "quiet")
	assert.True(t, errors.ErrInvalidArgument.Is(err))

	_, err = execute(t, filepath.Join(dir, "missing.jsonl"), "--verbosity", "quiet")
	require.Error(t, err)
	assert.Equal(t, -1, errors.ExitCode(err))

	_, err = execute(t, "a.jsonl", "--verbosity", "loud")
	assert.True(t, errors.ErrValidation.Is(err))
}

func TestConfigFile(t *testing.T) {
	dir := isolate(t)
	in := writeProject(t, dir, 100)

	t.Run("explicit file must exist", func(t *testing.T) {
		_, err := execute(t, in, "--config", filepath.Join(dir, "absent.yaml"))
		assert.True(t, errors.ErrIO.Is(err))
	})

	t.Run("values are validated", func(t *testing.T) {
		cfg := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("save_format: hdf5\n"), 0o644))
		_, err := execute(t, in, "--config", cfg)
		assert.True(t, errors.ErrValidation.Is(err))
	})

	t.Run("save format from file", func(t *testing.T) {
		cfg := filepath.Join(dir, "sqlite.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("save_format: sqlite\nverbosity: quiet\n"), 0o644))
		save := filepath.Join(dir, "out.bin")
		_, err := execute(t, in, "--config", cfg, "--save", save)
		require.NoError(t, err)
		_, _, err = sqlite.Load(save)
		require.NoError(t, err)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		cfg := filepath.Join(dir, "jsonl.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("save_format: sqlite\n"), 0o644))
		t.Setenv("PROGRADE_SAVE_FORMAT", "jsonl")
		t.Setenv("PROGRADE_VERBOSITY", "quiet")
		save := filepath.Join(dir, "out.txt")
		_, err := execute(t, in, "--config", cfg, "--save", save)
		require.NoError(t, err)
		_, err = project.Load(save)
		require.NoError(t, err)
	})
}

func TestConfigCommand(t *testing.T) {
	dir := isolate(t)
	target := filepath.Join(dir, "etc")

	out, err := execute(t, "config", "--dir", target)
	require.NoError(t, err)
	path := filepath.Join(target, "prograde.yaml")
	assert.Contains(t, out, "wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cfg types.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, types.DefaultConfig().Verbosity, cfg.Verbosity)
	assert.Equal(t, types.DefaultCutoffDate, cfg.LithologyCutoffDate)

	out, err = execute(t, "config", "--dir", target)
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "prograde v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestCleanTables(t *testing.T) {
	configured := []string{"TimeIoTbl"}
	assert.Equal(t, configured, cleanTables(cleanDefault, configured))
	assert.Nil(t, cleanTables(cleanDefault, nil))
	assert.Equal(t, []string{"A", "B"}, cleanTables(" A, ,B ", configured))
}
