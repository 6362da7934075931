package project

import (
	"bufio"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/prograde/internal/gridmap"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

const sampleJSONL = `{"kind":"table","name":"StratIoTbl","columns":[{"name":"SurfaceName","type":"string"},{"name":"DepoAge","type":"float"},{"name":"LayeringIndex","type":"int"}]}
{"kind":"row","table":"StratIoTbl","values":{"SurfaceName":"Top","DepoAge":0,"LayeringIndex":1}}
{"kind":"row","table":"StratIoTbl","values":{"SurfaceName":"Base","DepoAge":120.5}}

{"kind":"table","name":"SurfaceTempIoTbl","columns":[{"name":"Age","type":"float"},{"name":"TemperatureGrid","type":"string"}]}
{"kind":"row","table":"SurfaceTempIoTbl"}
{"kind":"grid","name":"Depth_0","numI":2,"numJ":1,"nodes":[10,99999]}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func cell(t *testing.T, p *Project, table string, index int, column string) types.Value {
	t.Helper()
	row, err := p.Store.Row(table, index)
	require.NoError(t, err)
	v, err := p.Store.Value(table, row, column)
	require.NoError(t, err)
	return v
}

func TestLoadJSONL(t *testing.T) {
	p, err := Load(writeFile(t, "basin.jsonl", sampleJSONL))
	require.NoError(t, err)

	assert.Equal(t, []string{"StratIoTbl", "SurfaceTempIoTbl"}, p.Store.Tables())
	assert.Equal(t, "Top", cell(t, p, "StratIoTbl", 0, "SurfaceName").AsString())
	assert.Equal(t, 120.5, cell(t, p, "StratIoTbl", 1, "DepoAge").AsFloat())
	assert.True(t, cell(t, p, "StratIoTbl", 1, "LayeringIndex").IsUndefined())
	assert.True(t, cell(t, p, "SurfaceTempIoTbl", 0, "Age").IsUndefined())

	id, err := p.Grids.FindID("Depth_0")
	require.NoError(t, err)
	g, err := p.Grids.Grid(id)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, gridmap.UndefinedValue}, g.Values)
}

func TestLoadJSONLErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "malformed line",
			content: "{\"kind\":\"table\",\"name\":\"A\",\"columns\":[]}\n{not json\n",
		},
		{
			name:    "unknown kind",
			content: `{"kind":"view","name":"A"}` + "\n",
		},
		{
			name:    "unknown column type",
			content: `{"kind":"table","name":"A","columns":[{"name":"x","type":"complex"}]}` + "\n",
		},
		{
			name: "undeclared column",
			content: `{"kind":"table","name":"A","columns":[{"name":"x","type":"float"}]}
{"kind":"row","table":"A","values":{"y":1}}
`,
		},
		{
			name: "value of the wrong type",
			content: `{"kind":"table","name":"A","columns":[{"name":"x","type":"int"}]}
{"kind":"row","table":"A","values":{"x":"one"}}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "basin.jsonl", tt.content))
			require.Error(t, err)
			assert.True(t, errors.ErrIO.Is(err), "got %v", err)
		})
	}
}

func TestLoadRowOfUnknownTable(t *testing.T) {
	_, err := Load(writeFile(t, "basin.jsonl", `{"kind":"row","table":"Nope","values":{}}`+"\n"))
	assert.True(t, errors.ErrNonexistingID.Is(err))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.True(t, errors.ErrIO.Is(err))
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"out.jsonl", "out.jsonl.gz", "out.db"} {
		t.Run(name, func(t *testing.T) {
			p, err := Load(writeFile(t, "basin.jsonl", sampleJSONL))
			require.NoError(t, err)

			out := filepath.Join(t.TempDir(), name)
			require.NoError(t, p.Save(out, types.SaveFormatAuto))

			got, err := Load(out)
			require.NoError(t, err)
			assert.Equal(t, p.Store.Tables(), got.Store.Tables())
			assert.Equal(t, "Base", cell(t, got, "StratIoTbl", 1, "SurfaceName").AsString())
			assert.Equal(t, int64(1), cell(t, got, "StratIoTbl", 0, "LayeringIndex").AsInt())
			assert.True(t, cell(t, got, "StratIoTbl", 1, "LayeringIndex").IsUndefined())
			n, err := got.Store.Size("SurfaceTempIoTbl")
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			assert.Equal(t, p.Grids.Names(), got.Grids.Names())
		})
	}
}

func TestSaveGzipIsCompressed(t *testing.T) {
	p, err := Load(writeFile(t, "basin.jsonl", sampleJSONL))
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "out.jsonl.gz")
	require.NoError(t, p.Save(out, types.SaveFormatJSONL))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	scanner := bufio.NewScanner(gz)
	require.True(t, scanner.Scan())
	assert.True(t, strings.HasPrefix(scanner.Text(), `{"kind":"table","name":"StratIoTbl"`))
}

func TestSaveOmitsUndefinedCells(t *testing.T) {
	p, err := Load(writeFile(t, "basin.jsonl", sampleJSONL))
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "out.jsonl")
	require.NoError(t, p.Save(out, types.SaveFormatAuto))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, `{"kind":"row","table":"StratIoTbl","values":{"DepoAge":120.5,"SurfaceName":"Base"}}`, lines[2])
	assert.Equal(t, `{"kind":"row","table":"SurfaceTempIoTbl"}`, lines[4])
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path, format, want string
	}{
		{"basin.jsonl", types.SaveFormatAuto, types.SaveFormatJSONL},
		{"basin.jsonl.gz", "", types.SaveFormatJSONL},
		{"basin.DB", types.SaveFormatAuto, types.SaveFormatSQLite},
		{"basin.sqlite3", types.SaveFormatAuto, types.SaveFormatSQLite},
		{"basin.db", types.SaveFormatJSONL, types.SaveFormatJSONL},
		{"basin.out", types.SaveFormatSQLite, types.SaveFormatSQLite},
	}
	for _, tt := range tests {
		got, err := FormatFor(tt.path, tt.format)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := FormatFor("basin.jsonl", "hdf5")
	assert.True(t, errors.ErrValidation.Is(err))
}
