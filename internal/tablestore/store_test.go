package tablestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

var crustColumns = []types.Column{
	{Name: "Age", Kind: types.KindFloat},
	{Name: "Thickness", Kind: types.KindFloat},
	{Name: "ThicknessGrid", Kind: types.KindString},
}

func newCrustStore(t *testing.T, ages ...float64) (*Store, []types.RowID) {
	t.Helper()
	s := New()
	require.NoError(t, s.CreateTable("CrustIoTbl", crustColumns))
	ids := make([]types.RowID, 0, len(ages))
	for _, a := range ages {
		id, err := s.AddRow("CrustIoTbl")
		require.NoError(t, err)
		require.NoError(t, s.SetValue("CrustIoTbl", id, "Age", types.Float(a)))
		ids = append(ids, id)
	}
	return s, ids
}

func ages(t *testing.T, s *Store) []float64 {
	t.Helper()
	rows, err := s.Rows("CrustIoTbl")
	require.NoError(t, err)
	out := make([]float64, 0, len(rows))
	for _, id := range rows {
		v, err := s.Value("CrustIoTbl", id, "Age")
		require.NoError(t, err)
		out = append(out, v.AsFloat())
	}
	return out
}

func TestAddRowStartsUndefined(t *testing.T) {
	s, _ := newCrustStore(t)
	id, err := s.AddRow("CrustIoTbl")
	require.NoError(t, err)

	for _, c := range crustColumns {
		v, err := s.Value("CrustIoTbl", id, c.Name)
		require.NoError(t, err)
		assert.True(t, v.IsUndefined(), c.Name)
		assert.Equal(t, c.Kind, v.Kind())
	}
}

func TestRemoveRowKeepsOrderAndIDs(t *testing.T) {
	s, ids := newCrustStore(t, 0, 10, 20, 30)

	require.NoError(t, s.RemoveRow("CrustIoTbl", ids[1]))
	assert.Equal(t, []float64{0, 20, 30}, ages(t, s))

	v, err := s.Value("CrustIoTbl", ids[3], "Age")
	require.NoError(t, err)
	assert.Equal(t, 30.0, v.AsFloat())

	_, err = s.Value("CrustIoTbl", ids[1], "Age")
	assert.True(t, errors.ErrNonexistingID.Is(err))
	assert.True(t, errors.ErrNonexistingID.Is(s.RemoveRow("CrustIoTbl", ids[1])))
}

func TestStaleIDAfterSlotReuse(t *testing.T) {
	s, ids := newCrustStore(t, 0, 10)
	require.NoError(t, s.RemoveRow("CrustIoTbl", ids[0]))

	reused, err := s.AddRow("CrustIoTbl")
	require.NoError(t, err)
	assert.Equal(t, ids[0].Slot, reused.Slot)
	assert.NotEqual(t, ids[0].Gen, reused.Gen)

	_, err = s.Value("CrustIoTbl", ids[0], "Age")
	assert.True(t, errors.ErrNonexistingID.Is(err))

	// the reused slot is appended at the end
	require.NoError(t, s.SetValue("CrustIoTbl", reused, "Age", types.Float(5)))
	assert.Equal(t, []float64{10, 5}, ages(t, s))
}

func TestRemoveDuringSnapshotIteration(t *testing.T) {
	s, _ := newCrustStore(t, 0, 10, 20, 30, 40)
	rows, err := s.Rows("CrustIoTbl")
	require.NoError(t, err)
	for _, id := range rows {
		v, err := s.Value("CrustIoTbl", id, "Age")
		require.NoError(t, err)
		if v.AsFloat() >= 20 {
			require.NoError(t, s.RemoveRow("CrustIoTbl", id))
		}
	}
	assert.Equal(t, []float64{0, 10}, ages(t, s))
}

func TestClearTable(t *testing.T) {
	s, ids := newCrustStore(t, 0, 10)
	require.NoError(t, s.ClearTable("CrustIoTbl"))

	n, err := s.Size("CrustIoTbl")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, s.HasTable("CrustIoTbl"))
	_, err = s.Value("CrustIoTbl", ids[0], "Age")
	assert.True(t, errors.ErrNonexistingID.Is(err))
}

func TestUnknownNames(t *testing.T) {
	s, ids := newCrustStore(t, 0)

	tests := []struct {
		name string
		call func() error
	}{
		{"size of unknown table", func() error { _, err := s.Size("NopeIoTbl"); return err }},
		{"rows of unknown table", func() error { _, err := s.Rows("NopeIoTbl"); return err }},
		{"add row to unknown table", func() error { _, err := s.AddRow("NopeIoTbl"); return err }},
		{"clear unknown table", func() error { return s.ClearTable("NopeIoTbl") }},
		{"unknown column", func() error { _, err := s.Value("CrustIoTbl", ids[0], "Depth"); return err }},
		{"row index out of range", func() error { _, err := s.Row("CrustIoTbl", 3); return err }},
		{"foreign row id", func() error { _, err := s.Value("CrustIoTbl", types.RowID{Slot: 9}, "Age"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.ErrNonexistingID.Is(tt.call()))
		})
	}
}

func TestSetValueConversion(t *testing.T) {
	s, ids := newCrustStore(t, 0)

	require.NoError(t, s.SetValue("CrustIoTbl", ids[0], "Thickness", types.Int(35000)))
	v, err := s.Value("CrustIoTbl", ids[0], "Thickness")
	require.NoError(t, err)
	assert.Equal(t, types.Float(35000), v)

	err = s.SetValue("CrustIoTbl", ids[0], "Thickness", types.String("thick"))
	assert.True(t, errors.ErrValidation.Is(err))
}

func TestCreateTableExtendsColumns(t *testing.T) {
	s, ids := newCrustStore(t, 0)
	require.NoError(t, s.CreateTable("CrustIoTbl", []types.Column{{Name: "Note", Kind: types.KindString}}))

	v, err := s.Value("CrustIoTbl", ids[0], "Note")
	require.NoError(t, err)
	assert.True(t, v.IsUndefined())

	err = s.CreateTable("CrustIoTbl", []types.Column{{Name: "Age", Kind: types.KindString}})
	assert.True(t, errors.ErrValidation.Is(err))

	assert.Equal(t, []string{"CrustIoTbl"}, s.Tables())
}
