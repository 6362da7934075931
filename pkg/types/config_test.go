package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/mesh-intelligence/prograde/pkg/errors"
)

func TestConfigValidate(t *testing.T) {
	withVerbosity := DefaultConfig()
	withVerbosity.Verbosity = "loud"
	withFormat := DefaultConfig()
	withFormat.LogFormat = "xml"
	withSave := DefaultConfig()
	withSave.SaveFormat = "hdf5"
	withDate := DefaultConfig()
	withDate.LithologyCutoffDate = "01/12/2018"

	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{name: "defaults are valid", config: DefaultConfig()},
		{name: "unknown verbosity", config: withVerbosity, wantErr: ErrVerbosityUnknown},
		{name: "unknown log format", config: withFormat, wantErr: ErrLogFormatUnknown},
		{name: "unknown save format", config: withSave, wantErr: ErrSaveFormatUnknown},
		{name: "malformed cutoff date", config: withDate, wantErr: ErrCutoffDateInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.True(t, perrors.ErrValidation.Is(err))
		})
	}
}

func TestConfigCutoffDate(t *testing.T) {
	d, err := DefaultConfig().CutoffDate()
	require.NoError(t, err)
	assert.Equal(t, 2018, d.Year())
	assert.Equal(t, 12, int(d.Month()))
}
