package types

import (
	"time"

	"github.com/mesh-intelligence/prograde/pkg/errors"
)

// Config holds the run settings read from flags, the environment and the
// optional prograde.yaml file.
type Config struct {
	Verbosity           string   `json:"verbosity" yaml:"verbosity" mapstructure:"verbosity"`
	LogFormat           string   `json:"log_format" yaml:"log_format" mapstructure:"log_format"`
	SaveFormat          string   `json:"save_format" yaml:"save_format" mapstructure:"save_format"`
	CleanTables         []string `json:"clean_tables" yaml:"clean_tables" mapstructure:"clean_tables"`
	LithologyCutoffDate string   `json:"lithology_cutoff_date" yaml:"lithology_cutoff_date" mapstructure:"lithology_cutoff_date"`
}

// Verbosity levels accepted on the command line.
const (
	VerbosityQuiet      = "quiet"
	VerbosityMinimal    = "minimal"
	VerbosityNormal     = "normal"
	VerbosityDetailed   = "detailed"
	VerbosityDiagnostic = "diagnostic"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Save formats. SaveFormatAuto picks the format from the output extension.
const (
	SaveFormatAuto   = "auto"
	SaveFormatJSONL  = "jsonl"
	SaveFormatSQLite = "sqlite"
)

// CutoffDateLayout is the layout of LithologyCutoffDate and of the
// DefinitionDate column of LithotypeIoTbl.
const CutoffDateLayout = "2006-01-02"

// DefaultCutoffDate separates user lithologies that may be converted without
// a known parent from those that must have one.
const DefaultCutoffDate = "2018-12-01"

// Config validation errors.
var (
	ErrVerbosityUnknown  = errors.Wrap(errors.ErrValidation, "unknown verbosity")
	ErrLogFormatUnknown  = errors.Wrap(errors.ErrValidation, "unknown log format")
	ErrSaveFormatUnknown = errors.Wrap(errors.ErrValidation, "unknown save format")
	ErrCutoffDateInvalid = errors.Wrap(errors.ErrValidation, "invalid lithology cutoff date")
)

var knownVerbosity = map[string]bool{
	VerbosityQuiet:      true,
	VerbosityMinimal:    true,
	VerbosityNormal:     true,
	VerbosityDetailed:   true,
	VerbosityDiagnostic: true,
}

var knownLogFormats = map[string]bool{
	LogFormatText: true,
	LogFormatJSON: true,
}

var knownSaveFormats = map[string]bool{
	SaveFormatAuto:   true,
	SaveFormatJSONL:  true,
	SaveFormatSQLite: true,
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Verbosity:           VerbosityNormal,
		LogFormat:           LogFormatText,
		SaveFormat:          SaveFormatAuto,
		LithologyCutoffDate: DefaultCutoffDate,
	}
}

// Validate checks that the Config is well-formed. It returns one of the
// sentinel errors above on failure.
func (c Config) Validate() error {
	if !knownVerbosity[c.Verbosity] {
		return ErrVerbosityUnknown
	}
	if !knownLogFormats[c.LogFormat] {
		return ErrLogFormatUnknown
	}
	if !knownSaveFormats[c.SaveFormat] {
		return ErrSaveFormatUnknown
	}
	if _, err := c.CutoffDate(); err != nil {
		return ErrCutoffDateInvalid
	}
	return nil
}

// CutoffDate parses LithologyCutoffDate.
func (c Config) CutoffDate() (time.Time, error) {
	return time.Parse(CutoffDateLayout, c.LithologyCutoffDate)
}
