package types

import (
	"errors"
	"time"
)

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendSheets = "sheets"
)

// DefaultCacheTTL is the collection cache time-to-live when none is
// configured.
const DefaultCacheTTL = 60 * time.Second

// Config validation errors.
var (
	ErrBackendEmpty     = errors.New("backend must not be empty")
	ErrBackendUnknown   = errors.New("unknown backend")
	ErrSpreadsheetEmpty = errors.New("spreadsheet id must not be empty for the sheets backend")
	ErrCacheTTLInvalid  = errors.New("cache ttl must be positive")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendSheets: true,
}

// Config holds backend selection and secrets for the dashboard. Secrets
// come from the environment or config.yaml; a missing optional secret
// degrades the affected panel instead of failing startup.
type Config struct {
	Backend         string        `json:"backend" yaml:"backend"`
	DataDir         string        `json:"data_dir" yaml:"data_dir"`
	SpreadsheetID   string        `json:"spreadsheet_id" yaml:"spreadsheet_id"`
	CredentialsFile string        `json:"credentials_file" yaml:"credentials_file"`
	GeminiAPIKey    string        `json:"-" yaml:"-"`
	Passphrase      string        `json:"-" yaml:"-"`
	Addr            string        `json:"addr" yaml:"addr"`
	CacheTTL        time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
}

// Validate checks that the Config is well-formed, returning a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendSheets && c.SpreadsheetID == "" {
		return ErrSpreadsheetEmpty
	}
	if c.CacheTTL < 0 {
		return ErrCacheTTLInvalid
	}
	return nil
}

// EffectiveTTL returns the configured cache TTL, or DefaultCacheTTL when
// unset.
func (c Config) EffectiveTTL() time.Duration {
	if c.CacheTTL == 0 {
		return DefaultCacheTTL
	}
	return c.CacheTTL
}

// AIEnabled reports whether the language-model panels can run.
func (c Config) AIEnabled() bool { return c.GeminiAPIKey != "" }

// AuthEnabled reports whether the passphrase gate is configured.
func (c Config) AuthEnabled() bool { return c.Passphrase != "" }
