// Config loading for the lifeos CLI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/lifeos/internal/paths"
	"github.com/mesh-intelligence/lifeos/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys. Secrets may also come from the environment with the
	// LIFEOS_ prefix; the Gemini key additionally honors GEMINI_API_KEY
	// so an existing shell setup keeps working.
	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeySpreadsheet = "spreadsheet_id"
	cfgKeyCredentials = "credentials_file"
	cfgKeyGeminiKey   = "gemini_api_key"
	cfgKeyPassphrase  = "passphrase"
	cfgKeyAddr        = "addr"
	cfgKeyCacheTTL    = "cache_ttl_seconds"

	defaultBackend = types.BackendSQLite
	defaultAddr    = ":8501"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# lifeos configuration

# Backend selection: sqlite or sheets
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Google Sheets backend settings
# spreadsheet_id:
# credentials_file:

# Web server listen address
addr: ":8501"

# Collection cache TTL in seconds
cache_ttl_seconds: 60

# Secrets are better kept in the environment:
#   LIFEOS_PASSPHRASE, GEMINI_API_KEY
# passphrase:
# gemini_api_key:
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper, layering LIFEOS_-prefixed environment variables on top. It
// creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyAddr, defaultAddr)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("LIFEOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// GEMINI_API_KEY without the prefix is the conventional name.
	_ = v.BindEnv(cfgKeyGeminiKey, "LIFEOS_GEMINI_API_KEY", "GEMINI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// buildConfig assembles a types.Config from flags, config.yaml, and the
// environment. Flags win over config values, which win over defaults.
func buildConfig(v *viper.Viper) (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend:         v.GetString(cfgKeyBackend),
		DataDir:         dataDir,
		SpreadsheetID:   v.GetString(cfgKeySpreadsheet),
		CredentialsFile: v.GetString(cfgKeyCredentials),
		GeminiAPIKey:    v.GetString(cfgKeyGeminiKey),
		Passphrase:      v.GetString(cfgKeyPassphrase),
		Addr:            v.GetString(cfgKeyAddr),
	}
	if secs := v.GetInt(cfgKeyCacheTTL); secs > 0 {
		cfg.CacheTTL = time.Duration(secs) * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// resolveConfigDir returns the config directory following the flag >
// env > platform-default precedence. A resolution failure falls back to
// the CWD-relative directory.
func resolveConfigDir() string {
	dir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return paths.DefaultConfigDirName
	}
	return dir
}
