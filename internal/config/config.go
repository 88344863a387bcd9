// =============================================================================
// EDI Order Translator - Configuration Module
// =============================================================================
//
// This module loads the application configuration and the partner profiles.
//
// CONFIGURATION SOURCES:
//   1. Main config (edi.yaml): storage layout, artifact, logging.
//      Loaded with viper; every key has a default and can be overridden
//      with an EDI_ environment variable (EDI_ARTIFACT_PATH, ...).
//   2. Partner profiles (partners/*.yaml): one file per trading partner,
//      loaded with yaml.v3. See partners.go.
//
// DEFAULT LAYOUT (relative to storage.root):
//   translate/            intake, scanned for *.INF files
//   translate_process/    files that were routed
//   translate_error/      files quarantined while an artifact is pending
//   translate_log/        process_log_YYYY-MM-DD.txt audit files
//   data_in/850_EXP.CIM   the shared artifact
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	configName = "edi"
	configType = "yaml"
	envPrefix  = "EDI"

	DefaultRoot          = "./edi"
	DefaultIntakeDir     = "translate"
	DefaultProcessedDir  = "translate_process"
	DefaultErrorDir      = "translate_error"
	DefaultLogDir        = "translate_log"
	DefaultIntakePattern = "*.INF"
	DefaultArtifactPath  = "data_in/850_EXP.CIM"
	DefaultArtifactMode  = "0664"
	DefaultPartnersDir   = "./partners"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogOutput     = "stderr"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Artifact ArtifactConfig `mapstructure:"artifact" yaml:"artifact"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`

	// PartnersDir holds the partner profile files.
	PartnersDir string `mapstructure:"partners_dir" yaml:"partners_dir"`
}

// StorageConfig describes the EDI share.
type StorageConfig struct {
	// Root is the directory every other path is relative to.
	Root string `mapstructure:"root" yaml:"root"`

	// IntakeDir is scanned for new order files at the start of each run.
	IntakeDir string `mapstructure:"intake_dir" yaml:"intake_dir"`

	// ProcessedDir receives files once they have been routed.
	ProcessedDir string `mapstructure:"processed_dir" yaml:"processed_dir"`

	// ErrorDir receives quarantined files.
	ErrorDir string `mapstructure:"error_dir" yaml:"error_dir"`

	// LogDir receives the daily process log files.
	LogDir string `mapstructure:"log_dir" yaml:"log_dir"`

	// IntakePattern is the glob matched against intake file names.
	IntakePattern string `mapstructure:"intake_pattern" yaml:"intake_pattern"`
}

// ArtifactConfig describes the shared exchange file.
type ArtifactConfig struct {
	// Path is relative to the storage root.
	Path string `mapstructure:"path" yaml:"path"`

	// Mode is the octal permission set after every write ("0664"). An
	// unquoted YAML value such as 0664 is read as the same octal mode.
	Mode string `mapstructure:"mode" yaml:"mode"`
}

// FileMode parses Mode.
func (a ArtifactConfig) FileMode() (os.FileMode, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(a.Mode, "0o"), 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid artifact mode %q: %w", a.Mode, err)
	}
	if v > 0o777 {
		return 0, fmt.Errorf("invalid artifact mode %q: out of range", a.Mode)
	}
	return os.FileMode(v), nil
}

// LoggingConfig controls console logging.
type LoggingConfig struct {
	// Level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level" yaml:"level"`

	// Format: "console" or "json".
	Format string `mapstructure:"format" yaml:"format"`

	// Output: "stdout", "stderr" or a file path.
	Output string `mapstructure:"output" yaml:"output"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration.
//
// PARAMETERS:
//   - configPath: An explicit config file. When empty, edi.yaml is searched
//     in the working directory; a missing file is not an error.
//
// RETURNS:
//   - The configuration with defaults applied.
//   - An error if the file cannot be parsed or the result is invalid.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	normalizeMode(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Root:          DefaultRoot,
			IntakeDir:     DefaultIntakeDir,
			ProcessedDir:  DefaultProcessedDir,
			ErrorDir:      DefaultErrorDir,
			LogDir:        DefaultLogDir,
			IntakePattern: DefaultIntakePattern,
		},
		Artifact: ArtifactConfig{
			Path: DefaultArtifactPath,
			Mode: DefaultArtifactMode,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Output: DefaultLogOutput,
		},
		PartnersDir: DefaultPartnersDir,
	}
}

func applyDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("storage.root", d.Storage.Root)
	v.SetDefault("storage.intake_dir", d.Storage.IntakeDir)
	v.SetDefault("storage.processed_dir", d.Storage.ProcessedDir)
	v.SetDefault("storage.error_dir", d.Storage.ErrorDir)
	v.SetDefault("storage.log_dir", d.Storage.LogDir)
	v.SetDefault("storage.intake_pattern", d.Storage.IntakePattern)

	v.SetDefault("artifact.path", d.Artifact.Path)
	v.SetDefault("artifact.mode", d.Artifact.Mode)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)

	v.SetDefault("partners_dir", d.PartnersDir)
}

// normalizeMode rewrites an integer artifact.mode as its octal string.
// YAML reads an unquoted 0664 as the integer 436, which would otherwise
// reach FileMode as "436".
func normalizeMode(v *viper.Viper) {
	var n int64
	switch mode := v.Get("artifact.mode").(type) {
	case int:
		n = int64(mode)
	case int64:
		n = mode
	case uint64:
		n = int64(mode)
	default:
		return
	}
	v.Set("artifact.mode", fmt.Sprintf("0%o", n))
}

// Validate checks the configuration for values the router cannot use.
func (c *Config) Validate() error {
	required := map[string]string{
		"storage.root":           c.Storage.Root,
		"storage.intake_dir":     c.Storage.IntakeDir,
		"storage.processed_dir":  c.Storage.ProcessedDir,
		"storage.error_dir":      c.Storage.ErrorDir,
		"storage.log_dir":        c.Storage.LogDir,
		"storage.intake_pattern": c.Storage.IntakePattern,
		"artifact.path":          c.Artifact.Path,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}

	if _, err := path.Match(c.Storage.IntakePattern, ""); err != nil {
		return fmt.Errorf("storage.intake_pattern: %w", err)
	}

	if _, err := c.Artifact.FileMode(); err != nil {
		return err
	}

	if c.Storage.IntakeDir == c.Storage.ProcessedDir || c.Storage.IntakeDir == c.Storage.ErrorDir {
		return fmt.Errorf("processed and error folders must differ from the intake folder")
	}

	return nil
}
