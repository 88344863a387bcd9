package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// PARTNER PROFILE STRUCTURE
// =============================================================================

// PartnerConfig is one partner profile file.
//
// Unset values fall back to the built-in Chedraui profile, so a file only
// lists what differs for its partner.
//
// EXAMPLE (partners/walmart.yaml):
//
//	partner: walmart
//	customer: WM
//	tp_code: T2000
//	columns:
//	  article: 6
//	  subcode2: 4
type PartnerConfig struct {
	// Partner is the partner name: "nadro", "walmart" or "chedraui".
	Partner string `yaml:"partner"`

	Customer      string `yaml:"customer,omitempty"`
	TransType     string `yaml:"trans_type,omitempty"`
	LineTransType string `yaml:"line_trans_type,omitempty"`
	TPCode        string `yaml:"tp_code,omitempty"`
	TrxCode       string `yaml:"trx_code,omitempty"`
	Unit          string `yaml:"unit,omitempty"`
	ZeroBlock     string `yaml:"zero_block,omitempty"`

	// MinFields is the smallest acceptable number of fields per data row.
	MinFields int `yaml:"min_fields,omitempty"`

	// Columns maps the logical fields to 0-based field indexes.
	Columns ColumnConfig `yaml:"columns,omitempty"`

	// SourceFile is the file the profile was loaded from.
	SourceFile string `yaml:"-"`
}

// ColumnConfig holds optional field indexes. Nil means "use the default".
type ColumnConfig struct {
	Order      *int `yaml:"order,omitempty"`
	Subcode    *int `yaml:"subcode,omitempty"`
	Subcode2   *int `yaml:"subcode2,omitempty"`
	Article    *int `yaml:"article,omitempty"`
	Units      *int `yaml:"units,omitempty"`
	Amount     *int `yaml:"amount,omitempty"`
	Multiplier *int `yaml:"multiplier,omitempty"`
}

// =============================================================================
// PARTNER PROFILE LOADING
// =============================================================================

// LoadPartnerConfigs loads every profile in dir.
//
// PARAMETERS:
//   - dir: The directory holding *.yaml / *.yml profile files. A missing
//     directory yields no profiles.
//
// RETURNS:
//   - The profiles keyed by lower-case partner name.
//   - An error if a file cannot be parsed, has no partner name, or two
//     files describe the same partner.
func LoadPartnerConfigs(dir string) (map[string]*PartnerConfig, error) {
	configs := make(map[string]*PartnerConfig)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return configs, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list partner files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list partner files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		pc, err := loadPartnerConfig(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}

		key := strings.ToLower(strings.TrimSpace(pc.Partner))
		if key == "" {
			return nil, fmt.Errorf("%s: partner must not be empty", file)
		}
		if prev, ok := configs[key]; ok {
			return nil, fmt.Errorf("partner %s defined in both %s and %s", key, prev.SourceFile, file)
		}

		configs[key] = pc
	}

	return configs, nil
}

// loadPartnerConfig loads a single profile file.
func loadPartnerConfig(filePath string) (*PartnerConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var pc PartnerConfig
	if err := yaml.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}
	pc.SourceFile = filePath

	return &pc, nil
}
