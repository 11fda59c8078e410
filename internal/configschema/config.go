// Package configschema provides configuration loading and validation for dddmaker.
//
// Overview:
//   - Responsibility: Parse dddmaker.yaml, apply defaults and DDDMAKER_* overrides, validate
//   - Key Types: Config structures, Diagnostics for reporting issues
//   - Concurrency Model: Immutable after loading, safe for concurrent reads
//   - Error Semantics: Problems are reported as diagnostics, never panics
//   - Performance Notes: Single pass over a small file
//
// Usage:
//
//	config, diags := Load("dddmaker.yaml")
//	if diags.HasErrors() {
//	    return diags
//	}
package configschema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the configuration file looked up in the project directory.
const DefaultFileName = "dddmaker.yaml"

// Config represents the complete dddmaker configuration.
//
// Field tags:
//   - yaml: Key in dddmaker.yaml
//   - env: Environment variable overriding the file value
//   - default: Value used when neither file nor environment set the key
//   - validate: go-playground/validator rules
type Config struct {
	ConfigVersion string         `yaml:"config_version" default:"1.0"`
	RootNamespace string         `yaml:"root_namespace" env:"DDDMAKER_ROOT_NAMESPACE" default:"App" validate:"required,php_namespace"`
	SourceDir     string         `yaml:"source_dir" env:"DDDMAKER_SOURCE_DIR" default:"src" validate:"required,project_relative"`
	SkeletonDir   string         `yaml:"skeleton_dir" env:"DDDMAKER_SKELETON_DIR"`
	Extension     string         `yaml:"extension" env:"DDDMAKER_EXTENSION" default:".php" validate:"required,startswith=.,file_extension"`
	Features      FeaturesConfig `yaml:"features"`
	Journal       JournalConfig  `yaml:"journal"`
	Metrics       MetricsConfig  `yaml:"metrics"`
	Logging       LoggingConfig  `yaml:"logging"`
}

// FeaturesConfig toggles optional catalog entries.
type FeaturesConfig struct {
	SearchSpecification bool `yaml:"search_specification" env:"DDDMAKER_SEARCH_SPECIFICATION"`
	DbalIDType          bool `yaml:"dbal_id_type" env:"DDDMAKER_DBAL_ID_TYPE"`
}

// JournalConfig defines where generation runs are recorded.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled" env:"DDDMAKER_JOURNAL_ENABLED" default:"true"`
	Driver  string `yaml:"driver" env:"DDDMAKER_JOURNAL_DRIVER" default:"sqlite" validate:"oneof=sqlite mysql postgres"`
	DSN     string `yaml:"dsn" env:"DDDMAKER_JOURNAL_DSN" default:".dddmaker/journal.db" validate:"required_if=Enabled true"`
}

// MetricsConfig defines metric export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" env:"DDDMAKER_METRICS_TEXTFILE"`
}

// LoggingConfig defines diagnostic log output.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"DDDMAKER_LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"DDDMAKER_LOG_FORMAT" default:"logfmt" validate:"oneof=logfmt json"`
}

// Diagnostic represents a validation issue.
type Diagnostic struct {
	Severity   DiagnosticSeverity `json:"severity"`
	Message    string             `json:"message"`
	Path       string             `json:"path,omitempty"`
	Suggestion string             `json:"suggestion,omitempty"`
}

// DiagnosticSeverity represents the severity of a diagnostic.
type DiagnosticSeverity string

const (
	SeverityError   DiagnosticSeverity = "error"
	SeverityWarning DiagnosticSeverity = "warning"
	SeverityInfo    DiagnosticSeverity = "info"
)

// Diagnostics represents a collection of validation issues.
type Diagnostics struct {
	items []Diagnostic
}

// NewDiagnostics creates a new diagnostics collection.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{
		items: make([]Diagnostic, 0),
	}
}

// Add adds a diagnostic to the collection.
//
// Parameters:
//   - severity: Diagnostic severity
//   - message: Human-readable description
//   - path: Configuration key the issue refers to
//   - suggestion: How to fix it
func (d *Diagnostics) Add(severity DiagnosticSeverity, message, path, suggestion string) {
	d.items = append(d.items, Diagnostic{
		Severity:   severity,
		Message:    message,
		Path:       path,
		Suggestion: suggestion,
	})
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(message, path, suggestion string) {
	d.Add(SeverityError, message, path, suggestion)
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(message, path, suggestion string) {
	d.Add(SeverityWarning, message, path, suggestion)
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(message, path, suggestion string) {
	d.Add(SeverityInfo, message, path, suggestion)
}

// HasErrors returns true if there are any error-level diagnostics.
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if there are any warning-level diagnostics.
func (d *Diagnostics) HasWarnings() bool {
	for _, item := range d.items {
		if item.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// Items returns all diagnostics.
func (d *Diagnostics) Items() []Diagnostic {
	result := make([]Diagnostic, len(d.items))
	copy(result, d.items)
	return result
}

// Error joins error-level diagnostics into one message.
func (d *Diagnostics) Error() string {
	var msgs []string
	for _, item := range d.items {
		if item.Severity != SeverityError {
			continue
		}
		if item.Path != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s", item.Path, item.Message))
		} else {
			msgs = append(msgs, item.Message)
		}
	}
	return strings.Join(msgs, "; ")
}

// Default returns a configuration holding only default values.
func Default() *Config {
	var config Config
	// Tags are static; a failure here is a programming error caught by tests.
	_ = applyDefaults(&config)
	return &config
}

// Load reads and parses a dddmaker.yaml configuration file, with overrides
// from the process environment.
//
// Parameters:
//   - path: Configuration file path
//
// Returns:
//   - *Config: Parsed configuration (nil when the file cannot be parsed)
//   - *Diagnostics: Validation results
func Load(path string) (*Config, *Diagnostics) {
	return LoadWithEnv(path, environSnapshot())
}

// LoadWithEnv is Load with an explicit environment snapshot.
//
// Parameters:
//   - path: Configuration file path; a missing file yields defaults
//   - env: Environment variables by name
//
// Returns:
//   - *Config: Parsed configuration (nil when the file cannot be read or parsed)
//   - *Diagnostics: Validation results
func LoadWithEnv(path string, env map[string]string) (*Config, *Diagnostics) {
	diags := NewDiagnostics()
	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		diags.AddInfo("Configuration file not found, using defaults", path, "Run 'dddmaker init' to create "+DefaultFileName)
	case err != nil:
		diags.AddError(fmt.Sprintf("Failed to read configuration file: %v", err), path, "Check file permissions")
		return nil, diags
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			diags.AddError(fmt.Sprintf("Failed to parse YAML: %v", err), path, "Check YAML syntax")
			return nil, diags
		}
	}

	if err := applyEnv(config, env); err != nil {
		diags.AddError(err.Error(), "", "Fix the DDDMAKER_* environment variable")
	}

	validateConfig(config, diags)
	return config, diags
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func environSnapshot() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(key, envPrefix) {
			env[key] = value
		}
	}
	return env
}
