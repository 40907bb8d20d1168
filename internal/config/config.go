// Package config provides configuration loading and management.
package config

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Level is the minimum log level.
	// Env: SCHEMAFORM_LOG_LEVEL, Default: "info"
	Level string `json:"level,omitempty"`

	// Format selects the log output format, "text" or "json".
	// Env: SCHEMAFORM_LOG_FORMAT, Default: "text"
	Format string `json:"format,omitempty"`

	// NoColor disables ANSI color in log and console output.
	// Env: SCHEMAFORM_LOG_NOCOLOR, Default: false
	NoColor bool `json:"noColor,omitempty"`
}

// OutputConfig contains stack set output settings.
type OutputConfig struct {
	// Format is the serialization format for generated templates,
	// "yaml" or "json".
	// Env: SCHEMAFORM_OUTPUT_FORMAT, Default: "yaml"
	Format string `json:"format,omitempty"`

	// Directory is the default output directory for split output.
	// Env: SCHEMAFORM_OUTPUT_DIRECTORY
	Directory string `json:"directory,omitempty"`

	// Split writes one file per template instead of a single stream.
	// Env: SCHEMAFORM_OUTPUT_SPLIT, Default: false
	Split bool `json:"split,omitempty"`
}

// CompileConfig contains compilation defaults.
type CompileConfig struct {
	// Environment is the default value of the env parameter stamped
	// into generated resource names.
	// Env: SCHEMAFORM_COMPILE_ENVIRONMENT
	Environment string `json:"environment,omitempty"`

	// DeletionPolicy applies to every generated table, "Delete" or
	// "Retain". Empty leaves the target format's default in place.
	// Env: SCHEMAFORM_COMPILE_DELETIONPOLICY
	DeletionPolicy string `json:"deletionPolicy,omitempty"`

	// BillingMode is the billing mode parameter default,
	// "PAY_PER_REQUEST" or "PROVISIONED".
	// Env: SCHEMAFORM_COMPILE_BILLINGMODE, Default: "PAY_PER_REQUEST"
	BillingMode string `json:"billingMode,omitempty"`

	// ResolverDir names the directory resolver templates are written
	// under in split output.
	// Env: SCHEMAFORM_COMPILE_RESOLVERDIR, Default: "resolvers"
	ResolverDir string `json:"resolverDir,omitempty"`
}

// Config represents the schemaform CLI configuration.
// Loaded from ~/.schemaform/config.yaml, overridden by SCHEMAFORM_*
// environment variables and command-line flags.
type Config struct {
	// Log contains logging-related settings.
	Log LogConfig `json:"log,omitempty"`

	// Output contains stack set output settings.
	Output OutputConfig `json:"output,omitempty"`

	// Compile contains compilation defaults.
	Compile CompileConfig `json:"compile,omitempty"`
}

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Format: "yaml",
		},
		Compile: CompileConfig{
			BillingMode: "PAY_PER_REQUEST",
			ResolverDir: "resolvers",
		},
	}
}

// WithDefaults returns a copy of the config with unset fields replaced
// by their defaults. Explicit values always win.
func (c *Config) WithDefaults() *Config {
	out := *c
	def := DefaultConfig()

	if out.Log.Level == "" {
		out.Log.Level = def.Log.Level
	}
	if out.Log.Format == "" {
		out.Log.Format = def.Log.Format
	}
	if out.Output.Format == "" {
		out.Output.Format = def.Output.Format
	}
	if out.Compile.BillingMode == "" {
		out.Compile.BillingMode = def.Compile.BillingMode
	}
	if out.Compile.ResolverDir == "" {
		out.Compile.ResolverDir = def.Compile.ResolverDir
	}

	return &out
}
