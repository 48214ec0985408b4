// Package config loads watercrawl CLI configuration.
//
// Values are layered, lowest to highest precedence: built-in defaults, the
// watercrawl.yaml config file, WATERCRAWL_* environment variables, and
// explicitly set command-line flags.
package config

import "github.com/IAmJonoBo/watercrawl-sub002/pkg/inference"

// Config holds all CLI configuration options.
type Config struct {
	Schema       string          `koanf:"schema"`
	HooksDir     string          `koanf:"hooks_dir"`
	StatePath    string          `koanf:"state_path"`
	OutputFormat string          `koanf:"output"`
	Verbose      bool            `koanf:"verbose"`
	LogLevel     string          `koanf:"log_level"`
	Inference    InferenceConfig `koanf:"inference"`
	Serve        ServeConfig     `koanf:"serve"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// InferenceConfig tunes the inference engine and source loading.
type InferenceConfig struct {
	SampleSize         int     `koanf:"sample_size"`
	MinCandidateScore  float64 `koanf:"min_candidate_score"`
	MinAssignmentScore float64 `koanf:"min_assignment_score"`
	MaxRows            int     `koanf:"max_rows"`
	Concurrency        int     `koanf:"concurrency"`
}

// EngineOptions converts the section to engine options.
func (c InferenceConfig) EngineOptions() inference.Options {
	return inference.Options{
		SampleSize:         c.SampleSize,
		MinCandidateScore:  c.MinCandidateScore,
		MinAssignmentScore: c.MinAssignmentScore,
		Concurrency:        c.Concurrency,
	}
}

// ServeConfig holds configuration for the HTTP API.
type ServeConfig struct {
	Addr string `koanf:"addr"`
}

// Default configuration values.
const (
	DefaultSchemaFile  = "schema.yaml"
	DefaultHooksDir    = "hooks"
	DefaultStateFile   = ".watercrawl/state.db"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel    = "info"
	DefaultServeAddr   = ":8765"
	DefaultConcurrency = 4
)
