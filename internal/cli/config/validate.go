package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var validOutputs = map[string]bool{"auto": true, "text": true, "markdown": true, "json": true}

// Validate checks value ranges. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if !validOutputs[c.OutputFormat] {
		errs = append(errs, fmt.Errorf("output must be one of auto, text, markdown, json; got %q", c.OutputFormat))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	in := c.Inference
	if in.SampleSize < 1 {
		errs = append(errs, fmt.Errorf("inference.sample_size must be at least 1; got %d", in.SampleSize))
	}
	if in.MinCandidateScore < 0 || in.MinCandidateScore > 1 {
		errs = append(errs, fmt.Errorf("inference.min_candidate_score must be within [0, 1]; got %g", in.MinCandidateScore))
	}
	if in.MinAssignmentScore < 0 || in.MinAssignmentScore > 1 {
		errs = append(errs, fmt.Errorf("inference.min_assignment_score must be within [0, 1]; got %g", in.MinAssignmentScore))
	}
	if in.MaxRows < 0 {
		errs = append(errs, fmt.Errorf("inference.max_rows must not be negative; got %d", in.MaxRows))
	}
	if in.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("inference.concurrency must not be negative; got %d", in.Concurrency))
	}

	return errors.Join(errs...)
}

// ParseLevel maps a log_level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", s)
	}
}
