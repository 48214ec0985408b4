// Package core defines the shared language of the watercrawl toolkit.
//
// This package contains:
//   - Schema descriptors (Descriptor, HookID) supplied by configuration
//   - The in-memory tabular Frame consumed by column inference
//   - Validation errors for malformed descriptor sets
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
