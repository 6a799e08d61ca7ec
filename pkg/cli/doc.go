// Package cli provides common utilities for the opentts command-line
// tool.
//
// This package includes:
//   - Configuration management (contexts, similar to kubectl)
//   - Output formatting (YAML, JSON, raw)
//   - Terminal styling and print helpers
//
// Configuration is stored in the ~/.opentts/ directory. A context bundles
// the model choice, backend host, and synthesis defaults so that switching
// between machines or models is a single `opentts config use` away.
package cli
