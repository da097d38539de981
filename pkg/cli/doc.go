// Package cli provides shared plumbing for the genstudio command-line
// tool:
//
//   - Configuration management with named contexts, kubectl-style
//   - Output formatting (YAML, JSON, raw)
//   - Request file loading (YAML/JSON)
//   - Terminal rendering for the live voice view
//
// Configuration lives in ~/.genstudio/config.yaml. Each context holds
// an API key and per-context defaults; the current context is switched
// with "genstudio config use-context".
package cli
