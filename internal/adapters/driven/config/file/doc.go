// Package file provides the TOML-backed configuration adapter. One file,
// ~/.ricast/config.toml by default, carries the API key, orchestrator tuning
// and per-company method overrides. ConfigStore serves flat key lookups;
// LoadSettings decodes the structured per-company tables.
package file
