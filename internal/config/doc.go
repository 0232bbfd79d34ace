// Package config provides centralized configuration for the presviz
// pipeline.
//
// Configuration is resolved from three layers, lowest precedence first:
// struct-tag defaults, an optional YAML file (config.yaml or
// configs/config.yaml), and PRESVIZ_-prefixed environment variables.
// The merged result is validated once at startup; in particular an invalid
// resample rule or timezone fails Load so it can never surface later as a
// per-file parse failure.
//
// The loaded Config is treated as immutable and passed explicitly into the
// pipeline entry point.
package config
