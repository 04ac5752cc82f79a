// Package config defines the p1-alert settings and helpers to load, validate
// and save them in YAML format.
//
// Every key has a built-in default. A missing settings file is not an error
// for the service: LoadOrDefault logs a warning and carries on with defaults.
package config
