// Package config defines the application configuration structure and its
// loading logic: defaults, optional config.yaml, STUDYSET_-prefixed
// environment variables, and struct validation.
package config
