// Package config provides YAML configuration loading, validation, and
// hot reloading for the field selection server.
//
// Configuration files support environment variable substitution with
// ${VAR} and ${VAR:-default} syntax. A fsnotify-based Watcher reloads
// the file on change, validating before invoking the reload callback so
// a broken edit never replaces a working configuration.
package config
