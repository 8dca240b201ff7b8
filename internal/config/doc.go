// Package config holds the seoscan configuration: defaults, validation, the
// YAML configuration file and the XDG directories used for history.
package config
