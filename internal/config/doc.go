// Package config loads the checksum tool's TOML configuration.
//
// Lookup order is an explicit path, then ~/.config/checksum/config.toml, then
// ./checksum.toml in the working directory. Every key is optional; Default
// supplies the values used when a key or the whole file is absent.
package config
