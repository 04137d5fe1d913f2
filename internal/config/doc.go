// Package config defines the run configuration for corpusprep.
//
// A Config is built once, from defaults, an optional YAML file and CLI
// flags, validated, and then passed by value to every stage. No stage
// reads configuration from anywhere else.
package config
