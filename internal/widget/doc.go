// Package widget loads widget definitions, editor config scripts and value
// sets from disk. Definitions and values may be written as JSON, YAML or TOML.
package widget
