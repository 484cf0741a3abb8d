// Package hcl provides the HCL implementation of the config.Loader
// interface. It is responsible for file discovery, parsing, and translating
// `node` and `link` blocks into the format-agnostic manifest model.
package hcl
