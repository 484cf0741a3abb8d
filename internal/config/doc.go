// Package config defines the format-agnostic manifest model: the nodes to
// instantiate, the parameters and groups they declare, the values they start
// with, and the links between their pins.
//
// The `config.Model` is the single input of the `builder` package. Concrete
// loaders, such as the HCL one, live in separate packages.
package config
