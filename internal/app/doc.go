// Package app contains the core application logic. It loads node manifests,
// builds the scene, and either prints the requested parameter values once or
// keeps the scene alive in watch mode, decoupled from any specific entrypoint
// like a CLI.
package app
