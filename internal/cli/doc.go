// Package cli parses command-line arguments into the application's
// configuration and maps bad input to process exit codes.
package cli
