// Package http_client provides a shareable HTTP client node and a request
// node that fetches a URL while the scene runs.
package http_client

import (
	"github.com/vk/paramgraph/internal/registry"
)

// Module implements the registry.Module interface. It registers both node
// types of the package.
type Module struct{}

// Register registers the http_client and http_request node types.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNode("http_client", SetupClient)
	r.RegisterNode("http_request", SetupRequest)
}
