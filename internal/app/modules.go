package app

import (
	"github.com/vk/paramgraph/internal/registry"
	"github.com/vk/paramgraph/modules/env_vars"
	"github.com/vk/paramgraph/modules/http_client"
	"github.com/vk/paramgraph/modules/multiplier"
	"github.com/vk/paramgraph/modules/print"
	"github.com/vk/paramgraph/modules/resolution"
	"github.com/vk/paramgraph/modules/socketio"
)

// coreModules is the definitive list of all modules that are compiled into
// the paramgraph binary.
var coreModules = []registry.Module{
	&multiplier.Module{},
	&resolution.Module{},
	&env_vars.Module{},
	&print.Module{},
	&http_client.Module{},
	&socketio.Module{},
}
