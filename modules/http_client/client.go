package http_client

import (
	"fmt"
	"net/http"
	"time"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// SetupClient declares an http_client node. Its client output is a live
// *http.Client, rebuilt whenever timeout changes.
func SetupClient(n *node.Node) error {
	if _, err := n.AddParameter("timeout", cell.TypeString, cell.StringVal("10s"), cell.PinInput, cell.ExactlyOne); err != nil {
		return err
	}
	if _, err := n.AddParameter("client", cell.TypeOpaque, cty.NilVal, cell.PinOutput, cell.ExactlyOne, cell.ReadOnly()); err != nil {
		return err
	}
	if err := n.AddDependency("timeout", "client"); err != nil {
		return err
	}

	var current *http.Client
	if err := n.SetComputeFunction("client", func(in cell.Inputs) (cty.Value, error) {
		raw, err := in.Value("timeout")
		if err != nil {
			return cty.NilVal, err
		}
		timeout, err := time.ParseDuration(raw.AsString())
		if err != nil {
			return cty.NilVal, fmt.Errorf("invalid timeout: %w", err)
		}
		if current != nil {
			current.CloseIdleConnections()
		}
		current = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
		return cell.OpaqueVal(current), nil
	}); err != nil {
		return err
	}

	n.OnStop(func() error {
		if current != nil {
			current.CloseIdleConnections()
		}
		return nil
	})
	return nil
}
