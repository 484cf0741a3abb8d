// Package socketio provides the "socketio" node, a network input: it listens
// for one event on a Socket.IO namespace and writes every payload to its
// value pin.
package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/ctxlog"
	"github.com/vk/paramgraph/internal/node"
	"github.com/vk/paramgraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// settings is the connection configuration read from the node on start.
type settings struct {
	URL                string
	Namespace          string
	OnEvent            string
	EmitEvent          string
	EmitData           string
	InsecureSkipVerify bool
}

func readSettings(n *node.Node) (*settings, error) {
	s := &settings{}
	var err error
	for path, dst := range map[string]*string{
		"url":        &s.URL,
		"namespace":  &s.Namespace,
		"on_event":   &s.OnEvent,
		"emit_event": &s.EmitEvent,
		"emit_data":  &s.EmitData,
	} {
		if *dst, err = n.Text(path); err != nil {
			return nil, err
		}
	}
	if s.InsecureSkipVerify, err = n.MustCell("insecure_skip_verify").Bool(); err != nil {
		return nil, err
	}
	if s.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	if s.OnEvent == "" {
		return nil, fmt.Errorf("on_event is required")
	}
	return s, nil
}

// Setup declares the parameters and hooks of a socketio node.
func Setup(n *node.Node) error {
	texts := []struct{ name, initial string }{
		{"url", ""},
		{"namespace", "/"},
		{"on_event", ""},
		{"emit_event", ""},
		{"emit_data", "{}"},
	}
	for _, p := range texts {
		if _, err := n.AddParameter(p.name, cell.TypeString, cell.StringVal(p.initial), cell.PinNone, cell.ExactlyOne); err != nil {
			return err
		}
	}
	if _, err := n.AddParameter("insecure_skip_verify", cell.TypeBool, cell.BoolVal(false), cell.PinNone, cell.ExactlyOne); err != nil {
		return err
	}
	value, err := n.AddParameter("value", cell.TypeOpaque, cty.NilVal, cell.PinOutput, cell.ExactlyOne, cell.ReadOnly())
	if err != nil {
		return err
	}
	received, err := n.AddParameter("received", cell.TypeInt, cell.IntVal(0), cell.PinOutput, cell.ExactlyOne, cell.ReadOnly())
	if err != nil {
		return err
	}
	connected, err := n.AddParameter("connected", cell.TypeBool, cell.BoolVal(false), cell.PinOutput, cell.ExactlyOne, cell.ReadOnly())
	if err != nil {
		return err
	}

	var io *socket.Socket
	n.OnStart(func(ctx context.Context, post node.PostFunc) error {
		cfg, err := readSettings(n)
		if err != nil {
			return err
		}
		logger := ctxlog.FromContext(ctx).With("node", n.Name(), "url", cfg.URL, "onEvent", cfg.OnEvent)

		parsedURL, err := url.Parse(cfg.URL)
		if err != nil {
			return fmt.Errorf("failed to parse URL: %w", err)
		}
		baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
		opts := socket.DefaultOptions()
		opts.SetPath(parsedURL.Path)
		if cfg.InsecureSkipVerify {
			logger.Warn("Skipping TLS certificate verification")
			opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
		}
		opts.SetTransports(types.NewSet(transports.WebSocket))

		var emitData any
		if cfg.EmitEvent != "" {
			if err := json.Unmarshal([]byte(cfg.EmitData), &emitData); err != nil {
				return fmt.Errorf("emit_data is not valid JSON: %w", err)
			}
		}

		manager := socket.NewManager(baseURL, opts)
		io = manager.Socket(cfg.Namespace, opts)

		// Socket callbacks run on the client's goroutines; every graph write
		// goes through post.
		io.On(types.EventName("connect"), func(...any) {
			logger.Info("Successfully connected", "namespace", cfg.Namespace, "sid", io.Id())
			post(func() { setConnected(logger, connected, true) })
			if cfg.EmitEvent != "" {
				logger.Info("Emitting event", "event", cfg.EmitEvent, "data", cfg.EmitData)
				io.Emit(cfg.EmitEvent, emitData)
			}
		})
		io.On(types.EventName("disconnect"), func(...any) {
			logger.Info("Disconnected")
			post(func() { setConnected(logger, connected, false) })
		})
		io.On(types.EventName("connect_error"), func(errs ...any) {
			logger.Warn("Connection failed", "error", fmt.Sprint(errs...))
		})
		io.On(types.EventName(cfg.OnEvent), func(data ...any) {
			var payload any
			if len(data) > 0 {
				payload = data[0]
			}
			post(func() {
				if err := Deliver(value, received, payload); err != nil {
					logger.Warn("Failed to record payload.", "error", err)
				}
			})
		})

		io.Connect()
		return nil
	})
	n.OnStop(func() error {
		if io != nil {
			io.Disconnect()
			io = nil
		}
		setConnected(slog.Default().With("node", n.Name()), connected, false)
		return nil
	})
	return nil
}

func setConnected(logger *slog.Logger, connected *cell.Cell, v bool) {
	if err := connected.SetBool(v); err != nil {
		logger.Warn("Failed to update connection state.", "error", err)
	}
}

// Deliver records one received payload. It must run on the graph's
// goroutine.
func Deliver(value, received *cell.Cell, payload any) error {
	if err := value.SetOpaque(payload); err != nil {
		return err
	}
	count, err := received.Int()
	if err != nil {
		return err
	}
	return received.SetInt(count + 1)
}

// Register registers the node type with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNode("socketio", Setup)
}
