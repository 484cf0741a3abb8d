// Package resolution provides the "resolution" node: a Resolution group with
// Width, Height and a Preset that fills both, plus the derived aspect ratio.
package resolution

import (
	"fmt"
	"log/slog"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/group"
	"github.com/vk/paramgraph/internal/node"
	"github.com/vk/paramgraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Custom is the preset reported once Width or Height is edited by hand.
const Custom = "custom"

type size struct{ width, height int64 }

var presets = map[string]size{
	"hd":      {1280, 720},
	"full_hd": {1920, 1080},
	"4k":      {3840, 2160},
}

// presetNames lists the Preset options, Custom first.
var presetNames = []string{Custom, "hd", "full_hd", "4k"}

// Setup declares the parameters of a resolution node.
func Setup(n *node.Node) error {
	res, err := n.NewGroup("Resolution", group.WithDescription("output size in pixels"))
	if err != nil {
		return err
	}
	width, err := res.NewCell("Width", cell.TypeInt, cell.IntVal(1920), cell.PinInput, cell.ExactlyOne)
	if err != nil {
		return err
	}
	height, err := res.NewCell("Height", cell.TypeInt, cell.IntVal(1080), cell.PinInput, cell.ExactlyOne)
	if err != nil {
		return err
	}
	preset, err := res.NewCell("Preset", cell.TypeEnum, cell.StringVal("full_hd"), cell.PinNone, cell.ExactlyOne,
		cell.WithOptions(presetNames...))
	if err != nil {
		return err
	}
	if _, err := n.AddParameter("aspect", cell.TypeFloat, cty.NilVal, cell.PinOutput, cell.ExactlyOne, cell.ReadOnly()); err != nil {
		return err
	}

	// applying is set while a preset writes Width and Height, so those
	// writes do not flip the preset back to custom.
	applying := false
	preset.SetChange(func(ch cell.Change) {
		sz, ok := presets[ch.New.AsString()]
		if !ok {
			return
		}
		applying = true
		defer func() { applying = false }()
		if err := width.SetInt(sz.width); err != nil {
			slog.Warn("Preset could not set width.", "node", n.Name(), "error", err)
		}
		if err := height.SetInt(sz.height); err != nil {
			slog.Warn("Preset could not set height.", "node", n.Name(), "error", err)
		}
	})
	manual := func(cell.Change) {
		if applying {
			return
		}
		if err := preset.SetText(Custom); err != nil {
			slog.Warn("Could not reset preset.", "node", n.Name(), "error", err)
		}
	}
	width.SetChange(manual)
	height.SetChange(manual)

	if err := n.AddDependency("Resolution.Width", "aspect"); err != nil {
		return err
	}
	if err := n.AddDependency("Resolution.Height", "aspect"); err != nil {
		return err
	}
	return n.SetComputeFunction("aspect", aspect)
}

func aspect(in cell.Inputs) (cty.Value, error) {
	w, err := in.Value("Width")
	if err != nil {
		return cty.NilVal, err
	}
	h, err := in.Value("Height")
	if err != nil {
		return cty.NilVal, err
	}
	if h.Equals(cty.Zero).True() {
		return cty.NilVal, fmt.Errorf("height is zero")
	}
	return w.Divide(h), nil
}

// Register registers the node type with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNode("resolution", Setup)
}
