// Package nodes implements the canonical present pipeline's concrete node
// types: device, window, swapchain, frame-sync, command pool, render
// pass, framebuffer, geometry-record-and-submit, and present. Each binds
// the graph.Node contract to the gpu.Facade capability contract.
package nodes

import (
	"github.com/galvanized/vixen/gpu"
	"github.com/galvanized/vixen/graph"
)

// DeviceType describes the leaf device node: no inputs, one device
// handle output. It is the source of device affinity propagation.
var DeviceType = &graph.NodeType{
	Name: "Device",
	Outputs: []graph.SlotDescriptor{
		{Name: "device", Type: gpu.TypeDevice},
	},
	Params: []graph.ParameterDescriptor{
		{Name: "device_handle", Type: gpu.TypeString, Required: true, Default: gpu.ParamString("")},
	},
	New: func() graph.Node { return &DeviceNode{} },
}

// DeviceNode owns no GPU resources of its own; it simply republishes a
// host-supplied device handle as a graph output so downstream nodes can
// discover it through a typed connection instead of a side channel.
type DeviceNode struct {
	handle gpu.Handle
}

func (n *DeviceNode) Compile(ctx *graph.CompileContext) error {
	v, _ := ctx.Param("device_handle")
	n.handle = gpu.Handle(v.Str)
	ctx.SetOutput("device", graph.Resource{Type: gpu.TypeDevice, Handle: n.handle, Name: "device"})
	return nil
}

func (n *DeviceNode) Execute(ctx *graph.ExecuteContext) error { return nil }

func (n *DeviceNode) Cleanup() error { return nil }
