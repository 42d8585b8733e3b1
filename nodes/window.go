package nodes

import (
	"github.com/galvanized/vixen/gpu"
	"github.com/galvanized/vixen/graph"
)

// WindowType describes the leaf window node: no inputs, one window
// handle output carrying the current extent as a parameter.
var WindowType = &graph.NodeType{
	Name: "Window",
	Outputs: []graph.SlotDescriptor{
		{Name: "window", Type: gpu.TypeWindow},
	},
	Params: []graph.ParameterDescriptor{
		{Name: "window_handle", Type: gpu.TypeString, Required: true, Default: gpu.ParamString("")},
		{Name: "width", Type: gpu.TypeU32, Required: true, Default: gpu.ParamU32(0)},
		{Name: "height", Type: gpu.TypeU32, Required: true, Default: gpu.ParamU32(0)},
	},
	New: func() graph.Node { return &WindowNode{} },
}

// WindowNode republishes a host-owned window handle and its current
// extent. WindowResized leaves its parameters unchanged: the executor only
// marks the swapchain node dirty in response, and this node itself never
// recompiles.
type WindowNode struct {
	handle gpu.Handle
}

func (n *WindowNode) Compile(ctx *graph.CompileContext) error {
	v, _ := ctx.Param("window_handle")
	n.handle = gpu.Handle(v.Str)
	ctx.SetOutput("window", graph.Resource{Type: gpu.TypeWindow, Handle: n.handle, Name: "window"})
	return nil
}

func (n *WindowNode) Execute(ctx *graph.ExecuteContext) error { return nil }

func (n *WindowNode) Cleanup() error { return nil }

// Extent returns the node's current width/height parameters as a gpu.Extent.
func Extent(ctx *graph.CompileContext) gpu.Extent {
	w, _ := ctx.Param("width")
	h, _ := ctx.Param("height")
	return gpu.Extent{Width: w.U32, Height: h.U32}
}
