package nodes

import (
	"context"

	"github.com/galvanized/vixen/gpu"
	"github.com/galvanized/vixen/graph"
)

// FramebufferType describes the framebuffer node: binds a render pass to
// the swapchain handle, sized by the node's own width/height parameters.
// It is the node that recompiles whenever the swapchain recreates.
var FramebufferType = &graph.NodeType{
	Name: "Framebuffer",
	Inputs: []graph.SlotDescriptor{
		{Name: "render_pass", Type: gpu.TypeRenderPass, Arity: graph.ArityOne},
		{Name: "swapchain", Type: gpu.TypeSwapchain, Arity: graph.ArityOne},
	},
	Outputs: []graph.SlotDescriptor{
		{Name: "framebuffer", Type: gpu.TypeFramebuffer},
	},
	Params: []graph.ParameterDescriptor{
		{Name: "width", Type: gpu.TypeU32, Required: true, Default: gpu.ParamU32(0)},
		{Name: "height", Type: gpu.TypeU32, Required: true, Default: gpu.ParamU32(0)},
	},
	New: func() graph.Node { return &FramebufferNode{} },
}

// FramebufferNode owns a single framebuffer whose one attachment view is
// the swapchain handle. It rebuilds whenever the swapchain changes.
type FramebufferNode struct {
	facade      gpu.Facade
	framebuffer gpu.Handle
}

func (n *FramebufferNode) Compile(ctx *graph.CompileContext) error {
	n.facade = ctx.Facade
	rp, _ := ctx.Input("render_pass")
	sc, _ := ctx.Input("swapchain")
	w, _ := ctx.Param("width")
	h, _ := ctx.Param("height")

	desc := gpu.FramebufferDescriptor{
		RenderPass: rp.Handle,
		Views:      []gpu.Handle{sc.Handle},
		Extent:     gpu.Extent{Width: w.U32, Height: h.U32},
	}

	if n.framebuffer != "" {
		if err := ctx.Facade.DestroyFramebuffer(ctx.Ctx, n.framebuffer); err != nil {
			return err
		}
	}
	fb, err := ctx.Facade.CreateFramebuffer(ctx.Ctx, desc)
	if err != nil {
		return err
	}
	n.framebuffer = fb
	return nil
}

func (n *FramebufferNode) Execute(ctx *graph.ExecuteContext) error {
	ctx.SetOutput("framebuffer", graph.Resource{Type: gpu.TypeFramebuffer, Handle: n.framebuffer, Name: "framebuffer"})
	return nil
}

func (n *FramebufferNode) Cleanup() error {
	if n.facade == nil || n.framebuffer == "" {
		return nil
	}
	err := n.facade.DestroyFramebuffer(context.Background(), n.framebuffer)
	n.framebuffer = ""
	return err
}
