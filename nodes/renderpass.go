package nodes

import (
	"context"

	"github.com/galvanized/vixen/gpu"
	"github.com/galvanized/vixen/graph"
)

// RenderPassType describes the render-pass node: a single color
// attachment (clear/store) sized for presentation, with an optional depth
// attachment selected by parameter.
var RenderPassType = &graph.NodeType{
	Name: "RenderPass",
	Inputs: []graph.SlotDescriptor{
		{Name: "device", Type: gpu.TypeDevice, Arity: graph.ArityOne},
	},
	Outputs: []graph.SlotDescriptor{
		{Name: "render_pass", Type: gpu.TypeRenderPass},
	},
	Params: []graph.ParameterDescriptor{
		{Name: "color_format", Type: gpu.TypeString, Required: true, Default: gpu.ParamString("")},
		{Name: "has_depth", Type: gpu.TypeBool, Required: false, Default: gpu.ParamBool(false)},
		{Name: "depth_format", Type: gpu.TypeDepthFormat, Required: false, Default: gpu.ParamValue{Type: gpu.TypeDepthFormat, Enum: string(gpu.DepthFormatD32Float)}},
	},
	New: func() graph.Node { return &RenderPassNode{} },
}

// RenderPassNode owns a render pass object describing the color (and
// optional depth) attachment layout the geometry node renders into.
type RenderPassNode struct {
	facade     gpu.Facade
	renderPass gpu.Handle
}

func (n *RenderPassNode) Compile(ctx *graph.CompileContext) error {
	n.facade = ctx.Facade
	colorFormat, _ := ctx.Param("color_format")
	hasDepth, _ := ctx.Param("has_depth")

	desc := gpu.RenderPassDescriptor{
		ColorAttachments: []gpu.AttachmentDescriptor{{
			Format:      gpu.Format(colorFormat.Str),
			Load:        gpu.LoadOpClear,
			Store:       gpu.StoreOpStore,
			InitLayout:  gpu.ImageLayoutUndefined,
			FinalLayout: gpu.ImageLayoutPresentSource,
		}},
	}
	if hasDepth.Bool {
		depthFormat, _ := ctx.Param("depth_format")
		desc.DepthAttachment = &gpu.AttachmentDescriptor{
			Format:      gpu.Format(depthFormat.Enum),
			Load:        gpu.LoadOpClear,
			Store:       gpu.StoreOpDontCare,
			InitLayout:  gpu.ImageLayoutUndefined,
			FinalLayout: gpu.ImageLayoutDepthAttach,
		}
	}

	if n.renderPass != "" {
		if err := ctx.Facade.DestroyRenderPass(ctx.Ctx, n.renderPass); err != nil {
			return err
		}
	}
	rp, err := ctx.Facade.CreateRenderPass(ctx.Ctx, desc)
	if err != nil {
		return err
	}
	n.renderPass = rp
	return nil
}

func (n *RenderPassNode) Execute(ctx *graph.ExecuteContext) error {
	ctx.SetOutput("render_pass", graph.Resource{Type: gpu.TypeRenderPass, Handle: n.renderPass, Name: "render_pass"})
	return nil
}

func (n *RenderPassNode) Cleanup() error {
	if n.facade == nil || n.renderPass == "" {
		return nil
	}
	err := n.facade.DestroyRenderPass(context.Background(), n.renderPass)
	n.renderPass = ""
	return err
}
