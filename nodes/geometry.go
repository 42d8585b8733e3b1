package nodes

import (
	"context"

	"github.com/galvanized/vixen/cache"
	"github.com/galvanized/vixen/gpu"
	"github.com/galvanized/vixen/graph"
	"github.com/galvanized/vixen/internal/vixerr"
)

// GeometryRenderType describes the geometry-record-and-submit node: it
// records a render pass into its own command buffer, binds a cached
// graphics pipeline, draws, and submits signaling render-complete.
var GeometryRenderType = &graph.NodeType{
	Name: "GeometryRender",
	Inputs: []graph.SlotDescriptor{
		{Name: "device", Type: gpu.TypeDevice, Arity: graph.ArityOne},
		{Name: "command_buffer", Type: gpu.TypeCommandBuffer, Arity: graph.ArityOne},
		{Name: "render_pass", Type: gpu.TypeRenderPass, Arity: graph.ArityOne},
		{Name: "framebuffer", Type: gpu.TypeFramebuffer, Arity: graph.ArityOne},
		{Name: "image_available", Type: gpu.TypeSemaphore, Arity: graph.ArityOne},
		{Name: "render_complete", Type: gpu.TypeSemaphore, Arity: graph.ArityOne},
	},
	Outputs: []graph.SlotDescriptor{
		{Name: "render_complete_out", Type: gpu.TypeSemaphore},
	},
	Params: []graph.ParameterDescriptor{
		{Name: "vertex_shader", Type: gpu.TypeString, Required: true, Default: gpu.ParamString("")},
		{Name: "fragment_shader", Type: gpu.TypeString, Required: true, Default: gpu.ParamString("")},
		{Name: "vertex_count", Type: gpu.TypeU32, Required: true, Default: gpu.ParamU32(3)},
		{Name: "width", Type: gpu.TypeU32, Required: true, Default: gpu.ParamU32(0)},
		{Name: "height", Type: gpu.TypeU32, Required: true, Default: gpu.ParamU32(0)},
	},
	New: func() graph.Node { return &GeometryRenderNode{} },
}

// pipelineKey is the content-hashed creation parameter for the pipeline
// cacher this node shares with every other geometry node on the device.
// It carries everything CreateGraphicsPipeline needs so the cacher's
// create callback depends only on k, never on a particular node
// instance's fields.
type pipelineKey struct {
	vsModule, fsModule, renderPass, layout gpu.Handle
}

func hashPipelineKey(k pipelineKey) uint64 {
	return cache.NewHasher().
		WriteString(string(k.vsModule)).
		WriteString(string(k.fsModule)).
		WriteString(string(k.renderPass)).
		WriteString(string(k.layout)).
		Sum64()
}

// GeometryRenderNode owns a queue submission: it records into the command
// buffer supplied by its CommandPool dependency, binds a pipeline shared
// through the device's pipeline cacher, draws, and submits waiting on
// image-available and signaling render-complete.
type GeometryRenderNode struct {
	facade gpu.Facade

	device      gpu.Handle
	cb          gpu.Handle
	pipeline    gpu.Handle
	layout      gpu.Handle
	vsModule    gpu.Handle
	fsModule    gpu.Handle
	renderPass  gpu.Handle
	queue       gpu.Handle
	vertexCount uint32
}

func (n *GeometryRenderNode) Compile(ctx *graph.CompileContext) error {
	n.facade = ctx.Facade
	dev, _ := ctx.Input("device")
	rp, _ := ctx.Input("render_pass")
	n.device = dev.Handle
	n.renderPass = rp.Handle

	vs, _ := ctx.Param("vertex_shader")
	fs, _ := ctx.Param("fragment_shader")
	vc, _ := ctx.Param("vertex_count")
	n.vertexCount = vc.U32
	n.queue = dev.Handle // single-queue-family host; the facade resolves the real queue
	ctx.Logger.Debug("compiling geometry pipeline", "vertex_shader", vs.Str, "fragment_shader", fs.Str)

	layoutDesc := gpu.PipelineLayoutDescriptor{}
	layout, err := ctx.Facade.CreatePipelineLayout(ctx.Ctx, layoutDesc)
	if err != nil {
		return err
	}
	n.layout = layout

	vsModule, err := ctx.Facade.CreateShaderModule(ctx.Ctx, nil)
	if err != nil {
		return err
	}
	n.vsModule = vsModule
	fsModule, err := ctx.Facade.CreateShaderModule(ctx.Ctx, nil)
	if err != nil {
		return err
	}
	n.fsModule = fsModule

	facade := ctx.Facade
	cacher, err := ctx.Registry.GetDeviceCacher("pipeline", ctx.Device)
	if err != nil {
		typed := cache.NewTypedCache(
			"pipeline",
			hashPipelineKey,
			func(k pipelineKey) (gpu.Handle, error) {
				return facade.CreateGraphicsPipeline(ctx.Ctx, gpu.GraphicsPipelineDescriptor{
					VertexShader:   k.vsModule,
					FragmentShader: k.fsModule,
					Layout:         k.layout,
					RenderPass:     k.renderPass,
				})
			},
			func(h gpu.Handle) error { return facade.DestroyPipeline(ctx.Ctx, h) },
		)
		if regErr := ctx.Registry.RegisterCacher("pipeline", "graphics_pipeline", ctx.Device, true, typed); regErr != nil {
			return regErr
		}
		cacher, err = ctx.Registry.GetDeviceCacher("pipeline", ctx.Device)
		if err != nil {
			return err
		}
	}

	typed, ok := cacher.(*cache.TypedCache[pipelineKey, gpu.Handle])
	if !ok {
		return vixerr.New(vixerr.ResourceCreationFailed, "pipeline cacher for device %q has unexpected type", ctx.Device)
	}
	pipeline, err := typed.GetOrCreate(pipelineKey{
		vsModule:   n.vsModule,
		fsModule:   n.fsModule,
		renderPass: n.renderPass,
		layout:     n.layout,
	})
	if err != nil {
		return err
	}
	n.pipeline = pipeline
	return nil
}

func (n *GeometryRenderNode) Execute(ctx *graph.ExecuteContext) error {
	cb, _ := ctx.Input("command_buffer")
	fb, _ := ctx.Input("framebuffer")
	imageAvailable, _ := ctx.Input("image_available")
	renderComplete, _ := ctx.Input("render_complete")
	n.cb = cb.Handle

	w, _ := ctx.Param("width")
	h, _ := ctx.Param("height")
	extent := gpu.Extent{Width: w.U32, Height: h.U32}

	if err := ctx.Facade.BeginCommandBuffer(ctx.Ctx, n.cb); err != nil {
		return err
	}
	if err := ctx.Facade.BeginRenderPass(ctx.Ctx, n.cb, n.renderPass, fb.Handle, extent); err != nil {
		return err
	}
	if err := ctx.Facade.BindPipeline(ctx.Ctx, n.cb, n.pipeline); err != nil {
		return err
	}
	if err := ctx.Facade.Draw(ctx.Ctx, n.cb, n.vertexCount, 1); err != nil {
		return err
	}
	if err := ctx.Facade.EndRenderPass(ctx.Ctx, n.cb); err != nil {
		return err
	}
	if err := ctx.Facade.EndCommandBuffer(ctx.Ctx, n.cb); err != nil {
		return err
	}

	if err := ctx.Facade.SubmitCommandBuffer(ctx.Ctx, n.queue, n.cb,
		[]gpu.Handle{imageAvailable.Handle}, []gpu.Handle{renderComplete.Handle}, ""); err != nil {
		return err
	}

	ctx.SetOutput("render_complete_out", graph.Resource{Type: gpu.TypeSemaphore, Handle: renderComplete.Handle, Name: "render_complete_out"})
	return nil
}

// Cleanup destroys the per-node pipeline layout and shader modules it
// created directly; the pipeline itself is owned by the device's shared
// pipeline cacher and is destroyed through ClearDeviceCaches instead.
func (n *GeometryRenderNode) Cleanup() error {
	if n.facade == nil {
		return nil
	}
	var firstErr error
	ctx := context.Background()
	if n.layout != "" {
		if err := n.facade.DestroyPipelineLayout(ctx, n.layout); err != nil {
			firstErr = err
		}
		n.layout = ""
	}
	if n.vsModule != "" {
		if err := n.facade.DestroyShaderModule(ctx, n.vsModule); err != nil && firstErr == nil {
			firstErr = err
		}
		n.vsModule = ""
	}
	if n.fsModule != "" {
		if err := n.facade.DestroyShaderModule(ctx, n.fsModule); err != nil && firstErr == nil {
			firstErr = err
		}
		n.fsModule = ""
	}
	return firstErr
}
