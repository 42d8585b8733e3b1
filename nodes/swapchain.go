package nodes

import (
	"context"

	"github.com/galvanized/vixen/gpu"
	"github.com/galvanized/vixen/graph"
)

// SwapchainType describes the swapchain node: consumes a device and a
// window, produces a swapchain handle plus the acquired image index and
// image-available semaphore each frame.
var SwapchainType = &graph.NodeType{
	Name: "Swapchain",
	Inputs: []graph.SlotDescriptor{
		{Name: "device", Type: gpu.TypeDevice, Arity: graph.ArityOne},
		{Name: "window", Type: gpu.TypeWindow, Arity: graph.ArityOne},
	},
	Outputs: []graph.SlotDescriptor{
		{Name: "swapchain", Type: gpu.TypeSwapchain},
		{Name: "image_index", Type: gpu.TypeU32},
		{Name: "image_available", Type: gpu.TypeSemaphore},
	},
	Params: []graph.ParameterDescriptor{
		{Name: "width", Type: gpu.TypeU32, Required: true, Default: gpu.ParamU32(0)},
		{Name: "height", Type: gpu.TypeU32, Required: true, Default: gpu.ParamU32(0)},
		{Name: "format", Type: gpu.TypeString, Required: true, Default: gpu.ParamString("")},
		{Name: "present_mode", Type: gpu.TypeString, Required: false, Default: gpu.ParamString("fifo")},
	},
	New: func() graph.Node { return &SwapchainNode{} },
}

// SwapchainNode owns the swapchain handle and its image-available
// semaphore. The swapchain is recreated whenever WindowResized marks the
// node dirty; the semaphore is created once and kept across recompiles.
type SwapchainNode struct {
	facade gpu.Facade

	device    gpu.Handle
	window    gpu.Handle
	swapchain gpu.Handle
	semaphore gpu.Handle
	extent    gpu.Extent
	imageIdx  uint32
}

func (n *SwapchainNode) Compile(ctx *graph.CompileContext) error {
	n.facade = ctx.Facade

	dev, _ := ctx.Input("device")
	win, _ := ctx.Input("window")
	n.device = dev.Handle
	n.window = win.Handle

	w, _ := ctx.Param("width")
	h, _ := ctx.Param("height")
	format, _ := ctx.Param("format")
	mode, _ := ctx.Param("present_mode")
	n.extent = gpu.Extent{Width: w.U32, Height: h.U32}

	if n.swapchain != "" {
		if err := ctx.Facade.DestroySwapchain(ctx.Ctx, n.swapchain); err != nil {
			return err
		}
	}
	if n.semaphore == "" {
		sem, err := ctx.Facade.CreateSemaphore(ctx.Ctx)
		if err != nil {
			return err
		}
		n.semaphore = sem
	}

	sc, _, err := ctx.Facade.CreateSwapchain(ctx.Ctx, n.device, n.window, n.extent, gpu.Format(format.Str), gpu.PresentMode(mode.Str))
	if err != nil {
		return err
	}
	n.swapchain = sc
	return nil
}

func (n *SwapchainNode) Execute(ctx *graph.ExecuteContext) error {
	idx, result, err := ctx.Facade.AcquireNextImage(ctx.Ctx, n.swapchain, n.semaphore)
	if err != nil {
		return err
	}
	n.imageIdx = idx

	ctx.SetOutput("swapchain", graph.Resource{Type: gpu.TypeSwapchain, Handle: n.swapchain, Name: "swapchain"})
	ctx.SetOutput("image_index", graph.Resource{Type: gpu.TypeU32, Handle: uint32ToHandle(idx), Name: "image_index"})
	ctx.SetOutput("image_available", graph.Resource{Type: gpu.TypeSemaphore, Handle: n.semaphore, Name: "image_available"})

	if result == gpu.AcquireOutOfDate {
		ctx.SetPresentResult(gpu.PresentOutOfDate)
	}
	return nil
}

// ImageIndex returns the last acquired swapchain image index, for nodes
// downstream that can't carry it through the typed Resource carrier.
func (n *SwapchainNode) ImageIndex() uint32 { return n.imageIdx }

func (n *SwapchainNode) Cleanup() error {
	if n.swapchain == "" || n.facade == nil {
		return nil
	}
	if err := n.facade.DestroySwapchain(context.Background(), n.swapchain); err != nil {
		return err
	}
	n.swapchain = ""
	return nil
}
