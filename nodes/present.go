package nodes

import (
	"github.com/galvanized/vixen/gpu"
	"github.com/galvanized/vixen/graph"
)

// PresentType describes the present node: the mandatory terminus of any
// pipeline that renders to a swapchain. It consumes the swapchain, the
// acquired image index and the render-complete semaphore, and reports
// the present result code back to the executor.
var PresentType = &graph.NodeType{
	Name: "Present",
	Inputs: []graph.SlotDescriptor{
		{Name: "swapchain", Type: gpu.TypeSwapchain, Arity: graph.ArityOne},
		{Name: "image_index", Type: gpu.TypeU32, Arity: graph.ArityOne},
		{Name: "wait_semaphore", Type: gpu.TypeSemaphore, Arity: graph.ArityOne},
	},
	Outputs: []graph.SlotDescriptor{
		{Name: "present_result", Type: gpu.TypePresentResult},
	},
	Params: []graph.ParameterDescriptor{
		{Name: "queue_handle", Type: gpu.TypeString, Required: true, Default: gpu.ParamString("")},
	},
	New: func() graph.Node { return &PresentNode{} },
}

// PresentNode owns no GPU resources; it issues the present call and
// forwards the result code to the executor through SetPresentResult, the
// prescribed pattern for any pipeline rendering to a swapchain.
type PresentNode struct {
	queue gpu.Handle
}

func (n *PresentNode) Compile(ctx *graph.CompileContext) error {
	q, _ := ctx.Param("queue_handle")
	n.queue = gpu.Handle(q.Str)
	return nil
}

func (n *PresentNode) Execute(ctx *graph.ExecuteContext) error {
	sc, _ := ctx.Input("swapchain")
	imageIdx, _ := ctx.Input("image_index")
	wait, _ := ctx.Input("wait_semaphore")

	result, err := ctx.Facade.Present(ctx.Ctx, n.queue, sc.Handle, handleToUint32(imageIdx.Handle), []gpu.Handle{wait.Handle})
	if err != nil {
		return err
	}
	ctx.SetPresentResult(result)
	return nil
}

func (n *PresentNode) Cleanup() error { return nil }
