package nodes

import (
	"context"

	"github.com/galvanized/vixen/gpu"
	"github.com/galvanized/vixen/graph"
)

// FrameSyncType describes the frame-sync node: owns the render-complete
// semaphore and the in-flight fence pair consumed by the present node and
// waited on before recording the next frame's commands.
var FrameSyncType = &graph.NodeType{
	Name: "FrameSync",
	Inputs: []graph.SlotDescriptor{
		{Name: "device", Type: gpu.TypeDevice, Arity: graph.ArityOne},
	},
	Outputs: []graph.SlotDescriptor{
		{Name: "render_complete", Type: gpu.TypeSemaphore},
		{Name: "in_flight", Type: gpu.TypeFence},
	},
	New: func() graph.Node { return &FrameSyncNode{} },
}

// FrameSyncNode owns one semaphore/fence pair for the frame; Execute
// waits on the previous frame's fence before handing out the pair again,
// matching a single-frame-in-flight synchronization scheme.
type FrameSyncNode struct {
	facade gpu.Facade
	device gpu.Handle

	renderComplete gpu.Handle
	inFlight       gpu.Handle
	firstFrame     bool
}

func (n *FrameSyncNode) Compile(ctx *graph.CompileContext) error {
	n.facade = ctx.Facade
	dev, _ := ctx.Input("device")
	n.device = dev.Handle

	if n.renderComplete == "" {
		sem, err := ctx.Facade.CreateSemaphore(ctx.Ctx)
		if err != nil {
			return err
		}
		n.renderComplete = sem
	}
	if n.inFlight == "" {
		fence, err := ctx.Facade.CreateFence(ctx.Ctx, true)
		if err != nil {
			return err
		}
		n.inFlight = fence
		n.firstFrame = true
	}
	return nil
}

func (n *FrameSyncNode) Execute(ctx *graph.ExecuteContext) error {
	if !n.firstFrame {
		if err := ctx.Facade.WaitForFence(ctx.Ctx, n.inFlight); err != nil {
			return err
		}
	}
	n.firstFrame = false
	if err := ctx.Facade.ResetFence(ctx.Ctx, n.inFlight); err != nil {
		return err
	}

	ctx.SetOutput("render_complete", graph.Resource{Type: gpu.TypeSemaphore, Handle: n.renderComplete, Name: "render_complete"})
	ctx.SetOutput("in_flight", graph.Resource{Type: gpu.TypeFence, Handle: n.inFlight, Name: "in_flight"})
	return nil
}

func (n *FrameSyncNode) Cleanup() error {
	if n.facade == nil {
		return nil
	}
	var firstErr error
	if n.renderComplete != "" {
		if err := n.facade.DestroySemaphore(context.Background(), n.renderComplete); err != nil {
			firstErr = err
		}
		n.renderComplete = ""
	}
	if n.inFlight != "" {
		if err := n.facade.DestroyFence(context.Background(), n.inFlight); err != nil && firstErr == nil {
			firstErr = err
		}
		n.inFlight = ""
	}
	return firstErr
}
