package nodes

import (
	"context"

	"github.com/galvanized/vixen/gpu"
	"github.com/galvanized/vixen/graph"
)

// CommandPoolType describes the command-pool node: owns a command pool
// and a single command buffer allocated from it, scoped to one queue
// family per the kernel's one-pool-per-queue-family-per-node contract.
var CommandPoolType = &graph.NodeType{
	Name: "CommandPool",
	Inputs: []graph.SlotDescriptor{
		{Name: "device", Type: gpu.TypeDevice, Arity: graph.ArityOne},
	},
	Outputs: []graph.SlotDescriptor{
		{Name: "command_buffer", Type: gpu.TypeCommandBuffer},
	},
	Params: []graph.ParameterDescriptor{
		{Name: "queue_family", Type: gpu.TypeU32, Required: true, Default: gpu.ParamU32(0)},
	},
	New: func() graph.Node { return &CommandPoolNode{} },
}

// CommandPoolNode owns its command pool and one primary command buffer,
// per the contract that each node owns its own pool and buffers for its
// queue family rather than borrowing the executor's.
type CommandPoolNode struct {
	facade gpu.Facade

	pool gpu.Handle
	cb   gpu.Handle
}

func (n *CommandPoolNode) Compile(ctx *graph.CompileContext) error {
	n.facade = ctx.Facade
	qf, _ := ctx.Param("queue_family")

	if n.pool == "" {
		pool, err := ctx.Facade.CreateCommandPool(ctx.Ctx, qf.U32)
		if err != nil {
			return err
		}
		n.pool = pool
		cb, err := ctx.Facade.AllocateCommandBuffer(ctx.Ctx, pool)
		if err != nil {
			return err
		}
		n.cb = cb
	}
	return nil
}

func (n *CommandPoolNode) Execute(ctx *graph.ExecuteContext) error {
	ctx.SetOutput("command_buffer", graph.Resource{Type: gpu.TypeCommandBuffer, Handle: n.cb, Name: "command_buffer"})
	return nil
}

func (n *CommandPoolNode) Cleanup() error {
	if n.facade == nil || n.pool == "" {
		return nil
	}
	err := n.facade.DestroyCommandPool(context.Background(), n.pool)
	n.pool, n.cb = "", ""
	return err
}
