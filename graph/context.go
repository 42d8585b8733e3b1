package graph

import (
	"context"
	"log/slog"

	"github.com/galvanized/vixen/cache"
	"github.com/galvanized/vixen/gpu"
)

// CompileContext is the capability set a Node's Compile method receives:
// access to its own parameters and inbound resources, the GPU facade, the
// resource cache registry, its device affinity and its logger.
type CompileContext struct {
	Ctx      context.Context
	Facade   gpu.Facade
	Registry *cache.Registry
	Device   cache.DeviceID
	Logger   *slog.Logger

	self  *NodeInstance
	graph *Graph
}

// Param returns the node's current value for a named parameter.
func (c *CompileContext) Param(name string) (gpu.ParamValue, bool) { return c.self.Param(name) }

// Input returns the resource connected to the named input slot. For a
// non-variadic slot it returns the single connected resource, if any.
func (c *CompileContext) Input(slotName string) (Resource, bool) {
	idx := c.self.Type.inputIndex(slotName)
	if idx < 0 {
		return Resource{}, false
	}
	conns := c.self.inboundFor(idx)
	if len(conns) == 0 {
		return Resource{}, false
	}
	src := c.graph.instances[conns[0].SrcNode]
	return src.Output(conns[0].SrcSlot)
}

// Inputs returns every resource connected to a variadic input slot, in
// connection order.
func (c *CompileContext) Inputs(slotName string) []Resource {
	idx := c.self.Type.inputIndex(slotName)
	if idx < 0 {
		return nil
	}
	conns := c.self.inboundFor(idx)
	out := make([]Resource, 0, len(conns))
	for _, conn := range conns {
		src := c.graph.instances[conn.SrcNode]
		if r, ok := src.Output(conn.SrcSlot); ok {
			out = append(out, r)
		}
	}
	return out
}

// SetOutput records the resource produced at the named output slot.
func (c *CompileContext) SetOutput(slotName string, r Resource) {
	idx := c.self.Type.outputIndex(slotName)
	if idx < 0 {
		return
	}
	c.self.setOutput(idx, r)
}

// ExecuteContext is the capability set a Node's Execute method receives
// during RenderFrame: the same facade and cache access as compile time,
// plus the ability to report a present result back to the executor.
type ExecuteContext struct {
	Ctx      context.Context
	Facade   gpu.Facade
	Registry *cache.Registry
	Device   cache.DeviceID
	Logger   *slog.Logger
	FrameID  uint64

	self         *NodeInstance
	graph        *Graph
	presentResult *gpu.PresentResult
}

// Param returns the node's current value for a named parameter.
func (c *ExecuteContext) Param(name string) (gpu.ParamValue, bool) { return c.self.Param(name) }

// Input returns the resource connected to the named input slot.
func (c *ExecuteContext) Input(slotName string) (Resource, bool) {
	idx := c.self.Type.inputIndex(slotName)
	if idx < 0 {
		return Resource{}, false
	}
	conns := c.self.inboundFor(idx)
	if len(conns) == 0 {
		return Resource{}, false
	}
	src := c.graph.instances[conns[0].SrcNode]
	return src.Output(conns[0].SrcSlot)
}

// Inputs returns every resource connected to a variadic input slot.
func (c *ExecuteContext) Inputs(slotName string) []Resource {
	idx := c.self.Type.inputIndex(slotName)
	if idx < 0 {
		return nil
	}
	conns := c.self.inboundFor(idx)
	out := make([]Resource, 0, len(conns))
	for _, conn := range conns {
		src := c.graph.instances[conn.SrcNode]
		if r, ok := src.Output(conn.SrcSlot); ok {
			out = append(out, r)
		}
	}
	return out
}

// SetOutput records the resource produced at the named output slot.
func (c *ExecuteContext) SetOutput(slotName string, r Resource) {
	idx := c.self.Type.outputIndex(slotName)
	if idx < 0 {
		return
	}
	c.self.setOutput(idx, r)
}

// SetPresentResult is how a presenting node (the terminal node in the S1
// pipeline) reports the outcome of its present call back to the
// executor, which decides whether to trigger a swapchain recompile.
func (c *ExecuteContext) SetPresentResult(r gpu.PresentResult) {
	if c.presentResult != nil {
		*c.presentResult = r
	}
}
