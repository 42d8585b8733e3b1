package graph

import (
	"log/slog"

	"github.com/galvanized/vixen/gpu"
)

// NodeHandle identifies a Node Instance within one Graph.
type NodeHandle uint32

// Resource is a type-erased carrier for a GPU handle or CPU-side value
// produced by exactly one owner node; other nodes look it up through the
// graph rather than holding ownership.
type Resource struct {
	Type   gpu.TypeTag
	Handle gpu.Handle
	Name   string
	Intent string
}

// Connection records one typed edge: the producing node/output slot and
// the consuming node/input slot.
type Connection struct {
	SrcNode NodeHandle
	SrcSlot int
	DstNode NodeHandle
	DstSlot int
}

// NodeInstance is one live node owned by exactly one Graph. It borrows
// its NodeType and Node behavior; all mutable state (parameters,
// connections, produced resources, lifecycle state) lives here.
type NodeInstance struct {
	Handle NodeHandle
	Type   *NodeType
	Impl   Node
	Logger *slog.Logger

	State  NodeState
	Device string

	params   map[string]gpu.ParamValue
	inbound  []Connection // one entry per Connect call, in call order; inboundFor filters by dst slot
	outputs  map[int]Resource
	lastErr  error
}

func newNodeInstance(handle NodeHandle, nt *NodeType, logger *slog.Logger) *NodeInstance {
	params := make(map[string]gpu.ParamValue, len(nt.Params))
	for _, pd := range nt.Params {
		params[pd.Name] = cloneDefault(pd)
	}
	return &NodeInstance{
		Handle:  handle,
		Type:    nt,
		Impl:    nt.New(),
		Logger:  logger.With("node", nt.Name, "handle", handle),
		State:   StateCreated,
		params:  params,
		outputs: make(map[int]Resource),
	}
}

// Param returns the current value of a named parameter.
func (n *NodeInstance) Param(name string) (gpu.ParamValue, bool) {
	v, ok := n.params[name]
	return v, ok
}

// Output returns the resource produced at the given output slot, if the
// node's Compile or Execute has set one.
func (n *NodeInstance) Output(slot int) (Resource, bool) {
	r, ok := n.outputs[slot]
	return r, ok
}

// setOutput records the resource this node produced at slot; called by
// the node's own Compile or Execute through CompileContext.SetOutput or
// ExecuteContext.SetOutput.
func (n *NodeInstance) setOutput(slot int, r Resource) {
	n.outputs[slot] = r
}

func (n *NodeInstance) inboundFor(dstSlot int) []Connection {
	var out []Connection
	for _, c := range n.inbound {
		if c.DstSlot == dstSlot {
			out = append(out, c)
		}
	}
	return out
}
