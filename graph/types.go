// Package graph implements the node type system, graph topology,
// compilation pipeline and invalidation propagation: typed slots and
// connections, dependency analysis, a deterministic topological
// execution order, and dirty-subgraph recompilation.
package graph

import (
	"github.com/galvanized/vixen/gpu"
	"github.com/galvanized/vixen/internal/vixerr"
)

// Arity is a slot group's connection cardinality mode.
type Arity int

const (
	ArityUnset Arity = iota
	ArityOne
	ArityVariadic
)

// SlotDescriptor describes one input or output slot on a Node Type.
type SlotDescriptor struct {
	Name     string
	Type     gpu.TypeTag
	Nullable bool
	Arity    Arity
	MinCount int // meaningful only when Arity == ArityVariadic
}

// ParameterDescriptor describes one static parameter on a Node Type.
type ParameterDescriptor struct {
	Name     string
	Type     gpu.TypeTag
	Required bool
	Default  gpu.ParamValue
}

// NodeState is one of the finite set of states a Node Instance passes
// through over its lifetime.
type NodeState int

const (
	StateCreated NodeState = iota
	StateReady
	StateCompiled
	StateExecuting
	StateComplete
	StateDirty
	StateError
)

func (s NodeState) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateReady:
		return "Ready"
	case StateCompiled:
		return "Compiled"
	case StateExecuting:
		return "Executing"
	case StateComplete:
		return "Complete"
	case StateDirty:
		return "Dirty"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Node is the behavior contract every concrete node type implements.
// Lifecycle state, parameters and outputs live in the owning NodeInstance;
// a Node keeps only its own native handles and per-frame bookkeeping.
type Node interface {
	// Compile allocates or refreshes whatever GPU resources this node
	// owns, given the validated parameters and resolved input resources.
	Compile(ctx *CompileContext) error
	// Execute performs this node's per-frame work: acquire, record,
	// submit and/or present, as appropriate to its role.
	Execute(ctx *ExecuteContext) error
	// Cleanup releases every GPU resource this node owns. It must be
	// idempotent and safe to call on a node that never compiled.
	Cleanup() error
}

// Factory produces a fresh Node for one Node Instance.
type Factory func() Node

// NodeType is the static, compile-time description of a kind of node:
// its slots, parameters, input arity and factory.
type NodeType struct {
	Name    string
	Inputs  []SlotDescriptor
	Outputs []SlotDescriptor
	Params  []ParameterDescriptor
	New     Factory
}

func (nt *NodeType) inputIndex(name string) int {
	for i, s := range nt.Inputs {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func (nt *NodeType) outputIndex(name string) int {
	for i, s := range nt.Outputs {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func (nt *NodeType) paramIndex(name string) int {
	for i, p := range nt.Params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func cloneDefault(pd ParameterDescriptor) gpu.ParamValue { return pd.Default }

// validateParamValue confirms v's Type matches pd's declared Type.
func validateParamValue(pd ParameterDescriptor, v gpu.ParamValue) error {
	if v.Type != pd.Type {
		return vixerr.New(vixerr.ParameterTypeMismatch, "parameter %q: want %s, got %s", pd.Name, pd.Type, v.Type)
	}
	return nil
}
