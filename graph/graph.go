package graph

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/galvanized/vixen/cache"
	"github.com/galvanized/vixen/gpu"
	"github.com/galvanized/vixen/internal/vixerr"
)

// Graph owns a set of Node Instances and their typed connections. It
// enforces structural invariants at Connect time and produces a
// deterministic execution order at Compile time.
type Graph struct {
	logger   *slog.Logger
	facade   gpu.Facade
	registry *cache.Registry

	mu sync.Mutex // serializes structural mutation and compile against concurrent RenderFrame

	types     map[string]*NodeType
	instances map[NodeHandle]*NodeInstance
	order     []NodeHandle // registration order, used for topo tie-breaking
	execOrder []NodeHandle // last computed execution order

	dependents map[NodeHandle][]NodeHandle // src -> nodes that read from it
	dependsOn  map[NodeHandle][]NodeHandle // dst -> nodes it reads from

	nextHandle NodeHandle
	executing  bool
}

// New builds an empty graph bound to facade and registry for resource
// creation and lookup during compile and execute.
func New(logger *slog.Logger, facade gpu.Facade, registry *cache.Registry) *Graph {
	return &Graph{
		logger:     logger,
		facade:     facade,
		registry:   registry,
		types:      make(map[string]*NodeType),
		instances:  make(map[NodeHandle]*NodeInstance),
		dependents: make(map[NodeHandle][]NodeHandle),
		dependsOn:  make(map[NodeHandle][]NodeHandle),
	}
}

// RegisterType makes a node type available for AddNode by name.
func (g *Graph) RegisterType(nt *NodeType) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.types[nt.Name] = nt
}

// AddNode instantiates a node of the named type, bound to device (empty
// string for device-independent nodes).
func (g *Graph) AddNode(typeName string, device cache.DeviceID) (NodeHandle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	nt, ok := g.types[typeName]
	if !ok {
		return 0, vixerr.New(vixerr.UnknownType, "unknown node type %q", typeName)
	}
	h := g.nextHandle
	g.nextHandle++
	inst := newNodeInstance(h, nt, g.logger)
	inst.Device = string(device)
	g.instances[h] = inst
	g.order = append(g.order, h)
	return h, nil
}

// NodeAt returns the instance for a handle.
func (g *Graph) NodeAt(h NodeHandle) (*NodeInstance, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	inst, ok := g.instances[h]
	return inst, ok
}

// ExecutionOrder returns the last computed topological execution order.
func (g *Graph) ExecutionOrder() []NodeHandle {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]NodeHandle, len(g.execOrder))
	copy(out, g.execOrder)
	return out
}

// SetParameter validates and stores a parameter value on a node instance.
func (g *Graph) SetParameter(h NodeHandle, name string, v gpu.ParamValue) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	inst, ok := g.instances[h]
	if !ok {
		return vixerr.New(vixerr.UnknownType, "no node %d", h)
	}
	idx := inst.Type.paramIndex(name)
	if idx < 0 {
		return vixerr.New(vixerr.ParameterMissing, "node %q has no parameter %q", inst.Type.Name, name)
	}
	if err := validateParamValue(inst.Type.Params[idx], v); err != nil {
		return err
	}
	inst.params[name] = v
	return nil
}

// Connect adds a typed edge from srcNode's output slot to dstNode's input
// slot, after validating the slots exist, their element types match, the
// destination isn't already singly connected, and the edge would not
// introduce a cycle.
func (g *Graph) Connect(srcNode NodeHandle, srcSlot string, dstNode NodeHandle, dstSlot string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	src, ok := g.instances[srcNode]
	if !ok {
		return vixerr.New(vixerr.UnknownType, "no node %d", srcNode)
	}
	dst, ok := g.instances[dstNode]
	if !ok {
		return vixerr.New(vixerr.UnknownType, "no node %d", dstNode)
	}

	srcIdx := src.Type.outputIndex(srcSlot)
	if srcIdx < 0 {
		return vixerr.New(vixerr.SlotOutOfRange, "node %q has no output %q", src.Type.Name, srcSlot)
	}
	dstIdx := dst.Type.inputIndex(dstSlot)
	if dstIdx < 0 {
		return vixerr.New(vixerr.SlotOutOfRange, "node %q has no input %q", dst.Type.Name, dstSlot)
	}

	srcDesc := src.Type.Outputs[srcIdx]
	dstDesc := dst.Type.Inputs[dstIdx]
	if srcDesc.Type != dstDesc.Type {
		return vixerr.New(vixerr.TypeMismatch, "connect %s.%s -> %s.%s: %s != %s",
			src.Type.Name, srcSlot, dst.Type.Name, dstSlot, srcDesc.Type, dstDesc.Type)
	}

	if dstDesc.Arity != ArityVariadic && len(dst.inboundFor(dstIdx)) > 0 {
		return vixerr.New(vixerr.InputAlreadyConnected, "%s.%s already connected", dst.Type.Name, dstSlot)
	}

	if g.reaches(srcNode, dstNode) {
		return vixerr.New(vixerr.WouldCycle, "connecting %s -> %s would create a cycle", src.Type.Name, dst.Type.Name)
	}

	conn := Connection{SrcNode: srcNode, SrcSlot: srcIdx, DstNode: dstNode, DstSlot: dstIdx}
	dst.inbound = append(dst.inbound, conn)
	g.dependsOn[dstNode] = append(g.dependsOn[dstNode], srcNode)
	g.dependents[srcNode] = append(g.dependents[srcNode], dstNode)

	if src.State == StateCreated {
		src.State = StateReady
	}
	if dst.State == StateCreated {
		dst.State = StateReady
	}
	return nil
}

// reaches reports whether there is a path from -> to following existing
// dependency edges (from depends on some chain ending at to).
func (g *Graph) reaches(from, to NodeHandle) bool {
	if from == to {
		return true
	}
	visited := map[NodeHandle]bool{from: true}
	stack := []NodeHandle{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.dependsOn[cur] {
			if next == to {
				return true
			}
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// Compile validates structure, propagates device affinity, computes
// execution order via Kahn's algorithm (registration order breaks ties
// among equally-ready nodes, for determinism), then invokes each dirty
// or never-compiled node's Compile in that order.
func (g *Graph) Compile(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.validateStructure(); err != nil {
		return err
	}
	g.propagateDeviceAffinity()

	order, err := g.topoSort()
	if err != nil {
		return err
	}
	g.execOrder = order

	for _, h := range order {
		inst := g.instances[h]
		if inst.State == StateCompiled || inst.State == StateExecuting || inst.State == StateComplete {
			continue
		}
		if inst.State == StateError {
			continue
		}
		cc := &CompileContext{
			Ctx:      ctx,
			Facade:   g.facade,
			Registry: g.registry,
			Device:   cache.DeviceID(inst.Device),
			Logger:   inst.Logger,
			self:     inst,
			graph:    g,
		}
		if err := inst.Impl.Compile(cc); err != nil {
			inst.State = StateError
			inst.lastErr = err
			return vixerr.Wrap(vixerr.CompileFailed, err, "node %q failed to compile", inst.Type.Name)
		}
		inst.State = StateCompiled
	}
	return nil
}

func (g *Graph) validateStructure() error {
	for _, h := range g.order {
		inst := g.instances[h]
		for idx, slot := range inst.Type.Inputs {
			conns := inst.inboundFor(idx)
			switch slot.Arity {
			case ArityVariadic:
				if len(conns) < slot.MinCount {
					return vixerr.New(vixerr.VariadicUnderflow, "%s.%s needs >= %d inputs, has %d",
						inst.Type.Name, slot.Name, slot.MinCount, len(conns))
				}
			default:
				if len(conns) == 0 && !slot.Nullable {
					return vixerr.New(vixerr.UnconnectedRequiredInput, "%s.%s is required and unconnected",
						inst.Type.Name, slot.Name)
				}
			}
		}
	}
	return nil
}

// propagateDeviceAffinity assigns a device to every node that doesn't
// already carry one explicitly, inheriting it from its dependencies; leaf
// device nodes are the source of the affinity that flows downstream.
func (g *Graph) propagateDeviceAffinity() {
	visited := make(map[NodeHandle]bool)
	var visit func(h NodeHandle)
	visit = func(h NodeHandle) {
		if visited[h] {
			return
		}
		visited[h] = true
		inst := g.instances[h]
		for _, dep := range g.dependsOn[h] {
			visit(dep)
			if inst.Device == "" {
				inst.Device = g.instances[dep].Device
			}
		}
	}
	for _, h := range g.order {
		visit(h)
	}
}

// topoSort computes a Kahn's-algorithm ordering. Among nodes whose
// in-degree has just reached zero in the same round, the node registered
// earliest (lowest handle) is scheduled first, keeping the order
// deterministic across repeated compiles of the same topology.
func (g *Graph) topoSort() ([]NodeHandle, error) {
	inDegree := make(map[NodeHandle]int, len(g.instances))
	for h := range g.instances {
		inDegree[h] = len(g.dependsOn[h])
	}

	var ready []NodeHandle
	for _, h := range g.order {
		if inDegree[h] == 0 {
			ready = append(ready, h)
		}
	}

	var result []NodeHandle
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		next := ready
		ready = nil
		for _, h := range next {
			result = append(result, h)
			for _, dep := range g.dependents[h] {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					ready = append(ready, dep)
				}
			}
		}
	}

	if len(result) != len(g.instances) {
		return nil, vixerr.New(vixerr.WouldCycle, "graph contains a cycle: only %d of %d nodes are orderable", len(result), len(g.instances))
	}
	return result, nil
}

// MarkDirty transitions h and every transitively dependent node to
// StateDirty, so the next Compile recompiles the affected subgraph.
func (g *Graph) MarkDirty(h NodeHandle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.markDirtyLocked(h)
}

func (g *Graph) markDirtyLocked(h NodeHandle) {
	inst, ok := g.instances[h]
	if !ok || inst.State == StateDirty {
		return
	}
	inst.State = StateDirty
	for _, dep := range g.dependents[h] {
		g.markDirtyLocked(dep)
	}
}

// Destroy waits for device idle and then runs Cleanup on every node, in
// reverse execution order, so consuming nodes tear down before the
// resources they depend on.
func (g *Graph) Destroy(ctx context.Context, devices []gpu.Handle) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, d := range devices {
		if err := g.facade.WaitIdle(ctx, d); err != nil {
			g.logger.Error("wait idle before destroy failed", "device", d, "err", err)
		}
	}

	var firstErr error
	for i := len(g.execOrder) - 1; i >= 0; i-- {
		inst := g.instances[g.execOrder[i]]
		if err := inst.Impl.Cleanup(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Executing reports whether a RenderFrame is currently in flight on this
// graph, enforcing the single-reader-per-graph invariant.
func (g *Graph) Executing() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.executing
}

// BeginFrame marks the graph as having one outstanding RenderFrame. It
// fails if a frame is already in flight, enforcing single-reader-per-graph.
func (g *Graph) BeginFrame() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.executing {
		return vixerr.New(vixerr.NodeExecutionFailed, "graph already has an outstanding RenderFrame")
	}
	g.executing = true
	return nil
}

// EndFrame clears the outstanding-frame flag set by BeginFrame.
func (g *Graph) EndFrame() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.executing = false
}

// InstanceAt returns the node instance for h without copying, for use by
// the executor when invoking Execute in order.
func (g *Graph) InstanceAt(h NodeHandle) *NodeInstance {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.instances[h]
}

// Facade returns the GPU facade this graph was constructed with.
func (g *Graph) Facade() gpu.Facade { return g.facade }

// Registry returns the resource cache registry this graph was constructed with.
func (g *Graph) Registry() *cache.Registry { return g.registry }

// Logger returns the graph's logger.
func (g *Graph) Logger() *slog.Logger { return g.logger }

// ExecuteNode runs one compiled node's Execute, transitioning it through
// Executing -> Complete on success or Error on failure. presentResult, if
// non-nil, receives any present outcome the node reports.
func (g *Graph) ExecuteNode(ctx context.Context, frameID uint64, h NodeHandle, presentResult *gpu.PresentResult) error {
	g.mu.Lock()
	inst, ok := g.instances[h]
	if !ok {
		g.mu.Unlock()
		return vixerr.New(vixerr.UnknownType, "no node %d", h)
	}
	if inst.State != StateCompiled {
		g.mu.Unlock()
		return nil
	}
	inst.State = StateExecuting
	device := inst.Device
	logger := inst.Logger
	g.mu.Unlock()

	ec := &ExecuteContext{
		Ctx:           ctx,
		Facade:        g.facade,
		Registry:      g.registry,
		Device:        cache.DeviceID(device),
		Logger:        logger,
		FrameID:       frameID,
		self:          inst,
		graph:         g,
		presentResult: presentResult,
	}

	err := inst.Impl.Execute(ec)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		inst.State = StateError
		inst.lastErr = err
		return vixerr.Wrap(vixerr.NodeExecutionFailed, err, "node %q failed to execute", inst.Type.Name)
	}
	inst.State = StateComplete
	return nil
}

// HasDirty reports whether any node is currently in StateDirty.
func (g *Graph) HasDirty() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, inst := range g.instances {
		if inst.State == StateDirty {
			return true
		}
	}
	return false
}
