// Package exec implements the frame executor: per-frame orchestration
// over a compiled graph honoring suspension, device-sync requests and
// invalidation cascades delivered over the bus.
package exec

import (
	"context"
	"log/slog"
	"time"

	"github.com/galvanized/vixen/bus"
	"github.com/galvanized/vixen/gpu"
	"github.com/galvanized/vixen/graph"
	"github.com/galvanized/vixen/internal/vixerr"
)

// FrameResult is the aggregate outcome of one RenderFrame call.
type FrameResult struct {
	FrameID       uint64
	PresentResult gpu.PresentResult
	Skipped       bool // true if the frame was skipped due to pause
}

// Executor drives one Graph's RenderFrame protocol, subscribing to the
// bus for pause, device-sync and invalidation messages.
type Executor struct {
	logger *slog.Logger
	bus    *bus.Bus
	graph  *graph.Graph
	facade gpu.Facade

	paused  bool
	frameID uint64

	swapchainNode *graph.NodeHandle
	pipelineNodesByShader map[string][]graph.NodeHandle
}

// New builds an executor bound to g, subscribing to the control messages
// the per-frame protocol reacts to.
func New(logger *slog.Logger, b *bus.Bus, g *graph.Graph) *Executor {
	e := &Executor{
		logger:                logger,
		bus:                   b,
		graph:                 g,
		facade:                g.Facade(),
		pipelineNodesByShader: make(map[string][]graph.NodeHandle),
	}
	b.Subscribe(bus.TypeRenderPause, e.onRenderPause)
	b.Subscribe(bus.TypeDeviceSyncRequested, e.onDeviceSyncRequested)
	b.Subscribe(bus.TypeWindowResized, e.onWindowResized)
	b.Subscribe(bus.TypeShaderReloaded, e.onShaderReloaded)
	return e
}

// SetSwapchainNode records which node to mark dirty on WindowResized.
func (e *Executor) SetSwapchainNode(h graph.NodeHandle) {
	e.swapchainNode = &h
}

// RegisterPipelineShader associates a pipeline node with a shader path so
// a ShaderReloaded for that path marks it dirty.
func (e *Executor) RegisterPipelineShader(path string, h graph.NodeHandle) {
	e.pipelineNodesByShader[path] = append(e.pipelineNodesByShader[path], h)
}

func (e *Executor) onRenderPause(msg bus.Message) {
	p, ok := msg.Payload.(bus.RenderPause)
	if !ok {
		return
	}
	switch p.Action {
	case bus.PauseStart:
		e.paused = true
		e.logger.Info("render paused", "reason", p.Reason)
	case bus.PauseEnd:
		e.paused = false
		e.logger.Info("render resumed")
	}
}

func (e *Executor) onWindowResized(msg bus.Message) {
	if e.swapchainNode != nil {
		e.graph.MarkDirty(*e.swapchainNode)
	}
}

func (e *Executor) onShaderReloaded(msg bus.Message) {
	p, ok := msg.Payload.(bus.ShaderReloaded)
	if !ok {
		return
	}
	for _, h := range e.pipelineNodesByShader[p.Path] {
		e.graph.MarkDirty(h)
	}
}

func (e *Executor) onDeviceSyncRequested(msg bus.Message) {
	p, ok := msg.Payload.(bus.DeviceSyncRequested)
	if !ok {
		return
	}
	start := time.Now()
	devices := make([]gpu.Handle, 0, len(p.Devices))
	for _, d := range p.Devices {
		devices = append(devices, gpu.Handle(d))
	}
	for _, d := range devices {
		if err := e.facade.WaitIdle(context.Background(), d); err != nil {
			e.logger.Error("wait idle for device sync failed", "device", d, "err", err)
		}
	}
	e.bus.Publish(bus.Message{
		Type: bus.TypeDeviceSyncCompleted,
		Payload: bus.DeviceSyncCompleted{
			DeviceCount: len(devices),
			DurationMs:  uint64(time.Since(start).Milliseconds()),
		},
	})
}

// RenderFrame runs one iteration of the per-frame protocol: recompile any
// dirty subgraph, then execute every compiled node in execution order,
// surfacing the present node's result code.
func (e *Executor) RenderFrame(ctx context.Context) (FrameResult, error) {
	e.frameID++
	fr := FrameResult{FrameID: e.frameID}

	if e.paused {
		fr.Skipped = true
		return fr, nil
	}

	if err := e.graph.BeginFrame(); err != nil {
		return fr, err
	}
	defer e.graph.EndFrame()

	if e.graph.HasDirty() {
		if err := e.graph.Compile(ctx); err != nil {
			return fr, vixerr.Wrap(vixerr.CompileFailed, err, "recompile of dirty subgraph failed")
		}
	}

	var presentResult gpu.PresentResult
	for _, h := range e.graph.ExecutionOrder() {
		if err := e.graph.ExecuteNode(ctx, e.frameID, h, &presentResult); err != nil {
			return fr, err
		}
	}
	fr.PresentResult = presentResult

	switch presentResult {
	case gpu.PresentOutOfDate, gpu.PresentSuboptimal:
		if e.swapchainNode != nil {
			e.graph.MarkDirty(*e.swapchainNode)
		}
		return fr, vixerr.New(vixerr.OutOfDate, "present reported swapchain out of date")
	case gpu.PresentDeviceLost:
		return fr, vixerr.New(vixerr.DeviceLost, "present reported device lost")
	}

	return fr, nil
}

// Paused reports whether the executor is currently honoring a RenderPause.
func (e *Executor) Paused() bool { return e.paused }

// Process drains the bus queue; the caller invokes this once per frame,
// on the render thread, before RenderFrame.
func (e *Executor) Process() { e.bus.Process() }
