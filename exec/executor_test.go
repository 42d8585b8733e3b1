package exec

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/galvanized/vixen/bus"
	"github.com/galvanized/vixen/cache"
	"github.com/galvanized/vixen/gpu"
	"github.com/galvanized/vixen/gpu/gpufake"
	"github.com/galvanized/vixen/graph"
	"github.com/galvanized/vixen/nodes"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// buildPipeline wires the canonical S1 present pipeline: device, window,
// swapchain, frame-sync, command pool, render pass, framebuffer,
// geometry-render, present.
func buildPipeline(t *testing.T, facade gpu.Facade) (*graph.Graph, *Executor, *bus.Bus) {
	t.Helper()
	registry := cache.NewRegistry(testLogger())
	g := graph.New(testLogger(), facade, registry)
	nodes.RegisterAll(g)

	device, err := g.AddNode("Device", "gpu0")
	require.NoError(t, err)
	require.NoError(t, g.SetParameter(device, "device_handle", gpu.ParamString("gpu0")))

	window, err := g.AddNode("Window", "")
	require.NoError(t, err)
	require.NoError(t, g.SetParameter(window, "width", gpu.ParamU32(800)))
	require.NoError(t, g.SetParameter(window, "height", gpu.ParamU32(600)))

	swapchain, err := g.AddNode("Swapchain", "gpu0")
	require.NoError(t, err)
	require.NoError(t, g.SetParameter(swapchain, "width", gpu.ParamU32(800)))
	require.NoError(t, g.SetParameter(swapchain, "height", gpu.ParamU32(600)))
	require.NoError(t, g.SetParameter(swapchain, "format", gpu.ParamString("bgra8")))
	require.NoError(t, g.Connect(device, "device", swapchain, "device"))
	require.NoError(t, g.Connect(window, "window", swapchain, "window"))

	framesync, err := g.AddNode("FrameSync", "gpu0")
	require.NoError(t, err)
	require.NoError(t, g.Connect(device, "device", framesync, "device"))

	cmdpool, err := g.AddNode("CommandPool", "gpu0")
	require.NoError(t, err)
	require.NoError(t, g.Connect(device, "device", cmdpool, "device"))

	renderpass, err := g.AddNode("RenderPass", "gpu0")
	require.NoError(t, err)
	require.NoError(t, g.SetParameter(renderpass, "color_format", gpu.ParamString("bgra8")))
	require.NoError(t, g.Connect(device, "device", renderpass, "device"))

	framebuffer, err := g.AddNode("Framebuffer", "gpu0")
	require.NoError(t, err)
	require.NoError(t, g.SetParameter(framebuffer, "width", gpu.ParamU32(800)))
	require.NoError(t, g.SetParameter(framebuffer, "height", gpu.ParamU32(600)))
	require.NoError(t, g.Connect(renderpass, "render_pass", framebuffer, "render_pass"))
	require.NoError(t, g.Connect(swapchain, "swapchain", framebuffer, "swapchain"))

	geom, err := g.AddNode("GeometryRender", "gpu0")
	require.NoError(t, err)
	require.NoError(t, g.SetParameter(geom, "vertex_shader", gpu.ParamString("tri.vert")))
	require.NoError(t, g.SetParameter(geom, "fragment_shader", gpu.ParamString("tri.frag")))
	require.NoError(t, g.SetParameter(geom, "width", gpu.ParamU32(800)))
	require.NoError(t, g.SetParameter(geom, "height", gpu.ParamU32(600)))
	require.NoError(t, g.Connect(device, "device", geom, "device"))
	require.NoError(t, g.Connect(cmdpool, "command_buffer", geom, "command_buffer"))
	require.NoError(t, g.Connect(renderpass, "render_pass", geom, "render_pass"))
	require.NoError(t, g.Connect(framebuffer, "framebuffer", geom, "framebuffer"))
	require.NoError(t, g.Connect(swapchain, "image_available", geom, "image_available"))
	require.NoError(t, g.Connect(framesync, "render_complete", geom, "render_complete"))

	present, err := g.AddNode("Present", "gpu0")
	require.NoError(t, err)
	require.NoError(t, g.SetParameter(present, "queue_handle", gpu.ParamString("gpu0")))
	require.NoError(t, g.Connect(swapchain, "swapchain", present, "swapchain"))
	require.NoError(t, g.Connect(swapchain, "image_index", present, "image_index"))
	require.NoError(t, g.Connect(geom, "render_complete_out", present, "wait_semaphore"))

	b := bus.New(testLogger())
	e := New(testLogger(), b, g)
	e.SetSwapchainNode(swapchain)

	require.NoError(t, g.Compile(context.Background()))
	return g, e, b
}

func TestRenderFrameCanonicalPipelineSucceeds(t *testing.T) {
	_, e, _ := buildPipeline(t, &gpufake.Facade{})

	result, err := e.RenderFrame(context.Background())
	require.NoError(t, err)
	require.Equal(t, gpu.PresentOK, result.PresentResult)
	require.False(t, result.Skipped)
}

func TestRenderFramePresentOutOfDateMarksSwapchainDirty(t *testing.T) {
	outOfDate := gpu.PresentOutOfDate
	g, e, _ := buildPipeline(t, &gpufake.Facade{PresentResultOverride: &outOfDate})

	_, err := e.RenderFrame(context.Background())
	require.Error(t, err)

	swapchain := g.ExecutionOrder()[2] // device, window, swapchain in registration order
	inst, _ := g.NodeAt(swapchain)
	require.Equal(t, graph.StateDirty, inst.State)
}

func TestRenderFrameSkippedWhilePaused(t *testing.T) {
	_, e, b := buildPipeline(t, &gpufake.Facade{})

	b.PublishImmediate(bus.Message{Type: bus.TypeRenderPause, Payload: bus.RenderPause{Action: bus.PauseStart}})
	result, err := e.RenderFrame(context.Background())
	require.NoError(t, err)
	require.True(t, result.Skipped)

	b.PublishImmediate(bus.Message{Type: bus.TypeRenderPause, Payload: bus.RenderPause{Action: bus.PauseEnd}})
	result, err = e.RenderFrame(context.Background())
	require.NoError(t, err)
	require.False(t, result.Skipped)
}

func TestWindowResizedMarksSwapchainDirtyAndRecompiles(t *testing.T) {
	g, e, b := buildPipeline(t, &gpufake.Facade{})

	_, err := e.RenderFrame(context.Background())
	require.NoError(t, err)

	b.Publish(bus.Message{Type: bus.TypeWindowResized, Payload: bus.WindowResized{NewWidth: 1024, NewHeight: 768}})
	e.Process()

	require.True(t, g.HasDirty())

	_, err = e.RenderFrame(context.Background())
	require.NoError(t, err)
	require.False(t, g.HasDirty())
}

func TestDeviceSyncRequestedPublishesCompleted(t *testing.T) {
	_, e, b := buildPipeline(t, &gpufake.Facade{})

	var completed *bus.DeviceSyncCompleted
	b.Subscribe(bus.TypeDeviceSyncCompleted, func(msg bus.Message) {
		p := msg.Payload.(bus.DeviceSyncCompleted)
		completed = &p
	})

	b.PublishImmediate(bus.Message{
		Type:    bus.TypeDeviceSyncRequested,
		Payload: bus.DeviceSyncRequested{Devices: []string{"gpu0"}},
	})

	require.NotNil(t, completed)
	require.Equal(t, 1, completed.DeviceCount)
}
