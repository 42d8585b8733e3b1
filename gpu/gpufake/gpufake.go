// Package gpufake provides a zero-behavior gpu.Facade implementation for
// tests in other packages that need a Facade value without a real GPU
// backend.
package gpufake

import (
	"context"

	"github.com/galvanized/vixen/gpu"
)

// Facade is a no-op gpu.Facade: every create returns a fixed handle,
// every destroy and wait succeeds, and Present reports PresentOK unless
// overridden.
type Facade struct {
	PresentResultOverride *gpu.PresentResult
	AcquireResultOverride *gpu.AcquireResult
}

func (f *Facade) CreateSwapchain(ctx context.Context, device, window gpu.Handle, extent gpu.Extent, format gpu.Format, mode gpu.PresentMode) (gpu.Handle, []gpu.Handle, error) {
	return "swapchain", []gpu.Handle{"image0"}, nil
}
func (f *Facade) DestroySwapchain(ctx context.Context, h gpu.Handle) error { return nil }
func (f *Facade) AcquireNextImage(ctx context.Context, swapchain, semaphore gpu.Handle) (uint32, gpu.AcquireResult, error) {
	if f.AcquireResultOverride != nil {
		return 0, *f.AcquireResultOverride, nil
	}
	return 0, gpu.AcquireOK, nil
}
func (f *Facade) Present(ctx context.Context, queue, swapchain gpu.Handle, imageIndex uint32, wait []gpu.Handle) (gpu.PresentResult, error) {
	if f.PresentResultOverride != nil {
		return *f.PresentResultOverride, nil
	}
	return gpu.PresentOK, nil
}
func (f *Facade) WaitIdle(ctx context.Context, device gpu.Handle) error { return nil }

func (f *Facade) CreateShaderModule(ctx context.Context, code []uint32) (gpu.Handle, error) {
	return "shader", nil
}
func (f *Facade) DestroyShaderModule(ctx context.Context, h gpu.Handle) error { return nil }

func (f *Facade) CreatePipelineLayout(ctx context.Context, desc gpu.PipelineLayoutDescriptor) (gpu.Handle, error) {
	return "layout", nil
}
func (f *Facade) DestroyPipelineLayout(ctx context.Context, h gpu.Handle) error { return nil }

func (f *Facade) CreateGraphicsPipeline(ctx context.Context, desc gpu.GraphicsPipelineDescriptor) (gpu.Handle, error) {
	return "pipeline", nil
}
func (f *Facade) DestroyPipeline(ctx context.Context, h gpu.Handle) error { return nil }

func (f *Facade) CreateRenderPass(ctx context.Context, desc gpu.RenderPassDescriptor) (gpu.Handle, error) {
	return "render_pass", nil
}
func (f *Facade) DestroyRenderPass(ctx context.Context, h gpu.Handle) error { return nil }

func (f *Facade) CreateFramebuffer(ctx context.Context, desc gpu.FramebufferDescriptor) (gpu.Handle, error) {
	return "framebuffer", nil
}
func (f *Facade) DestroyFramebuffer(ctx context.Context, h gpu.Handle) error { return nil }

func (f *Facade) CreateCommandPool(ctx context.Context, queueFamily uint32) (gpu.Handle, error) {
	return "command_pool", nil
}
func (f *Facade) DestroyCommandPool(ctx context.Context, h gpu.Handle) error { return nil }
func (f *Facade) AllocateCommandBuffer(ctx context.Context, pool gpu.Handle) (gpu.Handle, error) {
	return "command_buffer", nil
}
func (f *Facade) BeginCommandBuffer(ctx context.Context, cb gpu.Handle) error { return nil }
func (f *Facade) EndCommandBuffer(ctx context.Context, cb gpu.Handle) error   { return nil }
func (f *Facade) SubmitCommandBuffer(ctx context.Context, queue, cb gpu.Handle, wait, signal []gpu.Handle, fence gpu.Handle) error {
	return nil
}

func (f *Facade) CreateSemaphore(ctx context.Context) (gpu.Handle, error) { return "semaphore", nil }
func (f *Facade) DestroySemaphore(ctx context.Context, h gpu.Handle) error { return nil }
func (f *Facade) CreateFence(ctx context.Context, signaled bool) (gpu.Handle, error) {
	return "fence", nil
}
func (f *Facade) DestroyFence(ctx context.Context, h gpu.Handle) error { return nil }
func (f *Facade) WaitForFence(ctx context.Context, h gpu.Handle) error { return nil }
func (f *Facade) ResetFence(ctx context.Context, h gpu.Handle) error   { return nil }

func (f *Facade) BeginRenderPass(ctx context.Context, cb, renderPass, framebuffer gpu.Handle, extent gpu.Extent) error {
	return nil
}
func (f *Facade) EndRenderPass(ctx context.Context, cb gpu.Handle) error          { return nil }
func (f *Facade) BindPipeline(ctx context.Context, cb, pipeline gpu.Handle) error { return nil }
func (f *Facade) Draw(ctx context.Context, cb gpu.Handle, vertexCount, instanceCount uint32) error {
	return nil
}

var _ gpu.Facade = (*Facade)(nil)
