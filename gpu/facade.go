package gpu

import "context"

// AcquireResult mirrors the result codes a swapchain image acquire can
// return; Suboptimal and OutOfDate both signal the swapchain should be
// rebuilt, the latter unconditionally.
type AcquireResult int

const (
	AcquireOK AcquireResult = iota
	AcquireSuboptimal
	AcquireOutOfDate
)

// PresentResult mirrors the result codes a present call can return.
type PresentResult int

const (
	PresentOK PresentResult = iota
	PresentSuboptimal
	PresentOutOfDate
	PresentDeviceLost
)

// AttachmentDescriptor describes one render pass attachment.
type AttachmentDescriptor struct {
	Format      Format
	Load        LoadOp
	Store       StoreOp
	InitLayout  ImageLayout
	FinalLayout ImageLayout
}

// RenderPassDescriptor is the full, hashable description of a render pass;
// every field that would produce a distinct native object must be present
// so the resource cache can content-address it.
type RenderPassDescriptor struct {
	ColorAttachments []AttachmentDescriptor
	DepthAttachment  *AttachmentDescriptor
}

// PipelineLayoutDescriptor describes descriptor-set layouts and push
// constant ranges bound to a pipeline.
type PipelineLayoutDescriptor struct {
	DescriptorLayoutRefs []string
	PushConstantBytes    uint32
}

// VertexInputDescriptor describes one vertex attribute binding.
type VertexInputDescriptor struct {
	Location uint32
	Format   Format
	Offset   uint32
	Stride   uint32
}

// GraphicsPipelineDescriptor is the full hashable state of a graphics
// pipeline: shader stages, vertex layout, and fixed-function state.
type GraphicsPipelineDescriptor struct {
	VertexShader   Handle
	FragmentShader Handle
	Layout         Handle
	RenderPass     Handle
	Subpass        uint32
	VertexInputs   []VertexInputDescriptor
	Topology       string
	CullMode       string
	DepthTest      bool
	DepthWrite     bool
	BlendEnabled   bool
}

// FramebufferDescriptor describes a framebuffer bound to a render pass.
type FramebufferDescriptor struct {
	RenderPass Handle
	Views      []Handle
	Extent     Extent
}

// Facade is the capability contract the host must implement for the
// kernel to drive real GPU work. Concrete node types invoke it by name;
// the kernel itself never touches a native Vulkan type.
type Facade interface {
	CreateSwapchain(ctx context.Context, device Handle, window Handle, extent Extent, format Format, mode PresentMode) (swapchain Handle, images []Handle, err error)
	DestroySwapchain(ctx context.Context, swapchain Handle) error
	AcquireNextImage(ctx context.Context, swapchain, semaphore Handle) (imageIndex uint32, result AcquireResult, err error)
	Present(ctx context.Context, queue Handle, swapchain Handle, imageIndex uint32, wait []Handle) (PresentResult, error)
	WaitIdle(ctx context.Context, device Handle) error

	CreateShaderModule(ctx context.Context, code []uint32) (Handle, error)
	DestroyShaderModule(ctx context.Context, h Handle) error

	CreatePipelineLayout(ctx context.Context, desc PipelineLayoutDescriptor) (Handle, error)
	DestroyPipelineLayout(ctx context.Context, h Handle) error

	CreateGraphicsPipeline(ctx context.Context, desc GraphicsPipelineDescriptor) (Handle, error)
	DestroyPipeline(ctx context.Context, h Handle) error

	CreateRenderPass(ctx context.Context, desc RenderPassDescriptor) (Handle, error)
	DestroyRenderPass(ctx context.Context, h Handle) error

	CreateFramebuffer(ctx context.Context, desc FramebufferDescriptor) (Handle, error)
	DestroyFramebuffer(ctx context.Context, h Handle) error

	CreateCommandPool(ctx context.Context, queueFamily uint32) (Handle, error)
	DestroyCommandPool(ctx context.Context, h Handle) error
	AllocateCommandBuffer(ctx context.Context, pool Handle) (Handle, error)
	BeginCommandBuffer(ctx context.Context, cb Handle) error
	EndCommandBuffer(ctx context.Context, cb Handle) error
	SubmitCommandBuffer(ctx context.Context, queue Handle, cb Handle, wait, signal []Handle, fence Handle) error

	CreateSemaphore(ctx context.Context) (Handle, error)
	DestroySemaphore(ctx context.Context, h Handle) error
	CreateFence(ctx context.Context, signaled bool) (Handle, error)
	DestroyFence(ctx context.Context, h Handle) error
	WaitForFence(ctx context.Context, h Handle) error
	ResetFence(ctx context.Context, h Handle) error

	BeginRenderPass(ctx context.Context, cb, renderPass, framebuffer Handle, extent Extent) error
	EndRenderPass(ctx context.Context, cb Handle) error
	BindPipeline(ctx context.Context, cb, pipeline Handle) error
	Draw(ctx context.Context, cb Handle, vertexCount, instanceCount uint32) error
}
