// Package gpu defines the capability contracts the render graph kernel
// requires of its host: a facade over GPU object creation/destruction and
// submission, plus the closed set of slot and parameter type tags used by
// the node type system. Nothing in this package makes a real Vulkan call;
// concrete node types bind a Facade implementation supplied by the host.
package gpu

import "github.com/galvanized/vixen/math/lin"

// TypeTag is the closed set of slot and parameter element types. Equality
// of tags implies that cross-slot connection is type-legal.
type TypeTag string

const (
	TypeDevice         TypeTag = "device"
	TypeWindow         TypeTag = "window"
	TypeSwapchain      TypeTag = "swapchain"
	TypeCommandPool    TypeTag = "command_pool"
	TypeCommandBuffer  TypeTag = "command_buffer"
	TypeImageColor     TypeTag = "image.color"
	TypeImageDepth     TypeTag = "image.depth"
	TypeBufferVertex   TypeTag = "buffer.vertex"
	TypeBufferIndex    TypeTag = "buffer.index"
	TypeBufferUniform  TypeTag = "buffer.uniform"
	TypeTexture        TypeTag = "texture"
	TypePipeline       TypeTag = "pipeline"
	TypePipelineLayout TypeTag = "pipeline_layout"
	TypeRenderPass     TypeTag = "render_pass"
	TypeFramebuffer    TypeTag = "framebuffer"
	TypeDescriptorSet  TypeTag = "descriptor_set"
	TypeSemaphore      TypeTag = "semaphore"
	TypeFence          TypeTag = "fence"
	TypePresentResult  TypeTag = "present_result"

	// scalar parameter types
	TypeI32    TypeTag = "i32"
	TypeU32    TypeTag = "u32"
	TypeF32    TypeTag = "f32"
	TypeF64    TypeTag = "f64"
	TypeBool   TypeTag = "bool"
	TypeString TypeTag = "string"
	TypeVec2   TypeTag = "vec2"
	TypeVec3   TypeTag = "vec3"
	TypeVec4   TypeTag = "vec4"
	TypeMat4   TypeTag = "mat4"

	// domain enums
	TypeLoadOp              TypeTag = "load_op"
	TypeStoreOp             TypeTag = "store_op"
	TypeDepthFormat         TypeTag = "depth_format"
	TypeImageLayout         TypeTag = "image_layout"
	TypeDescriptorLayoutRef TypeTag = "descriptor_layout_ref"
)

// LoadOp and StoreOp enumerate the attachment load/store behaviors a render
// pass attachment may declare.
type LoadOp string

const (
	LoadOpLoad    LoadOp = "load"
	LoadOpClear   LoadOp = "clear"
	LoadOpDontCare LoadOp = "dont_care"
)

type StoreOp string

const (
	StoreOpStore    StoreOp = "store"
	StoreOpDontCare StoreOp = "dont_care"
)

// DepthFormat enumerates the depth/stencil formats a depth attachment may use.
type DepthFormat string

const (
	DepthFormatD32Float        DepthFormat = "d32_float"
	DepthFormatD24UnormS8Uint  DepthFormat = "d24_unorm_s8_uint"
	DepthFormatD32FloatS8Uint  DepthFormat = "d32_float_s8_uint"
)

// ImageLayout enumerates the image layouts attachments transition through.
type ImageLayout string

const (
	ImageLayoutUndefined     ImageLayout = "undefined"
	ImageLayoutColorAttach   ImageLayout = "color_attachment_optimal"
	ImageLayoutDepthAttach   ImageLayout = "depth_attachment_optimal"
	ImageLayoutPresentSource ImageLayout = "present_src"
	ImageLayoutShaderRead    ImageLayout = "shader_read_only_optimal"
)

// ParamValue is the closed, type-tagged parameter variant. Only the field
// matching Type is meaningful; validation happens at Set and at Compile,
// never by introspecting beyond the declared type.
type ParamValue struct {
	Type    TypeTag
	I32     int32
	U32     uint32
	F32     float32
	F64     float64
	Bool    bool
	Str     string
	Vec2    lin.V2
	Vec3    lin.V3
	Vec4    lin.V4
	Mat4    lin.M4
	Enum    string
	DescRef string
}

func ParamI32(v int32) ParamValue  { return ParamValue{Type: TypeI32, I32: v} }
func ParamU32(v uint32) ParamValue { return ParamValue{Type: TypeU32, U32: v} }
func ParamF32(v float32) ParamValue { return ParamValue{Type: TypeF32, F32: v} }
func ParamF64(v float64) ParamValue { return ParamValue{Type: TypeF64, F64: v} }
func ParamBool(v bool) ParamValue   { return ParamValue{Type: TypeBool, Bool: v} }
func ParamString(v string) ParamValue { return ParamValue{Type: TypeString, Str: v} }
func ParamVec2(v lin.V2) ParamValue { return ParamValue{Type: TypeVec2, Vec2: v} }
func ParamVec3(v lin.V3) ParamValue { return ParamValue{Type: TypeVec3, Vec3: v} }
func ParamVec4(v lin.V4) ParamValue { return ParamValue{Type: TypeVec4, Vec4: v} }
func ParamMat4(v lin.M4) ParamValue { return ParamValue{Type: TypeMat4, Mat4: v} }

// Handle is an opaque, host-defined identifier for a native GPU object.
// The kernel never interprets its contents.
type Handle string

// Extent is a 2D pixel extent, used for swapchains and framebuffers.
type Extent struct {
	Width, Height uint32
}

// Format is an opaque host-defined image/surface format tag (e.g. a
// string form of VkFormat). The kernel passes it through unexamined.
type Format string

// PresentMode is an opaque host-defined presentation mode tag.
type PresentMode string
