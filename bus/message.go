package bus

import "time"

// MessageType is the closed set of stable message tags the kernel emits
// or consumes.
type MessageType string

const (
	TypeWindowResized       MessageType = "window_resized"
	TypeShaderReloaded      MessageType = "shader_reloaded"
	TypeDeviceSyncRequested MessageType = "device_sync_requested"
	TypeDeviceSyncCompleted MessageType = "device_sync_completed"
	TypeRenderPause         MessageType = "render_pause"
	TypeCleanupRequested    MessageType = "cleanup_requested"
	TypeCleanupCompleted    MessageType = "cleanup_completed"
	TypeWorkerResult        MessageType = "worker_result"
)

// FilterAll subscribes a handler to every message type.
const FilterAll MessageType = ""

// Category is a bitflag used only for subscriber filtering; it never
// affects dispatch order.
type Category uint32

const (
	CategoryNone Category = 0
	CategoryResize Category = 1 << iota
	CategoryShader
	CategoryDevice
	CategoryLifecycle
	CategoryWorker
)

// Message is the envelope carried through the bus: a header plus a
// type-specific payload. Immediate messages are not captured past the
// call to PublishImmediate; queued messages are owned by the bus from
// Publish until dispatch completes.
type Message struct {
	Type      MessageType
	Sender    string
	Timestamp time.Time
	Category  Category
	Payload   any
}

// DeviceScope selects which devices a DeviceSyncRequested targets.
type DeviceScope int

const (
	ScopeAllDevices DeviceScope = iota
	ScopeForDevices
)

// WindowResized is the payload for TypeWindowResized.
type WindowResized struct {
	NewWidth, NewHeight uint32
}

// ShaderReloaded is the payload for TypeShaderReloaded.
type ShaderReloaded struct {
	Path string
}

// DeviceSyncRequested is the payload for TypeDeviceSyncRequested.
type DeviceSyncRequested struct {
	Scope   DeviceScope
	Devices []string
	Reason  string
}

// DeviceSyncCompleted is the payload for TypeDeviceSyncCompleted.
type DeviceSyncCompleted struct {
	DeviceCount int
	DurationMs  uint64
}

// PauseAction distinguishes the start and end of a render pause.
type PauseAction int

const (
	PauseStart PauseAction = iota
	PauseEnd
)

// PauseReason explains why a RenderPause was issued.
type PauseReason int

const (
	ReasonSwapchainRecreation PauseReason = iota
	ReasonResourceReallocation
)

// RenderPause is the payload for TypeRenderPause.
type RenderPause struct {
	Reason PauseReason
	Action PauseAction
}

// CleanupRequested is the payload for TypeCleanupRequested.
type CleanupRequested struct {
	RequestID uint32
}

// CleanupCompleted is the payload for TypeCleanupCompleted.
type CleanupCompleted struct {
	Cleaned uint32
}

// WorkResult is the payload the worker bridge publishes for every
// completed work item; Payload carries the thunk's return value.
type WorkResult struct {
	WorkID  string
	Sender  string
	Success bool
	Err     error
	Payload any
}
