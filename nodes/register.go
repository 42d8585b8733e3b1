package nodes

import "github.com/galvanized/vixen/graph"

// RegisterAll registers every concrete node type this package provides
// with g, so callers can AddNode by name without importing each type
// variable individually.
func RegisterAll(g *graph.Graph) {
	g.RegisterType(DeviceType)
	g.RegisterType(WindowType)
	g.RegisterType(SwapchainType)
	g.RegisterType(FrameSyncType)
	g.RegisterType(CommandPoolType)
	g.RegisterType(RenderPassType)
	g.RegisterType(FramebufferType)
	g.RegisterType(GeometryRenderType)
	g.RegisterType(PresentType)
}
