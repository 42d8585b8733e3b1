package vixen

import (
	"context"
	"testing"

	"github.com/galvanized/vixen/config"
	"github.com/galvanized/vixen/gpu"
	"github.com/galvanized/vixen/gpu/gpufake"
	"github.com/galvanized/vixen/nodes"
	"github.com/stretchr/testify/require"
)

func TestNewWiresKernelComponents(t *testing.T) {
	e := New(config.Default(), &gpufake.Facade{})
	require.NotNil(t, e.Bus)
	require.NotNil(t, e.Registry)
	require.NotNil(t, e.Graph)
	require.NotNil(t, e.Executor)
	require.NotNil(t, e.Workers)
}

func TestEngineTickAndShutdown(t *testing.T) {
	e := New(config.Default(), &gpufake.Facade{})
	nodes.RegisterAll(e.Graph)

	device, err := e.Graph.AddNode("Device", "gpu0")
	require.NoError(t, err)
	require.NoError(t, e.Graph.SetParameter(device, "device_handle", gpu.ParamString("gpu0")))
	require.NoError(t, e.Graph.Compile(context.Background()))

	_, err = e.Tick(context.Background())
	require.NoError(t, err)

	require.NoError(t, e.Shutdown(context.Background(), []gpu.Handle{"gpu0"}))
}
