// Package vixen wires the message bus, resource cache registry, render
// graph and frame executor into one owned kernel instance.
package vixen

import (
	"context"
	"log/slog"
	"os"

	"github.com/galvanized/vixen/bus"
	"github.com/galvanized/vixen/cache"
	"github.com/galvanized/vixen/config"
	"github.com/galvanized/vixen/exec"
	"github.com/galvanized/vixen/gpu"
	"github.com/galvanized/vixen/graph"
)

// Engine is the top-level kernel instance an embedding application owns:
// a bus, a cache registry, a render graph and a frame executor, built
// from a GPU facade supplied by the host.
type Engine struct {
	Logger   *slog.Logger
	Bus      *bus.Bus
	Registry *cache.Registry
	Graph    *graph.Graph
	Executor *exec.Executor
	Workers  *bus.WorkerBridge

	facade gpu.Facade
}

// New builds an Engine around facade, the host's GPU capability
// implementation, using cfg for worker and queue sizing.
func New(cfg config.Config, facade gpu.Facade) *Engine {
	logger := newLogger(cfg.LogLevel)

	b := bus.New(logger.With("component", "bus"))
	registry := cache.NewRegistry(logger.With("component", "cache"))
	g := graph.New(logger.With("component", "graph"), facade, registry)
	workers := bus.NewWorkerBridge(logger.With("component", "workers"), b, cfg.WorkerCount, cfg.WorkerQueue)
	executor := exec.New(logger.With("component", "executor"), b, g)

	return &Engine{
		Logger:   logger,
		Bus:      b,
		Registry: registry,
		Graph:    g,
		Executor: executor,
		Workers:  workers,
		facade:   facade,
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(h)
}

// Tick runs one full frame cycle: drain the bus, then execute the graph.
func (e *Engine) Tick(ctx context.Context) (exec.FrameResult, error) {
	e.Executor.Process()
	return e.Executor.RenderFrame(ctx)
}

// Shutdown waits for device idle across devices, tears down the graph,
// cleans up device and global caches, and drains the worker bridge.
func (e *Engine) Shutdown(ctx context.Context, devices []gpu.Handle) error {
	if err := e.Graph.Destroy(ctx, devices); err != nil {
		e.Logger.Error("graph destroy failed", "err", err)
	}
	for _, d := range devices {
		if err := e.Registry.ClearDeviceCaches(cache.DeviceID(d)); err != nil {
			e.Logger.Error("clear device caches failed", "device", d, "err", err)
		}
	}
	if err := e.Registry.CleanupGlobalCaches(); err != nil {
		e.Logger.Error("cleanup global caches failed", "err", err)
	}
	e.Workers.Shutdown()
	return nil
}
