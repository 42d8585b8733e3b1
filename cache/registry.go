package cache

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/galvanized/vixen/internal/vixerr"
)

// DeviceID identifies a logical GPU device for the purpose of partitioning
// device-dependent cachers; the kernel never interprets its contents.
type DeviceID string

type registered struct {
	tag    string
	name   string
	cacher Cacher
}

// Registry partitions cachers by device (device-dependent) and globally
// (device-independent), preserving registration order per device so
// teardown can walk cachers leaf-first through registration discipline.
type Registry struct {
	logger *slog.Logger

	mu            sync.RWMutex
	deviceOrder   map[DeviceID][]*registered
	deviceByTag   map[DeviceID]map[string]*registered
	globalOrder   []*registered
	globalByTag   map[string]*registered
}

// NewRegistry builds an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:      logger,
		deviceOrder: make(map[DeviceID][]*registered),
		deviceByTag: make(map[DeviceID]map[string]*registered),
		globalByTag: make(map[string]*registered),
	}
}

// RegisterCacher registers a cacher for the given resource-kind tag. A
// duplicate registration for the same (device, tag) pair, or the same
// global tag, fails with AlreadyRegistered.
func (r *Registry) RegisterCacher(tag, name string, device DeviceID, deviceDependent bool, cacher Cacher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if deviceDependent {
		byTag, ok := r.deviceByTag[device]
		if !ok {
			byTag = make(map[string]*registered)
			r.deviceByTag[device] = byTag
		}
		if _, exists := byTag[tag]; exists {
			return vixerr.New(vixerr.AlreadyRegistered, "cacher %q already registered for device %q", tag, device)
		}
		rec := &registered{tag: tag, name: name, cacher: cacher}
		byTag[tag] = rec
		r.deviceOrder[device] = append(r.deviceOrder[device], rec)
		return nil
	}

	if _, exists := r.globalByTag[tag]; exists {
		return vixerr.New(vixerr.AlreadyRegistered, "global cacher %q already registered", tag)
	}
	rec := &registered{tag: tag, name: name, cacher: cacher}
	r.globalByTag[tag] = rec
	r.globalOrder = append(r.globalOrder, rec)
	return nil
}

// GetDeviceCacher looks up a device-dependent cacher. Returns NotRegistered
// if the device or tag is unknown.
func (r *Registry) GetDeviceCacher(tag string, device DeviceID) (Cacher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byTag, ok := r.deviceByTag[device]
	if !ok {
		return nil, vixerr.New(vixerr.NotRegistered, "no cachers registered for device %q", device)
	}
	rec, ok := byTag[tag]
	if !ok {
		return nil, vixerr.New(vixerr.NotRegistered, "cacher %q not registered for device %q", tag, device)
	}
	return rec.cacher, nil
}

// GetGlobalCacher looks up a device-independent cacher. Returns
// NotRegistered if the tag is unknown, DeviceRequired if the tag is only
// registered as device-dependent.
func (r *Registry) GetGlobalCacher(tag string) (Cacher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.globalByTag[tag]
	if !ok {
		for _, byTag := range r.deviceByTag {
			if _, ok := byTag[tag]; ok {
				return nil, vixerr.New(vixerr.DeviceRequired, "cacher %q is device-dependent", tag)
			}
		}
		return nil, vixerr.New(vixerr.NotRegistered, "global cacher %q not registered", tag)
	}
	return rec.cacher, nil
}

// ClearDeviceCaches invokes Cleanup on every cacher registered for device,
// in registration order, then removes the device's registry slot entirely
// so a subsequent RegisterCacher for the same tag succeeds.
func (r *Registry) ClearDeviceCaches(device DeviceID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order := r.deviceOrder[device]
	var firstErr error
	for _, rec := range order {
		if err := rec.cacher.Cleanup(); err != nil {
			r.logger.Error("cacher cleanup failed", "tag", rec.tag, "device", device, "err", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("cleanup %s: %w", rec.tag, err)
			}
		}
	}
	delete(r.deviceOrder, device)
	delete(r.deviceByTag, device)
	return firstErr
}

// CleanupGlobalCaches invokes Cleanup on every device-independent cacher,
// in registration order.
func (r *Registry) CleanupGlobalCaches() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for _, rec := range r.globalOrder {
		if err := rec.cacher.Cleanup(); err != nil {
			r.logger.Error("global cacher cleanup failed", "tag", rec.tag, "err", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("cleanup %s: %w", rec.tag, err)
			}
		}
	}
	return firstErr
}

// Stats aggregates hits, misses and entry counts across every registered
// cacher, device-dependent and global alike.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total Stats
	for _, rec := range r.globalOrder {
		s := rec.cacher.Stats()
		total.Hits += s.Hits
		total.Misses += s.Misses
		total.Entries += s.Entries
	}
	for _, order := range r.deviceOrder {
		for _, rec := range order {
			s := rec.cacher.Stats()
			total.Hits += s.Hits
			total.Misses += s.Misses
			total.Entries += s.Entries
		}
	}
	return total
}
