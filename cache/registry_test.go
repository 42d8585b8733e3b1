package cache

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubCacher struct {
	tag       string
	cleanedUp bool
}

func (s *stubCacher) TypeTag() string { return s.tag }
func (s *stubCacher) Cleanup() error  { s.cleanedUp = true; return nil }
func (s *stubCacher) Clear()          {}
func (s *stubCacher) Stats() Stats    { return Stats{} }

func TestRegistryDuplicateRegistrationRejected(t *testing.T) {
	r := NewRegistry(testLogger())
	require.NoError(t, r.RegisterCacher("pipeline", "pipelines", "gpu0", true, &stubCacher{tag: "pipeline"}))
	err := r.RegisterCacher("pipeline", "pipelines", "gpu0", true, &stubCacher{tag: "pipeline"})
	require.Error(t, err)
}

func TestRegistryGetGlobalCacherDeviceRequired(t *testing.T) {
	r := NewRegistry(testLogger())
	require.NoError(t, r.RegisterCacher("pipeline", "pipelines", "gpu0", true, &stubCacher{tag: "pipeline"}))
	_, err := r.GetGlobalCacher("pipeline")
	require.Error(t, err)
}

func TestRegistryClearDeviceCachesRemovesSlot(t *testing.T) {
	r := NewRegistry(testLogger())
	c := &stubCacher{tag: "pipeline"}
	require.NoError(t, r.RegisterCacher("pipeline", "pipelines", "gpu0", true, c))

	require.NoError(t, r.ClearDeviceCaches("gpu0"))
	require.True(t, c.cleanedUp)

	_, err := r.GetDeviceCacher("pipeline", "gpu0")
	require.Error(t, err)

	// Re-registering the same tag for the cleared device now succeeds.
	require.NoError(t, r.RegisterCacher("pipeline", "pipelines", "gpu0", true, &stubCacher{tag: "pipeline"}))
}

func TestRegistryStatsAggregates(t *testing.T) {
	r := NewRegistry(testLogger())
	require.NoError(t, r.RegisterCacher("pipeline", "pipelines", "gpu0", true, &stubCacher{tag: "pipeline"}))
	require.NoError(t, r.RegisterCacher("layout", "layouts", "", false, &stubCacher{tag: "layout"}))

	stats := r.Stats()
	require.Equal(t, uint64(0), stats.Hits)
	require.Equal(t, 0, stats.Entries)
}
