package eventsink_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/infrastructure/eventsink"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	ctx  = context.Background()
	pair = domain.NamedAddress("pair")

	swapped = domain.Swapped{
		Pair:       pair,
		Sender:     domain.NamedAddress("alice"),
		Recipient:  domain.NamedAddress("bob"),
		Amount0In:  uint256.NewInt(100),
		Amount1In:  new(uint256.Int),
		Amount0Out: new(uint256.Int),
		Amount1Out: uint256.NewInt(90),
	}
	synced = domain.Synced{
		Pair:     pair,
		Reserve0: uint256.NewInt(1100),
		Reserve1: uint256.NewInt(910),
	}
)

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Publish(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestLogSink(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := log.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&log.JSONFormatter{})

	sink := eventsink.NewLogSink(logger)
	require.NoError(t, sink.Publish(ctx, swapped))

	line := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, domain.SwappedEvent, line["msg"])
	require.Equal(t, "100", line["amount0_in"])
	require.Equal(t, "90", line["amount1_out"])
	require.Equal(t, pair.String(), line["pair"])
	require.NotEmpty(t, line["event_id"])
}

func TestMetricsSink(t *testing.T) {
	registry := prometheus.NewRegistry()
	sink, err := eventsink.NewMetricsSink(registry)
	require.NoError(t, err)

	require.NoError(t, sink.Publish(ctx, swapped))
	require.NoError(t, sink.Publish(ctx, swapped))
	require.NoError(t, sink.Publish(ctx, synced))

	count, err := testutil.GatherAndCount(registry, "gem_events_total")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(registry, "gem_pair_swaps_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	_, err = eventsink.NewMetricsSink(registry)
	require.Error(t, err)
}

func TestRecorder(t *testing.T) {
	r := eventsink.NewRecorder()
	require.NoError(t, r.Publish(ctx, swapped))
	require.NoError(t, r.Publish(ctx, synced))

	require.Equal(t, []string{domain.SwappedEvent, domain.SyncedEvent}, r.Types())
	require.Equal(t, swapped, r.Events()[0])

	r.Reset()
	require.Empty(t, r.Events())
}

func TestFanOut(t *testing.T) {
	recorder := eventsink.NewRecorder()
	ok := &mockSink{}
	ok.On("Publish", mock.Anything, synced).Return(nil)

	require.NoError(t, eventsink.NewFanOut(recorder, ok).Publish(ctx, synced))
	require.Equal(t, []string{domain.SyncedEvent}, recorder.Types())
	ok.AssertExpectations(t)

	boom := errors.New("boom")
	failing := &mockSink{}
	failing.On("Publish", mock.Anything, synced).Return(boom)

	err := eventsink.NewFanOut(recorder, failing).Publish(ctx, synced)
	require.ErrorIs(t, err, boom)
	require.Len(t, recorder.Events(), 2)
}
