package main

import (
	"context"
	"time"

	"github.com/BelizeChain/gem/internal/config"
	"github.com/BelizeChain/gem/internal/core/application"
	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/core/ports"
	"github.com/BelizeChain/gem/internal/infrastructure/eventsink"
	"github.com/BelizeChain/gem/internal/infrastructure/ledger"
	dbbadger "github.com/BelizeChain/gem/internal/infrastructure/storage/db/badger"
	"github.com/BelizeChain/gem/internal/infrastructure/storage/db/inmemory"
	"github.com/BelizeChain/gem/pkg/stats"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// engine wires the services on top of the configured datadir. Every command
// opens its own engine and closes it before exiting.
type engine struct {
	repoManager ports.RepoManager
	ledger      *ledger.Ledger
	factory     application.FactoryService
	pairs       application.PairService
	router      application.RouterService
	registry    *prometheus.Registry
}

func newEngine() (*engine, error) {
	var (
		repoManager ports.RepoManager
		store       ledger.Store
	)
	switch config.GetString(config.DBTypeKey) {
	case config.DBInMemory:
		rm := inmemory.NewRepoManager()
		repoManager, store = rm, rm.LedgerStore()
	default:
		logger := log.New()
		logger.SetLevel(log.WarnLevel)
		rm, err := dbbadger.NewRepoManager(config.GetDbDir(), logger)
		if err != nil {
			return nil, err
		}
		repoManager, store = rm, rm.LedgerStore()
	}

	routerAddr, err := config.GetAddress(config.RouterAddressKey)
	if err != nil {
		return nil, err
	}
	wrappedNative, err := config.GetAddress(config.WrappedNativeTokenKey)
	if err != nil {
		return nil, err
	}

	sinks := []ports.EventSink{eventsink.NewLogSink(log.StandardLogger())}
	var registry *prometheus.Registry
	if config.GetBool(config.EnableMetricsKey) {
		registry = prometheus.NewRegistry()
		metricsSink, err := eventsink.NewMetricsSink(registry)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, metricsSink)
	}

	l := ledger.New(store)
	cfg := &application.Config{
		RepoManager:   repoManager,
		Ledgers:       l,
		EventSink:     eventsink.NewFanOut(sinks...),
		RouterAddress: routerAddr,
		WrappedNative: wrappedNative,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &engine{
		repoManager: repoManager,
		ledger:      l,
		factory:     cfg.FactoryService(),
		pairs:       cfg.PairService(),
		router:      cfg.RouterService(),
		registry:    registry,
	}, nil
}

func (e *engine) close() {
	if e.registry != nil {
		if err := stats.DumpMetrics(e.registry, config.GetMetricsDumpFile()); err != nil {
			log.WithError(err).Warn("failed to dump metrics")
		}
	}
	stats.LogMemoryStatistics()
	e.repoManager.Close()
}

// pairOf returns the address of the pair of the given tokens.
func (e *engine) pairOf(ctx context.Context, tokenA, tokenB domain.Address) (domain.Address, error) {
	pair, ok, err := e.factory.LookupPair(ctx, tokenA, tokenB)
	if err != nil {
		return domain.ZeroAddress, err
	}
	if !ok {
		return domain.ZeroAddress, domain.ErrPairNotFound
	}
	return pair, nil
}

// isPair returns whether the given address belongs to a registered pair.
func (e *engine) isPair(ctx context.Context, addr domain.Address) bool {
	_, err := e.pairs.GetPair(ctx, addr)
	return err == nil
}

// withEngine returns an action running fn against a freshly opened engine.
func withEngine(fn func(ctx *cli.Context, e *engine) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.close()

		return fn(ctx, e)
	}
}

// callContext returns the context of a call made by the account in the
// caller flag at the current time.
func callContext(ctx *cli.Context) (application.CallContext, error) {
	caller, err := parseAddressFlag(ctx, "caller")
	if err != nil {
		return application.CallContext{}, err
	}
	return application.CallContext{
		Caller: caller,
		Now:    uint64(time.Now().Unix()),
	}, nil
}

// deadline returns the deadline flag, or now plus the configured grace
// period if not set.
func deadline(ctx *cli.Context, call application.CallContext) uint64 {
	if ctx.IsSet("deadline") {
		return ctx.Uint64("deadline")
	}
	grace := config.GetDuration(config.DeadlineGraceKey)
	return call.Now + uint64(grace/time.Second)
}
