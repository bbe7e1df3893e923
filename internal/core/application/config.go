package application

import (
	"fmt"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/core/ports"
)

// Config gathers the collaborators of the services. Services are built
// lazily and shared, so that the factory, the pairs and the router all
// observe the same pair locks.
type Config struct {
	RepoManager   ports.RepoManager
	Ledgers       ports.LedgerProvider
	EventSink     ports.EventSink
	RouterAddress domain.Address
	WrappedNative domain.Address

	factory FactoryService
	pairs   PairService
	router  RouterService
}

func (c *Config) Validate() error {
	if c.RepoManager == nil {
		return fmt.Errorf("missing repo manager")
	}
	if c.Ledgers == nil {
		return fmt.Errorf("missing token ledgers")
	}
	if _, err := c.routerService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) FactoryService() FactoryService {
	svc, _ := c.factoryService()
	return svc
}

func (c *Config) PairService() PairService {
	svc, _ := c.pairService()
	return svc
}

func (c *Config) RouterService() RouterService {
	svc, _ := c.routerService()
	return svc
}

func (c *Config) factoryService() (FactoryService, error) {
	if c.factory == nil {
		c.factory = NewFactoryService(c.RepoManager, c.EventSink)
	}
	return c.factory, nil
}

func (c *Config) pairService() (PairService, error) {
	if c.pairs == nil {
		c.pairs = NewPairService(c.RepoManager, c.Ledgers, c.EventSink)
	}
	return c.pairs, nil
}

func (c *Config) routerService() (RouterService, error) {
	if c.router == nil {
		factory, _ := c.factoryService()
		pairs, _ := c.pairService()
		router, err := NewRouterService(
			c.RepoManager, c.Ledgers, c.EventSink, factory, pairs,
			c.RouterAddress, c.WrappedNative,
		)
		if err != nil {
			return nil, err
		}
		c.router = router
	}
	return c.router, nil
}
