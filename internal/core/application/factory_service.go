package application

import (
	"context"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// FactoryService manages the registry of pairs and the protocol fee
// settings.
type FactoryService interface {
	// Init bootstraps the registry with the given fee administrator.
	Init(ctx context.Context, feeToSetter domain.Address) error
	// CreatePair registers and instantiates the pair of the given tokens.
	CreatePair(ctx context.Context, tokenA, tokenB domain.Address) (domain.Address, error)
	// LookupPair returns the pair of the given tokens, in any order.
	LookupPair(
		ctx context.Context, tokenA, tokenB domain.Address,
	) (domain.Address, bool, error)
	AllPairsLength(ctx context.Context) (int, error)
	PairByIndex(ctx context.Context, i int) (domain.Address, error)
	GetFactory(ctx context.Context) (*domain.Factory, error)
	// SetFeeRecipient enables protocol fees, or disables them if feeTo is
	// the null address. Restricted to the fee administrator.
	SetFeeRecipient(ctx context.Context, call CallContext, feeTo domain.Address) error
	// SetFeeAdministrator hands the fee settings over to another account.
	SetFeeAdministrator(
		ctx context.Context, call CallContext, feeToSetter domain.Address,
	) error
}

type factoryService struct {
	runner
}

func NewFactoryService(
	repoManager ports.RepoManager, sink ports.EventSink,
) FactoryService {
	return newFactoryService(repoManager, sink)
}

func newFactoryService(
	repoManager ports.RepoManager, sink ports.EventSink,
) *factoryService {
	return &factoryService{runner{repoManager, sink}}
}

func (s *factoryService) Init(ctx context.Context, feeToSetter domain.Address) error {
	factory, err := domain.NewFactory(feeToSetter)
	if err != nil {
		return err
	}

	if _, err := s.run(ctx, false, func(ctx context.Context) (interface{}, error) {
		return nil, s.repoManager.FactoryRepository().AddFactory(ctx, factory)
	}); err != nil {
		return err
	}

	log.WithField("fee_to_setter", feeToSetter.String()).Debug("factory: initialized")
	return nil
}

func (s *factoryService) CreatePair(
	ctx context.Context, tokenA, tokenB domain.Address,
) (domain.Address, error) {
	token0, token1, err := domain.SortTokens(tokenA, tokenB)
	if err != nil {
		return domain.ZeroAddress, err
	}
	pair, err := domain.NewPair(token0, token1)
	if err != nil {
		return domain.ZeroAddress, err
	}

	if _, err := s.run(ctx, false, func(ctx context.Context) (interface{}, error) {
		var index int
		if err := s.repoManager.FactoryRepository().UpdateFactory(
			ctx, func(f *domain.Factory) (*domain.Factory, error) {
				i, err := f.RegisterPair(token0, token1, pair.Address)
				if err != nil {
					return nil, err
				}
				index = i
				return f, nil
			},
		); err != nil {
			return nil, err
		}
		if err := s.repoManager.PairRepository().AddPair(ctx, pair); err != nil {
			return nil, err
		}

		emit(ctx, domain.PairCreated{
			Token0: token0,
			Token1: token1,
			Pair:   pair.Address,
			Index:  index,
		})
		return nil, nil
	}); err != nil {
		return domain.ZeroAddress, err
	}

	log.WithFields(log.Fields{
		"pair":   pair.Address.String(),
		"token0": token0.String(),
		"token1": token1.String(),
	}).Debug("factory: pair created")
	return pair.Address, nil
}

func (s *factoryService) LookupPair(
	ctx context.Context, tokenA, tokenB domain.Address,
) (domain.Address, bool, error) {
	factory, err := s.GetFactory(ctx)
	if err != nil {
		return domain.ZeroAddress, false, err
	}
	pair, ok := factory.LookupPair(tokenA, tokenB)
	return pair, ok, nil
}

func (s *factoryService) AllPairsLength(ctx context.Context) (int, error) {
	factory, err := s.GetFactory(ctx)
	if err != nil {
		return 0, err
	}
	return len(factory.AllPairs), nil
}

func (s *factoryService) PairByIndex(ctx context.Context, i int) (domain.Address, error) {
	factory, err := s.GetFactory(ctx)
	if err != nil {
		return domain.ZeroAddress, err
	}
	return factory.PairByIndex(i)
}

func (s *factoryService) GetFactory(ctx context.Context) (*domain.Factory, error) {
	res, err := s.run(ctx, true, func(ctx context.Context) (interface{}, error) {
		return s.repoManager.FactoryRepository().GetFactory(ctx)
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.Factory), nil
}

func (s *factoryService) SetFeeRecipient(
	ctx context.Context, call CallContext, feeTo domain.Address,
) error {
	_, err := s.run(ctx, false, func(ctx context.Context) (interface{}, error) {
		return nil, s.repoManager.FactoryRepository().UpdateFactory(
			ctx, func(f *domain.Factory) (*domain.Factory, error) {
				if err := f.SetFeeTo(call.Caller, feeTo); err != nil {
					return nil, err
				}
				emit(ctx, domain.FeeRecipientChanged{Caller: call.Caller, FeeTo: feeTo})
				return f, nil
			},
		)
	})
	return err
}

func (s *factoryService) SetFeeAdministrator(
	ctx context.Context, call CallContext, feeToSetter domain.Address,
) error {
	_, err := s.run(ctx, false, func(ctx context.Context) (interface{}, error) {
		return nil, s.repoManager.FactoryRepository().UpdateFactory(
			ctx, func(f *domain.Factory) (*domain.Factory, error) {
				if err := f.SetFeeToSetter(call.Caller, feeToSetter); err != nil {
					return nil, err
				}
				emit(ctx, domain.FeeAdministratorChanged{
					Caller: call.Caller, FeeToSetter: feeToSetter,
				})
				return f, nil
			},
		)
	})
	return err
}
