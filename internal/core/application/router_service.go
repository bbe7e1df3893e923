package application

import (
	"context"
	"fmt"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/core/ports"
	"github.com/BelizeChain/gem/pkg/amm"
	"github.com/holiman/uint256"
	log "github.com/sirupsen/logrus"
)

// RouterService composes factory and pairs into user-facing operations with
// slippage and deadline protection and multi-hop swaps.
type RouterService interface {
	// Address is the account the router acts with, callers must approve it
	// to move their tokens and shares.
	Address() domain.Address
	WrappedNative() domain.Address
	Factory() FactoryService

	// Quote returns the amount of B worth amountA at the given reserves.
	Quote(amountA, reserveA, reserveB *uint256.Int) (*uint256.Int, error)
	// AmountsOut returns the amounts obtained at every hop of path when
	// selling amountIn of its first token.
	AmountsOut(
		ctx context.Context, amountIn *uint256.Int, path []domain.Address,
	) ([]*uint256.Int, error)
	// AmountsIn returns the amounts required at every hop of path to buy
	// amountOut of its last token.
	AmountsIn(
		ctx context.Context, amountOut *uint256.Int, path []domain.Address,
	) ([]*uint256.Int, error)

	SwapExactIn(
		ctx context.Context, call CallContext,
		amountIn, amountOutMin *uint256.Int, path []domain.Address,
		recipient domain.Address, deadline uint64,
	) ([]*uint256.Int, error)
	SwapExactOut(
		ctx context.Context, call CallContext,
		amountOut, amountInMax *uint256.Int, path []domain.Address,
		recipient domain.Address, deadline uint64,
	) ([]*uint256.Int, error)
	AddLiquidity(
		ctx context.Context, call CallContext, req AddLiquidityRequest,
	) (*AddLiquidityResult, error)
	RemoveLiquidity(
		ctx context.Context, call CallContext, req RemoveLiquidityRequest,
	) (*RemoveLiquidityResult, error)
}

type routerService struct {
	runner
	factory       FactoryService
	pairs         PairService
	ledgers       ports.LedgerProvider
	address       domain.Address
	wrappedNative domain.Address
}

func NewRouterService(
	repoManager ports.RepoManager,
	ledgers ports.LedgerProvider,
	sink ports.EventSink,
	factory FactoryService,
	pairs PairService,
	address, wrappedNative domain.Address,
) (RouterService, error) {
	if address.IsZero() {
		return nil, fmt.Errorf("router: %w", domain.ErrZeroAddress)
	}
	return &routerService{
		runner:        runner{repoManager, sink},
		factory:       factory,
		pairs:         pairs,
		ledgers:       ledgers,
		address:       address,
		wrappedNative: wrappedNative,
	}, nil
}

func (s *routerService) Address() domain.Address {
	return s.address
}

func (s *routerService) WrappedNative() domain.Address {
	return s.wrappedNative
}

func (s *routerService) Factory() FactoryService {
	return s.factory
}

func (s *routerService) Quote(
	amountA, reserveA, reserveB *uint256.Int,
) (*uint256.Int, error) {
	return amm.Quote(amountA, reserveA, reserveB)
}

func (s *routerService) AmountsOut(
	ctx context.Context, amountIn *uint256.Int, path []domain.Address,
) ([]*uint256.Int, error) {
	if len(path) < 2 {
		return nil, domain.ErrInvalidPath
	}

	res, err := s.run(ctx, true, func(ctx context.Context) (interface{}, error) {
		amounts := make([]*uint256.Int, len(path))
		amounts[0] = zeroIfNil(amountIn).Clone()
		for i := 0; i < len(path)-1; i++ {
			reserveIn, reserveOut, err := s.reserves(ctx, path[i], path[i+1])
			if err != nil {
				return nil, err
			}
			if amounts[i+1], err = amm.QuoteOutput(
				amounts[i], reserveIn, reserveOut,
			); err != nil {
				return nil, err
			}
		}
		return amounts, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]*uint256.Int), nil
}

func (s *routerService) AmountsIn(
	ctx context.Context, amountOut *uint256.Int, path []domain.Address,
) ([]*uint256.Int, error) {
	if len(path) < 2 {
		return nil, domain.ErrInvalidPath
	}

	res, err := s.run(ctx, true, func(ctx context.Context) (interface{}, error) {
		amounts := make([]*uint256.Int, len(path))
		amounts[len(path)-1] = zeroIfNil(amountOut).Clone()
		for i := len(path) - 1; i > 0; i-- {
			reserveIn, reserveOut, err := s.reserves(ctx, path[i-1], path[i])
			if err != nil {
				return nil, err
			}
			if amounts[i-1], err = amm.QuoteInput(
				amounts[i], reserveIn, reserveOut,
			); err != nil {
				return nil, err
			}
		}
		return amounts, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]*uint256.Int), nil
}

func (s *routerService) SwapExactIn(
	ctx context.Context, call CallContext,
	amountIn, amountOutMin *uint256.Int, path []domain.Address,
	recipient domain.Address, deadline uint64,
) ([]*uint256.Int, error) {
	if err := checkDeadline(call, deadline); err != nil {
		return nil, err
	}
	amountOutMin = zeroIfNil(amountOutMin)

	res, err := s.run(ctx, false, func(ctx context.Context) (interface{}, error) {
		amounts, err := s.AmountsOut(ctx, amountIn, path)
		if err != nil {
			return nil, err
		}
		if amounts[len(amounts)-1].Lt(amountOutMin) {
			return nil, domain.ErrSlippageExceeded
		}
		if err := s.executeSwap(ctx, call, amounts, path, recipient); err != nil {
			return nil, err
		}
		return amounts, nil
	})
	if err != nil {
		log.WithError(err).Debug("router: failed to swap exact input")
		return nil, err
	}

	amounts := res.([]*uint256.Int)
	log.WithFields(log.Fields{
		"amount_in":  amounts[0].Dec(),
		"amount_out": amounts[len(amounts)-1].Dec(),
		"hops":       len(path) - 1,
	}).Debug("router: swapped exact input")
	return amounts, nil
}

func (s *routerService) SwapExactOut(
	ctx context.Context, call CallContext,
	amountOut, amountInMax *uint256.Int, path []domain.Address,
	recipient domain.Address, deadline uint64,
) ([]*uint256.Int, error) {
	if err := checkDeadline(call, deadline); err != nil {
		return nil, err
	}
	amountInMax = zeroIfNil(amountInMax)

	res, err := s.run(ctx, false, func(ctx context.Context) (interface{}, error) {
		amounts, err := s.AmountsIn(ctx, amountOut, path)
		if err != nil {
			return nil, err
		}
		if amounts[0].Gt(amountInMax) {
			return nil, domain.ErrExcessiveInput
		}
		if err := s.executeSwap(ctx, call, amounts, path, recipient); err != nil {
			return nil, err
		}
		return amounts, nil
	})
	if err != nil {
		log.WithError(err).Debug("router: failed to swap exact output")
		return nil, err
	}

	amounts := res.([]*uint256.Int)
	log.WithFields(log.Fields{
		"amount_in":  amounts[0].Dec(),
		"amount_out": amounts[len(amounts)-1].Dec(),
		"hops":       len(path) - 1,
	}).Debug("router: swapped exact output")
	return amounts, nil
}

func (s *routerService) AddLiquidity(
	ctx context.Context, call CallContext, req AddLiquidityRequest,
) (*AddLiquidityResult, error) {
	if err := checkDeadline(call, req.Deadline); err != nil {
		return nil, err
	}

	res, err := s.run(ctx, false, func(ctx context.Context) (interface{}, error) {
		pairAddr, ok, err := s.factory.LookupPair(ctx, req.TokenA, req.TokenB)
		if err != nil {
			return nil, err
		}
		if !ok {
			if pairAddr, err = s.factory.CreatePair(ctx, req.TokenA, req.TokenB); err != nil {
				return nil, err
			}
		}

		pair, err := s.pairs.GetPair(ctx, pairAddr)
		if err != nil {
			return nil, err
		}
		reserveA, reserveB, err := pair.ReservesFor(req.TokenA)
		if err != nil {
			return nil, err
		}
		amountA, amountB, err := optimalAmounts(req, reserveA, reserveB)
		if err != nil {
			return nil, err
		}

		if err := s.transferFrom(ctx, req.TokenA, call.Caller, pairAddr, amountA); err != nil {
			return nil, err
		}
		if err := s.transferFrom(ctx, req.TokenB, call.Caller, pairAddr, amountB); err != nil {
			return nil, err
		}
		shares, err := s.pairs.ProvideLiquidity(
			ctx, s.callAs(call), pairAddr, req.Recipient,
		)
		if err != nil {
			return nil, err
		}

		emit(ctx, domain.LiquidityAdded{
			Sender:  call.Caller,
			Pair:    pairAddr,
			TokenA:  req.TokenA,
			TokenB:  req.TokenB,
			AmountA: amountA,
			AmountB: amountB,
			Shares:  shares,
		})
		return &AddLiquidityResult{
			Pair:    pairAddr,
			AmountA: amountA,
			AmountB: amountB,
			Shares:  shares,
		}, nil
	})
	if err != nil {
		log.WithError(err).Debug("router: failed to add liquidity")
		return nil, err
	}
	return res.(*AddLiquidityResult), nil
}

func (s *routerService) RemoveLiquidity(
	ctx context.Context, call CallContext, req RemoveLiquidityRequest,
) (*RemoveLiquidityResult, error) {
	if err := checkDeadline(call, req.Deadline); err != nil {
		return nil, err
	}
	amountAMin, amountBMin := zeroIfNil(req.AmountAMin), zeroIfNil(req.AmountBMin)

	res, err := s.run(ctx, false, func(ctx context.Context) (interface{}, error) {
		pairAddr, err := s.lookupPair(ctx, req.TokenA, req.TokenB)
		if err != nil {
			return nil, err
		}

		routerCall := s.callAs(call)
		if err := s.pairs.TransferSharesFrom(
			ctx, routerCall, pairAddr, call.Caller, pairAddr, zeroIfNil(req.Shares),
		); err != nil {
			return nil, err
		}
		amount0, amount1, err := s.pairs.RemoveLiquidity(
			ctx, routerCall, pairAddr, req.Recipient,
		)
		if err != nil {
			return nil, err
		}

		token0, _, _ := domain.SortTokens(req.TokenA, req.TokenB)
		amountA, amountB := amount0, amount1
		if req.TokenA != token0 {
			amountA, amountB = amount1, amount0
		}
		if amountA.Lt(amountAMin) {
			return nil, domain.ErrInsufficientAAmount
		}
		if amountB.Lt(amountBMin) {
			return nil, domain.ErrInsufficientBAmount
		}

		emit(ctx, domain.LiquidityRemoved{
			Sender:  call.Caller,
			Pair:    pairAddr,
			TokenA:  req.TokenA,
			TokenB:  req.TokenB,
			AmountA: amountA,
			AmountB: amountB,
			Shares:  zeroIfNil(req.Shares).Clone(),
		})
		return &RemoveLiquidityResult{
			Pair:    pairAddr,
			AmountA: amountA,
			AmountB: amountB,
		}, nil
	})
	if err != nil {
		log.WithError(err).Debug("router: failed to remove liquidity")
		return nil, err
	}
	return res.(*RemoveLiquidityResult), nil
}

// executeSwap pays the first pair on behalf of the caller and then swaps hop
// by hop, each pair sending its output straight to the next one.
func (s *routerService) executeSwap(
	ctx context.Context, call CallContext,
	amounts []*uint256.Int, path []domain.Address, recipient domain.Address,
) error {
	firstPair, err := s.lookupPair(ctx, path[0], path[1])
	if err != nil {
		return err
	}
	if err := s.transferFrom(ctx, path[0], call.Caller, firstPair, amounts[0]); err != nil {
		return err
	}

	routerCall := s.callAs(call)
	pairAddr := firstPair
	for i := 0; i < len(path)-1; i++ {
		input, output := path[i], path[i+1]
		token0, _, err := domain.SortTokens(input, output)
		if err != nil {
			return err
		}

		amount0Out, amount1Out := new(uint256.Int), amounts[i+1]
		if input != token0 {
			amount0Out, amount1Out = amounts[i+1], new(uint256.Int)
		}

		to := recipient
		var nextPair domain.Address
		if i < len(path)-2 {
			if nextPair, err = s.lookupPair(ctx, output, path[i+2]); err != nil {
				return err
			}
			to = nextPair
		}

		if err := s.pairs.Swap(
			ctx, routerCall, pairAddr, amount0Out, amount1Out, to,
		); err != nil {
			return err
		}
		pairAddr = nextPair
	}

	emit(ctx, domain.SwapExecuted{
		Sender:    call.Caller,
		Recipient: recipient,
		Path:      append([]domain.Address{}, path...),
		AmountIn:  amounts[0].Clone(),
		AmountOut: amounts[len(amounts)-1].Clone(),
	})
	return nil
}

func (s *routerService) reserves(
	ctx context.Context, tokenIn, tokenOut domain.Address,
) (*uint256.Int, *uint256.Int, error) {
	pairAddr, err := s.lookupPair(ctx, tokenIn, tokenOut)
	if err != nil {
		return nil, nil, err
	}
	pair, err := s.pairs.GetPair(ctx, pairAddr)
	if err != nil {
		return nil, nil, err
	}
	return pair.ReservesFor(tokenIn)
}

func (s *routerService) lookupPair(
	ctx context.Context, tokenA, tokenB domain.Address,
) (domain.Address, error) {
	pairAddr, ok, err := s.factory.LookupPair(ctx, tokenA, tokenB)
	if err != nil {
		return domain.ZeroAddress, err
	}
	if !ok {
		return domain.ZeroAddress, domain.ErrPairNotFound
	}
	return pairAddr, nil
}

func (s *routerService) transferFrom(
	ctx context.Context, token, from, to domain.Address, amount *uint256.Int,
) error {
	if err := s.ledgers.Ledger(token).TransferFrom(
		ctx, s.address, from, to, amount,
	); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
	}
	return nil
}

func (s *routerService) callAs(call CallContext) CallContext {
	return CallContext{Caller: s.address, Now: call.Now}
}

func checkDeadline(call CallContext, deadline uint64) error {
	if err := call.validate(); err != nil {
		return err
	}
	if call.Now > deadline {
		return domain.ErrExpired
	}
	return nil
}

// optimalAmounts returns the amounts to deposit so that they match the
// current price of the pair without exceeding the desired ones.
func optimalAmounts(
	req AddLiquidityRequest, reserveA, reserveB *uint256.Int,
) (*uint256.Int, *uint256.Int, error) {
	desiredA, desiredB := zeroIfNil(req.AmountADesired), zeroIfNil(req.AmountBDesired)
	minA, minB := zeroIfNil(req.AmountAMin), zeroIfNil(req.AmountBMin)

	if reserveA.IsZero() && reserveB.IsZero() {
		return desiredA.Clone(), desiredB.Clone(), nil
	}

	optimalB, err := amm.Quote(desiredA, reserveA, reserveB)
	if err != nil {
		return nil, nil, err
	}
	if !optimalB.Gt(desiredB) {
		if optimalB.Lt(minB) {
			return nil, nil, domain.ErrInsufficientBAmount
		}
		return desiredA.Clone(), optimalB, nil
	}

	optimalA, err := amm.Quote(desiredB, reserveB, reserveA)
	if err != nil {
		return nil, nil, err
	}
	if optimalA.Gt(desiredA) || optimalA.Lt(minA) {
		return nil, nil, domain.ErrInsufficientAAmount
	}
	return optimalA, desiredB.Clone(), nil
}
