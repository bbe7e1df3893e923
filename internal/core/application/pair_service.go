package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/core/ports"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// PairService exposes the operations of the constant-product pairs. Every
// mutating operation locks the pair for its whole duration, a nested call to
// the same pair fails with domain.ErrReentrant.
type PairService interface {
	// ProvideLiquidity mints shares to recipient for the tokens transferred
	// to the pair since its last update.
	ProvideLiquidity(
		ctx context.Context, call CallContext, pair, recipient domain.Address,
	) (*uint256.Int, error)
	// RemoveLiquidity burns the shares held by the pair itself and sends the
	// corresponding tokens to recipient.
	RemoveLiquidity(
		ctx context.Context, call CallContext, pair, recipient domain.Address,
	) (*uint256.Int, *uint256.Int, error)
	// Swap sends the requested outputs to recipient and settles the swap
	// against the inputs observed afterwards.
	Swap(
		ctx context.Context, call CallContext, pair domain.Address,
		amount0Out, amount1Out *uint256.Int, recipient domain.Address,
	) error
	// ForceSync aligns the reserves of the pair to its token balances.
	ForceSync(ctx context.Context, call CallContext, pair domain.Address) error
	// Skim sends the excess of token balances over the reserves to recipient.
	Skim(ctx context.Context, call CallContext, pair, recipient domain.Address) error

	TransferShares(
		ctx context.Context, call CallContext, pair, to domain.Address,
		amount *uint256.Int,
	) error
	ApproveShares(
		ctx context.Context, call CallContext, pair, spender domain.Address,
		amount *uint256.Int,
	) error
	TransferSharesFrom(
		ctx context.Context, call CallContext, pair, from, to domain.Address,
		amount *uint256.Int,
	) error
	ShareBalance(ctx context.Context, pair, holder domain.Address) (*uint256.Int, error)
	ShareAllowance(
		ctx context.Context, pair, owner, spender domain.Address,
	) (*uint256.Int, error)
	TotalShares(ctx context.Context, pair domain.Address) (*uint256.Int, error)

	GetPair(ctx context.Context, pair domain.Address) (*domain.Pair, error)
	Reserves(
		ctx context.Context, pair domain.Address,
	) (*uint256.Int, *uint256.Int, uint64, error)
	Tokens(ctx context.Context, pair domain.Address) (domain.Address, domain.Address, error)
	SpotPrices(
		ctx context.Context, pair domain.Address,
	) (decimal.Decimal, decimal.Decimal, error)
}

type pairService struct {
	runner
	ledgers ports.LedgerProvider
	locks   *lockTable
}

func NewPairService(
	repoManager ports.RepoManager,
	ledgers ports.LedgerProvider,
	sink ports.EventSink,
) PairService {
	return newPairService(repoManager, ledgers, sink)
}

func newPairService(
	repoManager ports.RepoManager,
	ledgers ports.LedgerProvider,
	sink ports.EventSink,
) *pairService {
	return &pairService{
		runner:  runner{repoManager, sink},
		ledgers: ledgers,
		locks:   newLockTable(),
	}
}

func (s *pairService) ProvideLiquidity(
	ctx context.Context, call CallContext, pairAddr, recipient domain.Address,
) (*uint256.Int, error) {
	release, err := s.enter(call, pairAddr)
	if err != nil {
		return nil, err
	}
	defer release()

	res, err := s.run(ctx, false, func(ctx context.Context) (interface{}, error) {
		feeTo, err := s.feeTo(ctx)
		if err != nil {
			return nil, err
		}

		var result *domain.MintResult
		if err := s.repoManager.PairRepository().UpdatePair(
			ctx, pairAddr, func(p *domain.Pair) (*domain.Pair, error) {
				balance0, balance1, err := s.balances(ctx, p)
				if err != nil {
					return nil, err
				}
				if result, err = p.Mint(
					balance0, balance1, recipient, feeTo, call.Now,
				); err != nil {
					return nil, err
				}
				if !result.ProtocolFee.IsZero() {
					emit(ctx, domain.SharesTransferred{
						Pair: p.Address, From: domain.ZeroAddress, To: feeTo,
						Amount: result.ProtocolFee,
					})
				}
				emit(ctx, syncedEvent(p), domain.LiquidityMinted{
					Pair:      p.Address,
					Sender:    call.Caller,
					Recipient: recipient,
					Amount0:   result.Amount0,
					Amount1:   result.Amount1,
					Shares:    result.Shares,
				})
				return p, nil
			},
		); err != nil {
			return nil, err
		}
		return result.Shares, nil
	})
	if err != nil {
		log.WithError(err).Debug("pair: failed to provide liquidity")
		return nil, err
	}

	shares := res.(*uint256.Int)
	log.WithFields(log.Fields{
		"pair":   pairAddr.String(),
		"shares": shares.Dec(),
	}).Debug("pair: liquidity provided")
	return shares, nil
}

func (s *pairService) RemoveLiquidity(
	ctx context.Context, call CallContext, pairAddr, recipient domain.Address,
) (*uint256.Int, *uint256.Int, error) {
	release, err := s.enter(call, pairAddr)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	res, err := s.run(ctx, false, func(ctx context.Context) (interface{}, error) {
		feeTo, err := s.feeTo(ctx)
		if err != nil {
			return nil, err
		}

		var result *domain.BurnResult
		if err := s.repoManager.PairRepository().UpdatePair(
			ctx, pairAddr, func(p *domain.Pair) (*domain.Pair, error) {
				if err := p.ValidateRecipient(recipient); err != nil {
					return nil, err
				}
				if result, err = p.Burn(feeTo); err != nil {
					return nil, err
				}
				if err := s.transfer(ctx, p.Token0, p.Address, recipient, result.Amount0); err != nil {
					return nil, err
				}
				if err := s.transfer(ctx, p.Token1, p.Address, recipient, result.Amount1); err != nil {
					return nil, err
				}
				balance0, balance1, err := s.balances(ctx, p)
				if err != nil {
					return nil, err
				}
				if err := p.SettleBurn(balance0, balance1, result.FeeOn, call.Now); err != nil {
					return nil, err
				}

				if !result.ProtocolFee.IsZero() {
					emit(ctx, domain.SharesTransferred{
						Pair: p.Address, From: domain.ZeroAddress, To: feeTo,
						Amount: result.ProtocolFee,
					})
				}
				emit(ctx, syncedEvent(p), domain.LiquidityBurned{
					Pair:      p.Address,
					Sender:    call.Caller,
					Recipient: recipient,
					Amount0:   result.Amount0,
					Amount1:   result.Amount1,
					Shares:    result.Shares,
				})
				return p, nil
			},
		); err != nil {
			return nil, err
		}
		return result, nil
	})
	if err != nil {
		log.WithError(err).Debug("pair: failed to remove liquidity")
		return nil, nil, err
	}

	result := res.(*domain.BurnResult)
	log.WithFields(log.Fields{
		"pair":    pairAddr.String(),
		"amount0": result.Amount0.Dec(),
		"amount1": result.Amount1.Dec(),
	}).Debug("pair: liquidity removed")
	return result.Amount0, result.Amount1, nil
}

func (s *pairService) Swap(
	ctx context.Context, call CallContext, pairAddr domain.Address,
	amount0Out, amount1Out *uint256.Int, recipient domain.Address,
) error {
	amount0Out, amount1Out = zeroIfNil(amount0Out), zeroIfNil(amount1Out)

	release, err := s.enter(call, pairAddr)
	if err != nil {
		return err
	}
	defer release()

	if _, err := s.run(ctx, false, func(ctx context.Context) (interface{}, error) {
		return nil, s.repoManager.PairRepository().UpdatePair(
			ctx, pairAddr, func(p *domain.Pair) (*domain.Pair, error) {
				if err := p.ValidateSwap(amount0Out, amount1Out, recipient); err != nil {
					return nil, err
				}

				if !amount0Out.IsZero() {
					if err := s.transfer(ctx, p.Token0, p.Address, recipient, amount0Out); err != nil {
						return nil, err
					}
				}
				if !amount1Out.IsZero() {
					if err := s.transfer(ctx, p.Token1, p.Address, recipient, amount1Out); err != nil {
						return nil, err
					}
				}

				balance0, balance1, err := s.balances(ctx, p)
				if err != nil {
					return nil, err
				}
				amount0In, amount1In, err := p.SettleSwap(
					amount0Out, amount1Out, balance0, balance1, call.Now,
				)
				if err != nil {
					return nil, err
				}

				emit(ctx, syncedEvent(p), domain.Swapped{
					Pair:       p.Address,
					Sender:     call.Caller,
					Recipient:  recipient,
					Amount0In:  amount0In,
					Amount1In:  amount1In,
					Amount0Out: amount0Out.Clone(),
					Amount1Out: amount1Out.Clone(),
				})
				return p, nil
			},
		)
	}); err != nil {
		log.WithError(err).Debug("pair: failed to swap")
		return err
	}

	log.WithFields(log.Fields{
		"pair":        pairAddr.String(),
		"amount0_out": amount0Out.Dec(),
		"amount1_out": amount1Out.Dec(),
	}).Debug("pair: swapped")
	return nil
}

func (s *pairService) ForceSync(
	ctx context.Context, call CallContext, pairAddr domain.Address,
) error {
	release, err := s.enter(call, pairAddr)
	if err != nil {
		return err
	}
	defer release()

	_, err = s.run(ctx, false, func(ctx context.Context) (interface{}, error) {
		return nil, s.repoManager.PairRepository().UpdatePair(
			ctx, pairAddr, func(p *domain.Pair) (*domain.Pair, error) {
				balance0, balance1, err := s.balances(ctx, p)
				if err != nil {
					return nil, err
				}
				if err := p.Sync(balance0, balance1, call.Now); err != nil {
					return nil, err
				}
				emit(ctx, syncedEvent(p))
				return p, nil
			},
		)
	})
	return err
}

func (s *pairService) Skim(
	ctx context.Context, call CallContext, pairAddr, recipient domain.Address,
) error {
	release, err := s.enter(call, pairAddr)
	if err != nil {
		return err
	}
	defer release()

	_, err = s.run(ctx, false, func(ctx context.Context) (interface{}, error) {
		p, err := s.repoManager.PairRepository().GetPair(ctx, pairAddr)
		if err != nil {
			return nil, err
		}
		if err := p.ValidateRecipient(recipient); err != nil {
			return nil, err
		}
		balance0, balance1, err := s.balances(ctx, p)
		if err != nil {
			return nil, err
		}
		excess0, excess1, err := p.Excess(balance0, balance1)
		if err != nil {
			return nil, err
		}
		if !excess0.IsZero() {
			if err := s.transfer(ctx, p.Token0, p.Address, recipient, excess0); err != nil {
				return nil, err
			}
		}
		if !excess1.IsZero() {
			if err := s.transfer(ctx, p.Token1, p.Address, recipient, excess1); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func (s *pairService) TransferShares(
	ctx context.Context, call CallContext, pairAddr, to domain.Address,
	amount *uint256.Int,
) error {
	return s.updateShares(ctx, call, pairAddr, func(p *domain.Pair) error {
		if err := p.TransferShares(call.Caller, to, amount); err != nil {
			return err
		}
		emit(ctx, domain.SharesTransferred{
			Pair: p.Address, From: call.Caller, To: to, Amount: amount.Clone(),
		})
		return nil
	})
}

func (s *pairService) ApproveShares(
	ctx context.Context, call CallContext, pairAddr, spender domain.Address,
	amount *uint256.Int,
) error {
	return s.updateShares(ctx, call, pairAddr, func(p *domain.Pair) error {
		if err := p.ApproveShares(call.Caller, spender, amount); err != nil {
			return err
		}
		emit(ctx, domain.SharesApproved{
			Pair: p.Address, Owner: call.Caller, Spender: spender, Amount: amount.Clone(),
		})
		return nil
	})
}

func (s *pairService) TransferSharesFrom(
	ctx context.Context, call CallContext, pairAddr, from, to domain.Address,
	amount *uint256.Int,
) error {
	return s.updateShares(ctx, call, pairAddr, func(p *domain.Pair) error {
		if err := p.TransferSharesFrom(call.Caller, from, to, amount); err != nil {
			return err
		}
		emit(ctx, domain.SharesTransferred{
			Pair: p.Address, From: from, To: to, Amount: amount.Clone(),
		})
		return nil
	})
}

func (s *pairService) ShareBalance(
	ctx context.Context, pairAddr, holder domain.Address,
) (*uint256.Int, error) {
	p, err := s.GetPair(ctx, pairAddr)
	if err != nil {
		return nil, err
	}
	return p.ShareBalance(holder), nil
}

func (s *pairService) ShareAllowance(
	ctx context.Context, pairAddr, owner, spender domain.Address,
) (*uint256.Int, error) {
	p, err := s.GetPair(ctx, pairAddr)
	if err != nil {
		return nil, err
	}
	return p.ShareAllowance(owner, spender), nil
}

func (s *pairService) TotalShares(
	ctx context.Context, pairAddr domain.Address,
) (*uint256.Int, error) {
	p, err := s.GetPair(ctx, pairAddr)
	if err != nil {
		return nil, err
	}
	return p.TotalShares.Clone(), nil
}

func (s *pairService) GetPair(
	ctx context.Context, pairAddr domain.Address,
) (*domain.Pair, error) {
	res, err := s.run(ctx, true, func(ctx context.Context) (interface{}, error) {
		return s.repoManager.PairRepository().GetPair(ctx, pairAddr)
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.Pair), nil
}

func (s *pairService) Reserves(
	ctx context.Context, pairAddr domain.Address,
) (*uint256.Int, *uint256.Int, uint64, error) {
	p, err := s.GetPair(ctx, pairAddr)
	if err != nil {
		return nil, nil, 0, err
	}
	reserve0, reserve1, timestamp := p.Reserves()
	return reserve0, reserve1, timestamp, nil
}

func (s *pairService) Tokens(
	ctx context.Context, pairAddr domain.Address,
) (domain.Address, domain.Address, error) {
	p, err := s.GetPair(ctx, pairAddr)
	if err != nil {
		return domain.ZeroAddress, domain.ZeroAddress, err
	}
	return p.Token0, p.Token1, nil
}

func (s *pairService) SpotPrices(
	ctx context.Context, pairAddr domain.Address,
) (decimal.Decimal, decimal.Decimal, error) {
	p, err := s.GetPair(ctx, pairAddr)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	price0, price1 := p.SpotPrices()
	return price0, price1, nil
}

// updateShares runs the given share ledger operation on the pair. Share
// transfers are forbidden while the pair is serving another call, otherwise
// they would be overwritten once the outer call stores the pair.
func (s *pairService) updateShares(
	ctx context.Context, call CallContext, pairAddr domain.Address,
	updateFn func(p *domain.Pair) error,
) error {
	release, err := s.enter(call, pairAddr)
	if err != nil {
		return err
	}
	defer release()

	_, err = s.run(ctx, false, func(ctx context.Context) (interface{}, error) {
		return nil, s.repoManager.PairRepository().UpdatePair(
			ctx, pairAddr, func(p *domain.Pair) (*domain.Pair, error) {
				if err := updateFn(p); err != nil {
					return nil, err
				}
				return p, nil
			},
		)
	})
	return err
}

// enter validates the call and locks the pair for its whole duration.
func (s *pairService) enter(call CallContext, pairAddr domain.Address) (func(), error) {
	if err := call.validate(); err != nil {
		return nil, err
	}
	return s.locks.acquire(pairAddr)
}

// feeTo returns the protocol fee recipient, null if the fee is off or the
// factory is not initialized.
func (s *pairService) feeTo(ctx context.Context) (domain.Address, error) {
	factory, err := s.repoManager.FactoryRepository().GetFactory(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrFactoryNotInitialized) {
			return domain.ZeroAddress, nil
		}
		return domain.ZeroAddress, err
	}
	return factory.FeeTo, nil
}

func (s *pairService) balances(
	ctx context.Context, p *domain.Pair,
) (*uint256.Int, *uint256.Int, error) {
	balance0, err := s.ledgers.Ledger(p.Token0).BalanceOf(ctx, p.Address)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrCallFailed, err)
	}
	balance1, err := s.ledgers.Ledger(p.Token1).BalanceOf(ctx, p.Address)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrCallFailed, err)
	}
	return balance0, balance1, nil
}

func (s *pairService) transfer(
	ctx context.Context, token, from, to domain.Address, amount *uint256.Int,
) error {
	if err := s.ledgers.Ledger(token).Transfer(ctx, from, to, amount); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
	}
	return nil
}

func syncedEvent(p *domain.Pair) domain.Synced {
	return domain.Synced{
		Pair:     p.Address,
		Reserve0: p.Reserve0.Clone(),
		Reserve1: p.Reserve1.Clone(),
	}
}
