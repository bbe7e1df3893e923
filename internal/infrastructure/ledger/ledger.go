// Package ledger is an in-process multi-token ledger used to back pairs and
// routers when no external token contract is available, as in tests and in
// the command line tool. Balances and allowances are kept in a Store so that
// they are committed or rolled back together with the pairs.
package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/core/ports"
	"github.com/BelizeChain/gem/pkg/amm"
	"github.com/holiman/uint256"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrInsufficientFunds ...
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientAllowance ...
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	// ErrZeroAccount is returned when moving funds to the null account.
	ErrZeroAccount = errors.New("account must not be null")
)

// Store persists balances and allowances of every token.
type Store interface {
	GetBalance(ctx context.Context, token, account domain.Address) (*uint256.Int, error)
	SetBalance(ctx context.Context, token, account domain.Address, amount *uint256.Int) error
	GetAllowance(ctx context.Context, token, owner, spender domain.Address) (*uint256.Int, error)
	SetAllowance(
		ctx context.Context, token, owner, spender domain.Address, amount *uint256.Int,
	) error
}

// ReceiveHook is called right after account has been credited with tokens.
// An error makes the transfer fail.
type ReceiveHook func(
	ctx context.Context, token, from domain.Address, amount *uint256.Int,
) error

// Ledger implements ports.LedgerProvider.
type Ledger struct {
	store Store

	lock  *sync.RWMutex
	hooks map[domain.Address]ReceiveHook
}

// New returns a ledger persisting its state in the given store.
func New(store Store) *Ledger {
	return &Ledger{
		store: store,
		lock:  &sync.RWMutex{},
		hooks: make(map[domain.Address]ReceiveHook),
	}
}

// Ledger returns the ports.TokenLedger of the given token.
func (l *Ledger) Ledger(token domain.Address) ports.TokenLedger {
	return tokenLedger{l, token}
}

// OnReceive registers a hook for the given account, a nil hook removes it.
func (l *Ledger) OnReceive(account domain.Address, hook ReceiveHook) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if hook == nil {
		delete(l.hooks, account)
		return
	}
	l.hooks[account] = hook
}

// BalanceOf returns the balance of account for the given token.
func (l *Ledger) BalanceOf(
	ctx context.Context, token, account domain.Address,
) (*uint256.Int, error) {
	return l.store.GetBalance(ctx, token, account)
}

// Allowance returns how many tokens spender can move on behalf of owner.
func (l *Ledger) Allowance(
	ctx context.Context, token, owner, spender domain.Address,
) (*uint256.Int, error) {
	return l.store.GetAllowance(ctx, token, owner, spender)
}

// Mint creates new tokens out of thin air and credits them to account.
func (l *Ledger) Mint(
	ctx context.Context, token, account domain.Address, amount *uint256.Int,
) error {
	if account.IsZero() {
		return ErrZeroAccount
	}
	balance, err := l.store.GetBalance(ctx, token, account)
	if err != nil {
		return err
	}
	newBalance, err := amm.Add(balance, amount)
	if err != nil {
		return err
	}
	if err := l.store.SetBalance(ctx, token, account, newBalance); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"token":   token.String(),
		"account": account.String(),
		"amount":  amount.Dec(),
	}).Debug("ledger: minted tokens")
	return nil
}

// Approve sets the allowance of spender over the owner's tokens.
func (l *Ledger) Approve(
	ctx context.Context, token, owner, spender domain.Address, amount *uint256.Int,
) error {
	if spender.IsZero() {
		return ErrZeroAccount
	}
	return l.store.SetAllowance(ctx, token, owner, spender, amount)
}

func (l *Ledger) transferFrom(
	ctx context.Context, token, spender, from, to domain.Address, amount *uint256.Int,
) error {
	allowance, err := l.store.GetAllowance(ctx, token, from, spender)
	if err != nil {
		return err
	}
	if allowance.Lt(amount) {
		return ErrInsufficientAllowance
	}
	newAllowance := new(uint256.Int).Sub(allowance, amount)
	if err := l.store.SetAllowance(ctx, token, from, spender, newAllowance); err != nil {
		return err
	}
	return l.transfer(ctx, token, from, to, amount)
}

func (l *Ledger) transfer(
	ctx context.Context, token, from, to domain.Address, amount *uint256.Int,
) error {
	if to.IsZero() {
		return ErrZeroAccount
	}

	fromBalance, err := l.store.GetBalance(ctx, token, from)
	if err != nil {
		return err
	}
	if fromBalance.Lt(amount) {
		return ErrInsufficientFunds
	}
	if from != to {
		if err := l.store.SetBalance(
			ctx, token, from, new(uint256.Int).Sub(fromBalance, amount),
		); err != nil {
			return err
		}
		toBalance, err := l.store.GetBalance(ctx, token, to)
		if err != nil {
			return err
		}
		newBalance, err := amm.Add(toBalance, amount)
		if err != nil {
			return err
		}
		if err := l.store.SetBalance(ctx, token, to, newBalance); err != nil {
			return err
		}
	}

	l.lock.RLock()
	hook, ok := l.hooks[to]
	l.lock.RUnlock()
	if ok {
		return hook(ctx, token, from, amount)
	}
	return nil
}

type tokenLedger struct {
	ledger *Ledger
	token  domain.Address
}

func (t tokenLedger) BalanceOf(
	ctx context.Context, account domain.Address,
) (*uint256.Int, error) {
	return t.ledger.BalanceOf(ctx, t.token, account)
}

func (t tokenLedger) Transfer(
	ctx context.Context, from, to domain.Address, amount *uint256.Int,
) error {
	return t.ledger.transfer(ctx, t.token, from, to, amount)
}

func (t tokenLedger) TransferFrom(
	ctx context.Context, spender, from, to domain.Address, amount *uint256.Int,
) error {
	return t.ledger.transferFrom(ctx, t.token, spender, from, to, amount)
}
