package domain

import (
	"github.com/BelizeChain/gem/pkg/amm"
	"github.com/holiman/uint256"
)

// ShareBalance returns the amount of liquidity shares held by the given
// account.
func (p *Pair) ShareBalance(holder Address) *uint256.Int {
	if b, ok := p.Shares[holder]; ok {
		return b.Clone()
	}
	return new(uint256.Int)
}

// ShareAllowance returns the amount of shares spender is allowed to move on
// behalf of owner.
func (p *Pair) ShareAllowance(owner, spender Address) *uint256.Int {
	if a, ok := p.Allowances[owner][spender]; ok {
		return a.Clone()
	}
	return new(uint256.Int)
}

// TransferShares moves shares between two accounts. Shares held by the null
// address are locked forever.
func (p *Pair) TransferShares(from, to Address, amount *uint256.Int) error {
	if from.IsZero() || to.IsZero() {
		return ErrZeroAddress
	}
	balance := p.ShareBalance(from)
	if balance.Lt(amount) {
		return ErrInsufficientBalance
	}
	if from == to {
		return nil
	}

	received, err := amm.Add(p.ShareBalance(to), amount)
	if err != nil {
		return err
	}
	p.setShares(from, balance.Sub(balance, amount))
	p.setShares(to, received)
	return nil
}

// ApproveShares sets the allowance of spender over the owner's shares.
func (p *Pair) ApproveShares(owner, spender Address, amount *uint256.Int) error {
	if owner.IsZero() || spender.IsZero() {
		return ErrZeroAddress
	}
	if p.Allowances == nil {
		p.Allowances = make(map[Address]map[Address]*uint256.Int)
	}
	if _, ok := p.Allowances[owner]; !ok {
		p.Allowances[owner] = make(map[Address]*uint256.Int)
	}
	if amount.IsZero() {
		delete(p.Allowances[owner], spender)
		if len(p.Allowances[owner]) == 0 {
			delete(p.Allowances, owner)
		}
		return nil
	}
	p.Allowances[owner][spender] = amount.Clone()
	return nil
}

// TransferSharesFrom moves shares on behalf of their owner, consuming the
// spender's allowance.
func (p *Pair) TransferSharesFrom(spender, from, to Address, amount *uint256.Int) error {
	allowance := p.ShareAllowance(from, spender)
	if allowance.Lt(amount) {
		return ErrInsufficientAllowance
	}
	if err := p.TransferShares(from, to, amount); err != nil {
		return err
	}
	return p.ApproveShares(from, spender, allowance.Sub(allowance, amount))
}

func (p *Pair) mintShares(to Address, amount *uint256.Int) error {
	supply, err := amm.Add(p.TotalShares, amount)
	if err != nil {
		return err
	}
	balance, err := amm.Add(p.ShareBalance(to), amount)
	if err != nil {
		return err
	}
	p.TotalShares = supply
	p.setShares(to, balance)
	return nil
}

func (p *Pair) burnShares(from Address, amount *uint256.Int) error {
	balance, err := amm.Sub(p.ShareBalance(from), amount)
	if err != nil {
		return ErrInsufficientBalance
	}
	supply, err := amm.Sub(p.TotalShares, amount)
	if err != nil {
		return err
	}
	p.TotalShares = supply
	p.setShares(from, balance)
	return nil
}

func (p *Pair) setShares(holder Address, amount *uint256.Int) {
	if p.Shares == nil {
		p.Shares = make(map[Address]*uint256.Int)
	}
	if amount.IsZero() {
		delete(p.Shares, holder)
		return
	}
	p.Shares[holder] = amount
}
