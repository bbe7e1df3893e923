package dbbadger

import (
	"fmt"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/holiman/uint256"
)

// Pair is the stored version of domain.Pair, amounts are stored as decimal
// strings and addresses as hex strings.
type Pair struct {
	Address              string
	Token0               string
	Token1               string
	Reserve0             string
	Reserve1             string
	TotalShares          string
	Shares               map[string]string
	Allowances           map[string]map[string]string
	BlockTimestampLast   uint64
	Price0CumulativeLast string
	Price1CumulativeLast string
	KLast                string
}

type Factory struct {
	FeeTo       string
	FeeToSetter string
	Registry    map[string]string
	AllPairs    []string
}

type Balance struct {
	Token   string
	Account string
	Amount  string
}

type Allowance struct {
	Token   string
	Owner   string
	Spender string
	Amount  string
}

func MapDomainPairToInfraPair(pair domain.Pair) *Pair {
	shares := make(map[string]string, len(pair.Shares))
	for holder, amount := range pair.Shares {
		shares[holder.String()] = amount.Dec()
	}
	allowances := make(map[string]map[string]string, len(pair.Allowances))
	for owner, spenders := range pair.Allowances {
		m := make(map[string]string, len(spenders))
		for spender, amount := range spenders {
			m[spender.String()] = amount.Dec()
		}
		allowances[owner.String()] = m
	}

	return &Pair{
		Address:              pair.Address.String(),
		Token0:               pair.Token0.String(),
		Token1:               pair.Token1.String(),
		Reserve0:             pair.Reserve0.Dec(),
		Reserve1:             pair.Reserve1.Dec(),
		TotalShares:          pair.TotalShares.Dec(),
		Shares:               shares,
		Allowances:           allowances,
		BlockTimestampLast:   pair.BlockTimestampLast,
		Price0CumulativeLast: pair.Price0CumulativeLast.Dec(),
		Price1CumulativeLast: pair.Price1CumulativeLast.Dec(),
		KLast:                pair.KLast.Dec(),
	}
}

func MapInfraPairToDomainPair(pair Pair) (*domain.Pair, error) {
	p := &domain.Pair{
		Shares:             make(map[domain.Address]*uint256.Int, len(pair.Shares)),
		Allowances:         make(map[domain.Address]map[domain.Address]*uint256.Int),
		BlockTimestampLast: pair.BlockTimestampLast,
	}

	var err error
	for _, a := range []struct {
		from string
		to   *domain.Address
	}{
		{pair.Address, &p.Address},
		{pair.Token0, &p.Token0},
		{pair.Token1, &p.Token1},
	} {
		if *a.to, err = domain.ParseAddress(a.from); err != nil {
			return nil, err
		}
	}
	for _, a := range []struct {
		from string
		to   **uint256.Int
	}{
		{pair.Reserve0, &p.Reserve0},
		{pair.Reserve1, &p.Reserve1},
		{pair.TotalShares, &p.TotalShares},
		{pair.Price0CumulativeLast, &p.Price0CumulativeLast},
		{pair.Price1CumulativeLast, &p.Price1CumulativeLast},
		{pair.KLast, &p.KLast},
	} {
		if *a.to, err = parseAmount(a.from); err != nil {
			return nil, err
		}
	}

	for holder, amount := range pair.Shares {
		h, err := domain.ParseAddress(holder)
		if err != nil {
			return nil, err
		}
		if p.Shares[h], err = parseAmount(amount); err != nil {
			return nil, err
		}
	}
	for owner, spenders := range pair.Allowances {
		o, err := domain.ParseAddress(owner)
		if err != nil {
			return nil, err
		}
		m := make(map[domain.Address]*uint256.Int, len(spenders))
		for spender, amount := range spenders {
			s, err := domain.ParseAddress(spender)
			if err != nil {
				return nil, err
			}
			if m[s], err = parseAmount(amount); err != nil {
				return nil, err
			}
		}
		p.Allowances[o] = m
	}
	return p, nil
}

func MapDomainFactoryToInfraFactory(factory domain.Factory) *Factory {
	registry := make(map[string]string, len(factory.Registry))
	for k, v := range factory.Registry {
		registry[k] = v.String()
	}
	allPairs := make([]string, 0, len(factory.AllPairs))
	for _, p := range factory.AllPairs {
		allPairs = append(allPairs, p.String())
	}

	return &Factory{
		FeeTo:       factory.FeeTo.String(),
		FeeToSetter: factory.FeeToSetter.String(),
		Registry:    registry,
		AllPairs:    allPairs,
	}
}

func MapInfraFactoryToDomainFactory(factory Factory) (*domain.Factory, error) {
	feeTo, err := domain.ParseAddress(factory.FeeTo)
	if err != nil {
		return nil, err
	}
	feeToSetter, err := domain.ParseAddress(factory.FeeToSetter)
	if err != nil {
		return nil, err
	}

	registry := make(map[string]domain.Address, len(factory.Registry))
	for k, v := range factory.Registry {
		if registry[k], err = domain.ParseAddress(v); err != nil {
			return nil, err
		}
	}
	allPairs := make([]domain.Address, 0, len(factory.AllPairs))
	for _, v := range factory.AllPairs {
		p, err := domain.ParseAddress(v)
		if err != nil {
			return nil, err
		}
		allPairs = append(allPairs, p)
	}

	return &domain.Factory{
		FeeTo:       feeTo,
		FeeToSetter: feeToSetter,
		Registry:    registry,
		AllPairs:    allPairs,
	}, nil
}

func parseAmount(s string) (*uint256.Int, error) {
	if len(s) <= 0 {
		return new(uint256.Int), nil
	}
	amount, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %s", ErrMalformedAmount, s, err)
	}
	return amount, nil
}
