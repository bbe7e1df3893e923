package domain

// Factory is the singleton registry mapping every unordered pair of tokens to
// the address of the one pair trading them.
type Factory struct {
	// Account receiving the protocol fee, null if fees are disabled.
	FeeTo Address
	// Account allowed to change FeeTo and itself.
	FeeToSetter Address
	// Registry is indexed by both orderings of a pair's tokens.
	Registry map[string]Address
	// AllPairs lists pair addresses in creation order.
	AllPairs []Address
}

// NewFactory returns an empty registry administered by feeToSetter.
func NewFactory(feeToSetter Address) (*Factory, error) {
	if feeToSetter.IsZero() {
		return nil, ErrZeroAddress
	}
	return &Factory{
		FeeToSetter: feeToSetter,
		Registry:    make(map[string]Address),
		AllPairs:    make([]Address, 0),
	}, nil
}

// Clone returns a deep copy of the factory.
func (f *Factory) Clone() *Factory {
	registry := make(map[string]Address, len(f.Registry))
	for k, v := range f.Registry {
		registry[k] = v
	}
	return &Factory{
		FeeTo:       f.FeeTo,
		FeeToSetter: f.FeeToSetter,
		Registry:    registry,
		AllPairs:    append(make([]Address, 0, len(f.AllPairs)), f.AllPairs...),
	}
}

// FeeOn returns whether the protocol fee is enabled.
func (f *Factory) FeeOn() bool {
	return !f.FeeTo.IsZero()
}

// LookupPair returns the pair trading the given tokens, in any order.
func (f *Factory) LookupPair(tokenA, tokenB Address) (Address, bool) {
	if tokenA == tokenB {
		return ZeroAddress, false
	}
	pair, ok := f.Registry[registryKey(tokenA, tokenB)]
	return pair, ok
}

// RegisterPair adds the pair for the given tokens to the registry under both
// orderings and returns its index.
func (f *Factory) RegisterPair(tokenA, tokenB, pair Address) (int, error) {
	token0, token1, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return -1, err
	}
	if _, ok := f.LookupPair(token0, token1); ok {
		return -1, ErrPairExists
	}
	if _, ok := f.LookupPair(token1, token0); ok {
		return -1, ErrPairExists
	}

	if f.Registry == nil {
		f.Registry = make(map[string]Address)
	}
	f.Registry[registryKey(token0, token1)] = pair
	f.Registry[registryKey(token1, token0)] = pair
	f.AllPairs = append(f.AllPairs, pair)
	return len(f.AllPairs) - 1, nil
}

// PairByIndex returns the i-th created pair.
func (f *Factory) PairByIndex(i int) (Address, error) {
	if i < 0 || i >= len(f.AllPairs) {
		return ZeroAddress, ErrPairNotFound
	}
	return f.AllPairs[i], nil
}

// SetFeeTo changes the protocol fee recipient, a null recipient disables the
// fee.
func (f *Factory) SetFeeTo(caller, feeTo Address) error {
	if caller != f.FeeToSetter {
		return ErrNotAuthorized
	}
	f.FeeTo = feeTo
	return nil
}

// SetFeeToSetter hands over the administration of the factory.
func (f *Factory) SetFeeToSetter(caller, feeToSetter Address) error {
	if caller != f.FeeToSetter {
		return ErrNotAuthorized
	}
	if feeToSetter.IsZero() {
		return ErrZeroAddress
	}
	f.FeeToSetter = feeToSetter
	return nil
}

func registryKey(tokenA, tokenB Address) string {
	return tokenA.String() + tokenB.String()
}
