package domain

import (
	"strings"

	"github.com/holiman/uint256"
)

const (
	PairCreatedEvent             = "PairCreated"
	LiquidityMintedEvent         = "LiquidityMinted"
	LiquidityBurnedEvent         = "LiquidityBurned"
	SwappedEvent                 = "Swapped"
	SyncedEvent                  = "Synced"
	FeeRecipientChangedEvent     = "FeeRecipientChanged"
	FeeAdministratorChangedEvent = "FeeAdministratorChanged"
	SharesTransferredEvent       = "SharesTransferred"
	SharesApprovedEvent          = "SharesApproved"
	LiquidityAddedEvent          = "LiquidityAdded"
	LiquidityRemovedEvent        = "LiquidityRemoved"
	SwapExecutedEvent            = "SwapExecuted"
)

// Event is a fact emitted by a successful call. Events are observational
// only and are never read back.
type Event interface {
	// Type returns the name of the event.
	Type() string
	// Fields returns the event payload as a flat map of printable values.
	Fields() map[string]interface{}
}

type PairCreated struct {
	Token0 Address
	Token1 Address
	Pair   Address
	Index  int
}

func (e PairCreated) Type() string { return PairCreatedEvent }
func (e PairCreated) Fields() map[string]interface{} {
	return map[string]interface{}{
		"token0": e.Token0.String(),
		"token1": e.Token1.String(),
		"pair":   e.Pair.String(),
		"index":  e.Index,
	}
}

type LiquidityMinted struct {
	Pair      Address
	Sender    Address
	Recipient Address
	Amount0   *uint256.Int
	Amount1   *uint256.Int
	Shares    *uint256.Int
}

func (e LiquidityMinted) Type() string { return LiquidityMintedEvent }
func (e LiquidityMinted) Fields() map[string]interface{} {
	return map[string]interface{}{
		"pair":      e.Pair.String(),
		"sender":    e.Sender.String(),
		"recipient": e.Recipient.String(),
		"amount0":   e.Amount0.Dec(),
		"amount1":   e.Amount1.Dec(),
		"shares":    e.Shares.Dec(),
	}
}

type LiquidityBurned struct {
	Pair      Address
	Sender    Address
	Recipient Address
	Amount0   *uint256.Int
	Amount1   *uint256.Int
	Shares    *uint256.Int
}

func (e LiquidityBurned) Type() string { return LiquidityBurnedEvent }
func (e LiquidityBurned) Fields() map[string]interface{} {
	return map[string]interface{}{
		"pair":      e.Pair.String(),
		"sender":    e.Sender.String(),
		"recipient": e.Recipient.String(),
		"amount0":   e.Amount0.Dec(),
		"amount1":   e.Amount1.Dec(),
		"shares":    e.Shares.Dec(),
	}
}

type Swapped struct {
	Pair       Address
	Sender     Address
	Recipient  Address
	Amount0In  *uint256.Int
	Amount1In  *uint256.Int
	Amount0Out *uint256.Int
	Amount1Out *uint256.Int
}

func (e Swapped) Type() string { return SwappedEvent }
func (e Swapped) Fields() map[string]interface{} {
	return map[string]interface{}{
		"pair":        e.Pair.String(),
		"sender":      e.Sender.String(),
		"recipient":   e.Recipient.String(),
		"amount0_in":  e.Amount0In.Dec(),
		"amount1_in":  e.Amount1In.Dec(),
		"amount0_out": e.Amount0Out.Dec(),
		"amount1_out": e.Amount1Out.Dec(),
	}
}

type Synced struct {
	Pair     Address
	Reserve0 *uint256.Int
	Reserve1 *uint256.Int
}

func (e Synced) Type() string { return SyncedEvent }
func (e Synced) Fields() map[string]interface{} {
	return map[string]interface{}{
		"pair":     e.Pair.String(),
		"reserve0": e.Reserve0.Dec(),
		"reserve1": e.Reserve1.Dec(),
	}
}

type FeeRecipientChanged struct {
	Caller Address
	FeeTo  Address
}

func (e FeeRecipientChanged) Type() string { return FeeRecipientChangedEvent }
func (e FeeRecipientChanged) Fields() map[string]interface{} {
	return map[string]interface{}{
		"caller": e.Caller.String(),
		"fee_to": e.FeeTo.String(),
	}
}

type FeeAdministratorChanged struct {
	Caller      Address
	FeeToSetter Address
}

func (e FeeAdministratorChanged) Type() string { return FeeAdministratorChangedEvent }
func (e FeeAdministratorChanged) Fields() map[string]interface{} {
	return map[string]interface{}{
		"caller":        e.Caller.String(),
		"fee_to_setter": e.FeeToSetter.String(),
	}
}

type SharesTransferred struct {
	Pair   Address
	From   Address
	To     Address
	Amount *uint256.Int
}

func (e SharesTransferred) Type() string { return SharesTransferredEvent }
func (e SharesTransferred) Fields() map[string]interface{} {
	return map[string]interface{}{
		"pair":   e.Pair.String(),
		"from":   e.From.String(),
		"to":     e.To.String(),
		"amount": e.Amount.Dec(),
	}
}

type SharesApproved struct {
	Pair    Address
	Owner   Address
	Spender Address
	Amount  *uint256.Int
}

func (e SharesApproved) Type() string { return SharesApprovedEvent }
func (e SharesApproved) Fields() map[string]interface{} {
	return map[string]interface{}{
		"pair":    e.Pair.String(),
		"owner":   e.Owner.String(),
		"spender": e.Spender.String(),
		"amount":  e.Amount.Dec(),
	}
}

type LiquidityAdded struct {
	Sender  Address
	Pair    Address
	TokenA  Address
	TokenB  Address
	AmountA *uint256.Int
	AmountB *uint256.Int
	Shares  *uint256.Int
}

func (e LiquidityAdded) Type() string { return LiquidityAddedEvent }
func (e LiquidityAdded) Fields() map[string]interface{} {
	return map[string]interface{}{
		"sender":   e.Sender.String(),
		"pair":     e.Pair.String(),
		"token_a":  e.TokenA.String(),
		"token_b":  e.TokenB.String(),
		"amount_a": e.AmountA.Dec(),
		"amount_b": e.AmountB.Dec(),
		"shares":   e.Shares.Dec(),
	}
}

type LiquidityRemoved struct {
	Sender  Address
	Pair    Address
	TokenA  Address
	TokenB  Address
	AmountA *uint256.Int
	AmountB *uint256.Int
	Shares  *uint256.Int
}

func (e LiquidityRemoved) Type() string { return LiquidityRemovedEvent }
func (e LiquidityRemoved) Fields() map[string]interface{} {
	return map[string]interface{}{
		"sender":   e.Sender.String(),
		"pair":     e.Pair.String(),
		"token_a":  e.TokenA.String(),
		"token_b":  e.TokenB.String(),
		"amount_a": e.AmountA.Dec(),
		"amount_b": e.AmountB.Dec(),
		"shares":   e.Shares.Dec(),
	}
}

type SwapExecuted struct {
	Sender    Address
	Recipient Address
	Path      []Address
	AmountIn  *uint256.Int
	AmountOut *uint256.Int
}

func (e SwapExecuted) Type() string { return SwapExecutedEvent }
func (e SwapExecuted) Fields() map[string]interface{} {
	path := make([]string, 0, len(e.Path))
	for _, t := range e.Path {
		path = append(path, t.String())
	}
	return map[string]interface{}{
		"sender":     e.Sender.String(),
		"recipient":  e.Recipient.String(),
		"path":       strings.Join(path, ","),
		"amount_in":  e.AmountIn.Dec(),
		"amount_out": e.AmountOut.Dec(),
	}
}
