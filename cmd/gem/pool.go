package main

import (
	"github.com/urfave/cli/v2"
)

var syncpair = cli.Command{
	Name:   "sync",
	Usage:  "align the reserves of a pair to its token balances",
	Flags:  []cli.Flag{callerFlag, tokenAFlag, tokenBFlag},
	Action: withEngine(syncAction),
}

var skimpair = cli.Command{
	Name:   "skim",
	Usage:  "send the excess of a pair's balances over its reserves to an account",
	Flags:  []cli.Flag{callerFlag, recipientFlag, tokenAFlag, tokenBFlag},
	Action: withEngine(skimAction),
}

func syncAction(ctx *cli.Context, e *engine) error {
	call, err := callContext(ctx)
	if err != nil {
		return err
	}
	tokenA, tokenB, err := parseTokensFlags(ctx)
	if err != nil {
		return err
	}
	pair, err := e.pairOf(ctx.Context, tokenA, tokenB)
	if err != nil {
		return err
	}
	return e.pairs.ForceSync(ctx.Context, call, pair)
}

func skimAction(ctx *cli.Context, e *engine) error {
	call, err := callContext(ctx)
	if err != nil {
		return err
	}
	recipient, err := parseRecipientFlag(ctx, call.Caller)
	if err != nil {
		return err
	}
	tokenA, tokenB, err := parseTokensFlags(ctx)
	if err != nil {
		return err
	}
	pair, err := e.pairOf(ctx.Context, tokenA, tokenB)
	if err != nil {
		return err
	}
	return e.pairs.Skim(ctx.Context, call, pair, recipient)
}
