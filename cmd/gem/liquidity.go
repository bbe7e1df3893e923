package main

import (
	"github.com/BelizeChain/gem/internal/core/application"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"
)

var addliquidity = cli.Command{
	Name:  "add-liquidity",
	Usage: "deposit two tokens into their pair in exchange of shares",
	Flags: []cli.Flag{
		callerFlag,
		recipientFlag,
		deadlineFlag,
		tokenAFlag,
		tokenBFlag,
		&cli.StringFlag{
			Name:     "amount-a",
			Usage:    "the desired amount of token A",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount-b",
			Usage:    "the desired amount of token B",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "min-a",
			Usage: "the minimum amount of token A to deposit",
		},
		&cli.StringFlag{
			Name:  "min-b",
			Usage: "the minimum amount of token B to deposit",
		},
	},
	Action: withEngine(addLiquidityAction),
}

var removeliquidity = cli.Command{
	Name:  "remove-liquidity",
	Usage: "burn shares in exchange of the underlying tokens",
	Flags: []cli.Flag{
		callerFlag,
		recipientFlag,
		deadlineFlag,
		tokenAFlag,
		tokenBFlag,
		&cli.StringFlag{
			Name:     "shares",
			Usage:    "the amount of shares to burn",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "min-a",
			Usage: "the minimum amount of token A to receive",
		},
		&cli.StringFlag{
			Name:  "min-b",
			Usage: "the minimum amount of token B to receive",
		},
	},
	Action: withEngine(removeLiquidityAction),
}

func addLiquidityAction(ctx *cli.Context, e *engine) error {
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
	amounts := make(map[string]*uint256.Int, 4)
	for _, name := range []string{"amount-a", "amount-b", "min-a", "min-b"} {
		amount, err := parseAmountFlag(ctx, name)
		if err != nil {
			return err
		}
		amounts[name] = amount
	}

	res, err := e.router.AddLiquidity(ctx.Context, call, application.AddLiquidityRequest{
		TokenA:         tokenA,
		TokenB:         tokenB,
		AmountADesired: amounts["amount-a"],
		AmountBDesired: amounts["amount-b"],
		AmountAMin:     amounts["min-a"],
		AmountBMin:     amounts["min-b"],
		Recipient:      recipient,
		Deadline:       deadline(ctx, call),
	})
	if err != nil {
		return err
	}

	printJSON(map[string]string{
		"pair":     res.Pair.String(),
		"amount_a": res.AmountA.Dec(),
		"amount_b": res.AmountB.Dec(),
		"shares":   res.Shares.Dec(),
	})
	return nil
}

func removeLiquidityAction(ctx *cli.Context, e *engine) error {
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
	amounts := make(map[string]*uint256.Int, 3)
	for _, name := range []string{"shares", "min-a", "min-b"} {
		amount, err := parseAmountFlag(ctx, name)
		if err != nil {
			return err
		}
		amounts[name] = amount
	}

	res, err := e.router.RemoveLiquidity(ctx.Context, call, application.RemoveLiquidityRequest{
		TokenA:     tokenA,
		TokenB:     tokenB,
		Shares:     amounts["shares"],
		AmountAMin: amounts["min-a"],
		AmountBMin: amounts["min-b"],
		Recipient:  recipient,
		Deadline:   deadline(ctx, call),
	})
	if err != nil {
		return err
	}

	printJSON(map[string]string{
		"pair":     res.Pair.String(),
		"amount_a": res.AmountA.Dec(),
		"amount_b": res.AmountB.Dec(),
	})
	return nil
}
