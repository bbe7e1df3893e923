package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var swapexactin = cli.Command{
	Name:  "swap-exact-in",
	Usage: "sell an exact amount of the first token of path",
	Flags: []cli.Flag{
		callerFlag,
		recipientFlag,
		deadlineFlag,
		pathFlag,
		&cli.StringFlag{
			Name:     "amount-in",
			Usage:    "the amount to sell",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "min-out",
			Usage: "the minimum amount of the last token of path to receive",
		},
	},
	Action: withEngine(swapExactInAction),
}

var swapexactout = cli.Command{
	Name:  "swap-exact-out",
	Usage: "buy an exact amount of the last token of path",
	Flags: []cli.Flag{
		callerFlag,
		recipientFlag,
		deadlineFlag,
		pathFlag,
		&cli.StringFlag{
			Name:     "amount-out",
			Usage:    "the amount to buy",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "max-in",
			Usage:    "the maximum amount of the first token of path to sell",
			Required: true,
		},
	},
	Action: withEngine(swapExactOutAction),
}

var quote = cli.Command{
	Name:  "quote",
	Usage: "preview the amounts of a swap through path",
	Flags: []cli.Flag{
		pathFlag,
		&cli.StringFlag{
			Name:  "amount-in",
			Usage: "the amount to sell",
		},
		&cli.StringFlag{
			Name:  "amount-out",
			Usage: "the amount to buy",
		},
	},
	Action: withEngine(quoteAction),
}

func swapExactInAction(ctx *cli.Context, e *engine) error {
	call, err := callContext(ctx)
	if err != nil {
		return err
	}
	recipient, err := parseRecipientFlag(ctx, call.Caller)
	if err != nil {
		return err
	}
	path, err := parsePath(ctx.String(pathFlag.Name))
	if err != nil {
		return err
	}
	amountIn, err := parseAmountFlag(ctx, "amount-in")
	if err != nil {
		return err
	}
	minOut, err := parseAmountFlag(ctx, "min-out")
	if err != nil {
		return err
	}

	amounts, err := e.router.SwapExactIn(
		ctx.Context, call, amountIn, minOut, path, recipient, deadline(ctx, call),
	)
	if err != nil {
		return err
	}

	printJSON(map[string]interface{}{"amounts": formatAmounts(amounts)})
	return nil
}

func swapExactOutAction(ctx *cli.Context, e *engine) error {
	call, err := callContext(ctx)
	if err != nil {
		return err
	}
	recipient, err := parseRecipientFlag(ctx, call.Caller)
	if err != nil {
		return err
	}
	path, err := parsePath(ctx.String(pathFlag.Name))
	if err != nil {
		return err
	}
	amountOut, err := parseAmountFlag(ctx, "amount-out")
	if err != nil {
		return err
	}
	maxIn, err := parseAmountFlag(ctx, "max-in")
	if err != nil {
		return err
	}

	amounts, err := e.router.SwapExactOut(
		ctx.Context, call, amountOut, maxIn, path, recipient, deadline(ctx, call),
	)
	if err != nil {
		return err
	}

	printJSON(map[string]interface{}{"amounts": formatAmounts(amounts)})
	return nil
}

func quoteAction(ctx *cli.Context, e *engine) error {
	if ctx.IsSet("amount-in") == ctx.IsSet("amount-out") {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	path, err := parsePath(ctx.String(pathFlag.Name))
	if err != nil {
		return err
	}

	if ctx.IsSet("amount-in") {
		amountIn, err := parseAmountFlag(ctx, "amount-in")
		if err != nil {
			return err
		}
		amounts, err := e.router.AmountsOut(ctx.Context, amountIn, path)
		if err != nil {
			return err
		}
		printJSON(map[string]interface{}{"amounts": formatAmounts(amounts)})
		return nil
	}

	amountOut, err := parseAmountFlag(ctx, "amount-out")
	if err != nil {
		return err
	}
	amounts, err := e.router.AmountsIn(ctx.Context, amountOut, path)
	if err != nil {
		return fmt.Errorf("failed to quote input: %w", err)
	}
	printJSON(map[string]interface{}{"amounts": formatAmounts(amounts)})
	return nil
}
