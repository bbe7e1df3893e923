package main

import (
	"github.com/urfave/cli/v2"
)

var mint = cli.Command{
	Name:  "mint",
	Usage: "credit an account with new tokens",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "token",
			Usage:    "the token to mint, hex address or label",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "account",
			Usage:    "the account to credit, hex address or label",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount to mint",
			Required: true,
		},
	},
	Action: withEngine(mintAction),
}

var balance = cli.Command{
	Name:  "balance",
	Usage: "show the balance of an account, token can also be a pair",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "token",
			Usage:    "the token or the pair, hex address or label",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "account",
			Usage:    "the account, hex address or label",
			Required: true,
		},
	},
	Action: withEngine(balanceAction),
}

var approve = cli.Command{
	Name:  "approve",
	Usage: "allow an account to move the caller's tokens or pair shares",
	Flags: []cli.Flag{
		callerFlag,
		&cli.StringFlag{
			Name:     "token",
			Usage:    "the token or the pair, hex address or label",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "spender",
			Usage: "the approved account, defaults to the router",
		},
		&cli.StringFlag{
			Name:  "amount",
			Usage: "the allowance, either a number or max",
			Value: "max",
		},
	},
	Action: withEngine(approveAction),
}

func mintAction(ctx *cli.Context, e *engine) error {
	token, err := parseAddressFlag(ctx, "token")
	if err != nil {
		return err
	}
	account, err := parseAddressFlag(ctx, "account")
	if err != nil {
		return err
	}
	amount, err := parseAmountFlag(ctx, "amount")
	if err != nil {
		return err
	}

	if err := e.ledger.Mint(ctx.Context, token, account, amount); err != nil {
		return err
	}

	printJSON(map[string]string{
		"token":   token.String(),
		"account": account.String(),
		"amount":  amount.Dec(),
	})
	return nil
}

func balanceAction(ctx *cli.Context, e *engine) error {
	token, err := parseAddressFlag(ctx, "token")
	if err != nil {
		return err
	}
	account, err := parseAddressFlag(ctx, "account")
	if err != nil {
		return err
	}

	kind := "token"
	balance, err := e.ledger.BalanceOf(ctx.Context, token, account)
	if e.isPair(ctx.Context, token) {
		kind = "shares"
		balance, err = e.pairs.ShareBalance(ctx.Context, token, account)
	}
	if err != nil {
		return err
	}

	printJSON(map[string]string{
		"kind":    kind,
		"account": account.String(),
		"balance": balance.Dec(),
	})
	return nil
}

func approveAction(ctx *cli.Context, e *engine) error {
	call, err := callContext(ctx)
	if err != nil {
		return err
	}
	token, err := parseAddressFlag(ctx, "token")
	if err != nil {
		return err
	}
	spender := e.router.Address()
	if ctx.IsSet("spender") {
		if spender, err = parseAddressFlag(ctx, "spender"); err != nil {
			return err
		}
	}
	amount, err := parseAmount(ctx.String("amount"))
	if err != nil {
		return err
	}

	if e.isPair(ctx.Context, token) {
		return e.pairs.ApproveShares(ctx.Context, call, token, spender, amount)
	}
	return e.ledger.Approve(ctx.Context, token, call.Caller, spender, amount)
}
