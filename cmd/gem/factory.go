package main

import (
	"github.com/BelizeChain/gem/internal/config"
	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var initfactory = cli.Command{
	Name:  "init",
	Usage: "initialize the registry of pairs",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "fee-admin",
			Usage: "the fee administrator, defaults to the configured one",
		},
	},
	Action: withEngine(initFactoryAction),
}

var createpair = cli.Command{
	Name:   "create-pair",
	Usage:  "create the pair of two tokens",
	Flags:  []cli.Flag{tokenAFlag, tokenBFlag},
	Action: withEngine(createPairAction),
}

var listpairs = cli.Command{
	Name:   "pairs",
	Usage:  "list all created pairs",
	Action: withEngine(listPairsAction),
}

var pairinfo = cli.Command{
	Name:   "pair",
	Usage:  "show the state of the pair of two tokens",
	Flags:  []cli.Flag{tokenAFlag, tokenBFlag},
	Action: withEngine(pairInfoAction),
}

var setfeeto = cli.Command{
	Name:  "set-fee-to",
	Usage: "set the protocol fee recipient, the null address disables fees",
	Flags: []cli.Flag{
		callerFlag,
		&cli.StringFlag{
			Name:     "fee-to",
			Usage:    "the fee recipient, hex address or label",
			Required: true,
		},
	},
	Action: withEngine(setFeeToAction),
}

var setfeetosetter = cli.Command{
	Name:  "set-fee-to-setter",
	Usage: "hand the fee administration over to another account",
	Flags: []cli.Flag{
		callerFlag,
		&cli.StringFlag{
			Name:     "fee-to-setter",
			Usage:    "the new fee administrator, hex address or label",
			Required: true,
		},
	},
	Action: withEngine(setFeeToSetterAction),
}

func initFactoryAction(ctx *cli.Context, e *engine) error {
	admin, err := config.GetAddress(config.FeeAdministratorKey)
	if err != nil {
		return err
	}
	if ctx.IsSet("fee-admin") {
		if admin, err = parseAddressFlag(ctx, "fee-admin"); err != nil {
			return err
		}
	}

	if err := e.factory.Init(ctx.Context, admin); err != nil {
		return err
	}

	printJSON(map[string]string{
		"fee_to_setter": admin.String(),
		"router":        e.router.Address().String(),
	})
	return nil
}

func createPairAction(ctx *cli.Context, e *engine) error {
	tokenA, tokenB, err := parseTokensFlags(ctx)
	if err != nil {
		return err
	}

	pair, err := e.factory.CreatePair(ctx.Context, tokenA, tokenB)
	if err != nil {
		return err
	}

	printJSON(map[string]string{"pair": pair.String()})
	return nil
}

func listPairsAction(ctx *cli.Context, e *engine) error {
	count, err := e.factory.AllPairsLength(ctx.Context)
	if err != nil {
		return err
	}

	pairs := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		addr, err := e.factory.PairByIndex(ctx.Context, i)
		if err != nil {
			return err
		}
		pair, err := e.pairs.GetPair(ctx.Context, addr)
		if err != nil {
			return err
		}
		pairs = append(pairs, pairInfo(pair))
	}

	printJSON(pairs)
	return nil
}

func pairInfoAction(ctx *cli.Context, e *engine) error {
	tokenA, tokenB, err := parseTokensFlags(ctx)
	if err != nil {
		return err
	}
	addr, err := e.pairOf(ctx.Context, tokenA, tokenB)
	if err != nil {
		return err
	}
	pair, err := e.pairs.GetPair(ctx.Context, addr)
	if err != nil {
		return err
	}

	printJSON(pairInfo(pair))
	return nil
}

func setFeeToAction(ctx *cli.Context, e *engine) error {
	call, err := callContext(ctx)
	if err != nil {
		return err
	}
	feeTo, err := parseAddressFlag(ctx, "fee-to")
	if err != nil {
		return err
	}
	return e.factory.SetFeeRecipient(ctx.Context, call, feeTo)
}

func setFeeToSetterAction(ctx *cli.Context, e *engine) error {
	call, err := callContext(ctx)
	if err != nil {
		return err
	}
	feeToSetter, err := parseAddressFlag(ctx, "fee-to-setter")
	if err != nil {
		return err
	}
	return e.factory.SetFeeAdministrator(ctx.Context, call, feeToSetter)
}

func pairInfo(pair *domain.Pair) map[string]interface{} {
	price0, price1 := pair.SpotPrices()
	return map[string]interface{}{
		"address":                pair.Address.String(),
		"token0":                 pair.Token0.String(),
		"token1":                 pair.Token1.String(),
		"reserve0":               pair.Reserve0.Dec(),
		"reserve1":               pair.Reserve1.Dec(),
		"total_shares":           pair.TotalShares.Dec(),
		"price0":                 price0.String(),
		"price1":                 price1.String(),
		"price0_cumulative_last": pair.Price0CumulativeLast.Dec(),
		"price1_cumulative_last": pair.Price1CumulativeLast.Dec(),
		"block_timestamp_last":   pair.BlockTimestampLast,
		"k_last":                 pair.KLast.Dec(),
	}
}
