package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BelizeChain/gem/internal/config"
	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"
)

var (
	callerFlag = &cli.StringFlag{
		Name:  "caller",
		Usage: "the account invoking the operation, hex address or label",
		Value: "alice",
	}
	recipientFlag = &cli.StringFlag{
		Name:  "to",
		Usage: "the recipient of the operation's output, defaults to the caller",
	}
	deadlineFlag = &cli.Uint64Flag{
		Name:  "deadline",
		Usage: "the unix time after which the operation expires",
	}
	tokenAFlag = &cli.StringFlag{
		Name:     "token-a",
		Usage:    "the first token of the pair, hex address or label",
		Required: true,
	}
	tokenBFlag = &cli.StringFlag{
		Name:     "token-b",
		Usage:    "the second token of the pair, hex address or label",
		Required: true,
	}
	pathFlag = &cli.StringFlag{
		Name:     "path",
		Usage:    "comma separated list of tokens to swap through",
		Required: true,
	}
)

func parseAddressFlag(ctx *cli.Context, name string) (domain.Address, error) {
	addr, err := config.ParseAddress(ctx.String(name))
	if err != nil {
		return domain.ZeroAddress, fmt.Errorf("invalid %s: %w", name, err)
	}
	return addr, nil
}

// parseRecipientFlag returns the recipient flag or falls back to the given
// caller.
func parseRecipientFlag(ctx *cli.Context, caller domain.Address) (domain.Address, error) {
	if !ctx.IsSet(recipientFlag.Name) {
		return caller, nil
	}
	return parseAddressFlag(ctx, recipientFlag.Name)
}

func parseTokensFlags(ctx *cli.Context) (domain.Address, domain.Address, error) {
	tokenA, err := parseAddressFlag(ctx, tokenAFlag.Name)
	if err != nil {
		return domain.ZeroAddress, domain.ZeroAddress, err
	}
	tokenB, err := parseAddressFlag(ctx, tokenBFlag.Name)
	if err != nil {
		return domain.ZeroAddress, domain.ZeroAddress, err
	}
	return tokenA, tokenB, nil
}

// parseAmountFlag parses a base 10 amount, an unset flag means zero.
func parseAmountFlag(ctx *cli.Context, name string) (*uint256.Int, error) {
	if !ctx.IsSet(name) {
		return new(uint256.Int), nil
	}
	return parseAmount(ctx.String(name))
}

func parseAmount(s string) (*uint256.Int, error) {
	if s == "max" {
		return new(uint256.Int).SetAllOne(), nil
	}
	amount, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %s: %w", s, err)
	}
	return amount, nil
}

func parsePath(s string) ([]domain.Address, error) {
	tokens := strings.Split(s, ",")
	path := make([]domain.Address, 0, len(tokens))
	for _, t := range tokens {
		addr, err := config.ParseAddress(strings.TrimSpace(t))
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		path = append(path, addr)
	}
	return path, nil
}

func formatAmounts(amounts []*uint256.Int) []string {
	res := make([]string, 0, len(amounts))
	for _, a := range amounts {
		res = append(res, a.Dec())
	}
	return res
}

func printJSON(resp interface{}) {
	jsonBytes, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}
	fmt.Println(string(jsonBytes))
}
