package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BelizeChain/gem/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "datadir",
		Usage: "the data directory of the engine",
	},
	&cli.StringFlag{
		Name:  "db",
		Usage: "the database type, either badger or inmemory",
	},
	&cli.IntFlag{
		Name:  "log-level",
		Usage: "the logrus level, from 0 (panic) to 6 (trace)",
	},
	&cli.BoolFlag{
		Name:  "metrics",
		Usage: "dump event metrics to the datadir at the end of the command",
	},
}

// flagsToEnv maps the global flags to the config keys they override.
var flagsToEnv = map[string]string{
	"datadir":   config.DatadirKey,
	"db":        config.DBTypeKey,
	"log-level": config.LogLevelKey,
	"metrics":   config.EnableMetricsKey,
}

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "gem"
	app.Usage = "Command line interface for the gem constant-product AMM engine"
	app.Flags = globalFlags
	app.Before = initConfig
	app.Commands = append(
		app.Commands,
		&initfactory,
		&mint,
		&balance,
		&approve,
		&createpair,
		&listpairs,
		&pairinfo,
		&addliquidity,
		&removeliquidity,
		&swapexactin,
		&swapexactout,
		&quote,
		&syncpair,
		&skimpair,
		&setfeeto,
		&setfeetosetter,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func initConfig(ctx *cli.Context) error {
	for flag, key := range flagsToEnv {
		if ctx.IsSet(flag) {
			if err := os.Setenv("GEM_"+key, ctx.String(flag)); err != nil {
				return err
			}
		}
	}

	if err := config.InitConfig(); err != nil {
		return err
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
	return nil
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[gem] %v\n", strings.TrimSpace(err.Error()))
	}
	os.Exit(1)
}
