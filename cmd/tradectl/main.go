package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// register adds the tradectl subcommands to c
func register(c *subcommands.Commander) {
	c.Register(&migrateCmd{}, "admin")
	c.Register(&seedPricesCmd{}, "admin")
	c.Register(&refreshPricesCmd{}, "admin")

	c.Register(&openAccountCmd{}, "trading")
	c.Register(&buyCmd{side: "buy"}, "trading")
	c.Register(&buyCmd{side: "sell"}, "trading")
	c.Register(&portfolioCmd{}, "trading")
	c.Register(&transactionsCmd{}, "trading")
	c.Register(&pricesCmd{}, "trading")
	c.Register(&searchCmd{}, "trading")
	c.Register(&leaderboardCmd{}, "trading")
}
