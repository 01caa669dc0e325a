package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/dvloznov/finance-dashboard/internal/logger"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range dashboardCommands {
		commander.Register(c, "dashboard")
	}
	for _, c := range forecastCommands {
		commander.Register(c, "forecast")
	}
	for _, c := range storeCommands {
		commander.Register(c, "record store")
	}

	flag.Parse()

	ctx := logger.WithContext(context.Background(), logger.New())
	os.Exit(int(commander.Execute(ctx)))
}
