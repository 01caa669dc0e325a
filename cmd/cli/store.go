package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/dvloznov/finance-dashboard/internal/app"
	"github.com/dvloznov/finance-dashboard/internal/store"
)

var storeCommands = []subcommands.Command{
	&schemaCmd{},
	&loadCmd{},
}

type schemaCmd struct{}

func (*schemaCmd) Name() string     { return "schema" }
func (*schemaCmd) Synopsis() string { return "create the record store tables" }
func (*schemaCmd) Usage() string {
	return `schema

  Creates the records and card summary tables if they do not exist.
`
}

func (*schemaCmd) SetFlags(f *flag.FlagSet) {}

func (*schemaCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cfg, log, err := env(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	repo, err := app.OpenRepository(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer repo.Close()

	// sqlite migrates on open.
	if s, ok := repo.(interface{ EnsureTables(context.Context) error }); ok {
		if err := s.EnsureTables(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	fmt.Printf("Schema ready (%s)\n", cfg.RecordStore)
	return subcommands.ExitSuccess
}

type loadCmd struct{}

func (*loadCmd) Name() string     { return "load" }
func (*loadCmd) Synopsis() string { return "insert records from CSV files" }
func (*loadCmd) Usage() string {
	return `load <file.csv>...

  Inserts the records of each CSV file into the record store. Files need the
  columns dia, valor, tipo_mov, categoria, forma_pagamento and optionally
  tipo_despesa.
`
}

func (*loadCmd) SetFlags(f *flag.FlagSet) {}

func (*loadCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one CSV file is required")
		return subcommands.ExitUsageError
	}

	ctx, cfg, log, err := env(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	repo, err := app.OpenRepository(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer repo.Close()

	for _, name := range f.Args() {
		n, err := loadFile(ctx, repo, name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", name, err)
			return subcommands.ExitFailure
		}
		log.Info().Str("file", name).Int("records", n).Msg("Records loaded")
	}
	return subcommands.ExitSuccess
}

func loadFile(ctx context.Context, repo app.Repository, name string) (int, error) {
	file, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	records, err := store.ReadCSV(file)
	if err != nil {
		return 0, err
	}
	if err := repo.InsertRecords(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}
