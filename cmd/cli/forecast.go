package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/dvloznov/finance-dashboard/internal/dashboard"
	"github.com/dvloznov/finance-dashboard/internal/forecast"
	"github.com/dvloznov/finance-dashboard/internal/render"
)

var forecastCommands = []subcommands.Command{
	&forecastCmd{},
	&reportCmd{},
}

type forecastCmd struct {
	horizon int
	raw     bool
}

func (*forecastCmd) Name() string     { return "forecast" }
func (*forecastCmd) Synopsis() string { return "project daily spending over the next days" }
func (*forecastCmd) Usage() string {
	return `forecast [-days <n>]

  Fits the full spending history and prints the projected daily spending
  with its uncertainty interval.
`
}

func (c *forecastCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.horizon, "days", forecast.DefaultHorizon, fmt.Sprintf("days to project (%d-%d)", forecast.MinHorizon, forecast.MaxHorizon))
	f.BoolVar(&c.raw, "raw", false, "print plain markdown")
}

func (c *forecastCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withService(ctx, func(ctx context.Context, svc *dashboard.Service) error {
		res, err := svc.Forecast(ctx, c.horizon)
		if err != nil {
			return err
		}
		printMarkdown(render.ForecastMarkdown(res, svc.Currency()), c.raw)
		return nil
	})
}

type reportCmd struct {
	horizon int
	out     string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "generate the predictive spending report as PDF" }
func (*reportCmd) Usage() string {
	return `report [-days <n>] [-o <file>]

  Runs the forecast, asks the language model for a narrative and writes the
  PDF report. Without -o the file is named after today's date.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.horizon, "days", forecast.DefaultHorizon, fmt.Sprintf("days to project (%d-%d)", forecast.MinHorizon, forecast.MaxHorizon))
	f.StringVar(&c.out, "o", "", "output file")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withService(ctx, func(ctx context.Context, svc *dashboard.Service) error {
		res, err := svc.Report(ctx, c.horizon)
		if err != nil {
			return err
		}

		out := c.out
		if out == "" {
			out = res.Name
		}
		if err := os.WriteFile(out, res.PDF, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}

		fmt.Printf("Report written to %s (run %s)\n", out, res.RunID)
		if res.NarrativeDegraded {
			fmt.Println("Narrative unavailable, the report carries placeholder text.")
		}
		if res.URI != "" {
			fmt.Printf("Uploaded to %s\n", res.URI)
		}
		if res.NotionPageID != "" {
			fmt.Printf("Notion page %s\n", res.NotionPageID)
		}
		return nil
	})
}
