package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/aggregate"
	"github.com/dvloznov/finance-dashboard/internal/dashboard"
	"github.com/dvloznov/finance-dashboard/internal/render"
)

var dashboardCommands = []subcommands.Command{
	&summaryCmd{},
	&dashboardCmd{},
	&compareCmd{},
	&goalCmd{},
}

type summaryCmd struct {
	q queryFlags
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display total outflow, inflow and card summary" }
func (*summaryCmd) Usage() string {
	return `summary [-start <date>] [-end <date>] [-category <c>]... [-payment-method <m>]... [-expense-type <t>]...

  Displays the headline metrics of the selected records.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) { c.q.setFlags(f) }

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	q, err := c.q.query()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withService(ctx, func(ctx context.Context, svc *dashboard.Service) error {
		s, err := svc.Summary(ctx, q)
		if err != nil {
			return err
		}
		printMarkdown(render.SummaryMarkdown(s, svc.Currency()), c.q.raw)
		return nil
	})
}

type dashboardCmd struct {
	q queryFlags
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "display the full dashboard of the selected records" }
func (*dashboardCmd) Usage() string {
	return `dashboard [-start <date>] [-end <date>] [-category <c>]... [-payment-method <m>]... [-expense-type <t>]...

  Displays metrics, per-category statistics, monthly totals and the payment
  method breakdown.
`
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) { c.q.setFlags(f) }

func (c *dashboardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	q, err := c.q.query()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withService(ctx, func(ctx context.Context, svc *dashboard.Service) error {
		v, err := svc.Dashboard(ctx, q)
		if err != nil {
			return err
		}
		printMarkdown(render.DashboardMarkdown(v, svc.Currency()), c.q.raw)
		return nil
	})
}

type compareCmd struct {
	q                          queryFlags
	aStart, aEnd, bStart, bEnd string
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare category spending between two periods" }
func (*compareCmd) Usage() string {
	return `compare -a-start <date> -a-end <date> -b-start <date> -b-end <date> [filters]

  Shows per-category spending in both periods with absolute and percentage change.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	c.q.setFlags(f)
	f.StringVar(&c.aStart, "a-start", "", "first day of period A (YYYY-MM-DD)")
	f.StringVar(&c.aEnd, "a-end", "", "last day of period A (YYYY-MM-DD)")
	f.StringVar(&c.bStart, "b-start", "", "first day of period B (YYYY-MM-DD)")
	f.StringVar(&c.bEnd, "b-end", "", "last day of period B (YYYY-MM-DD)")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	q, err := c.q.query()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := period(c.aStart, c.aEnd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: period A: %v\n", err)
		return subcommands.ExitUsageError
	}
	b, err := period(c.bStart, c.bEnd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: period B: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withService(ctx, func(ctx context.Context, svc *dashboard.Service) error {
		deltas, err := svc.Compare(ctx, q, a, b)
		if err != nil {
			return err
		}
		printMarkdown(render.CompareMarkdown(a, b, deltas, svc.Currency()), c.q.raw)
		return nil
	})
}

func period(start, end string) (aggregate.Period, error) {
	s, err := dashboard.ParseDate(start)
	if err != nil {
		return aggregate.Period{}, err
	}
	e, err := dashboard.ParseDate(end)
	if err != nil {
		return aggregate.Period{}, err
	}
	return aggregate.Period{Start: s, End: e}, nil
}

type goalCmd struct {
	q      queryFlags
	target string
}

func (*goalCmd) Name() string     { return "goal" }
func (*goalCmd) Synopsis() string { return "measure spending against a target" }
func (*goalCmd) Usage() string {
	return `goal [-target <amount>] [filters]

  Shows how much of the spending target the selected outflows consume.
`
}

func (c *goalCmd) SetFlags(f *flag.FlagSet) {
	c.q.setFlags(f)
	f.StringVar(&c.target, "target", aggregate.DefaultGoal.String(), "spending target")
}

func (c *goalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	q, err := c.q.query()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	target, err := decimal.NewFromString(c.target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -target %q\n", c.target)
		return subcommands.ExitUsageError
	}

	return withService(ctx, func(ctx context.Context, svc *dashboard.Service) error {
		g, err := svc.Goal(ctx, q, target)
		if err != nil {
			return err
		}
		printMarkdown(render.GoalMarkdown(g, svc.Currency()), c.q.raw)
		return nil
	})
}
