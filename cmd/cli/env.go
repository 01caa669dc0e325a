package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-dashboard/internal/app"
	"github.com/dvloznov/finance-dashboard/internal/config"
	"github.com/dvloznov/finance-dashboard/internal/dashboard"
	"github.com/dvloznov/finance-dashboard/internal/logger"
)

// env loads the configuration and a logger writing to stderr, so stdout only
// carries command output.
func env(ctx context.Context) (context.Context, *config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return ctx, nil, zerolog.Nop(), err
	}
	log := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Out: os.Stderr})
	return logger.WithContext(ctx, log), cfg, log, nil
}

// withService runs fn against a fully wired dashboard service.
func withService(ctx context.Context, fn func(ctx context.Context, svc *dashboard.Service) error) subcommands.ExitStatus {
	ctx, cfg, log, err := env(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := fn(ctx, a.Service); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal, or prints it as is when raw.
func printMarkdown(md string, raw bool) {
	if raw {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// stringList is a repeatable flag. It stays nil until set so an absent flag
// keeps the full domain.
type stringList struct {
	values []string
	set    bool
}

func (l *stringList) String() string { return strings.Join(l.values, ",") }

func (l *stringList) Set(v string) error {
	l.set = true
	if v = strings.TrimSpace(v); v != "" {
		l.values = append(l.values, v)
	}
	return nil
}

func (l *stringList) get() []string {
	if !l.set {
		return nil
	}
	if l.values == nil {
		return []string{}
	}
	return l.values
}

// queryFlags holds the record filter shared by the dashboard commands.
type queryFlags struct {
	start, end     string
	categories     stringList
	paymentMethods stringList
	expenseTypes   stringList
	raw            bool
}

func (q *queryFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&q.start, "start", "", "first day to include (YYYY-MM-DD)")
	f.StringVar(&q.end, "end", "", "last day to include (YYYY-MM-DD)")
	f.Var(&q.categories, "category", "category to include (repeatable)")
	f.Var(&q.paymentMethods, "payment-method", "payment method to include (repeatable)")
	f.Var(&q.expenseTypes, "expense-type", "expense type to include (repeatable)")
	f.BoolVar(&q.raw, "raw", false, "print plain markdown")
}

func (q *queryFlags) query() (dashboard.Query, error) {
	out := dashboard.Query{
		Categories:     q.categories.get(),
		PaymentMethods: q.paymentMethods.get(),
		ExpenseTypes:   q.expenseTypes.get(),
	}
	var err error
	if out.Start, err = optionalDate(q.start); err != nil {
		return dashboard.Query{}, fmt.Errorf("-start: %w", err)
	}
	if out.End, err = optionalDate(q.end); err != nil {
		return dashboard.Query{}, fmt.Errorf("-end: %w", err)
	}
	return out, nil
}

func optionalDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := dashboard.ParseDate(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
