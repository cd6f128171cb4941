package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"MarketLens/internal/model"
	"MarketLens/internal/report"

	"github.com/google/subcommands"
)

type reportCmd struct {
	symbol        string
	years         int
	granularity   string
	raw           bool
	forecastTable bool
	width         int
	plain         bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print the dashboard for one symbol" }
func (*reportCmd) Usage() string {
	return `marketlens report [-symbol <symbol>] [-years 1-3] [-granularity weekly|monthly|quarterly|annually] [-raw] [-forecast-table]

  Loads the price history, computes statistics, volatility and the forecast,
  and prints them as markdown.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "Symbol to report on. Defaults to the first configured symbol.")
	f.IntVar(&c.years, "years", model.MinHorizonYears, "Forecast horizon in years.")
	f.StringVar(&c.granularity, "granularity", string(model.Weekly), "Volatility period.")
	f.BoolVar(&c.raw, "raw", false, "Include the last rows of the price history.")
	f.BoolVar(&c.forecastTable, "forecast-table", false, "Include the last rows of the forecast.")
	f.IntVar(&c.width, "width", 100, "Word wrap width.")
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of styled output.")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	g, ok := model.ParseGranularity(c.granularity)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown granularity %q\n", c.granularity)
		return subcommands.ExitUsageError
	}
	if c.years < model.MinHorizonYears || c.years > model.MaxHorizonYears {
		fmt.Fprintf(os.Stderr, "years must be between %d and %d\n", model.MinHorizonYears, model.MaxHorizonYears)
		return subcommands.ExitUsageError
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	v := a.session.Apply(ctx, model.SelectionState{
		Symbol:            c.symbol,
		HorizonYears:      c.years,
		Granularity:       g,
		ShowRawTable:      c.raw,
		ShowForecastTable: c.forecastTable,
	})
	if c.symbol != "" && v.Selection.Symbol != c.symbol {
		fmt.Fprintf(os.Stderr, "Unknown symbol %q, showing %s\n", c.symbol, v.Selection.Symbol)
	}

	out := report.Markdown(&v)
	if !c.plain {
		if out, err = report.Terminal(out, c.width); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering report: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	fmt.Print(out)

	if v.LoadErr != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
