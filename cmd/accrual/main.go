package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Dan9191/debt-indexation/internal/accrual"
	"github.com/Dan9191/debt-indexation/internal/config"
	"github.com/Dan9191/debt-indexation/internal/inflation"
	"github.com/Dan9191/debt-indexation/internal/integrations/minfin"
	"github.com/Dan9191/debt-indexation/internal/models"
)

type options struct {
	principal float64
	start     string
	end       string
	source    string
	format    string
	timeout   time.Duration
	retries   int
	verbose   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	defaults := &config.Config{
		InflationURL:    "https://index.minfin.com.ua/ua/economy/index/inflation/",
		InflationFormat: config.FormatHTML,
		FetchTimeout:    10 * time.Second,
	}

	cmd := &cobra.Command{
		Use:           "accrual",
		Short:         "Calculate the amount owed on an overdue debt",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&opts.principal, "principal", 0, "initial debt amount")
	flags.StringVar(&opts.start, "start", "", "start of the overdue period, YYYY-MM-DD")
	flags.StringVar(&opts.end, "end", "", "end of the overdue period, YYYY-MM-DD")
	flags.StringVar(&opts.source, "source", defaults.InflationURL, "inflation table URL")
	flags.StringVar(&opts.format, "format", defaults.InflationFormat, "inflation table format: html or xml")
	flags.DurationVar(&opts.timeout, "timeout", defaults.FetchTimeout, "fetch timeout")
	flags.IntVar(&opts.retries, "retries", 0, "extra fetch attempts on transport errors")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log fetch details to stderr")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func run(ctx context.Context, opts *options, stdout, stderr io.Writer) error {
	claim, err := opts.claim()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(logrus.WarnLevel)
	if opts.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	client := minfin.NewMinfinClient(&config.Config{
		InflationURL:    opts.source,
		InflationFormat: opts.format,
		UserAgent:       "debt-indexation/accrual",
		FetchTimeout:    opts.timeout,
		FetchRetries:    opts.retries,
		FetchRetryDelay: time.Second,
	}, logger)

	series, err := client.Fetch(ctx)
	if err != nil {
		if errors.Is(err, inflation.ErrDataUnavailable) {
			fmt.Fprintln(stderr, inflation.DataUnavailableMessage)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return err
	}

	printResult(stdout, claim, accrual.SelectMonths(series, claim.StartDate, claim.EndDate), accrual.Compute(claim, series))
	return nil
}

func (o *options) claim() (models.DebtClaim, error) {
	if o.principal <= 0 {
		return models.DebtClaim{}, errors.New("principal must be a positive amount")
	}
	if o.format != config.FormatHTML && o.format != config.FormatXML {
		return models.DebtClaim{}, fmt.Errorf("format must be %q or %q", config.FormatHTML, config.FormatXML)
	}
	start, err := civil.ParseDate(o.start)
	if err != nil {
		return models.DebtClaim{}, fmt.Errorf("invalid start date %q", o.start)
	}
	end, err := civil.ParseDate(o.end)
	if err != nil {
		return models.DebtClaim{}, fmt.Errorf("invalid end date %q", o.end)
	}
	return models.DebtClaim{Principal: o.principal, StartDate: start, EndDate: end}, nil
}

func printResult(w io.Writer, claim models.DebtClaim, months []models.InflationIndexPoint, result models.AccrualResult) {
	fmt.Fprintf(w, "Period: %s - %s (%d days)\n", claim.StartDate, claim.EndDate, accrual.PenaltyDays(claim.StartDate, claim.EndDate))
	fmt.Fprintf(w, "Months indexed: %d\n", len(months))
	for _, p := range months {
		if v, ok := p.Value(); ok {
			fmt.Fprintf(w, "  %s  %s\n", p.Month, decimal.NewFromFloat(v).StringFixed(2))
		} else {
			fmt.Fprintf(w, "  %s  -\n", p.Month)
		}
	}
	fmt.Fprintf(w, "Initial debt:   %s\n", decimal.NewFromFloat(claim.Principal).StringFixed(2))
	fmt.Fprintf(w, "Inflation loss: %s\n", decimal.NewFromFloat(result.InflationLoss).StringFixed(2))
	fmt.Fprintf(w, "Penalty (3%%):   %s\n", decimal.NewFromFloat(result.Penalty).StringFixed(2))
	fmt.Fprintf(w, "Total debt:     %s\n", decimal.NewFromFloat(result.TotalDebt).StringFixed(2))
}
