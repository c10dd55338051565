// Command agency-cli books a reservation from the command line.
//
//	agency-cli -service flight -payment card -amount 300 \
//	    -origin "El Salvador" -destination Colombia -date 2025-03-01 -time 10:30
//	agency-cli -routes
//	agency-cli -service hotel -payment paypal -amount 80 -steps -pipeline-log ./pipeline.db
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jcmexdev/travel-agency/internal/agency/app"
	"github.com/jcmexdev/travel-agency/internal/agency/catalog"
	"github.com/jcmexdev/travel-agency/internal/agency/domain"
	"github.com/jcmexdev/travel-agency/internal/agency/validator"
	"github.com/jcmexdev/travel-agency/internal/coordinator/pipelinelog"
	"github.com/jcmexdev/travel-agency/internal/coordinator/pipelinelog/sqlite"
	"github.com/jcmexdev/travel-agency/internal/pkg/telemetry"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("agency-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var in validator.Input
	fs.StringVar(&in.Service, "service", "", "hotel, car or flight")
	fs.StringVar(&in.Payment, "payment", "", "card or paypal")
	fs.StringVar(&in.Amount, "amount", "", "amount to pay, e.g. 100.00")
	fs.StringVar(&in.Origin, "origin", "", "flight origin")
	fs.StringVar(&in.Destination, "destination", "", "flight destination")
	fs.StringVar(&in.Date, "date", "", "flight date, YYYY-MM-DD")
	fs.StringVar(&in.Time, "time", "", "flight time, HH:MM")
	listRoutes := fs.Bool("routes", false, "list route prices and exit")
	logPath := fs.String("pipeline-log", os.Getenv("PIPELINE_LOG_PATH"), "SQLite pipeline log file")
	showSteps := fs.Bool("steps", false, "print the pipeline transitions of the reservation")
	logLevel := fs.String("log-level", getEnv("LOG_LEVEL", "warn"), "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	telemetry.InitLogger(*logLevel)

	var cfg app.Config
	var repo *sqlite.Repository
	if *logPath != "" || *showSteps {
		path := *logPath
		if path == "" {
			path = ":memory:"
		}
		var err error
		if repo, err = sqlite.Open(path); err != nil {
			fmt.Fprintf(stderr, "pipeline log: %v\n", err)
			return 1
		}
		defer repo.Close()
		cfg.Log = repo

		// spans are not exported; the provider only stamps trace IDs on log rows
		tp := sdktrace.NewTracerProvider()
		defer func() { _ = tp.Shutdown(context.WithoutCancel(ctx)) }()
		cfg.TracerProvider = tp
	}

	agency := app.New(cfg)

	if *listRoutes {
		printRoutes(stdout, agency.Prices())
		return 0
	}

	out, err := agency.Reserve(ctx, in)
	if out.Request.Service != "" {
		printOutcome(stdout, out)
		if *showSteps {
			entries, herr := repo.History(ctx, out.ReservationID.String())
			if herr != nil {
				fmt.Fprintf(stderr, "pipeline log: %v\n", herr)
				return 1
			}
			printSteps(stdout, entries)
		}
	}
	if err != nil {
		kind, _ := domain.KindOf(err)
		fmt.Fprintf(stderr, "reservation failed (%s): %v\n", kind, err)
		return 1
	}
	return 0
}

func printOutcome(w io.Writer, out app.Outcome) {
	fmt.Fprintf(w, "Reservation %s\n", out.ReservationID)
	fmt.Fprintf(w, "  Booking: %s\n", out.Reservation.Message)
	fmt.Fprintf(w, "  Payment: %s\n", out.Payment.Message)
}

func printSteps(w io.Writer, entries []pipelinelog.Entry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tSTEP\tTRACE\tERRORS")
	for _, e := range entries {
		errs := e.Errors
		if errs == "[]" {
			errs = ""
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Status, orDash(e.Step), e.TraceID, errs)
	}
	_ = tw.Flush()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func printRoutes(w io.Writer, table *catalog.PriceTable) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ORIGIN\tDESTINATION\tPRICE")
	for _, r := range table.Routes() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Origin, r.Destination, domain.FormatAmount(r.Price))
	}
	fmt.Fprintf(tw, "any other\t\t%s\n", domain.FormatAmount(table.Fallback()))
	_ = tw.Flush()
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
