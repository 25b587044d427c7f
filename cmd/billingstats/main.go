package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"photorestore/internal/billing"
	"photorestore/internal/infra"
	"photorestore/internal/migrations"
)

func main() {
	var (
		sinceFlag   time.Duration
		migrateFlag bool
	)
	flag.DurationVar(&sinceFlag, "since", 24*time.Hour, "summarize billing events received within this window")
	flag.BoolVar(&migrateFlag, "migrate", false, "apply pending migrations before querying")
	flag.Parse()

	_ = godotenv.Load()

	if sinceFlag <= 0 {
		exitWithError(errors.New("-since must be positive"))
	}

	cfg := &infra.Config{DatabaseURL: os.Getenv("DATABASE_URL")}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := infra.NewDBPool(ctx, cfg)
	if errors.Is(err, infra.ErrDatabaseDisabled) {
		exitWithError(errors.New("DATABASE_URL is required"))
	}
	if err != nil {
		exitWithError(err)
	}
	defer pool.Close()

	if migrateFlag {
		if err := migrations.Up(ctx, pool); err != nil {
			exitWithError(err)
		}
	}

	logger := infra.NewLogger("cli").With().Str("cmd", "billingstats").Logger()
	recorder := billing.NewPostgresRecorder(infra.NewSQLRunner(pool, logger))

	since := time.Now().Add(-sinceFlag).UTC()
	counts, err := recorder.CountByType(ctx, since)
	if err != nil {
		exitWithError(fmt.Errorf("failed to load billing events: %w", err))
	}
	printCounts(os.Stdout, since, counts)
}

func printCounts(w io.Writer, since time.Time, counts []billing.TypeCount) {
	fmt.Fprintf(w, "Billing events since %s\n", since.Format(time.RFC3339))
	if len(counts) == 0 {
		fmt.Fprintln(w, "(none)")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	var total int64
	for _, c := range counts {
		marker := ""
		if !c.Type.Known() {
			marker = " (unhandled)"
		}
		fmt.Fprintf(tw, "%s%s\t%d\n", c.Type, marker, c.Count)
		total += c.Count
	}
	fmt.Fprintf(tw, "total\t%d\n", total)
	_ = tw.Flush()
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
