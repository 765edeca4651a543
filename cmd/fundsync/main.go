package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fundsync/backend/internal/catalog"
	"github.com/fundsync/backend/internal/config"
	"github.com/fundsync/backend/internal/marketdata"
	"github.com/fundsync/backend/internal/notifications"
	"github.com/fundsync/backend/internal/pipeline"
	"github.com/fundsync/backend/internal/publish"
	"github.com/fundsync/backend/internal/scheduler"
)

const banner = `
╔══════════════════════════════════════╗
║          Fund Sync v0.3              ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalogClient := catalog.NewClient(cfg.DataURL)
	market := marketdata.NewYahooClient()

	uploader, err := publish.NewS3Uploader(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[S3] %v\n", err)
		os.Exit(1)
	}

	notify := notifications.NewSender(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass, cfg.EmailTo)

	enricher := pipeline.NewEnricher(market, catalogClient,
		pipeline.NewIntervalThrottle(cfg.TickerDelay),
		pipeline.Options{
			AdjustCurrency: cfg.AdjustCurrency,
			FXSymbol:       cfg.FXSymbol,
		})

	job := pipeline.NewJob(catalogClient, enricher, uploader, cfg.DedupTickers)

	fatal := func(err error) {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		notify.SendFailure(err.Error(), time.Now())
		os.Exit(1)
	}

	sched := scheduler.New(cfg.SyncInterval, job.Run, fatal)

	// First run happens immediately; a broken first run should fail
	// loud instead of silently waiting for the next tick.
	if err := sched.RunNow(ctx); err != nil {
		fatal(err)
	}

	sched.Start(ctx)
	defer sched.Stop()

	<-ctx.Done()
	fmt.Println("\nShutting down")
}
