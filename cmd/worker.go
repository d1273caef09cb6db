package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nattapongw/fieldservice/internal/stagedfile"
	stagedfilePostgres "github.com/nattapongw/fieldservice/internal/stagedfile/postgres"
	"github.com/nattapongw/fieldservice/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start and manage background workers such as the staged-file expiry sweeper.`,
}

var expireFilesCmd = &cobra.Command{
	Use:   "expire-files",
	Short: "Expire stale pending staged files",
	Long:  `Periodically mark pending staged files older than the configured TTL as expired.`,
	Run: func(cmd *cobra.Command, args []string) {
		startExpireFilesWorker()
	},
}

var (
	fileTTL       time.Duration
	sweepInterval time.Duration
	sweepOnce     bool
)

func startExpireFilesWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	gormDB, err := initGorm(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize orm: %v\n", err)
		os.Exit(1)
	}

	svc := stagedfile.NewService(stagedfilePostgres.NewStagedFileRepository(gormDB), log)

	ttl := fileTTL
	if ttl <= 0 {
		ttl = config.Worker.FileTTLOrDefault()
	}
	interval := sweepInterval
	if interval <= 0 {
		interval = config.Worker.SweepIntervalOrDefault()
	}

	log.Info("starting staged-file expiry worker", "ttl", ttl, "interval", interval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweep := func() {
		expired, err := svc.ExpirePending(ctx, ttl)
		if err != nil {
			log.Error("expiry sweep failed", "error", err)
			return
		}
		if expired > 0 {
			log.Info("expired stale pending files", "count", expired)
		}
	}

	sweep()
	if sweepOnce {
		log.Info("single sweep complete")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sweep()
		case <-ctx.Done():
			log.Info("received signal, shutting down expiry worker")
			return
		}
	}
}

func init() {
	expireFilesCmd.Flags().DurationVar(&fileTTL, "ttl", 0, "Pending file TTL (overrides config)")
	expireFilesCmd.Flags().DurationVar(&sweepInterval, "interval", 0, "Sweep interval (overrides config)")
	expireFilesCmd.Flags().BoolVar(&sweepOnce, "once", false, "Run a single sweep and exit")

	workerCmd.AddCommand(expireFilesCmd)
}
