package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/kervanapp/kervan-backend/internal/config"
	"github.com/kervanapp/kervan-backend/internal/database"
	"github.com/kervanapp/kervan-backend/internal/logging"
	"github.com/kervanapp/kervan-backend/internal/notify"
	"github.com/kervanapp/kervan-backend/internal/worker"
)

// One-shot expiration pass, meant for cron or manual runs. The same
// workers run on a schedule inside the server; this binary exists so an
// operator can trigger or replay a pass without restarting anything.
func main() {
	variant := flag.String("variant", "trips", "what to expire: trips or requests")
	batchSize := flag.Int("batch-size", 0, "items per commit batch (0 = default)")
	flag.Parse()

	logging.Setup()

	cfg := config.Load()
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if *batchSize == 0 {
		*batchSize = cfg.ExpireBatchSize
	}

	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	var w *worker.Worker
	switch *variant {
	case "trips":
		var sink notify.Sink = notify.NopSink{}
		if cfg.NotifyDriver == "amqp" {
			amqpSink, err := notify.NewAMQPSink(cfg.AMQPURL)
			if err != nil {
				slog.Error("amqp connection failed", "error", err)
				os.Exit(1)
			}
			defer amqpSink.Close()
			sink = amqpSink
		} else if cfg.NotifyDriver == "redis" {
			redisSink, err := notify.NewRedisSink(cfg.RedisAddr, cfg.RedisPassword)
			if err != nil {
				slog.Error("redis connection failed", "error", err)
				os.Exit(1)
			}
			defer redisSink.Close()
			sink = redisSink
		}
		w = worker.NewTripWorker(worker.NewTripStore(database.DB), sink, *batchSize)
	case "requests":
		w = worker.NewRequestWorker(worker.NewRequestStore(database.DB), *batchSize)
	default:
		slog.Error("unknown variant", "variant", *variant)
		os.Exit(2)
	}

	summary, err := w.Run()
	if err != nil {
		slog.Error("expiration run failed", "variant", *variant, "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s: processed=%d errors=%d total=%d\n",
		*variant, summary.Processed, summary.Errors, summary.Total)
}
