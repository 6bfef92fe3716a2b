// The sweeper runs the expiry sweep on a schedule. It is the self-hosted
// alternative to the EventBridge-triggered lambda for deployments that run
// the service as a plain process.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/pixelforge/credits/pkg/ledger"
	"github.com/pixelforge/credits/pkg/metrics"
	dydbstore "github.com/pixelforge/credits/pkg/storage/dynamodb"
)

const defaultSchedule = "@hourly"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)

	balancesTable := os.Getenv("DYNAMODB_BALANCES_TABLE_NAME")
	transactionsTable := os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME")
	relationsTable := os.Getenv("DYNAMODB_RELATIONS_TABLE_NAME")
	connectionsTable := os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME")

	if balancesTable == "" || transactionsTable == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	store := dydbstore.New(dbClient, balancesTable, transactionsTable, relationsTable, connectionsTable)

	engine := ledger.NewEngine(store)
	engine.Metrics = metrics.NewLedger(prometheus.DefaultRegisterer)

	schedule := os.Getenv("SWEEP_SCHEDULE")
	if schedule == "" {
		schedule = defaultSchedule
	}

	c := cron.New()
	_, err = c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		result, err := engine.SweepExpired(ctx, time.Now())
		if err != nil {
			logger.Error("expiry sweep failed", "error", err)
			return
		}
		logger.Info("expiry sweep finished",
			"processed_users", result.ProcessedUsers,
			"total_expired", result.TotalExpired,
			"errors", result.Errors,
		)
	})
	if err != nil {
		log.Fatalf("invalid sweep schedule %q: %v", schedule, err)
	}

	logger.Info("starting sweeper", "schedule", schedule)
	c.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	// Let an in-flight sweep finish before exiting.
	<-c.Stop().Done()
	logger.Info("sweeper stopped")
}
