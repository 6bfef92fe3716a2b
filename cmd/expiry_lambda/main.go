package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/pixelforge/credits/pkg/ledger"
	"github.com/pixelforge/credits/pkg/notifier"
	dydbstore "github.com/pixelforge/credits/pkg/storage/dynamodb"
)

var engine *ledger.Engine

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)

	balancesTable := os.Getenv("DYNAMODB_BALANCES_TABLE_NAME")
	transactionsTable := os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME")
	relationsTable := os.Getenv("DYNAMODB_RELATIONS_TABLE_NAME")
	connectionsTable := os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME")

	store := dydbstore.New(dbClient, balancesTable, transactionsTable, relationsTable, connectionsTable)

	engine = ledger.NewEngine(store)

	// Expiry notices go to a queue for downstream email delivery, when
	// one is configured.
	if queueURL := os.Getenv("SQS_EXPIRY_QUEUE_URL"); queueURL != "" {
		sqsClient := sqs.NewFromConfig(cfg)
		engine.Notifier = notifier.NewSQSNotifier(sqsClient, queueURL)
	}
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting expiry sweep for lapsed free credit grants...")

	result, err := engine.SweepExpired(ctx, time.Now())
	if err != nil {
		log.Printf("ERROR: expiry sweep failed: %v", err)
		return err
	}

	log.Printf("Expiry sweep finished: %d users processed, %d credits expired, %d errors",
		result.ProcessedUsers, result.TotalExpired, result.Errors)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
