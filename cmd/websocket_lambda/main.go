package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	dydbstore "github.com/pixelforge/credits/pkg/storage/dynamodb"
	"github.com/pixelforge/credits/pkg/websockets"
)

var handler *websockets.ConnectHandler

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

	handler = websockets.NewConnectHandler(store)
}

func main() {
	lambda.Start(handler.Route)
}
