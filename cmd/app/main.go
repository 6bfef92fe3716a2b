package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixelforge/credits/pkg/api"
	"github.com/pixelforge/credits/pkg/authz"
	"github.com/pixelforge/credits/pkg/handlers"
	"github.com/pixelforge/credits/pkg/ledger"
	"github.com/pixelforge/credits/pkg/metrics"
	appmiddleware "github.com/pixelforge/credits/pkg/middleware"
	dydbstore "github.com/pixelforge/credits/pkg/storage/dynamodb"
	"github.com/pixelforge/credits/pkg/websockets"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// AWS Session
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	balancesTable := os.Getenv("DYNAMODB_BALANCES_TABLE_NAME")
	transactionsTable := os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME")
	relationsTable := os.Getenv("DYNAMODB_RELATIONS_TABLE_NAME")
	connectionsTable := os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME")

	if balancesTable == "" || transactionsTable == "" || relationsTable == "" || connectionsTable == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	store := dydbstore.New(dbClient, balancesTable, transactionsTable, relationsTable, connectionsTable)

	// Prometheus registry and ledger metrics.
	registry := prometheus.NewRegistry()
	ledgerMetrics := metrics.NewLedger(registry)

	// Balance pushes over the WebSocket management API, when configured.
	var publisher websockets.Publisher = &websockets.NoOpPublisher{}
	if wsEndpoint := os.Getenv("WEBSOCKET_API_ENDPOINT"); wsEndpoint != "" {
		publisher, err = websockets.NewPublisher(store, store, wsEndpoint)
		if err != nil {
			log.Fatalf("failed to create websocket publisher: %v", err)
		}
	}

	creditEngine := ledger.NewEngine(store)
	creditEngine.Metrics = ledgerMetrics
	creditEngine.Publisher = publisher

	permissionEngine := authz.NewEngine(store)

	handler := handlers.NewApiHandler(creditEngine, permissionEngine)

	router := chi.NewRouter()
	router.Use(appmiddleware.Identity)
	router.Use(appmiddleware.NewStructuredLogger(logger))
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Use the generated function to mount our handler on the router
	api.HandlerFromMux(handler, router)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	log.Printf("Starting server on port %s", port)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
