package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	userserver "github.com/Apurer/go-gin-user-api/go"

	usermemory "github.com/Apurer/go-gin-user-api/internal/domains/users/adapters/memory"
	userobservability "github.com/Apurer/go-gin-user-api/internal/domains/users/adapters/observability"
	userpostgres "github.com/Apurer/go-gin-user-api/internal/domains/users/adapters/persistence/postgres"
	userworkflowadapters "github.com/Apurer/go-gin-user-api/internal/domains/users/adapters/workflows"
	userapplication "github.com/Apurer/go-gin-user-api/internal/domains/users/application"
	userports "github.com/Apurer/go-gin-user-api/internal/domains/users/ports"
	platformmigrations "github.com/Apurer/go-gin-user-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-user-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-user-api/internal/platform/postgres"
	"github.com/Apurer/go-gin-user-api/internal/shared/links"
)

func main() {
	ctx := context.Background()
	const serviceName = "user-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	userRepo, cleanupRepo := buildUserRepository(ctx, logger)
	defer cleanupRepo()
	userService := userobservability.New(
		userapplication.NewService(userRepo, usermemory.NewIdempotencyStore()),
		userobservability.WithLogger(logger),
		userobservability.WithTracer(instruments.Tracer("internal.domains.users.application")),
		userobservability.WithMeter(instruments.Meter("internal.domains.users.application")),
	)
	var userWorkflows userports.WorkflowOrchestrator = userworkflowadapters.NewInlineUserWorkflows(userService)
	if temporalClient, err := connectTemporalClient(instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, creating users inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		userWorkflows = userworkflowadapters.NewTemporalUserWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace)))
	}

	port := envOrDefault("PORT", "8080")
	linkGen := links.NewGenerator(envOrDefault("BASE_URL", "http://localhost:"+port))

	handlers := userserver.ApiHandleFunctions{
		UsersAPI: userserver.NewUsersAPI(userService, userWorkflows, linkGen),
	}

	router := userserver.NewRouter(handlers, linkGen)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + port
	logger.Info("user API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("user API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
	}
}

func buildUserRepository(ctx context.Context, logger *slog.Logger) (userports.Repository, func()) {
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	if db == nil {
		return usermemory.NewRepository(), cleanup
	}
	if err := platformmigrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to in-memory repository", slog.String("error", err.Error()))
		cleanup()
		return usermemory.NewRepository(), func() {}
	}
	logger.Info("user repository configured with postgres")
	return userpostgres.NewRepository(db), cleanup
}

func connectTemporalClient(instruments *platformobservability.Instruments) (client.Client, error) {
	if os.Getenv("TEMPORAL_DISABLED") == "1" {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	address := envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort)
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  address,
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
