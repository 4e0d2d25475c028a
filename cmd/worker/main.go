package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	usermemory "github.com/Apurer/go-gin-user-api/internal/domains/users/adapters/memory"
	userobservability "github.com/Apurer/go-gin-user-api/internal/domains/users/adapters/observability"
	userpostgres "github.com/Apurer/go-gin-user-api/internal/domains/users/adapters/persistence/postgres"
	userapplication "github.com/Apurer/go-gin-user-api/internal/domains/users/application"
	userports "github.com/Apurer/go-gin-user-api/internal/domains/users/ports"
	userworkflows "github.com/Apurer/go-gin-user-api/internal/durable/temporal/workflows/users"
	platformmigrations "github.com/Apurer/go-gin-user-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-user-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-user-api/internal/platform/postgres"
	useractivities "github.com/Apurer/go-gin-user-api/internal/platform/temporal/activities/users"
)

func main() {
	ctx := context.Background()
	const serviceName = "user-worker"
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
	activities := useractivities.NewActivities(userService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, userworkflows.UserCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(userworkflows.UserCreationWorkflow, workflow.RegisterOptions{Name: userworkflows.UserCreationWorkflowName})
	w.RegisterActivityWithOptions(activities.PersistUser, activity.RegisterOptions{Name: useractivities.PersistUserActivityName})

	logger.Info("worker listening", slog.String("taskQueue", userworkflows.UserCreationTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildUserRepository(ctx context.Context, logger *slog.Logger) (userports.Repository, func()) {
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	if db == nil {
		return usermemory.NewRepository(), cleanup
	}
	if err := platformmigrations.Run(db); err != nil {
		logger.Warn("worker failed to run migrations, falling back to in-memory repository", slog.String("error", err.Error()))
		cleanup()
		return usermemory.NewRepository(), func() {}
	}
	logger.Info("worker user repository configured with postgres")
	return userpostgres.NewRepository(db), cleanup
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
