package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/stanionascu/lemmy/client"
	"github.com/stanionascu/lemmy/internal/config"
	"github.com/stanionascu/lemmy/internal/domain"
	"github.com/stanionascu/lemmy/internal/infra/database"
	"github.com/stanionascu/lemmy/internal/infra/gateway"
	"github.com/stanionascu/lemmy/internal/infra/repository"
	"github.com/stanionascu/lemmy/internal/present/rest"
	custommiddleware "github.com/stanionascu/lemmy/internal/present/rest/middleware"
	"github.com/stanionascu/lemmy/internal/service"
	"github.com/stanionascu/lemmy/internal/usecase"
)

const userAgent = "lemmyfed/0.1.0"

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	domainConf := domain.Config{FQDN: conf.NodeInfo.FQDN}

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if conf.Server.EnableTrace {
		cleanup, err := setupTraceProvider(conf.Server.TraceEndpoint)
		if err != nil {
			slog.Error("failed to set up tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer cleanup()
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		slog.Error("failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := database.MigratePostgres(db); err != nil {
		slog.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, "", conf.Server.RedisDB)

	clientOptions := []client.Option{}
	if conf.Server.MemcachedAddr != "" {
		clientOptions = append(clientOptions, client.WithMemcached(database.NewMemcached(conf.Server.MemcachedAddr)))
	}
	cl := client.New(userAgent, clientOptions...)

	actorRepo := repository.NewActorRepository(db)
	objectRepo := repository.NewObjectRepository(db)
	moderationRepo := repository.NewModerationRepository(db)
	followerRepo := repository.NewFollowerRepository(db)

	actorGateway := gateway.NewActorGateway(cl, domainConf)
	deliverer := gateway.NewDeliverer(userAgent)

	notifier := service.NewNotifier(rdb)
	dedup := service.NewDedup(rdb)

	directory := usecase.NewDirectory(actorRepo, actorGateway)
	resolver := usecase.NewObjectResolver(objectRepo)
	builder := usecase.NewBuilder(domainConf)
	dispatcher := usecase.NewDispatcher(deliverer, followerRepo, builder, log)
	verifier := usecase.NewVerifier(directory, resolver, actorRepo, moderationRepo, domainConf)
	applier := usecase.NewApplier(directory, resolver, objectRepo, moderationRepo, dispatcher, notifier, domainConf, log)
	processor := usecase.NewProcessor(verifier, applier, dedup, log)
	documents := usecase.NewDocuments(actorRepo)

	handler := rest.NewHandler(domainConf, processor, documents, notifier)
	signature := custommiddleware.NewSignatureMiddleware(nil, domainConf)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware(conf.NodeInfo.FQDN))
	}

	handler.RegisterRoutes(e, signature.VerifySignature)

	e.Logger.Fatal(e.Start(conf.Server.Listen))
}

func setupTraceProvider(endpoint string) (func(), error) {
	exporter, err := otlptracehttp.New(
		context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	resource := sdkresource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String("lemmyfed"),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)

	return func() {
		provider.Shutdown(context.Background())
	}, nil
}
