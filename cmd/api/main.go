package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/auditoria-soat/internal/application/envio"
	"github.com/jhoicas/auditoria-soat/internal/application/usecase"
	"github.com/jhoicas/auditoria-soat/internal/infrastructure/chunks"
	"github.com/jhoicas/auditoria-soat/internal/infrastructure/postgres"
	"github.com/jhoicas/auditoria-soat/internal/infrastructure/storage"
	"github.com/jhoicas/auditoria-soat/internal/infrastructure/webhook"
	httpRouter "github.com/jhoicas/auditoria-soat/internal/interfaces/http"
	"github.com/jhoicas/auditoria-soat/pkg/config"
	"github.com/jhoicas/auditoria-soat/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("crear esquema")
	}

	loteRepo := postgres.NewLoteRepository(pool)
	registroRepo := postgres.NewRegistroRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Almacenamiento: GCS si hay bucket, si no disco local
	var uploader envio.Uploader
	if cfg.Storage.Bucket != "" {
		gcsUploader, err := storage.NewGCSUploader(ctx, cfg.Storage.Bucket)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente GCS")
		}
		defer gcsUploader.Close()
		uploader = gcsUploader
		log.Info().Str("bucket", cfg.Storage.Bucket).Msg("almacenamiento en GCS")
	} else {
		localUploader, err := storage.NewLocalUploader(cfg.Storage.LocalDir)
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento local")
		}
		uploader = localUploader
		log.Warn().Str("dir", cfg.Storage.LocalDir).Msg("STORAGE_BUCKET vacío, se usa almacenamiento local")
	}

	chunkStore, err := chunks.NewStore(cfg.Ingest.ChunkDir, cfg.Ingest.ChunkTTL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("directorio de fragmentos")
	}
	go chunkStore.RunPurge(ctx, 10*time.Minute)

	notifier := webhook.New(cfg.Webhook.URL, cfg.Webhook.Timeout)

	envioUC := usecase.NewEnvioUseCase(
		envio.NewProcessor(cfg.Ingest.SourceCharset, cfg.Ingest.MaxLines),
		envio.NewReconciler(loteRepo, log),
		envio.NewRegistrar(txRunner, uploader, notifier, log),
		chunkStore,
		log,
	)
	loteUC := usecase.NewLoteUseCase(loteRepo, registroRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Auditoría SOAT API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		EnvioUC:   envioUC,
		LoteUC:    loteUC,
		JWTSecret: cfg.JWT.Secret,
		Logger:    log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
