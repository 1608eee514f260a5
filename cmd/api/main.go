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

	"github.com/fiecl/barcode-inventory-management/internal/application/auth"
	"github.com/fiecl/barcode-inventory-management/internal/application/inventory"
	"github.com/fiecl/barcode-inventory-management/internal/application/notify"
	"github.com/fiecl/barcode-inventory-management/internal/application/recipients"
	"github.com/fiecl/barcode-inventory-management/internal/domain/repository"
	"github.com/fiecl/barcode-inventory-management/internal/infrastructure/barcode"
	"github.com/fiecl/barcode-inventory-management/internal/infrastructure/mail"
	"github.com/fiecl/barcode-inventory-management/internal/infrastructure/memory"
	infrapdf "github.com/fiecl/barcode-inventory-management/internal/infrastructure/pdf"
	"github.com/fiecl/barcode-inventory-management/internal/infrastructure/postgres"
	"github.com/fiecl/barcode-inventory-management/internal/infrastructure/realtime"
	"github.com/fiecl/barcode-inventory-management/internal/infrastructure/storage"
	httpRouter "github.com/fiecl/barcode-inventory-management/internal/interfaces/http"
	"github.com/fiecl/barcode-inventory-management/pkg/config"
	"github.com/fiecl/barcode-inventory-management/pkg/logger"
	"github.com/fiecl/barcode-inventory-management/pkg/metrics"
)

// repositories lo que cada driver de almacenamiento aporta.
type repositories struct {
	tx         inventory.TxRunner
	items      repository.ItemRepository
	audits     repository.AuditRepository
	recipients repository.RecipientRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	repos := openRepositories(ctx, cfg, log)
	defer repos.close()

	artifacts := openArtifactStore(ctx, cfg, log)
	m := metrics.New()

	// Alertas: SMTP si hay servidor configurado, si no solo log.
	var mailer notify.Mailer
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, log)
	} else {
		log.Warn().Msg("SMTP_SERVER vacío: las alertas solo se registran en el log")
		mailer = mail.NewLogMailer(log)
	}

	recipientUC := recipients.NewRecipientUseCase(repos.recipients)
	dispatcher := notify.NewDispatcher(notify.Config{
		Workers:     cfg.Notify.Workers,
		QueueSize:   cfg.Notify.QueueSize,
		Concurrency: cfg.Notify.Concurrency,
		MaxAttempts: cfg.Notify.MaxAttempts,
		SendTimeout: cfg.Notify.SendTimeout,
	}, mailer, recipientUC, log, m)
	dispatcher.Start(ctx)

	hub := realtime.NewHub(log)
	go hub.Run(ctx)

	allocator := inventory.NewIdentifierAllocator(repos.items, inventory.NewRandomSource(), cfg.Barcode.MaxAttempts, m, log)
	ledgerUC := inventory.NewLedgerUseCase(inventory.LedgerDeps{
		Tx:        repos.tx,
		Items:     repos.items,
		Allocator: allocator,
		Renderer:  barcode.NewRenderer(),
		Artifacts: artifacts,
		Alerts:    dispatcher,
		Events:    hub,
		Metrics:   m,
		Logger:    log,
	})
	auditUC := inventory.NewAuditUseCase(repos.audits, repos.items)
	labelUC := inventory.NewLabelUseCase(ledgerUC, infrapdf.NewLabelGenerator())
	authUC := auth.NewAuthUseCase(auth.AdminCredentials{
		Email:        cfg.Admin.Email,
		PasswordHash: cfg.Admin.PasswordHash,
	}, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if !authUC.Enabled() {
		log.Warn().Msg("JWT_SECRET o credenciales de admin vacías: rutas de administración abiertas")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Barcode Inventory API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:     ledgerUC,
		Audit:      auditUC,
		Label:      labelUC,
		Recipients: recipientUC,
		AuthUC:     authUC,
		Hub:        hub,
		Registry:   m.Registry,
		JWTSecret:  cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// las rondas en curso terminan antes de cerrar la base
	dispatcher.Stop()
	stop()

	log.Info().Msg("aplicación detenida")
}

func openRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) repositories {
	if cfg.App.StorageDriver == "memory" {
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return repositories{
			tx:         store.TxRunner(),
			items:      store.Items(),
			audits:     store.Audits(),
			recipients: store.Recipients(),
			close:      func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		log.Fatal().Err(err).Msg("migraciones")
	}
	return repositories{
		tx:         postgres.NewTxRunner(pool),
		items:      postgres.NewItemRepository(pool),
		audits:     postgres.NewAuditRepository(pool),
		recipients: postgres.NewRecipientRepository(pool),
		close:      pool.Close,
	}
}

func openArtifactStore(ctx context.Context, cfg *config.Config, log *logger.Logger) inventory.ArtifactStore {
	if cfg.Barcode.Storage == "s3" {
		s, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.Barcode.S3Bucket,
			Region:    cfg.Barcode.S3Region,
			Endpoint:  cfg.Barcode.S3Endpoint,
			AccessKey: cfg.Barcode.S3AccessKey,
			SecretKey: cfg.Barcode.S3SecretKey,
			Prefix:    "barcodes/",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("cliente S3")
		}
		return s
	}
	s, err := storage.NewFSStore(cfg.Barcode.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("directorio de códigos de barras")
	}
	return s
}
