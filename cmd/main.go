package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"medicart/internal/config"
	"medicart/internal/events"
	httpapi "medicart/internal/http"
	"medicart/internal/llm"
	"medicart/internal/logger"
	"medicart/internal/repository"
	"medicart/internal/seed"
	"medicart/internal/service"
	"medicart/internal/storage"

	_ "medicart/docs"
)

// @title MediCart Pharmacy API
// @version 1.0.0
// @description Pharmacy backend: catalog, prescriptions, orders, consultations and an AI assistant.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := &cli.App{
		Name:  "medicart",
		Usage: "MediCart pharmacy backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file to load before reading the environment"},
			&cli.StringFlag{Name: "port", Usage: "HTTP port, overrides PORT"},
			&cli.StringFlag{Name: "db", Usage: "SQLite database path, overrides DB_PATH"},
		},
		Action: serve,
		Commands: []*cli.Command{
			{Name: "serve", Usage: "run the HTTP API (default)", Action: serve},
			{Name: "seed", Usage: "insert sample medicines and the admin account, then exit", Action: seedOnly},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return nil, err
	}
	if p := c.String("port"); p != "" {
		cfg.Port = p
	}
	if db := c.String("db"); db != "" {
		cfg.DBPath = db
	}
	return cfg, nil
}

func openDB(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := repository.Open(cfg.DBPath, log.With().Str("component", "gorm").Logger())
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func runSeed(ctx context.Context, cfg *config.Config, store *repository.Store, log zerolog.Logger) error {
	return seed.Run(ctx,
		repository.NewMedicines(store),
		repository.NewUsers(store),
		repository.NewTx(store),
		seed.Admin{Email: cfg.AdminEmail, Password: cfg.AdminPassword},
		cfg.SeedSampleData,
		log,
	)
}

func seedOnly(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, nil)
	db, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	return runSeed(c.Context, cfg, repository.NewStore(db), log)
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, nil)
	if log.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	store := repository.NewStore(db)
	tx := repository.NewTx(store)

	if err := runSeed(c.Context, cfg, store, log); err != nil {
		log.Error().Err(err).Msg("seeding failed, continuing without sample data")
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Msg("publishing domain events to kafka")
	}

	users := repository.NewUsers(store)
	medicines := repository.NewMedicines(store)
	prescriptions := repository.NewPrescriptions(store)
	completer := llm.NewClient(llm.Config{
		APIKey:  cfg.LLMAPIKey,
		BaseURL: cfg.LLMBaseURL,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	})
	if cfg.LLMAPIKey == "" {
		log.Warn().Msg("GROQ_API_KEY is not set, chat answers come from the fallback table")
	}

	srv := httpapi.NewServer(httpapi.Services{
		Auth:          service.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL),
		Medicines:     service.NewMedicineService(medicines),
		Prescriptions: service.NewPrescriptionService(prescriptions, medicines, storage.NewFileStore(cfg.UploadDir, "/uploads"), tx, publisher, log),
		Orders:        service.NewOrderService(medicines, repository.NewOrders(store), prescriptions, tx, publisher, log),
		Consultations: service.NewConsultationService(repository.NewConsultations(store)),
		Chat:          service.NewChatService(completer, log),
	}, cfg.UploadDir, log)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	if err := publisher.Close(); err != nil {
		log.Error().Err(err).Msg("close event publisher")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
