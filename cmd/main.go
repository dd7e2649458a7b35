package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/senyabanana/tenderbid/internal/alerts"
	"github.com/senyabanana/tenderbid/internal/db"
	"github.com/senyabanana/tenderbid/internal/handlers"
	"github.com/senyabanana/tenderbid/internal/identity"
	"github.com/senyabanana/tenderbid/internal/realtime"
	"github.com/senyabanana/tenderbid/internal/repository"
	"github.com/senyabanana/tenderbid/internal/router"
	"github.com/senyabanana/tenderbid/internal/router/config"
	"github.com/senyabanana/tenderbid/internal/services"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	runDBMigration(cfg.MigrationURL, cfg.PostgresConn)

	dbPool, err := db.InitDb(cfg)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer dbPool.Close()

	logger := log.New(os.Stdout, "INFO: ", log.LstdFlags)

	bus := realtime.NewBus(cfg.RedisAddr, cfg.RedisPassword, cfg.TenantID)
	defer bus.Close()

	tenderRepo := repository.NewPostgresTenderRepository(dbPool, bus)
	bidRepo := repository.NewPostgresBidRepository(dbPool, bus)
	chatRepo := repository.NewPostgresChatRepository(dbPool, bus)

	tenderService := services.NewTenderService(tenderRepo, bidRepo)
	bidService := services.NewBidService(bidRepo, tenderRepo)
	chatService := services.NewChatService(chatRepo, tenderRepo)

	identityService := identity.NewService(cfg.JWTSecret, identity.DefaultTokenTTL)
	alertManager := alerts.NewManager(alerts.DefaultTTL)

	tenderHandler := handlers.NewTenderHandler(tenderService, logger, 5*time.Second, alertManager)
	bidHandler := handlers.NewBidHandler(bidService, logger, 5*time.Second, alertManager)
	chatHandler := handlers.NewChatHandler(chatService, logger, 5*time.Second)
	authHandler := handlers.NewAuthHandler(identityService, logger)
	alertHandler := handlers.NewAlertHandler(alertManager, logger)
	eventHandler := handlers.NewEventHandler(bus, tenderService, bidService, chatService, logger, 5*time.Second)

	routes := router.InitRoutes(tenderHandler, bidHandler, chatHandler, authHandler, alertHandler, eventHandler)

	log.Printf("server is listening on %s...", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal("cannot create a new migrate instance", err)
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("failed to run migrate up:", err)
	}
	log.Println("db migrated successfully")
}
