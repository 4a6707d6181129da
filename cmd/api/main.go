package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/ovoloshina/shopbot-backend/internal/config"
	"github.com/ovoloshina/shopbot-backend/internal/db"
	"github.com/ovoloshina/shopbot-backend/internal/model"
	"github.com/ovoloshina/shopbot-backend/internal/payment"
	"github.com/ovoloshina/shopbot-backend/internal/repository"
	"github.com/ovoloshina/shopbot-backend/internal/server"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	conn, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	if err := conn.AutoMigrate(&model.Profile{}, &model.Size{}, &model.Bill{}); err != nil {
		logger.Fatal("auto migrate failed", zap.Error(err))
	}

	// Missing size rows after this point are a configuration error and fatal.
	stockRepo := repository.NewStockRepository(conn, cfg.Sizes)
	if err := stockRepo.EnsureSizes(context.Background()); err != nil {
		logger.Fatal("stock initialization failed", zap.Error(err))
	}

	provider := payment.NewQiwiClient(cfg.QiwiAPIURL, cfg.QiwiSecretKey, cfg.ProviderTimeout, cfg.BillLifetime)
	srv := server.New(cfg, conn, provider, logger)

	addr := ":" + cfg.Port
	logger.Info("starting server", zap.String("addr", addr))
	if err := srv.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
