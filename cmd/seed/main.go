package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ovoloshina/shopbot-backend/internal/config"
	"github.com/ovoloshina/shopbot-backend/internal/db"
	"github.com/ovoloshina/shopbot-backend/internal/model"
	"github.com/ovoloshina/shopbot-backend/internal/repository"
)

// Sets per-size stock quantities, e.g.:
//
//	go run ./cmd/seed M=10 L=5
func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: seed SIZE=QUANTITY [SIZE=QUANTITY ...]")
	}

	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	conn, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := conn.AutoMigrate(&model.Size{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	stockRepo := repository.NewStockRepository(conn, cfg.Sizes)
	if err := stockRepo.EnsureSizes(ctx); err != nil {
		return fmt.Errorf("ensure sizes: %w", err)
	}

	for _, arg := range args {
		name, qtyStr, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("invalid argument %q, want SIZE=QUANTITY", arg)
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil || qty < 0 {
			return fmt.Errorf("invalid quantity in %q", arg)
		}
		if err := stockRepo.SetQuantity(ctx, name, qty); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
		log.Printf("set %s in_stock=%d", name, qty)
	}
	return nil
}
