// Package main - Entry point for the cargo-quote HTTP server
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"cargo-quote/api"
	"cargo-quote/core/category"
	"cargo-quote/core/dialog"
	"cargo-quote/core/tariff"
	"cargo-quote/internal/config"
	"cargo-quote/internal/logging"
	"cargo-quote/session"
)

const version = "1.0.0"

func main() {
	addr := flag.String("addr", ":8080", "Server address")
	cfgPath := flag.String("config", "", "Tariff config file (default: built-in tables, or $CARGO_QUOTE_CONFIG)")
	flag.Parse()

	_ = godotenv.Load()

	path := *cfgPath
	if path == "" {
		path = os.Getenv("CARGO_QUOTE_CONFIG")
	}
	cfg, cfgErr := config.Load(path)
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if cfgErr != nil {
		logging.Logger.Sugar().Warnw("tariff config unusable, serving degraded", "path", path, "error", cfgErr)
	}

	tables := tariff.NewTables(cfg)
	machine := dialog.NewMachine(tables, category.KeywordClassifier{}, nil, logging.Logger)

	var store session.Store
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		store = session.NewRedisStore(client, 30*time.Minute)
		logging.Logger.Sugar().Infow("session store", "driver", "redis", "addr", redisAddr)
	} else {
		store = session.NewMemoryStore()
		logging.Logger.Sugar().Infow("session store", "driver", "memory")
	}
	defer store.Close()

	server := api.NewServer(version, tables, machine, store, logging.Logger)

	fmt.Printf("🚀 Cargo Quote Server v%s\n", version)
	fmt.Printf("   API: http://localhost%s\n", *addr)
	fmt.Println()

	if err := http.ListenAndServe(*addr, server); err != nil {
		logging.Logger.Sugar().Fatalw("server stopped", "error", err)
	}
}
