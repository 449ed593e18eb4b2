package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pastelhq/pastel/internal/config"
	"github.com/pastelhq/pastel/internal/data"
	"github.com/pastelhq/pastel/internal/realtime"
	"github.com/pastelhq/pastel/internal/types"
	"github.com/pastelhq/pastel/internal/webserver"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	db := data.MustDB(cfg.DatabaseURL)
	if err := db.AutoMigrate(&types.User{}, &types.Project{}, &types.Comment{}, &types.Reply{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	hub := realtime.NewHub()
	if cfg.RedisURL != "" {
		rdb := data.MustRedis(cfg.RedisURL)
		hub.AttachRedis(ctx, rdb)
		log.Printf("Realtime bridge attached to redis")
	}

	router := webserver.New(cfg, db, hub)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Pastel API listening on %s", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	cancel()
	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
