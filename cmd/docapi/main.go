package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nuwanwp/docapi/internal/api"
	"github.com/nuwanwp/docapi/internal/auth"
	"github.com/nuwanwp/docapi/internal/config"
	"github.com/nuwanwp/docapi/internal/store"
)

var (
	addr    = flag.String("addr", "", "Listen address (overrides DOCAPI_ADDR)")
	backend = flag.String("backend", "", "Storage backend: mongo, badger or memory (overrides DOCAPI_BACKEND)")
	dataDir = flag.String("data", "", "Data directory for the badger backend (overrides DOCAPI_DATA_DIR)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if cfg.JWTSecret == config.DefaultJWTSecret {
		log.Println("[CONFIG] using built-in token secret; set DOCAPI_JWT_SECRET in production")
	}

	fmt.Println("docapi - generic REST API over a document store")
	fmt.Printf("   Listen:   %s\n", cfg.Addr)
	fmt.Printf("   Backend:  %s\n", cfg.Backend)
	if cfg.Backend == "badger" {
		fmt.Printf("   Data Dir: %s\n", cfg.DataDir)
	}
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := store.New(ctx, cfg.Backend, store.Options{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDB,
		DataDir:  cfg.DataDir,
	})
	cancel()
	if err != nil {
		log.Fatalf("[STORE] %v", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)

	gin.SetMode(cfg.GinMode)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.NewServer(st, tokens, cfg.Backend).Router(),
	}

	go func() {
		log.Printf("[HTTP] listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[HTTP] %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[HTTP] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[HTTP] shutdown: %v", err)
	}
	if err := st.Close(shutdownCtx); err != nil {
		log.Printf("[STORE] close: %v", err)
	}
	log.Println("[HTTP] stopped")
}
