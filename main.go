package main

import (
	"io"
	"log"
	"net/http"
	"os"

	"github.com/parisxmas/health-index-server/internal/auth"
	"github.com/parisxmas/health-index-server/internal/config"
	"github.com/parisxmas/health-index-server/internal/db"
	"github.com/parisxmas/health-index-server/internal/gelf"
	"github.com/parisxmas/health-index-server/internal/handler"
	"github.com/parisxmas/health-index-server/internal/repository"
	"github.com/parisxmas/health-index-server/internal/router"
	"github.com/parisxmas/health-index-server/internal/service"
)

func main() {
	cfg := config.Load()

	// GELF UDP logging
	if cfg.GelfAddr != "" {
		gelfWriter, err := gelf.New(cfg.GelfAddr)
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	// Connect to OxiDB
	pool, err := db.NewPool(cfg.OxiDBHost, cfg.OxiDBPort, cfg.PoolSize)
	if err != nil {
		log.Fatalf("Failed to connect to OxiDB: %v", err)
	}
	defer pool.Close()
	log.Printf("Connected to OxiDB at %s:%d (pool size: %d)", cfg.OxiDBHost, cfg.OxiDBPort, cfg.PoolSize)

	// The admin password is only ever held as a bcrypt hash.
	passHash, err := auth.HashPassword(cfg.AdminPass)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	creds := service.Credentials{Username: cfg.AdminUser, PasswordHash: passHash}

	subRepo := repository.NewSubmissionRepo(pool)
	authSvc := service.NewAuthService(creds, cfg.JWTSecret)
	subSvc := service.NewSubmissionService(subRepo)

	authH := handler.NewAuthHandler(authSvc)
	subH := handler.NewSubmissionHandler(subSvc)

	r := router.New(cfg.JWTSecret, authH, subH)

	// Index creation runs in background on a dedicated connection so it
	// never blocks the HTTP handler pool.
	go func() {
		initPool, err := db.NewPool(cfg.OxiDBHost, cfg.OxiDBPort, 1)
		if err != nil {
			log.Printf("Warning: init pool connect failed, using main pool: %v", err)
			initPool = pool
		}
		defer func() {
			if initPool != pool {
				initPool.Close()
			}
		}()
		if err := repository.NewSubmissionRepo(initPool).EnsureIndexes(); err != nil {
			log.Printf("Warning: submission index creation failed: %v", err)
		} else {
			log.Printf("Background init: submission indexes ready")
		}
	}()

	log.Printf("Health index server starting on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
