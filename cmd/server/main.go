package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stocksync/stocksync/internal/auth"
	"github.com/stocksync/stocksync/internal/config"
	"github.com/stocksync/stocksync/internal/db"
	"github.com/stocksync/stocksync/internal/export"
	"github.com/stocksync/stocksync/internal/extract"
	"github.com/stocksync/stocksync/internal/ingest"
	"github.com/stocksync/stocksync/internal/middleware"
	"github.com/stocksync/stocksync/internal/notify"
	"github.com/stocksync/stocksync/internal/repository"
	"github.com/stocksync/stocksync/internal/textmatch"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".", log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	conn, err := db.NewConnection(ctx, cfg.Database, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer conn.Close()
	log.Info().Msg("database connection established")

	if err := db.RunMigrations(cfg.Database, "./migrations", log.Logger); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	orgRepo := repository.NewOrganizationRepository(conn.Pool)
	inventoryRepo := repository.NewInventoryRepository(conn.Pool)
	auditRepo := repository.NewAuditRepository(conn.Pool)
	notifier := notify.NewLogNotifier(log.Logger)
	ledgerRepo := repository.NewLedgerRepository(conn, notifier, log.Logger)

	resolverConfig := textmatch.DefaultResolverConfig()
	resolverConfig.MinConfidence = cfg.MinConfidence
	resolver := textmatch.NewResolver(resolverConfig)

	engine := ingest.NewEngine(orgRepo, inventoryRepo, ledgerRepo, resolver, cfg.Engine, log.Logger)
	adapter := extract.NewFileAdapter()
	exportService := export.NewService(inventoryRepo, log.Logger)

	mux := http.NewServeMux()
	mux.Handle("POST /api/imports", ingest.NewHTTPHandler(engine, adapter, log.Logger))
	mux.Handle("GET /api/companies/{companyID}/export.csv", export.NewHTTPHandler(exportService, log.Logger))
	mux.HandleFunc("GET /api/items/{id}/transactions", func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}
		entries, err := ledgerRepo.ListByItem(r.Context(), itemID, 200)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, entries)
	})
	mux.HandleFunc("GET /api/items/{id}/audit", func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}
		entries, err := auditRepo.ListByEntity(r.Context(), "inventory_item", itemID, 100)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, entries)
	})
	mux.HandleFunc("GET /api/items/{id}/replay", func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}
		item, err := inventoryRepo.GetByID(r.Context(), itemID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		replayed, err := ledgerRepo.ReplayQuantity(r.Context(), itemID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"item_id":          itemID,
			"current_quantity": item.CurrentQuantity,
			"replayed":         replayed,
			"consistent":       replayed == item.CurrentQuantity,
		})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := conn.Pool.Ping(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      middleware.Logging(log.Logger)(corsHandler.Handler(auth.Middleware(mux))),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
