// main.go
package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-storefront/client"
	"go-storefront/controllers"
	"go-storefront/routes"
	"go-storefront/session"
	"go-storefront/store"
	"go-storefront/utils"
)

// sweepInterval is how often idle sessions are evicted
const sweepInterval = 5 * time.Minute

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:          "storefront",
		Short:        "Storefront session service: catalog, cart, favorites and lost & found boards",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load before reading the environment")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, envFile)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "search <query>",
		Short: "Search the remote catalog from the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return search(cmd.Context(), envFile, strings.Join(args, " "), cmd.OutOrStdout())
		},
	})
	return root
}

func setup(envFile string) (utils.Config, *zap.Logger, error) {
	cfg, envFound := utils.LoadConfig(envFile)
	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return cfg, nil, fmt.Errorf("build logger: %w", err)
	}
	if !envFound {
		logger.Info("No .env file found. Proceeding with environment variables.")
	}
	return cfg, logger, nil
}

func serve(ctx context.Context, envFile string) error {
	cfg, logger, err := setup(envFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Set the JWT secret key
	if cfg.JWTSecret != "" {
		utils.JwtKey = []byte(cfg.JWTSecret)
	} else {
		logger.Warn("JWT_SECRET is not set; session tokens will not survive a restart")
		utils.JwtKey = make([]byte, 32)
		if _, err := rand.Read(utils.JwtKey); err != nil {
			return fmt.Errorf("generate jwt key: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	base := client.New(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout}, nil, logger.Named("client"), client.NewMetrics(registry))

	// Persisted client storage: MongoDB when configured, memory otherwise
	var tokens client.TokenStore = session.NewMemoryTokens()
	if cfg.MongoURI != "" {
		db, err := utils.ConnectDB(ctx, cfg.MongoURI)
		if err != nil {
			return fmt.Errorf("connect mongodb: %w", err)
		}
		defer func() {
			if err := db.Disconnect(context.Background()); err != nil {
				logger.Error("mongodb disconnect failed", zap.Error(err))
			}
		}()
		tokens = session.NewMongoTokens(db, cfg.MongoDatabase)
		logger.Info("persisting sessions in mongodb", zap.String("database", cfg.MongoDatabase))
	}

	emailService, err := utils.NewEmailService(cfg, logger.Named("email"))
	if err != nil {
		return err
	}

	catalog := store.NewCatalog(base, nil, logger.Named("catalog"))
	catalog.LoadProducts(ctx)

	sessions := session.NewManager(base, tokens, logger.Named("session"), utils.SessionTTL)
	found := store.NewFoundBoard(base.Found(), emailService, logger.Named("listings"))
	lost := store.NewLostBoard(base.Lost(), emailService, logger.Named("listings"))

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, routes.Controllers{
		User:    controllers.NewUserController(sessions, catalog, logger),
		Product: controllers.NewProductController(catalog),
		Cart:    controllers.NewCartController(catalog),
		Item:    controllers.NewItemController(found, lost),
		Admin:   controllers.NewAdminController(sessions, catalog, logger),
	}, sessions, cfg.AdminPasswordHash, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server is running", zap.String("port", cfg.Port), zap.String("api", cfg.APIBaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sessions.Run(gctx, sweepInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func search(ctx context.Context, envFile, query string, out io.Writer) error {
	cfg, logger, err := setup(envFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	base := client.New(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout}, nil, logger.Named("client"), nil)
	catalog := store.NewCatalog(base, nil, logger.Named("catalog"))
	catalog.LoadProducts(ctx)
	if catalog.Fallback() {
		logger.Warn("remote catalog unavailable, searching the fallback list")
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(catalog.Search(query))
}
