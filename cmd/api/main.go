// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"unispace/internal/adapter/identityenv"
	"unispace/internal/adapter/remotehttp"
	"unispace/internal/adapter/storage"
	"unispace/internal/config"
	"unispace/internal/domain/directory"
	"unispace/internal/domain/identity"
	"unispace/internal/platform/logger"
	"unispace/internal/replica"
	"unispace/internal/server"
	spaceService "unispace/internal/service/space"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("unispace", cfg.LogLevel)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Replica persistence is optional; without a database the replica
	// lives for the process only.
	var snapshots spaceService.SnapshotStore
	if cfg.Database.Host != "" {
		db, err := initDatabase(ctx, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize database")
		}
		defer db.Close()
		snapshots = storage.NewSnapshotStore(db, cfg.Replica.Namespace)
	}

	// Event publication is optional as well.
	var natsConn *nats.Conn
	if cfg.NATS.URL != "" {
		natsConn, err = initNATS(cfg.NATS, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to NATS")
		}
		defer natsConn.Close()
	}

	// Device identity: at most one authenticated user per process.
	var ident identity.Provider
	if cfg.Identity.UserID != "" {
		ident = identityenv.New(identity.User{
			ID:         cfg.Identity.UserID,
			Name:       cfg.Identity.UserName,
			University: cfg.Identity.University,
		})
	} else {
		ident = identityenv.Anonymous()
	}

	// Initialize adapters
	gateway := remotehttp.New(remotehttp.Config{
		BaseURL:     cfg.Remote.BaseURL,
		Timeout:     cfg.Remote.Timeout,
		MaxRetries:  uint64(cfg.Remote.MaxRetries),
		BaseBackoff: cfg.Remote.BaseBackoff,
	})

	universities := directory.NewStatic(universityNames())

	// Initialize the replica and services
	store := replica.New()

	syncEngine := spaceService.NewSyncEngine(
		store,
		gateway,
		universities,
		ident,
		snapshots,
		natsConn,
		spaceService.SyncConfig{
			EventsTopic:     cfg.Replica.EventsTopic,
			RemoteTimeout:   cfg.Remote.Timeout,
			RefreshInterval: cfg.Replica.RefreshInterval,
		},
		log,
	)

	membership := spaceService.NewMembershipController(
		store,
		ident,
		snapshots,
		natsConn,
		spaceService.MembershipConfig{EventsTopic: cfg.Replica.EventsTopic},
		log,
	)

	messageLog := spaceService.NewMessageLog(store, ident, snapshots, log)

	// Restore the persisted replica, then reconcile once on startup.
	if err := syncEngine.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("could not restore persisted replica")
	}
	syncEngine.Refresh(ctx)
	syncEngine.Start()

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		syncEngine,
		membership,
		messageLog,
		store,
		gateway,
		ident,
		log,
	)

	// Start HTTP server
	go func() {
		log.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Info().Msg("shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if err := syncEngine.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("sync engine shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, log zerolog.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info().Msg("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}

// universityNames is the static id-to-display-name mapping used during
// remote-to-local translation.
func universityNames() map[string]string {
	return map[string]string{
		"tum":         "Technical University of Munich",
		"uva":         "University of Amsterdam",
		"sorbonne":    "Sorbonne University",
		"kuleuven":    "KU Leuven",
		"eth":         "ETH Zurich",
		"polimi":      "Politecnico di Milano",
		"ucl":         "University College London",
		"uppsala":     "Uppsala University",
		"charles":     "Charles University",
		"complutense": "Complutense University of Madrid",
	}
}
