// grantd 積分發放服務
//
// 提供 callable RPC（/grantPoints、/claimPoints）與 plain HTTP
// （/grantPointsHttp/、/claimPointsHttp/、/audit、/accounts）兩種入口。
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackyeh168/point_grant/src/internal/application/grant"
	pointsapp "github.com/jackyeh168/point_grant/src/internal/application/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/access"
	"github.com/jackyeh168/point_grant/src/internal/infrastructure/auth"
	"github.com/jackyeh168/point_grant/src/internal/infrastructure/config"
	"github.com/jackyeh168/point_grant/src/internal/infrastructure/eventlog"
	"github.com/jackyeh168/point_grant/src/internal/infrastructure/logging"
	"github.com/jackyeh168/point_grant/src/internal/infrastructure/persistence"
	"github.com/jackyeh168/point_grant/src/internal/interfaces/httpapi"
	"github.com/spf13/pflag"
	"gorm.io/gorm"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flagSet := pflag.NewFlagSet("grantd", pflag.ContinueOnError)
	configPath := flagSet.StringP("config", "c", os.Getenv("GRANT_CONFIG"), "path to YAML config file")
	migrate := flagSet.Bool("migrate", true, "create or update the schema at startup")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := persistence.Open(ctx, persistence.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return err
	}
	defer func() { _ = persistence.Close(db) }()

	if *migrate {
		if err := persistence.Migrate(db); err != nil {
			return err
		}
	}

	tokens, err := auth.NewTokenService(auth.Options{
		SigningKey: []byte(cfg.Auth.SigningKey),
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           buildRouter(cfg, db, tokens, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("grantd starting",
		"event", "server_starting",
		"module", "grantd",
		"layer", "cmd",
		"addr", cfg.Server.Addr,
		"region", cfg.Server.Region,
		"database_driver", cfg.Database.Driver,
		"serializable", cfg.Database.Serializable,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("grantd shutting down",
		"event", "server_stopping",
		"module", "grantd",
		"layer", "cmd",
	)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildRouter 組裝發放服務（每個行程只建立一次）
func buildRouter(cfg *config.Config, db *gorm.DB, tokens *auth.TokenService, logger *slog.Logger) http.Handler {
	var txOpts []persistence.TransactionOption
	if cfg.Database.Serializable {
		txOpts = append(txOpts, persistence.WithIsolationLevel(sql.LevelSerializable))
	}
	txManager := persistence.NewGORMTransactionManager(db, txOpts...)
	accounts := persistence.NewAccountRepository(db)
	trail := persistence.NewAuditTrail(db)

	gate := access.NewAuthorizationGate(access.NewDefaultRoleResolver(accounts))
	transaction := grant.NewIdempotentGrantTransaction(accounts, trail, txManager, nil, logger)
	service := grant.NewService(
		gate,
		grant.NewGrantValidator(),
		transaction,
		trail,
		eventlog.NewPublisher(logger),
		logger,
	)

	return httpapi.NewRouter(httpapi.Config{
		Service:        service,
		Verifier:       tokens,
		Balances:       pointsapp.NewGetBalanceUseCase(gate, accounts),
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Health: func(ctx context.Context) error {
			return persistence.Ping(ctx, db)
		},
	})
}
