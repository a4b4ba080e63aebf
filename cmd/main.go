package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"google.golang.org/api/option"

	"github.com/dtroode/shoe-inventory/internal/cli"
	"github.com/dtroode/shoe-inventory/internal/config"
	"github.com/dtroode/shoe-inventory/internal/logger"
	"github.com/dtroode/shoe-inventory/internal/model"
	"github.com/dtroode/shoe-inventory/internal/prompt"
	"github.com/dtroode/shoe-inventory/internal/repository/firestore"
	"github.com/dtroode/shoe-inventory/internal/repository/memory"
	"github.com/dtroode/shoe-inventory/internal/repository/postgres"
	"github.com/dtroode/shoe-inventory/internal/service"
	storage "github.com/dtroode/shoe-inventory/internal/storage/minio"
	"github.com/dtroode/shoe-inventory/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize document store", "driver", cfg.Store.Driver, "error", err)
	}
	defer closeStore()

	tokenManager := token.NewJWT(cfg.JWT.Secret, 0)
	identity := token.NewIdentity(tokenManager, logger)

	session := service.NewSession(cfg.Session(), identity, store, logger)
	if err := session.Open(ctx); err != nil {
		logger.Fatal("failed to open sync session", "error", err)
	}
	defer session.Close()

	p := prompt.NewStdio()

	opts := []service.GatewayOption{}
	if cfg.Storage.Enabled {
		images, err := openImageStorage(ctx, cfg.Storage)
		if err != nil {
			logger.Fatal("failed to initialize image storage", "error", err)
		}
		opts = append(opts, service.WithImageStorage(images))
	}
	gateway := service.NewGateway(session, store, p, logger, opts...)

	app := &cli.App{
		Session:     session,
		Gateway:     gateway,
		Prompter:    p,
		Out:         os.Stdout,
		SyncTimeout: 15 * time.Second,
	}

	if err := cli.NewRootCommand(app, version()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		session.Close()
		closeStore()
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (model.DocumentStore, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverFirestore:
		var opts []option.ClientOption
		if cfg.Firestore.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.Firestore.CredentialsFile))
		}
		store, err := firestore.NewStore(ctx, cfg.Firestore.ProjectID, opts...)
		if err != nil {
			return nil, nil, err
		}
		return store, closer(store), nil

	case config.DriverPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewShoeRepository(conn), closer(conn), nil

	default:
		return memory.NewStore(), func() {}, nil
	}
}

func closer(c io.Closer) func() {
	return func() { _ = c.Close() }
}

func openImageStorage(ctx context.Context, cfg config.Storage) (*storage.Client, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return storage.NewClient(ctx, minioClient, cfg.Bucket, cfg.PublicURL)
}

func version() string {
	return fmt.Sprintf("%s (built %s, commit %s)", buildVersion, buildDate, buildCommit)
}
