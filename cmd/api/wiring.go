package main

import (
	"context"
	"fmt"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/repositories"
	httphandlers "github.com/RahimovIlhom/instagram-clone/internal/handlers/http"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/cache"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/config"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/notification"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/persistence/memory"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/persistence/postgres"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/security"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/storage"
)

// persistence agrupa repositórios e unit of work do driver escolhido
type persistence struct {
	users       repositories.UserRepository
	codes       repositories.VerificationCodeRepository
	posts       repositories.PostRepository
	comments    repositories.CommentRepository
	likes       repositories.LikeRepository
	collections repositories.SavedCollectionRepository
	uow         ports.UnitOfWork
	health      httphandlers.HealthCheck
	close       func() error
}

func openPersistence(ctx context.Context, cfg *config.Config, logger ports.Logger) (*persistence, error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		repos := store.Repositories()
		return &persistence{
			users:       repos.Users,
			codes:       repos.Codes,
			posts:       repos.Posts,
			comments:    repos.Comments,
			likes:       repos.Likes,
			collections: repos.Collections,
			uow:         memory.NewUnitOfWork(store),
			close:       func() error { return nil },
		}, nil
	}

	db, err := postgres.NewDatabaseConnection(&cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(ctx, db, logger); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	return &persistence{
		users:       postgres.NewUserRepository(db),
		codes:       postgres.NewVerificationCodeRepository(db),
		posts:       postgres.NewPostRepository(db),
		comments:    postgres.NewCommentRepository(db),
		likes:       postgres.NewLikeRepository(db),
		collections: postgres.NewSavedCollectionRepository(db),
		uow:         postgres.NewUnitOfWork(db),
		health:      sqlDB.PingContext,
		close:       sqlDB.Close,
	}, nil
}

// openDenylist usa Redis quando REDIS_ADDR está definido
func openDenylist(ctx context.Context, cfg config.RedisConfig, logger ports.Logger) (security.RevocationStore, httphandlers.HealthCheck, func() error, error) {
	if cfg.Addr == "" {
		logger.Warn("REDIS_ADDR not set, revoked tokens are kept in memory")
		return cache.NewMemoryDenylist(), nil, func() error { return nil }, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	health := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return cache.NewRedisDenylist(client), health, client.Close, nil
}

// openStorage usa MinIO quando MINIO_ENDPOINT está definido
func openStorage(ctx context.Context, cfg *config.Config, logger ports.Logger) (ports.ObjectStorage, error) {
	if cfg.Storage.Endpoint == "" {
		logger.Warn("MINIO_ENDPOINT not set, uploads are kept in memory")
		return storage.NewMemoryStorage(cfg.Server.BaseURL), nil
	}
	return storage.NewMinioStorage(ctx, cfg.Storage, logger)
}

// openSenders escolhe os canais de entrega; canais sem configuração só registram em log
func openSenders(cfg *config.Config, logger ports.Logger) (map[entities.AuthType]ports.MessageSender, func(), error) {
	senders := map[entities.AuthType]ports.MessageSender{
		entities.AuthTypeEmail: notification.NewLogSender(string(entities.AuthTypeEmail), logger),
		entities.AuthTypePhone: notification.NewLogSender(string(entities.AuthTypePhone), logger),
	}
	cleanup := func() {}

	if cfg.SMTP.Host != "" {
		smtp, err := notification.NewSMTPSender(cfg.SMTP)
		if err != nil {
			return nil, nil, err
		}
		senders[entities.AuthTypeEmail] = smtp
	}

	if cfg.NATS.URL != "" {
		conn, err := notification.ConnectNATS(cfg.NATS.URL)
		if err != nil {
			return nil, nil, err
		}
		senders[entities.AuthTypePhone] = notification.NewNATSSMSSender(conn, cfg.NATS.SMSSubject)
		cleanup = func() {
			if err := conn.Drain(); err != nil {
				logger.Error("failed to drain nats connection", "error", err)
			}
		}
	}

	return senders, cleanup, nil
}
