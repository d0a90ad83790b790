//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/config"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/logging"
)

func TestPostgres_MigrationsAndRowLock(t *testing.T) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("instagram"),
		tcpostgres.WithUsername("instagram"),
		tcpostgres.WithPassword("instagram"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	logger := logging.NewNopLogger()
	db, err := NewDatabaseConnection(&config.DatabaseConfig{
		Host:        host,
		Port:        port.Int(),
		User:        "instagram",
		Password:    "instagram",
		DBName:      "instagram",
		SSLMode:     "disable",
		MaxConns:    5,
		MinConns:    1,
		MaxIdleTime: 60,
	}, logger)
	require.NoError(t, err)

	require.NoError(t, RunMigrations(ctx, db, logger))
	// segunda execução não faz nada
	require.NoError(t, RunMigrations(ctx, db, logger))

	users := NewUserRepository(db)
	codes := NewVerificationCodeRepository(db)
	uow := NewUnitOfWork(db)

	user := seedUser(t, users, "lockuser")
	require.NoError(t, codes.Upsert(ctx, entities.NewVerificationCode(user.ID, "1111", entities.AuthTypeEmail, time.Now().Add(-time.Minute))))

	locked := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := uow.WithTransaction(ctx, func(txCtx context.Context) error {
			code, err := codes.FindByUserIDForUpdate(txCtx, user.ID)
			if err != nil {
				return err
			}
			close(locked)
			time.Sleep(300 * time.Millisecond)

			code.Refresh("2222", entities.AuthTypeEmail, time.Now().Add(5*time.Minute))
			return codes.Upsert(txCtx, code)
		})
		assert.NoError(t, err)
	}()

	<-locked
	// espera o commit da outra transação e enxerga o código novo
	err = uow.WithTransaction(ctx, func(txCtx context.Context) error {
		code, err := codes.FindByUserIDForUpdate(txCtx, user.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, "2222", code.Code)
		assert.True(t, code.IsPending(time.Now()))
		return nil
	})
	require.NoError(t, err)
	wg.Wait()

	// last_login concorrente não desfaz o status gravado sob lock
	userLocked := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := uow.WithTransaction(ctx, func(txCtx context.Context) error {
			u, err := users.FindByIDForUpdate(txCtx, user.ID)
			if err != nil {
				return err
			}
			close(userLocked)
			time.Sleep(300 * time.Millisecond)

			u.AuthStatus = entities.AuthStatusDone
			return users.Update(txCtx, u)
		})
		assert.NoError(t, err)
	}()

	<-userLocked
	require.NoError(t, users.UpdateLastLogin(ctx, user.ID, time.Now()))
	wg.Wait()

	reloaded, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.AuthStatusDone, reloaded.AuthStatus)
	assert.NotNil(t, reloaded.LastLoginAt)

	require.NoError(t, users.Delete(ctx, user.ID))
	code, err := codes.FindByUserIDForUpdate(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, code)
}
