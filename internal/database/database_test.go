package database

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Shivanand-hulikatti/activity-board/config"
)

func fastRetry(t *testing.T) {
	t.Helper()
	prev := retryWait
	retryWait = time.Millisecond
	t.Cleanup(func() { retryWait = prev })
}

func closedPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	fastRetry(t)
	core, logs := observer.New(zapcore.WarnLevel)

	calls := 0
	err := retry(context.Background(), zap.New(core).Sugar(), "db connect", func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, 2, logs.FilterMessage("db connect attempt failed").Len())
}

func TestRetryGivesUpWithLastError(t *testing.T) {
	fastRetry(t)
	last := errors.New("still down")

	calls := 0
	err := retry(context.Background(), zap.NewNop().Sugar(), "db connect", func() error {
		calls++
		return last
	})

	require.ErrorIs(t, err, last)
	require.Equal(t, connectAttempts, calls)
}

func TestRetryStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retry(ctx, zap.NewNop().Sugar(), "db connect", func() error {
		calls++
		return errors.New("down")
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestNewPoolRetriesUnreachableDatabase(t *testing.T) {
	fastRetry(t)
	core, logs := observer.New(zapcore.WarnLevel)

	cfg := config.PostgresConfig{
		Host:         "127.0.0.1",
		Port:         closedPort(t),
		User:         "postgres",
		Password:     "postgres",
		DBName:       "activities",
		SSLMode:      "disable",
		QueryTimeout: time.Second,
		MaxConns:     2,
		MinConns:     0,
	}
	_, err := NewPool(context.Background(), cfg, zap.New(core).Sugar())

	require.ErrorContains(t, err, "connect to postgres")
	require.Equal(t, connectAttempts, logs.FilterMessage("db connect attempt failed").Len())
}

func TestMigrateRetriesUnreachableDatabase(t *testing.T) {
	fastRetry(t)
	core, logs := observer.New(zapcore.WarnLevel)

	cfg := config.PostgresConfig{
		Host:           "127.0.0.1",
		Port:           closedPort(t),
		User:           "postgres",
		Password:       "postgres",
		DBName:         "activities",
		SSLMode:        "disable",
		MigrateTimeout: 10 * time.Second,
	}
	err := Migrate(context.Background(), cfg, zap.New(core).Sugar())

	require.ErrorContains(t, err, "migrate")
	require.Equal(t, connectAttempts, logs.FilterMessage("db migrate attempt failed").Len())
}
