//go:build integration

// Package containers manages the shared testcontainers instances behind the
// integration suites. Each backend starts at most once per test binary and is
// reaped by Ryuk when the run ends.
package containers

import (
	"sync"
	"testing"
)

type manager struct {
	postgresOnce sync.Once
	postgres     *PostgresContainer

	redisOnce sync.Once
	redis     *RedisContainer

	redpandaOnce sync.Once
	redpanda     *RedpandaContainer
}

var shared manager

// GetPostgres returns the shared postgres container, starting it on first use.
func GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	shared.postgresOnce.Do(func() {
		shared.postgres = NewPostgresContainer(t)
	})
	if shared.postgres == nil {
		t.Fatal("postgres container failed to start earlier in this run")
	}
	return shared.postgres
}

// GetRedis returns the shared redis container, starting it on first use.
func GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	shared.redisOnce.Do(func() {
		shared.redis = NewRedisContainer(t)
	})
	if shared.redis == nil {
		t.Fatal("redis container failed to start earlier in this run")
	}
	return shared.redis
}

// GetRedpanda returns the shared redpanda container, starting it on first use.
func GetRedpanda(t *testing.T) *RedpandaContainer {
	t.Helper()
	shared.redpandaOnce.Do(func() {
		shared.redpanda = NewRedpandaContainer(t)
	})
	if shared.redpanda == nil {
		t.Fatal("redpanda container failed to start earlier in this run")
	}
	return shared.redpanda
}
