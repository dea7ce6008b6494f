package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
	"chancery/pkg/platform/tx"
)

// StoreTx provides the transactional boundary for engine mutations. A decree
// operation touches the record store and a decree store together; both must
// commit or neither.
type StoreTx interface {
	RunInTx(ctx context.Context, parishID domain.ParishID, fn func(txCtx context.Context) error) error
}

// Sharded locking for memory mode: operations are distributed across N
// shards by a hash of the parish id, so unrelated parishes never contend.
const numTxShards = 128

// defaultTxTimeout bounds a decree transaction.
const defaultTxTimeout = 5 * time.Second

type shardedStoreTx struct {
	shards  [numTxShards]sync.Mutex
	timeout time.Duration
}

// NewShardedStoreTx builds the in-memory transaction boundary.
func NewShardedStoreTx() StoreTx {
	return &shardedStoreTx{}
}

func (t *shardedStoreTx) RunInTx(ctx context.Context, parishID domain.ParishID, fn func(txCtx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := hashParish(parishID) % numTxShards
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx)
}

// hashParish uses FNV-1a over the parish id bytes.
func hashParish(parishID domain.ParishID) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	s := parishID.String()
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}

type postgresStoreTx struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPostgresStoreTx builds the SQL transaction boundary. The open *sql.Tx
// travels through context so every store joins the same unit of work.
func NewPostgresStoreTx(db *sql.DB) StoreTx {
	return &postgresStoreTx{db: db}
}

func (t *postgresStoreTx) RunInTx(ctx context.Context, _ domain.ParishID, fn func(txCtx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sqlTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	return sqlTx.Commit()
}
