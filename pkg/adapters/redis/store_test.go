package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/busybeaver/pkg/adapters/redis"
	"github.com/aretw0/busybeaver/pkg/catalog"
	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/aretw0/busybeaver/pkg/ports"
	"github.com/aretw0/busybeaver/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.ResultStore = (*redis.Store)(nil)
	_ ports.RunLocker   = (*redis.Locker)(nil)
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func record(index uint64) domain.Record {
	m := catalog.BusyBeaver2()
	return domain.Record{
		Index:  index,
		Result: domain.RunResult{Machine: m, Remaining: 10, Outcome: domain.OutcomeExhausted},
	}
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)
	store := redis.NewFromClient(client)
	tests.RunResultStoreContract(t, store)
}

func TestRedisStore_Linearizability(t *testing.T) {
	_, client := setup(t)
	tests.RunResultStoreLinearizability(t, redis.NewFromClient(client))
}

func TestRedisLocker_Contract(t *testing.T) {
	_, client := setup(t)
	tests.RunLockerContract(t, redis.NewLocker(client, "test:"))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := setup(t)

	// Create store with 1s TTL
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	runID := "run-ttl"

	// 1. Save
	require.NoError(t, store.Save(ctx, runID, record(0)))

	// 2. Verify Runs (immediately)
	runs, err := store.Runs(ctx)
	assert.NoError(t, err)
	assert.Contains(t, runs, runID)

	// 3. Fast Forward time in miniredis (for Key Expiration)
	mr.FastForward(2 * time.Second)

	// 4. Verify Load (should fail)
	_, err = store.Load(ctx, runID, 0)
	assert.ErrorIs(t, err, domain.ErrResultNotFound)

	recs, err := store.List(ctx, runID)
	assert.NoError(t, err)
	assert.Empty(t, recs)

	// 5. Verify Runs (lazily cleaned up). The index score is wall-clock based.
	time.Sleep(1200 * time.Millisecond)

	runs, err = store.Runs(ctx)
	assert.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := setup(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "my-run", record(7)))

	assert.True(t, mr.Exists("custom:app:run:my-run"), "records hash uses the prefix")
	assert.True(t, mr.Exists("custom:app:run:my-run:order"), "order index uses the prefix")
	assert.True(t, mr.Exists("custom:app:runs"), "run index uses the prefix")
	fields, err := mr.HKeys("custom:app:run:my-run")
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, fields)

	list, err := store.Runs(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"my-run"}, list)
}

func TestRedisStore_CorruptRecord(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client)

	mr.HSet(redis.DefaultPrefix+"run:broken", "0", "{not json")
	_, err := store.Load(context.Background(), "broken", 0)
	assert.ErrorContains(t, err, "failed to unmarshal record")
}

func TestRedisLocker_KeyLayout(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "run-1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:run-1"), "Lock key should be set in Redis")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:run-1"), "Lock key should be removed after unlock")
}

func TestRedisLocker_Expires(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	_, err := locker.Lock(ctx, "run-1", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	unlock, err := locker.Lock(waitCtx, "run-1", time.Second)
	require.NoError(t, err, "expired lock can be taken over")
	assert.NoError(t, unlock(ctx))
}
