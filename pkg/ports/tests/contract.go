package tests

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/aretw0/busybeaver/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleRecord builds a record for a two-state machine that has written a few
// symbols and is parked in state B.
func sampleRecord(t *testing.T, index uint64, outcome domain.Outcome) domain.Record {
	t.Helper()

	def, err := domain.NewDefinition(
		[]domain.State{"A", "B", "H"},
		[]domain.Symbol{"0", "1"},
		"0",
		[]domain.State{"H"},
		domain.Table{
			{State: "A", Symbol: "0"}: {Write: "1", Move: domain.Right, Next: "B"},
			{State: "B", Symbol: "1"}: {Write: "1", Move: domain.Left, Next: "H"},
		},
	)
	require.NoError(t, err)

	tape := domain.NewTape("0", "0").Write("1").MoveRight().Write("1").MoveLeft()
	return domain.Record{
		Index: index,
		Result: domain.RunResult{
			Machine:   domain.Machine{Def: def, State: "B", Tape: tape},
			Remaining: 7,
			Steps:     3,
			Outcome:   outcome,
		},
	}
}

func assertSameRecord(t *testing.T, want, got domain.Record) {
	t.Helper()
	assert.Equal(t, want.Index, got.Index)
	assert.Equal(t, want.Result.Machine.State, got.Result.Machine.State)
	assert.Equal(t, want.Result.Remaining, got.Result.Remaining)
	assert.Equal(t, want.Result.Steps, got.Result.Steps)
	assert.Equal(t, want.Result.Outcome, got.Result.Outcome)
	assert.True(t, want.Result.Machine.Tape.Equal(got.Result.Machine.Tape),
		"tape mismatch: want %s, got %s", want.Result.Machine.Tape, got.Result.Machine.Tape)
	if want.Result.Machine.Def != nil {
		require.NotNil(t, got.Result.Machine.Def)
		assert.Equal(t, want.Result.Machine.Def.Table, got.Result.Machine.Def.Table)
		assert.Equal(t, want.Result.Machine.Def.Finals, got.Result.Machine.Def.Finals)
	}
	if want.Err == nil {
		assert.NoError(t, got.Err)
	} else {
		assert.EqualError(t, got.Err, want.Err.Error())
	}
}

// RunResultStoreContract runs a suite of tests to verify that a ResultStore
// implementation adheres to the interface contract.
func RunResultStoreContract(t *testing.T, store ports.ResultStore) {
	ctx := context.Background()
	runID := "contract-run-" + time.Now().Format("20060102150405.000000000")

	t.Run("Save and Load", func(t *testing.T) {
		rec := sampleRecord(t, 42, domain.OutcomeExhausted)

		err := store.Save(ctx, runID, rec)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID, 42)
		require.NoError(t, err, "Load should not return error")
		assertSameRecord(t, rec, loaded)
	})

	t.Run("Save keeps per-record errors", func(t *testing.T) {
		rec := sampleRecord(t, 43, domain.OutcomeStuck)
		rec.Err = errors.New("step (B, 1): invalid movement")

		require.NoError(t, store.Save(ctx, runID, rec))
		loaded, err := store.Load(ctx, runID, 43)
		require.NoError(t, err)
		assertSameRecord(t, rec, loaded)
	})

	t.Run("Save overwrites the same index", func(t *testing.T) {
		rec := sampleRecord(t, 44, domain.OutcomeExhausted)
		require.NoError(t, store.Save(ctx, runID, rec))

		rec.Result.Outcome = domain.OutcomeHalted
		rec.Result.Machine.State = "H"
		require.NoError(t, store.Save(ctx, runID, rec))

		loaded, err := store.Load(ctx, runID, 44)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeHalted, loaded.Result.Outcome)
		assert.Equal(t, domain.State("H"), loaded.Result.Machine.State)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, runID, 9999)
		assert.ErrorIs(t, err, domain.ErrResultNotFound)

		_, err = store.Load(ctx, "non-existent-"+runID, 0)
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("List orders by index", func(t *testing.T) {
		id := runID + "-list"
		for _, index := range []uint64{12, 3, 1000, 7} {
			require.NoError(t, store.Save(ctx, id, sampleRecord(t, index, domain.OutcomeHalted)))
		}
		defer func() { _ = store.Delete(ctx, id) }()

		recs, err := store.List(ctx, id)
		require.NoError(t, err)

		var indices []uint64
		for _, rec := range recs {
			indices = append(indices, rec.Index)
		}
		assert.Equal(t, []uint64{3, 7, 12, 1000}, indices)

		empty, err := store.List(ctx, "non-existent-"+runID)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("Runs", func(t *testing.T) {
		id1 := runID + "-a"
		id2 := runID + "-b"
		require.NoError(t, store.Save(ctx, id2, sampleRecord(t, 0, domain.OutcomeHalted)))
		require.NoError(t, store.Save(ctx, id1, sampleRecord(t, 0, domain.OutcomeHalted)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.Runs(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
		assert.IsNonDecreasing(t, runs)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, runID, sampleRecord(t, 1, domain.OutcomeHalted)))

		err := store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID, 1)
		assert.ErrorIs(t, err, domain.ErrResultNotFound, "Load after Delete should return ErrResultNotFound")

		recs, err := store.List(ctx, runID)
		require.NoError(t, err)
		assert.Empty(t, recs)

		runs, err := store.Runs(ctx)
		require.NoError(t, err)
		assert.NotContains(t, runs, runID)

		assert.NoError(t, store.Delete(ctx, runID), "deleting twice is not an error")
	})

	t.Run("Concurrent Save", func(t *testing.T) {
		id := runID + "-concurrent"
		defer func() { _ = store.Delete(ctx, id) }()

		const n = 32
		errs := make(chan error, n)
		for i := range n {
			rec := sampleRecord(t, uint64(i), domain.OutcomeHalted)
			go func() {
				errs <- store.Save(ctx, id, rec)
			}()
		}
		for range n {
			require.NoError(t, <-errs)
		}

		recs, err := store.List(ctx, id)
		require.NoError(t, err)
		assert.Len(t, recs, n)
	})
}

// RunLockerContract verifies that a RunLocker gives exclusive access per key.
func RunLockerContract(t *testing.T, locker ports.RunLocker) {
	ctx := context.Background()
	key := fmt.Sprintf("contract-lock-%d", time.Now().UnixNano())

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		require.NotNil(t, unlock)
		assert.NoError(t, unlock(ctx))
	})

	t.Run("Contention", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)

		short, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(short, key, 5*time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded, "second holder must wait")

		require.NoError(t, unlock(ctx))

		again, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err, "lock is free again after unlock")
		assert.NoError(t, again(ctx))
	})

	t.Run("Independent keys", func(t *testing.T) {
		unlock1, err := locker.Lock(ctx, key+"-1", 5*time.Second)
		require.NoError(t, err)
		unlock2, err := locker.Lock(ctx, key+"-2", 5*time.Second)
		require.NoError(t, err)
		assert.NoError(t, unlock1(ctx))
		assert.NoError(t, unlock2(ctx))
	})

	t.Run("Mutual exclusion", func(t *testing.T) {
		var inside, overlaps atomic.Int32
		done := make(chan error, 4)
		for range 4 {
			go func() {
				unlock, err := locker.Lock(ctx, key+"-mutex", 5*time.Second)
				if err != nil {
					done <- err
					return
				}
				if inside.Add(1) > 1 {
					overlaps.Add(1)
				}
				time.Sleep(10 * time.Millisecond)
				inside.Add(-1)
				done <- unlock(ctx)
			}()
		}
		for range 4 {
			require.NoError(t, <-done)
		}
		assert.Zero(t, overlaps.Load())
	})
}
