package search_test

import (
	"context"
	"iter"
	"testing"

	"github.com/aretw0/busybeaver/pkg/catalog"
	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/aretw0/busybeaver/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indexed struct {
	index uint64
	m     domain.Machine
}

func seqOf(items ...indexed) iter.Seq2[uint64, domain.Machine] {
	return func(yield func(uint64, domain.Machine) bool) {
		for _, it := range items {
			if !yield(it.index, it.m) {
				return
			}
		}
	}
}

// badMove is a literal definition that slips an invalid movement past construction.
func badMove() domain.Machine {
	def := &domain.Definition{
		States:   []domain.State{"A", "H"},
		Alphabet: []domain.Symbol{"0"},
		Blank:    "0",
		Finals:   []domain.State{"H"},
		Table: domain.Table{
			{State: "A", Symbol: "0"}: {Write: "0", Move: domain.Move(42), Next: "H"},
		},
	}
	return domain.Machine{Def: def, State: "A", Tape: domain.NewTape("0", "0")}
}

func TestRunAll_OrdersByIndex(t *testing.T) {
	input := seqOf(
		indexed{2, catalog.BusyBeaver3()},
		indexed{0, catalog.BusyBeaver2()},
		indexed{1, catalog.NoTransition()},
		indexed{3, catalog.AlreadyFinal()},
	)

	for _, workers := range []int{1, 2, 8} {
		o := search.New(search.WithWorkers(workers))
		recs, err := o.RunAll(context.Background(), input, 100)
		require.NoError(t, err)
		require.Len(t, recs, 4)

		for i, rec := range recs {
			assert.Equal(t, uint64(i), rec.Index)
			assert.NoError(t, rec.Err)
		}

		assert.Equal(t, 6, recs[0].Result.Steps)
		assert.Equal(t, 94, recs[0].Result.Remaining)
		assert.Equal(t, domain.OutcomeStuck, recs[1].Result.Outcome)
		assert.Equal(t, 100, recs[1].Result.Remaining)
		assert.Equal(t, 13, recs[2].Result.Steps)
		assert.Equal(t, 6, recs[2].Result.Machine.Tape.Count("1"))
		assert.Equal(t, domain.OutcomeHalted, recs[3].Result.Outcome)
		assert.Equal(t, 0, recs[3].Result.Steps)
	}
}

func TestRunAll_FailureIsolation(t *testing.T) {
	input := seqOf(
		indexed{0, catalog.BusyBeaver2()},
		indexed{1, badMove()},
		indexed{2, domain.Machine{}},
		indexed{3, catalog.BusyBeaver3()},
	)

	recs, err := search.New(search.WithWorkers(3)).RunAll(context.Background(), input, 50)
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.NoError(t, recs[0].Err)
	assert.ErrorIs(t, recs[1].Err, domain.ErrInvalidMovement)
	assert.Equal(t, 50, recs[1].Result.Remaining, "the failing step is not counted")
	assert.ErrorIs(t, recs[2].Err, domain.ErrMalformedDefinition)
	assert.NoError(t, recs[3].Err)
	assert.True(t, recs[3].Result.Halted())
}

func TestRunAll_DuplicateIndicesKeepInputOrder(t *testing.T) {
	input := seqOf(
		indexed{7, catalog.BusyBeaver3()},
		indexed{7, catalog.BusyBeaver2()},
		indexed{1, catalog.NoTransition()},
	)

	recs, err := search.New(search.WithWorkers(4)).RunAll(context.Background(), input, 100)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, uint64(1), recs[0].Index)
	assert.Equal(t, 13, recs[1].Result.Steps, "first machine with index 7")
	assert.Equal(t, 6, recs[2].Result.Steps, "second machine with index 7")
}

func TestRunAll_Empty(t *testing.T) {
	recs, err := search.New().RunAll(context.Background(), seqOf(), 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRunAll_NegativeBudget(t *testing.T) {
	_, err := search.New().RunAll(context.Background(), seqOf(indexed{0, catalog.BusyBeaver2()}), -1)
	assert.ErrorIs(t, err, domain.ErrNegativeBudget)
}

func TestRunAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	endless := func(yield func(uint64, domain.Machine) bool) {
		for i := uint64(0); ; i++ {
			if !yield(i, catalog.BusyBeaver2()) {
				return
			}
		}
	}

	_, err := search.New(search.WithWorkers(2)).RunAll(ctx, endless, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_DefaultWorkers(t *testing.T) {
	assert.GreaterOrEqual(t, search.New().Workers(), 1)
	assert.Equal(t, 3, search.New(search.WithWorkers(3)).Workers())
}
