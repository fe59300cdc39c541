package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/busybeaver/pkg/adapters/file"
	"github.com/aretw0/busybeaver/pkg/catalog"
	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/aretw0/busybeaver/pkg/ports"
	"github.com/aretw0/busybeaver/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.ResultStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	tests.RunResultStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_Layout(t *testing.T) {
	base := t.TempDir()
	store := file.New(base)

	rec := domain.Record{
		Index:  5,
		Result: domain.RunResult{Machine: catalog.BusyBeaver2(), Remaining: 3, Outcome: domain.OutcomeExhausted},
	}
	require.NoError(t, store.Save(context.Background(), "nightly", rec))

	path := filepath.Join(base, "nightly", "5.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"outcome": "exhausted"`)

	// Stray files do not break listing.
	require.NoError(t, os.WriteFile(filepath.Join(base, "nightly", "notes.txt"), []byte("x"), 0o644))
	recs, err := store.List(context.Background(), "nightly")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestFileStore_InvalidRunID(t *testing.T) {
	store := file.New(t.TempDir())
	for _, id := range []string{"", "..", "a/b", `a\b`} {
		err := store.Save(context.Background(), id, domain.Record{})
		assert.ErrorIs(t, err, file.ErrInvalidRunID, "run ID %q", id)
	}
}

func TestFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".busybeaver", "runs"), file.New("").BasePath)
}

func TestFileStore_Linearizability(t *testing.T) {
	tests.RunResultStoreLinearizability(t, file.New(t.TempDir()))
}
