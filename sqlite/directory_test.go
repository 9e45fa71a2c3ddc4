package sqlite_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/fwojciec/chatdoc"
	"github.com/fwojciec/chatdoc/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(tb testing.TB) *sqlite.DB {
	tb.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(tb, db.Open())
	tb.Cleanup(func() { db.Close() })
	return db
}

func TestDirectoryService_FindEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("finds stored code case-insensitively", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDirectoryService(openDB(t), chatdoc.GrammarStrict)
		require.NoError(t, svc.Replace(ctx, []chatdoc.DirectoryEntry{
			{Code: "PEMJ920313HDFLRN01", Email: "juan.perez@example.com"},
		}))

		email, err := svc.FindEmail(ctx, " pemj920313hdflrn01 ")

		require.NoError(t, err)
		assert.Equal(t, "juan.perez@example.com", email)
	})

	t.Run("absent code is not found", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDirectoryService(openDB(t), chatdoc.GrammarStrict)
		require.NoError(t, svc.Replace(ctx, []chatdoc.DirectoryEntry{
			{Code: "PEMJ920313HDFLRN01", Email: "juan.perez@example.com"},
		}))

		_, err := svc.FindEmail(ctx, "GOMA850101HDFRRL09")

		assert.Equal(t, chatdoc.ENOTFOUND, chatdoc.ErrorCode(err))
	})

	t.Run("malformed code is not found", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDirectoryService(openDB(t), chatdoc.GrammarStrict)

		_, err := svc.FindEmail(ctx, "ABC")

		assert.Equal(t, chatdoc.ENOTFOUND, chatdoc.ErrorCode(err))
	})

	t.Run("empty until replaced", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDirectoryService(openDB(t), chatdoc.GrammarStrict)

		_, err := svc.FindEmail(ctx, "PEMJ920313HDFLRN01")

		assert.Equal(t, chatdoc.ENOTFOUND, chatdoc.ErrorCode(err))
	})
}

func TestDirectoryService_Replace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("last entry wins for duplicate codes", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDirectoryService(openDB(t), chatdoc.GrammarStrict)
		require.NoError(t, svc.Replace(ctx, []chatdoc.DirectoryEntry{
			{Code: "PEMJ920313HDFLRN01", Email: "first@example.com"},
			{Code: "pemj920313hdflrn01", Email: "second@example.com"},
		}))

		email, err := svc.FindEmail(ctx, "PEMJ920313HDFLRN01")
		require.NoError(t, err)
		assert.Equal(t, "second@example.com", email)

		n, err := svc.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("skips codes that fail the grammar", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDirectoryService(openDB(t), chatdoc.GrammarStrict)
		require.NoError(t, svc.Replace(ctx, []chatdoc.DirectoryEntry{
			{Code: "PEMJ920313HDFLRN01", Email: "juan@example.com"},
			{Code: "SHORT", Email: "nobody@example.com"},
		}))

		n, err := svc.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("drops previous entries", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDirectoryService(openDB(t), chatdoc.GrammarStrict)
		require.NoError(t, svc.Replace(ctx, []chatdoc.DirectoryEntry{
			{Code: "PEMJ920313HDFLRN01", Email: "juan@example.com"},
		}))
		require.NoError(t, svc.Replace(ctx, []chatdoc.DirectoryEntry{
			{Code: "GOMA850101HDFRRL09", Email: "ana@example.com"},
		}))

		_, err := svc.FindEmail(ctx, "PEMJ920313HDFLRN01")
		assert.Equal(t, chatdoc.ENOTFOUND, chatdoc.ErrorCode(err))

		email, err := svc.FindEmail(ctx, "GOMA850101HDFRRL09")
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", email)
	})

	t.Run("loose grammar stores alphanumeric tails", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDirectoryService(openDB(t), chatdoc.GrammarLoose)
		require.NoError(t, svc.Replace(ctx, []chatdoc.DirectoryEntry{
			{Code: "GOMA850101HDFRRLA1", Email: "ana@example.com"},
		}))

		email, err := svc.FindEmail(ctx, "GOMA850101HDFRRLA1")
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", email)
	})
}

// BenchmarkDirectoryService_FindEmail compares hits against misses the Bloom
// filter rejects without a query.
func BenchmarkDirectoryService_FindEmail(b *testing.B) {
	ctx := context.Background()
	svc := sqlite.NewDirectoryService(openDB(b), chatdoc.GrammarStrict)

	entries := make([]chatdoc.DirectoryEntry, 10000)
	for i := range entries {
		entries[i] = chatdoc.DirectoryEntry{
			Code:  fmt.Sprintf("AAAA%06dHDFRRL%02d", i, i%100),
			Email: fmt.Sprintf("user%d@example.com", i),
		}
	}
	require.NoError(b, svc.Replace(ctx, entries))

	b.Run("hit", func(b *testing.B) {
		for b.Loop() {
			_, _ = svc.FindEmail(ctx, "AAAA000042HDFRRL42")
		}
	})

	b.Run("miss", func(b *testing.B) {
		for b.Loop() {
			_, _ = svc.FindEmail(ctx, "ZZZZ000042MJCRRN42")
		}
	})
}
