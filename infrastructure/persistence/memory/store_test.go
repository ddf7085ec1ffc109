package memory

import (
	"context"
	"testing"

	"sol-backend/application/ports"
	pkgerrors "sol-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *RecordStore) {
	t.Helper()
	ctx := context.Background()
	for _, r := range []ports.Record{
		{"id": "m1", "user_email": "a@example.com", "created_at": "2024-01-01T00:00:00.000000Z"},
		{"id": "m2", "user_email": "a@example.com", "created_at": "2024-01-03T00:00:00.000000Z"},
		{"id": "m3", "user_email": "b@example.com", "created_at": "2024-01-02T00:00:00.000000Z"},
		{"id": "m4", "user_email": "a@example.com", "created_at": "2024-01-02T00:00:00.000000Z"},
	} {
		_, err := s.Create(ctx, ports.TableMessages, r)
		require.NoError(t, err)
	}
}

func TestRecordStore_FindFiltersSortsLimits(t *testing.T) {
	s := NewRecordStore()
	seed(t, s)

	rows, err := s.Find(context.Background(), ports.TableMessages,
		ports.Where("user_email", "a@example.com").OrderBy("created_at", true).Take(2))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "m2", rows[0].ID())
	assert.Equal(t, "m4", rows[1].ID())
}

func TestRecordStore_Count(t *testing.T) {
	s := NewRecordStore()
	seed(t, s)

	n, err := s.Count(context.Background(), ports.TableMessages,
		ports.Where("user_email", "a@example.com").And("created_at", ports.OpGt, "2024-01-01T00:00:00.000000Z").Take(1))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRecordStore_CreateAssignsID(t *testing.T) {
	s := NewRecordStore()
	rec, err := s.Create(context.Background(), ports.TableProfiles, ports.Record{"email": "a@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID())

	_, err = s.Create(context.Background(), ports.TableProfiles, rec)
	assert.Error(t, err)
}

func TestRecordStore_Update(t *testing.T) {
	s := NewRecordStore()
	ctx := context.Background()
	rec, err := s.Create(ctx, ports.TableProfiles, ports.Record{"email": "a@example.com", "goals": "old"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, ports.TableProfiles, rec.ID(), ports.Record{"goals": "new", "id": "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "new", updated["goals"])
	assert.Equal(t, rec.ID(), updated.ID())
	assert.Equal(t, "a@example.com", updated["email"])

	_, err = s.Update(ctx, ports.TableProfiles, "missing", ports.Record{"goals": "x"})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestRecordStore_ReturnsCopies(t *testing.T) {
	s := NewRecordStore()
	ctx := context.Background()
	rec, _ := s.Create(ctx, ports.TableProfiles, ports.Record{"email": "a@example.com"})
	rec["email"] = "mutated"

	rows, _ := s.Find(ctx, ports.TableProfiles, ports.Query{})
	assert.Equal(t, "a@example.com", rows[0]["email"])
}
