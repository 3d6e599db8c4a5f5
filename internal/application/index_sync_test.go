package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
)

type recordingIndexer struct {
	batches [][]entity.User
	err     error
}

func (r *recordingIndexer) IndexUsers(_ context.Context, users []entity.User) error {
	if r.err != nil {
		return r.err
	}
	r.batches = append(r.batches, users)
	return nil
}

func storedUsers(n int) []entity.User {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	users := makeUsers("s", n)
	for i := range users {
		users[i].CreatedAt = base.Add(time.Duration(i) * time.Second)
	}
	return users
}

func TestIndexSync_IndexesEveryStoredUserInPages(t *testing.T) {
	store := &memStore{users: storedUsers(7)}
	idx := &recordingIndexer{}
	syncer := NewIndexSync(store, idx, nil)
	syncer.BatchSize = 3

	n, err := syncer.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	require.Len(t, idx.batches, 3)
	assert.Len(t, idx.batches[0], 3)
	assert.Len(t, idx.batches[2], 1)
}

func TestIndexSync_KeepsStoredCreatedAt(t *testing.T) {
	users := storedUsers(2)
	store := &memStore{users: users}
	idx := &recordingIndexer{}

	_, err := NewIndexSync(store, idx, nil).Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, idx.batches, 1)
	for i, u := range idx.batches[0] {
		assert.True(t, users[i].CreatedAt.Equal(u.CreatedAt))
		assert.False(t, u.CreatedAt.IsZero())
	}
}

func TestIndexSync_EmptyStoreIndexesNothing(t *testing.T) {
	idx := &recordingIndexer{}
	n, err := NewIndexSync(&memStore{}, idx, nil).Sync(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, idx.batches)
}

func TestIndexSync_IndexFailureStops(t *testing.T) {
	idx := &recordingIndexer{err: errors.New("bulk rejected")}
	_, err := NewIndexSync(&memStore{users: storedUsers(3)}, idx, nil).Sync(context.Background())
	require.Error(t, err)
}
