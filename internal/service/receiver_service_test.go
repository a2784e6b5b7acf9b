package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	stranger := f.user(t, "stranger@example.com")
	rc, _ := f.receiver(t, owner)
	ctx := context.Background()

	assert.NoError(t, f.receivers.Authorize(ctx, owner.ID, rc.ID))
	assert.ErrorIs(t, f.receivers.Authorize(ctx, stranger.ID, rc.ID), ErrForbidden)
	assert.ErrorIs(t, f.receivers.Authorize(ctx, owner.ID, "missing"), ErrReceiverNotFound)
}

func TestAuthorize_FallsBackToDatabaseOnCacheMiss(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	rc, _ := f.receiver(t, owner)
	ctx := context.Background()

	f.mr.FlushAll()
	f.owners.ResetCounters()

	require.NoError(t, f.receivers.Authorize(ctx, owner.ID, rc.ID))
	require.NoError(t, f.receivers.Authorize(ctx, owner.ID, rc.ID))

	c := f.owners.Counters()
	assert.Equal(t, int64(1), c.Misses)
	assert.Equal(t, int64(1), c.Hits)
	assert.True(t, f.mr.Exists("receiver:owner:"+rc.ID))
}

func TestReceiver_DeleteInvalidatesCacheAndCascades(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	rc, _ := f.receiver(t, owner, "A", "B")
	ctx := context.Background()

	require.NoError(t, f.receivers.Delete(ctx, owner.ID, rc.ID))
	assert.False(t, f.mr.Exists("receiver:owner:"+rc.ID))
	assert.ErrorIs(t, f.receivers.Authorize(ctx, owner.ID, rc.ID), ErrReceiverNotFound)

	list, err := f.compRepo.ListByReceiver(ctx, rc.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReceiver_RenameGetList(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	stranger := f.user(t, "stranger@example.com")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.receivers.Create(ctx, owner.ID, fmt.Sprintf("r%d", i))
		require.NoError(t, err)
	}
	page, err := f.receivers.List(ctx, owner.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	rest, err := f.receivers.List(ctx, owner.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	none, err := f.receivers.List(ctx, stranger.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	renamed, err := f.receivers.Rename(ctx, owner.ID, page[0].ID, "Bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob", renamed.Name)

	_, err = f.receivers.Get(ctx, stranger.ID, page[0].ID)
	assert.ErrorIs(t, err, ErrForbidden)
	got, err := f.receivers.Get(ctx, owner.ID, page[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)
}
