package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandom_MarksOnlyThePickedCompliment(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	rc, created := f.receiver(t, owner, "A", "B", "C")
	before := f.stamps(t, rc.ID)

	picked, err := f.compliments.Random(context.Background(), owner.ID, rc.ID)
	require.NoError(t, err)
	assert.True(t, f.now.Equal(picked.LastRetrievedAt))

	after := f.stamps(t, rc.ID)
	for _, c := range created {
		if c.ID == picked.ID {
			assert.True(t, f.now.Equal(after[c.ID]), "picked compliment not stamped")
			continue
		}
		assert.True(t, before[c.ID].Equal(after[c.ID]), "unpicked compliment %s changed", c.Text)
	}

	// 刚展示过的排到最后
	list, err := f.compliments.List(context.Background(), owner.ID, rc.ID)
	require.NoError(t, err)
	assert.Equal(t, picked.ID, list[len(list)-1].ID)
}

func TestRandom_EmptyReceiver(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	rc, _ := f.receiver(t, owner)

	_, err := f.compliments.Random(context.Background(), owner.ID, rc.ID)
	assert.ErrorIs(t, err, ErrNoCompliments)
}

func TestRandomBatch_TwoOfThree(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	rc, created := f.receiver(t, owner, "A", "B", "C")
	before := f.stamps(t, rc.ID)

	picked, err := f.compliments.RandomBatch(context.Background(), owner.ID, rc.ID, 2)
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.NotEqual(t, picked[0].ID, picked[1].ID)

	pickedIDs := map[string]bool{}
	for _, c := range picked {
		pickedIDs[c.ID] = true
		assert.True(t, f.now.Equal(c.LastRetrievedAt))
	}
	after := f.stamps(t, rc.ID)
	for _, c := range created {
		if pickedIDs[c.ID] {
			assert.True(t, f.now.Equal(after[c.ID]))
		} else {
			assert.True(t, before[c.ID].Equal(after[c.ID]))
		}
	}
}

func TestRandomBatch_CountClamping(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	rc, _ := f.receiver(t, owner, "A", "B", "C")

	for count, want := range map[int]int{-5: 3, 0: 3, 1: 1, 3: 3, 50: 3} {
		picked, err := f.compliments.RandomBatch(context.Background(), owner.ID, rc.ID, count)
		require.NoError(t, err)
		assert.Len(t, picked, want, "count %d", count)
	}
}

func TestRandomBatch_EmptyReceiver(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	rc, _ := f.receiver(t, owner)

	picked, err := f.compliments.RandomBatch(context.Background(), owner.ID, rc.ID, 3)
	require.NoError(t, err)
	assert.NotNil(t, picked)
	assert.Empty(t, picked)
}

func TestCompliments_Ownership(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	stranger := f.user(t, "stranger@example.com")
	rc, created := f.receiver(t, owner, "A")
	ctx := context.Background()

	_, err := f.compliments.Random(ctx, stranger.ID, rc.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.compliments.RandomBatch(ctx, stranger.ID, rc.ID, 0)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.compliments.List(ctx, stranger.ID, rc.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.compliments.Create(ctx, stranger.ID, rc.ID, "sneaky")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, f.compliments.Delete(ctx, stranger.ID, rc.ID, created[0].ID), ErrForbidden)

	_, err = f.compliments.Random(ctx, owner.ID, "missing")
	assert.ErrorIs(t, err, ErrReceiverNotFound)
}

func TestCompliments_CRUD(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	rc, created := f.receiver(t, owner, "A")
	ctx := context.Background()

	got, err := f.compliments.Get(ctx, owner.ID, rc.ID, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Text)
	assert.True(t, got.CreatedAt.Equal(got.LastRetrievedAt))

	updated, err := f.compliments.Update(ctx, owner.ID, rc.ID, created[0].ID, "A+")
	require.NoError(t, err)
	assert.Equal(t, "A+", updated.Text)

	require.NoError(t, f.compliments.Delete(ctx, owner.ID, rc.ID, created[0].ID))
	_, err = f.compliments.Get(ctx, owner.ID, rc.ID, created[0].ID)
	assert.ErrorIs(t, err, ErrComplimentNotFound)
	_, err = f.compliments.Update(ctx, owner.ID, rc.ID, created[0].ID, "x")
	assert.ErrorIs(t, err, ErrComplimentNotFound)
	assert.ErrorIs(t, f.compliments.Delete(ctx, owner.ID, rc.ID, created[0].ID), ErrComplimentNotFound)
}
