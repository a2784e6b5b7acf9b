package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/compliment-api/internal/model"
	"github.com/d60-Lab/compliment-api/internal/testutil"
)

func setupTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	return testutil.NewDB(t)
}

func seedReceiver(t testing.TB, db *gorm.DB) (*model.User, *model.Receiver) {
	t.Helper()
	ctx := context.Background()
	u, err := NewUserRepository(db).Upsert(ctx, &model.User{Email: "owner@example.com"})
	require.NoError(t, err)
	rc, err := NewReceiverRepository(db).Create(ctx, u.ID, "Alice")
	require.NoError(t, err)
	return u, rc
}

func TestUserRepository_UpsertByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, &model.User{Email: "a@example.com"})
	require.NoError(t, err)

	name := "Ada"
	second, err := repo.Upsert(ctx, &model.User{Email: "a@example.com", FirstName: &name})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.FirstName)
	assert.Equal(t, "Ada", *second.FirstName)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)
}

func TestReceiverRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	u, rc := seedReceiver(t, db)
	repo := NewReceiverRepository(db)
	ctx := context.Background()

	owner, err := repo.OwnerID(ctx, rc.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, owner)

	require.NoError(t, repo.Rename(ctx, rc.ID, "Bob"))
	got, err := repo.GetByID(ctx, rc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)

	list, err := repo.ListByUser(ctx, u.ID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, repo.Rename(ctx, "missing", "x"), gorm.ErrRecordNotFound)
	_, err = repo.OwnerID(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReceiverRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	_, rc := seedReceiver(t, db)
	compliments := NewComplimentRepository(db)
	ctx := context.Background()

	_, err := compliments.Create(ctx, rc.ID, "kind")
	require.NoError(t, err)

	require.NoError(t, NewReceiverRepository(db).Delete(ctx, rc.ID))

	list, err := compliments.ListByReceiver(ctx, rc.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, NewReceiverRepository(db).Delete(ctx, rc.ID), gorm.ErrRecordNotFound)
}

func TestComplimentRepository_ListOrderedOldestShownFirst(t *testing.T) {
	db := setupTestDB(t)
	_, rc := seedReceiver(t, db)
	repo := NewComplimentRepository(db)
	ctx := context.Background()

	a, err := repo.Create(ctx, rc.ID, "a")
	require.NoError(t, err)
	b, err := repo.Create(ctx, rc.ID, "b")
	require.NoError(t, err)
	c, err := repo.Create(ctx, rc.ID, "c")
	require.NoError(t, err)

	// a 最近被展示过，应排到最后
	require.NoError(t, repo.MarkRetrieved(ctx, []string{a.ID}, time.Now().UTC().Add(time.Hour)))

	list, err := repo.ListByReceiver(ctx, rc.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{b.ID, c.ID, a.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestComplimentRepository_MarkRetrievedNeverMovesBackwards(t *testing.T) {
	db := setupTestDB(t)
	_, rc := seedReceiver(t, db)
	repo := NewComplimentRepository(db)
	ctx := context.Background()

	c, err := repo.Create(ctx, rc.ID, "kind")
	require.NoError(t, err)

	later := time.Now().UTC().Add(2 * time.Hour).Truncate(time.Microsecond)
	require.NoError(t, repo.MarkRetrieved(ctx, []string{c.ID}, later))
	require.NoError(t, repo.MarkRetrieved(ctx, []string{c.ID}, later.Add(-time.Hour)))

	got, err := repo.GetByID(ctx, rc.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, later.Equal(got.LastRetrievedAt), "got %v want %v", got.LastRetrievedAt, later)

	assert.NoError(t, repo.MarkRetrieved(ctx, nil, later))
}

func TestComplimentRepository_ScopedToReceiver(t *testing.T) {
	db := setupTestDB(t)
	u, rc := seedReceiver(t, db)
	other, err := NewReceiverRepository(db).Create(context.Background(), u.ID, "Other")
	require.NoError(t, err)
	repo := NewComplimentRepository(db)
	ctx := context.Background()

	c, err := repo.Create(ctx, rc.ID, "kind")
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, other.ID, c.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.UpdateText(ctx, other.ID, c.ID, "x"), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, other.ID, c.ID), gorm.ErrRecordNotFound)

	require.NoError(t, repo.UpdateText(ctx, rc.ID, c.ID, "kinder"))
	got, err := repo.GetByID(ctx, rc.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "kinder", got.Text)
	require.NoError(t, repo.Delete(ctx, rc.ID, c.ID))
}
