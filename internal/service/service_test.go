package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/compliment-api/internal/cache"
	"github.com/d60-Lab/compliment-api/internal/model"
	"github.com/d60-Lab/compliment-api/internal/repository"
	"github.com/d60-Lab/compliment-api/internal/sampler"
	"github.com/d60-Lab/compliment-api/internal/testutil"
)

type fixture struct {
	db          *gorm.DB
	mr          *miniredis.Miniredis
	owners      *cache.OwnerCache
	users       repository.UserRepository
	compRepo    repository.ComplimentRepository
	receivers   ReceiverService
	compliments ComplimentService
	now         time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	client, mr := testutil.NewRedis(t)

	f := &fixture{
		db:       db,
		mr:       mr,
		owners:   cache.NewOwnerCache(client, time.Minute),
		users:    repository.NewUserRepository(db),
		compRepo: repository.NewComplimentRepository(db),
		now:      time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond),
	}
	f.receivers = NewReceiverService(repository.NewReceiverRepository(db), f.owners)
	f.compliments = NewComplimentService(f.receivers, f.compRepo, sampler.NewSeeded(1),
		WithClock(func() time.Time { return f.now }))
	return f
}

func (f *fixture) user(t *testing.T, email string) *model.User {
	t.Helper()
	u, err := f.users.Upsert(context.Background(), &model.User{Email: email})
	require.NoError(t, err)
	return u
}

func (f *fixture) receiver(t *testing.T, owner *model.User, texts ...string) (*model.Receiver, []*model.Compliment) {
	t.Helper()
	ctx := context.Background()
	rc, err := f.receivers.Create(ctx, owner.ID, "Alice")
	require.NoError(t, err)
	out := make([]*model.Compliment, 0, len(texts))
	for _, text := range texts {
		c, err := f.compliments.Create(ctx, owner.ID, rc.ID, text)
		require.NoError(t, err)
		out = append(out, c)
	}
	return rc, out
}

func (f *fixture) stamps(t *testing.T, receiverID string) map[string]time.Time {
	t.Helper()
	list, err := f.compRepo.ListByReceiver(context.Background(), receiverID)
	require.NoError(t, err)
	out := make(map[string]time.Time, len(list))
	for _, c := range list {
		out[c.ID] = c.LastRetrievedAt
	}
	return out
}
