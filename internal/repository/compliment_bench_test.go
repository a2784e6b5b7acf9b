package repository

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func BenchmarkListAndMarkRetrieved(b *testing.B) {
	db := setupTestDB(b)
	_, rc := seedReceiver(b, db)
	repo := NewComplimentRepository(db)
	ctx := context.Background()

	// 预置一个有 2000 条赞美的接收者
	const N = 2000
	for i := 0; i < N; i++ {
		if _, err := repo.Create(ctx, rc.ID, fmt.Sprintf("compliment %d", i)); err != nil {
			b.Fatalf("seed: %v", err)
		}
	}

	b.ResetTimer()
	b.Run("ListByReceiver", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = repo.ListByReceiver(ctx, rc.ID)
		}
	})

	b.Run("MarkRetrieved10", func(b *testing.B) {
		list, _ := repo.ListByReceiver(ctx, rc.ID)
		ids := make([]string, 10)
		for i := range ids {
			ids[i] = list[i].ID
		}
		for i := 0; i < b.N; i++ {
			_ = repo.MarkRetrieved(ctx, ids, time.Now().UTC())
		}
	})
}
