package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/d60-Lab/compliment-api/config"
	"github.com/d60-Lab/compliment-api/internal/cache"
	"github.com/d60-Lab/compliment-api/internal/model"
	"github.com/d60-Lab/compliment-api/internal/repository"
	"github.com/d60-Lab/compliment-api/internal/sampler"
	"github.com/d60-Lab/compliment-api/internal/service"
	rediscache "github.com/d60-Lab/compliment-api/pkg/cache"
	"github.com/d60-Lab/compliment-api/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range vs {
		sum += d
	}
	return sum / time.Duration(len(vs))
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, e := strconv.Atoi(s); e == nil && v > 0 {
			return v
		}
	}
	return def
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	ctx := context.Background()

	N := envInt("N", 1000)        // compliments for the receiver
	PICKS := envInt("PICKS", 2000) // selections to run
	COUNT := envInt("COUNT", 1)    // 1 = single pick, otherwise batch size
	CONC := envInt("CONC", 8)      // concurrent callers

	// clean tables for a reproducible run (ok for local bench)
	_ = db.Exec("DELETE FROM compliments").Error
	_ = db.Exec("DELETE FROM receivers").Error
	_ = db.Exec("DELETE FROM users").Error

	users := repository.NewUserRepository(db)
	receiverRepo := repository.NewReceiverRepository(db)
	complimentRepo := repository.NewComplimentRepository(db)

	var owners *cache.OwnerCache
	if client, err := rediscache.NewRedisClient(ctx, cfg.Redis); err == nil {
		defer client.Close()
		owners = cache.NewOwnerCache(client, cfg.Redis.OwnerTTL)
	} else {
		fmt.Printf("redis unavailable, owner cache off: %v\n", err)
	}
	receivers := service.NewReceiverService(receiverRepo, owners)
	compliments := service.NewComplimentService(receivers, complimentRepo, sampler.New(nil))

	// seed one user, one receiver and N compliments; creation order is the initial age order
	owner := must(users.Upsert(ctx, &model.User{Email: "bench@example.com"}))
	rc := must(receivers.Create(ctx, owner.ID, "bench"))
	rank := make(map[string]int, N)
	seedStart := time.Now()
	for i := 0; i < N; i++ {
		c := must(complimentRepo.Create(ctx, rc.ID, fmt.Sprintf("compliment %d", i)))
		rank[c.ID] = i
	}
	fmt.Printf("seeded %d compliments in %v\n", N, time.Since(seedStart))

	var (
		mu        sync.Mutex
		durations = make([]time.Duration, 0, PICKS)
		freq      = make(map[string]int, N)
		returned  int
		failures  int
	)
	jobs := make(chan struct{})
	var wg sync.WaitGroup
	for w := 0; w < CONC; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				st := time.Now()
				var got []*model.Compliment
				var err error
				if COUNT == 1 {
					var c *model.Compliment
					c, err = compliments.Random(ctx, owner.ID, rc.ID)
					if err == nil {
						got = []*model.Compliment{c}
					}
				} else {
					got, err = compliments.RandomBatch(ctx, owner.ID, rc.ID, COUNT)
				}
				d := time.Since(st)

				mu.Lock()
				durations = append(durations, d)
				if err != nil {
					failures++
				}
				for _, c := range got {
					freq[c.ID]++
				}
				returned += len(got)
				mu.Unlock()
			}
		}()
	}

	runStart := time.Now()
	for i := 0; i < PICKS; i++ {
		jobs <- struct{}{}
	}
	close(jobs)
	wg.Wait()
	elapsed := time.Since(runStart)

	fmt.Printf("N=%d PICKS=%d COUNT=%d CONC=%d\n", N, PICKS, COUNT, CONC)
	fmt.Printf("Selection latency: avg=%v p95=%v p99=%v throughput=%.0f/s failures=%d\n",
		avg(durations), pct(durations, 0.95), pct(durations, 0.99), float64(PICKS)/elapsed.Seconds(), failures)
	if owners != nil {
		ct := owners.Counters()
		fmt.Printf("Owner cache: hits=%d misses=%d\n", ct.Hits, ct.Misses)
	}

	// pick share by initial age rank, oldest decile first; later deciles should catch up
	// as picked compliments move to the back of the order
	const buckets = 10
	hist := make([]int, buckets)
	for id, n := range freq {
		hist[rank[id]*buckets/N] += n
	}
	fmt.Println("Picks by initial age decile (oldest first):")
	for i, n := range hist {
		share := 0.0
		if returned > 0 {
			share = float64(n) / float64(returned) * 100
		}
		fmt.Printf("  d%-2d %7d  %5.1f%%\n", i, n, share)
	}
}
