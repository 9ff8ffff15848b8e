// feedbench seeds a celebrity with N fans and measures follow writes, follow-list pages
// (cold and cached) and the feed/search queries.
//
//	N=10000 CONC=8 PAGE=50 go run ./cmd/feedbench
//
// With INKWELL_CONFIG (or config/config.yaml) present the configured database and Redis are
// used; FEEDBENCH_MEMORY=1 forces an in-memory sqlite database without cache.
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

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/config"
	"github.com/d60-Lab/inkwell/internal/auth"
	"github.com/d60-Lab/inkwell/internal/cache"
	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/query"
	"github.com/d60-Lab/inkwell/internal/service"
	"github.com/d60-Lab/inkwell/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func open(ctx context.Context) (*gorm.DB, *redis.Client, time.Duration) {
	if os.Getenv("FEEDBENCH_MEMORY") == "1" {
		return must(database.OpenMemory()), nil, 0
	}
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	if err := database.AutoMigrate(db); err != nil {
		panic(err)
	}
	rdb, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		fmt.Println("redis unavailable, running without cache:", err)
		rdb = nil
	}
	return db, rdb, cfg.Redis.TTL
}

func main() {
	ctx := context.Background()
	n := envInt("N", 10000)
	conc := envInt("CONC", 1)
	pageSize := envInt("PAGE", 50)

	db, rdb, ttl := open(ctx)
	svc := service.NewServices(db, service.Options{
		JWT:       auth.JWT{Secret: []byte("feedbench"), Issuer: "feedbench", TTL: time.Hour},
		Redis:     rdb,
		CacheTTL:  ttl,
		QueueSize: n,
	})
	stopNotifier := svc.Notifier.Start(4)

	run := uuid.NewString()[:8]
	celeb := model.User{ID: uuid.NewString(), Username: "celeb_" + run, Email: "celeb_" + run + "@example.com", PasswordHash: "x"}
	if err := db.Create(&celeb).Error; err != nil {
		panic(err)
	}
	users := seedUsers(db, run, n)
	seedPosts(ctx, svc, celeb.ID, 200)

	// follow writes: follow + fan rows in one transaction, notification queued
	lat := make([]time.Duration, n)
	feed := make(chan int, n)
	for i := range users {
		feed <- i
	}
	close(feed)
	var wg sync.WaitGroup
	t0 := time.Now()
	for w := 0; w < min(conc, n); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				st := time.Now()
				if err := svc.Relations.Follow(ctx, users[i].ID, celeb.ID); err != nil {
					fmt.Println("follow:", err)
				}
				lat[i] = time.Since(st)
			}
		}()
	}
	wg.Wait()
	followDur := time.Since(t0)

	coldFans := timeIt(func() { _, _ = svc.Relations.ListFans(ctx, celeb.ID, 1, pageSize) })
	warmFans := timeIt(func() { _, _ = svc.Relations.ListFans(ctx, celeb.ID, 2, pageSize) })
	feedDur := timeIt(func() { _, _ = svc.Posts.Feed(ctx, users[0].ID, query.Params{PageSize: pageSize}) })
	term := "post"
	searchDur := timeIt(func() { _, _ = svc.Posts.Search(ctx, term, query.Params{PageSize: pageSize}) })
	tagDur := timeIt(func() { _, _ = svc.Posts.ByTag(ctx, "bench", query.Params{PageSize: pageSize}) })

	drainCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	t1 := time.Now()
	_ = stopNotifier(drainCtx)
	drainDur := time.Since(t1)

	fmt.Printf("N=%d, CONC=%d, PAGE=%d, cache=%v\n", n, conc, pageSize, rdb != nil)
	fmt.Printf("Follow total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		followDur, followDur/time.Duration(n), pct(lat, 0.50), pct(lat, 0.95), pct(lat, 0.99))
	fmt.Printf("Fans page 1 (cold): %v, page 2 (warm): %v, index loads: %d\n", coldFans, warmFans, svc.Index.Loads())
	fmt.Printf("Feed: %v, search: %v, by tag: %v\n", feedDur, searchDur, tagDur)
	fmt.Printf("Notifications delivered=%d dropped=%d drain=%v\n",
		svc.Notifier.Delivered(), svc.Notifier.Dropped(), drainDur)
}

func seedUsers(db *gorm.DB, run string, n int) []model.User {
	users := make([]model.User, n)
	for i := range users {
		id := uuid.NewString()
		users[i] = model.User{
			ID:           id,
			Username:     fmt.Sprintf("u_%s_%d", run, i),
			Email:        fmt.Sprintf("u_%s_%d@example.com", run, i),
			PasswordHash: "x",
		}
	}
	if err := db.CreateInBatches(users, 1000).Error; err != nil {
		panic(err)
	}
	return users
}

func seedPosts(ctx context.Context, svc *service.Services, author string, n int) {
	for i := 0; i < n; i++ {
		_, err := svc.Posts.Create(ctx, author, service.PostInput{
			Title:   fmt.Sprintf("Bench post %d", i),
			Content: "seeded by feedbench",
			Tags:    []string{"bench", fmt.Sprintf("t%d", i%10)},
		})
		if err != nil {
			panic(err)
		}
	}
}

func timeIt(fn func()) time.Duration {
	st := time.Now()
	fn()
	return time.Since(st)
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
