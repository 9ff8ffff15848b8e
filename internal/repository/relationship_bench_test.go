package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/pkg/database"
)

func setupRelBenchDB(b *testing.B) *gorm.DB {
	db, err := database.OpenMemory()
	if err != nil {
		b.Fatalf("open db: %v", err)
	}
	return db
}

func seedBenchUsers(b *testing.B, db *gorm.DB, n int) []model.User {
	users := make([]model.User, n)
	for i := range users {
		id := fmt.Sprintf("u%05d", i)
		users[i] = model.User{ID: id, Username: id, Email: id + "@example.com", PasswordHash: "p"}
	}
	if err := db.CreateInBatches(&users, 500).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}
	return users
}

// 关注写入：follow + fan 同一事务
func BenchmarkFollowWithFanInTx(b *testing.B) {
	db := setupRelBenchDB(b)
	follows := NewFollowRepository(db)
	fans := NewFanRepository(db)
	tx := NewTxManager(db)
	ctx := context.Background()
	users := seedBenchUsers(b, db, 1000)
	rnd := rand.New(rand.NewSource(1))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[rnd.Intn(len(users))].ID
		to := users[rnd.Intn(len(users))].ID
		if from == to {
			continue
		}
		_ = tx.InTx(ctx, func(t *gorm.DB) error {
			if _, err := follows.WithTx(t).Create(ctx, from, to); err != nil {
				return err
			}
			return fans.WithTx(t).Create(ctx, to, from)
		})
	}
}

func BenchmarkQueryFansAndFollowing(b *testing.B) {
	db := setupRelBenchDB(b)
	follows := NewFollowRepository(db)
	fans := NewFanRepository(db)
	ctx := context.Background()

	// u00000 有 N 个粉丝，同时也关注 N 个用户
	const N = 2000
	users := seedBenchUsers(b, db, N+1)
	u0 := users[0].ID
	for _, u := range users[1:] {
		_, _ = follows.Create(ctx, u.ID, u0)
		_ = fans.Create(ctx, u0, u.ID)
		_, _ = follows.Create(ctx, u0, u.ID)
		_ = fans.Create(ctx, u.ID, u0)
	}

	b.ResetTimer()
	b.Run("ListFans", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = fans.ListFans(ctx, u0, 0, 50)
		}
	})
	b.Run("ListFollowing", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = follows.ListFollowings(ctx, u0, 0, 50)
		}
	})
	b.Run("FolloweeIDs", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = follows.FolloweeIDs(ctx, u0)
		}
	})
}
