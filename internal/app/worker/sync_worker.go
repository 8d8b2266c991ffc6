// Package worker runs the periodic background judge sync.
package worker

import (
	"context"
	"log/slog"
	"time"

	"grindtrack/internal/app/service"
	"grindtrack/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SyncWorker re-syncs judge submissions for every user with a linked handle
// on a fixed interval. A Redis lock keeps runs from overlapping when several
// instances share the database.
type SyncWorker struct {
	rdb         *redis.Client
	userRepo    repository.UserRepository
	syncService *service.SyncService
	interval    time.Duration
	lockKey     string
	lockTTL     time.Duration
}

func NewSyncWorker(
	rdb *redis.Client,
	userRepo repository.UserRepository,
	syncService *service.SyncService,
	interval time.Duration,
	lockKey string,
	lockTTL time.Duration,
) *SyncWorker {
	return &SyncWorker{
		rdb:         rdb,
		userRepo:    userRepo,
		syncService: syncService,
		interval:    interval,
		lockKey:     lockKey,
		lockTTL:     lockTTL,
	}
}

func (w *SyncWorker) Start(ctx context.Context) {
	slog.Info("sync worker started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("sync worker stopping")
			return
		case <-ticker.C:
			w.runWithLock(ctx)
		}
	}
}

func (w *SyncWorker) runWithLock(ctx context.Context) {
	lockValue := uuid.NewString()

	ok, err := w.rdb.SetNX(ctx, w.lockKey, lockValue, w.lockTTL).Result()
	if err != nil {
		slog.Error("sync worker: lock acquisition failed", "error", err)
		return
	}
	if !ok {
		slog.Info("sync worker: another instance holds the lock, skipping run")
		return
	}

	defer func() {
		// Compare-and-delete so an expired lock taken over by another
		// instance is never released from here.
		script := redis.NewScript(`
            if redis.call("get", KEYS[1]) == ARGV[1] then
                return redis.call("del", KEYS[1])
            else
                return 0
            end
        `)
		if _, err := script.Run(ctx, w.rdb, []string{w.lockKey}, lockValue).Result(); err != nil {
			slog.Error("sync worker: lock release failed", "error", err)
		}
	}()

	w.run(ctx)
}

func (w *SyncWorker) run(ctx context.Context) {
	users, err := w.userRepo.ListWithJudgeHandles(ctx)
	if err != nil {
		slog.Error("sync worker: listing users failed", "error", err)
		return
	}

	for i := range users {
		if ctx.Err() != nil {
			return
		}
		user := &users[i]
		if user.LeetCodeHandle != "" {
			if res, err := w.syncService.SyncLeetCode(ctx, user.Username); err != nil {
				slog.Warn("sync worker: leetcode sync failed", "user", user.Username, "error", err)
			} else {
				slog.Info("sync worker: leetcode sync done", "user", user.Username, "added", res.Added)
			}
		}
		if user.CodeforcesHandle != "" {
			if res, err := w.syncService.SyncCodeforces(ctx, user.Username, nil); err != nil {
				slog.Warn("sync worker: codeforces sync failed", "user", user.Username, "error", err)
			} else {
				slog.Info("sync worker: codeforces sync done", "user", user.Username, "added", res.Added)
			}
		}
	}
}
