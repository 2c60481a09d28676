package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/scrap_market/pkg/idempotency"
	"github.com/Skotchmaster/scrap_market/services/market/internal/repo"
	"github.com/Skotchmaster/scrap_market/services/market/internal/testutil"
)

const (
	buyer   uint = 1
	sellerA uint = 10
	sellerB uint = 20
)

type sentEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []sentEvent
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, _ := event.(map[string]any)
	f.sent = append(f.sent, sentEvent{Topic: topic, Key: key, Event: m})
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, e := range f.sent {
		out = append(out, e.Event["type"].(string))
	}
	return out
}

type fakeLocker struct {
	held     map[string]bool
	acquired int
	released int
}

func (f *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) error {
	if f.held == nil {
		f.held = map[string]bool{}
	}
	if f.held[key] {
		return idempotency.ErrLocked
	}
	f.held[key] = true
	f.acquired++
	return nil
}

func (f *fakeLocker) Release(_ context.Context, key string) error {
	delete(f.held, key)
	f.released++
	return nil
}

type env struct {
	db     *gorm.DB
	repo   *repo.GormRepo
	events *fakePublisher
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	return &env{db: db, repo: &repo.GormRepo{DB: db}, events: &fakePublisher{}}
}
