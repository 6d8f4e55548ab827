package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/memehustle/backend/internal/domain"
	"github.com/memehustle/backend/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory SQLite database for one test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Meme{}, &domain.Bid{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// stubGenerator returns canned caption/vibe text and counts invocations.
type stubGenerator struct {
	caption string
	vibe    string
	fail    bool

	mu           sync.Mutex
	captionCalls int
	vibeCalls    int
}

func (g *stubGenerator) GenerateCaption(ctx context.Context, title string, tags []string) (string, error) {
	g.mu.Lock()
	g.captionCalls++
	g.mu.Unlock()
	if g.fail {
		return "", errors.New("generator unavailable")
	}
	return g.caption, nil
}

func (g *stubGenerator) GenerateVibe(ctx context.Context, tags []string) (string, error) {
	g.mu.Lock()
	g.vibeCalls++
	g.mu.Unlock()
	if g.fail {
		return "", errors.New("generator unavailable")
	}
	return g.vibe, nil
}

func (g *stubGenerator) calls() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.captionCalls, g.vibeCalls
}

// broadcastRecord captures one fan-out emission.
type broadcastRecord struct {
	event string
	data  interface{}
}

// recordingBroadcaster collects broadcasts in emission order.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcastRecord
}

func (b *recordingBroadcaster) Broadcast(event string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastRecord{event: event, data: data})
}

func (b *recordingBroadcaster) all() []broadcastRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]broadcastRecord, len(b.events))
	copy(out, b.events)
	return out
}

func (b *recordingBroadcaster) byEvent(event string) []broadcastRecord {
	var out []broadcastRecord
	for _, rec := range b.all() {
		if rec.event == event {
			out = append(out, rec)
		}
	}
	return out
}

// testEnv bundles a fully wired service over an in-memory store.
type testEnv struct {
	svc         *MemeService
	db          *gorm.DB
	memes       *repository.MemeRepository
	bids        *repository.BidRepository
	generator   *stubGenerator
	broadcaster *recordingBroadcaster
	leaderboard *Leaderboard
}

func newTestEnv(t *testing.T, gen *stubGenerator) *testEnv {
	t.Helper()

	db := newTestDB(t)
	memes := repository.NewMemeRepository(db)
	bids := repository.NewBidRepository(db)
	cache, err := NewGenCache(64)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	leaderboard := NewLeaderboard(memes, 10)
	broadcaster := &recordingBroadcaster{}

	svc := NewMemeService(memes, bids, gen, cache, leaderboard, broadcaster)
	return &testEnv{
		svc:         svc,
		db:          db,
		memes:       memes,
		bids:        bids,
		generator:   gen,
		broadcaster: broadcaster,
		leaderboard: leaderboard,
	}
}

// seedMeme inserts a meme directly through the repository.
func (e *testEnv) seedMeme(t *testing.T, meme *domain.Meme) *domain.Meme {
	t.Helper()
	if err := e.memes.Create(context.Background(), meme); err != nil {
		t.Fatalf("failed to seed meme: %v", err)
	}
	return meme
}
