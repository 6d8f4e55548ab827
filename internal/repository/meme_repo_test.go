package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/memehustle/backend/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

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

// TestGetByIDNotFound verifies the sentinel mapping for absent memes.
func TestGetByIDNotFound(t *testing.T) {
	repo := NewMemeRepository(newTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrMemeNotFound) {
		t.Fatalf("err = %v, want ErrMemeNotFound", err)
	}
}

// TestListNewestFirst verifies memes come back in reverse creation order.
func TestListNewestFirst(t *testing.T) {
	repo := NewMemeRepository(newTestDB(t))
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		err := repo.Create(ctx, &domain.Meme{
			ID:        uuid.New().String(),
			Title:     fmt.Sprintf("meme-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("seed meme %d: %v", i, err)
		}
	}

	memes, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(memes) != 3 {
		t.Fatalf("len = %d, want 3", len(memes))
	}
	for i := 0; i < 3; i++ {
		want := fmt.Sprintf("meme-%d", 2-i)
		if memes[i].Title != want {
			t.Errorf("position %d = %q, want %q", i, memes[i].Title, want)
		}
	}
}

// TestUpdateHighestBid verifies both bid fields are written together.
func TestUpdateHighestBid(t *testing.T) {
	repo := NewMemeRepository(newTestDB(t))
	ctx := context.Background()

	meme := &domain.Meme{ID: uuid.New().String(), Title: "Doge"}
	if err := repo.Create(ctx, meme); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.UpdateHighestBid(ctx, meme.ID, 250, "u7"); err != nil {
		t.Fatalf("UpdateHighestBid: %v", err)
	}

	stored, err := repo.GetByID(ctx, meme.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.HighestBid != 250 {
		t.Errorf("highest_bid = %d, want 250", stored.HighestBid)
	}
	if stored.HighestBidder == nil || *stored.HighestBidder != "u7" {
		t.Errorf("highest_bidder = %v, want u7", stored.HighestBidder)
	}
}

// TestTagsRoundTrip verifies the JSON-encoded tag column survives a write and
// read with order preserved.
func TestTagsRoundTrip(t *testing.T) {
	repo := NewMemeRepository(newTestDB(t))
	ctx := context.Background()

	meme := &domain.Meme{
		ID:    uuid.New().String(),
		Title: "Doge",
		Tags:  domain.StringArray{"crypto", "funny", "dogs"},
	}
	if err := repo.Create(ctx, meme); err != nil {
		t.Fatalf("Create: %v", err)
	}

	stored, err := repo.GetByID(ctx, meme.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(stored.Tags) != 3 || stored.Tags[0] != "crypto" || stored.Tags[2] != "dogs" {
		t.Errorf("tags = %v", stored.Tags)
	}
}

// TestBidHistoryAppendOnly verifies bids accumulate per meme, newest first.
func TestBidHistoryAppendOnly(t *testing.T) {
	db := newTestDB(t)
	bids := NewBidRepository(db)
	ctx := context.Background()

	memeID := uuid.New().String()
	base := time.Now().Add(-time.Hour)
	for i, credits := range []int{100, 150, 200} {
		err := bids.Create(ctx, &domain.Bid{
			ID:        uuid.New().String(),
			MemeID:    memeID,
			UserID:    fmt.Sprintf("u%d", i),
			Credits:   credits,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Create bid %d: %v", i, err)
		}
	}

	history, err := bids.ListByMeme(ctx, memeID)
	if err != nil {
		t.Fatalf("ListByMeme: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("len = %d, want 3", len(history))
	}
	if history[0].Credits != 200 || history[2].Credits != 100 {
		t.Errorf("history order = %d, %d, %d", history[0].Credits, history[1].Credits, history[2].Credits)
	}
}
