package service

import (
	"context"
	"sync"

	"github.com/memehustle/backend/internal/domain"
	"github.com/memehustle/backend/internal/logger"
)

// TopLister is the store read the leaderboard depends on.
type TopLister interface {
	TopByUpvotes(ctx context.Context, limit int) ([]domain.Meme, error)
}

// Leaderboard maintains a derived top-N-by-upvotes snapshot of the store.
// The snapshot is never authoritative: it is replaced wholesale by Refresh
// and read verbatim by Get. Readers never observe a partially built set.
type Leaderboard struct {
	repo TopLister
	size int

	mu       sync.RWMutex
	snapshot []domain.Meme
}

// NewLeaderboard creates a leaderboard projection over the given store.
// Parameters:
//   - repo: store read used to rebuild the snapshot.
//   - size: number of entries to keep; values < 1 fall back to 10.
// Returns:
//   - *Leaderboard: initialized projection with an empty snapshot.
func NewLeaderboard(repo TopLister, size int) *Leaderboard {
	if size < 1 {
		size = 10
	}
	return &Leaderboard{
		repo:     repo,
		size:     size,
		snapshot: []domain.Meme{},
	}
}

// Refresh rebuilds the snapshot from the store. Failures are logged and the
// previous snapshot is retained; the caller that triggered the refresh never
// sees the error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns: none.
func (l *Leaderboard) Refresh(ctx context.Context) {
	memes, err := l.repo.TopByUpvotes(ctx, l.size)
	if err != nil {
		logger.CtxError(ctx, "Failed to refresh leaderboard: %v", err)
		return
	}

	l.mu.Lock()
	l.snapshot = memes
	l.mu.Unlock()

	logger.With(logger.Fields{logger.FieldCount: len(memes)}).
		Debug(ctx, "Leaderboard refreshed")
}

// Get returns the current snapshot without touching the store.
// Parameters: none.
// Returns:
//   - []domain.Meme: copy of the last successful refresh.
func (l *Leaderboard) Get() []domain.Meme {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Meme, len(l.snapshot))
	copy(out, l.snapshot)
	return out
}
