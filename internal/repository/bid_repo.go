package repository

import (
	"context"
	"fmt"

	"github.com/memehustle/backend/internal/domain"
	"gorm.io/gorm"
)

// BidRepository handles bid data operations. Bids are append-only.
type BidRepository struct {
	db *gorm.DB
}

// NewBidRepository creates a new BidRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *BidRepository: repository instance bound to db.
func NewBidRepository(db *gorm.DB) *BidRepository {
	return &BidRepository{db: db}
}

// Create inserts a new bid record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - bid: bid record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *BidRepository) Create(ctx context.Context, bid *domain.Bid) error {
	return r.db.WithContext(ctx).Create(bid).Error
}

// ListByMeme retrieves the bid history for a meme, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - memeID: meme ID to filter by.
// Returns:
//   - []domain.Bid: matching bid records.
//   - error: non-nil if the query fails.
func (r *BidRepository) ListByMeme(ctx context.Context, memeID string) ([]domain.Bid, error) {
	var bids []domain.Bid
	if err := r.db.WithContext(ctx).
		Where("meme_id = ?", memeID).
		Order("created_at DESC").
		Find(&bids).Error; err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	return bids, nil
}
