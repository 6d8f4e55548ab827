package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/memehustle/backend/internal/domain"
	"gorm.io/gorm"
)

// MemeRepository handles meme data operations.
type MemeRepository struct {
	db *gorm.DB
}

// NewMemeRepository creates a new MemeRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *MemeRepository: repository instance bound to db.
func NewMemeRepository(db *gorm.DB) *MemeRepository {
	return &MemeRepository{db: db}
}

// Create inserts a new meme record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - meme: meme record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *MemeRepository) Create(ctx context.Context, meme *domain.Meme) error {
	return r.db.WithContext(ctx).Create(meme).Error
}

// GetByID retrieves a meme by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: meme ID.
// Returns:
//   - *domain.Meme: meme record if found.
//   - error: domain.ErrMemeNotFound if absent, otherwise the store error.
func (r *MemeRepository) GetByID(ctx context.Context, id string) (*domain.Meme, error) {
	var meme domain.Meme
	if err := r.db.WithContext(ctx).First(&meme, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemeNotFound
		}
		return nil, err
	}
	return &meme, nil
}

// List retrieves all memes, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.Meme: meme records ordered by creation time descending.
//   - error: non-nil if the query fails.
func (r *MemeRepository) List(ctx context.Context) ([]domain.Meme, error) {
	var memes []domain.Meme
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&memes).Error; err != nil {
		return nil, fmt.Errorf("failed to list memes: %w", err)
	}
	return memes, nil
}

// UpdateUpvotes writes a new upvote count for a meme.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: meme ID.
//   - upvotes: new absolute upvote count.
// Returns:
//   - error: non-nil if the update fails.
func (r *MemeRepository) UpdateUpvotes(ctx context.Context, id string, upvotes int) error {
	return r.db.WithContext(ctx).
		Model(&domain.Meme{}).
		Where("id = ?", id).
		Update("upvotes", upvotes).Error
}

// UpdateHighestBid writes the new highest bid amount and bidder for a meme.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: meme ID.
//   - credits: new highest bid amount.
//   - userID: bidder identifier.
// Returns:
//   - error: non-nil if the update fails.
func (r *MemeRepository) UpdateHighestBid(ctx context.Context, id string, credits int, userID string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Meme{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"highest_bid":    credits,
			"highest_bidder": userID,
		}).Error
}

// UpdateCaption writes a regenerated caption and vibe for a meme.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: meme ID.
//   - caption: generated caption text.
//   - vibe: generated vibe text.
// Returns:
//   - error: non-nil if the update fails.
func (r *MemeRepository) UpdateCaption(ctx context.Context, id string, caption, vibe string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Meme{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"caption": caption,
			"vibe":    vibe,
		}).Error
}

// TopByUpvotes retrieves the highest-voted memes.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: maximum number of records to return.
// Returns:
//   - []domain.Meme: memes ordered by upvote count descending; ties keep
//     store-native order.
//   - error: non-nil if the query fails.
func (r *MemeRepository) TopByUpvotes(ctx context.Context, limit int) ([]domain.Meme, error) {
	var memes []domain.Meme
	if err := r.db.WithContext(ctx).
		Order("upvotes DESC").
		Limit(limit).
		Find(&memes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch top memes: %w", err)
	}
	return memes, nil
}
