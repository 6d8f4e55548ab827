package domain

import "time"

// Bid is an immutable bidding event. Every accepted bid satisfied
// credits > meme.highest_bid at acceptance time; records are append-only and
// never mutated or deleted.
type Bid struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	MemeID    string    `gorm:"column:meme_id;type:text;not null;index:idx_bids_meme" json:"meme_id"`
	UserID    string    `gorm:"column:user_id;type:text;not null" json:"user_id"`
	Credits   int       `gorm:"not null" json:"credits"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Bid.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Bid) TableName() string {
	return "bids"
}
