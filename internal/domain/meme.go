package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the slice.
//   - error: non-nil if marshaling fails.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// Meme represents a user-submitted meme.
// Upvotes is the running sum of all vote increments and decrements and may go
// negative. HighestBid only moves upward once set; HighestBidder is whoever
// most recently set it, nil until the first accepted bid.
type Meme struct {
	ID            string      `gorm:"type:text;primaryKey" json:"id"`
	Title         string      `gorm:"type:text;not null" json:"title"`
	ImageURL      string      `gorm:"column:image_url;type:text" json:"image_url"`
	Tags          StringArray `gorm:"type:text" json:"tags"`
	Caption       string      `gorm:"type:text" json:"caption"`
	Vibe          string      `gorm:"type:text" json:"vibe"`
	Upvotes       int         `gorm:"default:0;index:idx_memes_upvotes" json:"upvotes"`
	UploadedBy    string      `gorm:"column:uploaded_by;type:text" json:"uploaded_by"`
	HighestBid    int         `gorm:"column:highest_bid;default:0" json:"highest_bid"`
	HighestBidder *string     `gorm:"column:highest_bidder;type:text" json:"highest_bidder"`
	CreatedAt     time.Time   `gorm:"index:idx_memes_created" json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName returns the database table name for Meme.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Meme) TableName() string {
	return "memes"
}
