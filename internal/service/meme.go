package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/memehustle/backend/internal/domain"
	"github.com/memehustle/backend/internal/logger"
	"github.com/memehustle/backend/internal/prompts"
)

// Event names for realtime notifications. Every accepted mutation fans one of
// these out to all connected clients, including the originator.
const (
	EventNewMeme    = "new_meme"
	EventNewBid     = "new_bid"
	EventVoteUpdate = "vote_update"
)

// VoteUpdatePayload is broadcast after an accepted vote.
type VoteUpdatePayload struct {
	MemeID  string `json:"memeId"`
	Upvotes int    `json:"upvotes"`
}

// NewBidPayload is broadcast after an accepted bid.
type NewBidPayload struct {
	MemeID  string `json:"memeId"`
	UserID  string `json:"userId"`
	Credits int    `json:"credits"`
}

// Broadcaster fans an event out to every realtime-connected client.
// Emission is fire-and-forget: it must not block and delivery is not
// acknowledged.
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

// CaptionGenerator produces caption and vibe text for a meme.
type CaptionGenerator interface {
	GenerateCaption(ctx context.Context, title string, tags []string) (string, error)
	GenerateVibe(ctx context.Context, tags []string) (string, error)
}

// MemeStore is the meme persistence surface the service depends on.
type MemeStore interface {
	Create(ctx context.Context, meme *domain.Meme) error
	GetByID(ctx context.Context, id string) (*domain.Meme, error)
	List(ctx context.Context) ([]domain.Meme, error)
	UpdateUpvotes(ctx context.Context, id string, upvotes int) error
	UpdateHighestBid(ctx context.Context, id string, credits int, userID string) error
	UpdateCaption(ctx context.Context, id string, caption, vibe string) error
}

// BidStore is the bid persistence surface the service depends on.
type BidStore interface {
	Create(ctx context.Context, bid *domain.Bid) error
}

// MemeService implements the mutation-and-broadcast protocol. Both transports
// (the websocket channel and the REST fallback) call into this one place, so
// validation and store mutation logic exist exactly once.
type MemeService struct {
	memes       MemeStore
	bids        BidStore
	generator   CaptionGenerator
	cache       *GenCache
	leaderboard *Leaderboard
	broadcaster Broadcaster
}

// NewMemeService creates the shared mutation service.
// Parameters:
//   - memes: meme store.
//   - bids: bid store.
//   - generator: caption/vibe generator.
//   - cache: generation response cache.
//   - leaderboard: leaderboard projection refreshed after votes.
//   - broadcaster: realtime fan-out sink.
// Returns:
//   - *MemeService: initialized service.
func NewMemeService(
	memes MemeStore,
	bids BidStore,
	generator CaptionGenerator,
	cache *GenCache,
	leaderboard *Leaderboard,
	broadcaster Broadcaster,
) *MemeService {
	return &MemeService{
		memes:       memes,
		bids:        bids,
		generator:   generator,
		cache:       cache,
		leaderboard: leaderboard,
		broadcaster: broadcaster,
	}
}

// Create generates caption and vibe for a new meme (consulting the response
// cache first), persists it, and broadcasts a new_meme event.
// Generator failures never fail the request: the meme ships with fixed
// fallback text instead.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - title: meme title.
//   - imageURL: image reference; stored opaquely.
//   - tags: ordered tag list.
// Returns:
//   - *domain.Meme: created record.
//   - error: non-nil only if the store insert fails.
func (s *MemeService) Create(ctx context.Context, title, imageURL string, tags []string) (*domain.Meme, error) {
	caption := s.generateWithCache(ctx, CaptionKey(title, tags), prompts.FallbackCaption, func() (string, error) {
		return s.generator.GenerateCaption(ctx, title, tags)
	})
	vibe := s.generateWithCache(ctx, VibeKey(tags), prompts.FallbackVibe, func() (string, error) {
		return s.generator.GenerateVibe(ctx, tags)
	})

	meme := &domain.Meme{
		ID:            uuid.New().String(),
		Title:         title,
		ImageURL:      imageURL,
		Tags:          tags,
		Caption:       caption,
		Vibe:          vibe,
		Upvotes:       0,
		UploadedBy:    "anonymous_user",
		HighestBid:    0,
		HighestBidder: nil,
	}

	if err := s.memes.Create(ctx, meme); err != nil {
		return nil, err
	}

	s.broadcaster.Broadcast(EventNewMeme, meme)
	return meme, nil
}

// generateWithCache returns cached text for key, or generates and caches it,
// or falls back on generator failure (which is logged, never surfaced).
func (s *MemeService) generateWithCache(ctx context.Context, key, fallback string, gen func() (string, error)) string {
	if text, ok := s.cache.Get(key); ok {
		return text
	}
	text, err := gen()
	if err != nil || text == "" {
		if err != nil {
			logger.CtxWarn(ctx, "Generation failed, using fallback: %v", err)
		}
		return fallback
	}
	s.cache.Set(key, text)
	return text
}

// Vote applies an up or down vote to a meme, refreshes the leaderboard in the
// background, and broadcasts the new count. The broadcast is emitted only
// after the store write has been acknowledged; the leaderboard refresh is
// best-effort and not awaited.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - memeID: meme to vote on.
//   - voteType: "up" or "down".
// Returns:
//   - int: new upvote count.
//   - error: domain.ErrMemeNotFound, domain.ErrInvalidVote, or a store error.
func (s *MemeService) Vote(ctx context.Context, memeID, voteType string) (int, error) {
	increment := 0
	switch voteType {
	case "up":
		increment = 1
	case "down":
		increment = -1
	default:
		return 0, domain.ErrInvalidVote
	}

	meme, err := s.memes.GetByID(ctx, memeID)
	if err != nil {
		return 0, err
	}

	newUpvotes := meme.Upvotes + increment
	if err := s.memes.UpdateUpvotes(ctx, memeID, newUpvotes); err != nil {
		return 0, err
	}

	go s.leaderboard.Refresh(context.Background())

	s.broadcaster.Broadcast(EventVoteUpdate, VoteUpdatePayload{
		MemeID:  memeID,
		Upvotes: newUpvotes,
	})
	return newUpvotes, nil
}

// PlaceBid validates a bid against the meme's current highest bid, appends a
// bid record, updates the meme, and broadcasts a new_bid event. Rejected bids
// mutate nothing and emit nothing.
//
// The read-compare-write sequence is not a single transaction: two bids
// racing on the same meme can both pass the comparison before either writes.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - memeID: meme being bid on.
//   - userID: opaque bidder identifier.
//   - credits: bid amount; must exceed the current highest bid.
// Returns:
//   - *domain.Meme: meme with the updated bid fields.
//   - error: domain.ErrMemeNotFound, domain.ErrBidTooLow, or a store error.
func (s *MemeService) PlaceBid(ctx context.Context, memeID, userID string, credits int) (*domain.Meme, error) {
	meme, err := s.memes.GetByID(ctx, memeID)
	if err != nil {
		return nil, err
	}

	if credits <= meme.HighestBid {
		return nil, domain.ErrBidTooLow
	}

	bid := &domain.Bid{
		ID:      uuid.New().String(),
		MemeID:  memeID,
		UserID:  userID,
		Credits: credits,
	}
	if err := s.bids.Create(ctx, bid); err != nil {
		return nil, err
	}

	if err := s.memes.UpdateHighestBid(ctx, memeID, credits, userID); err != nil {
		return nil, err
	}

	meme.HighestBid = credits
	meme.HighestBidder = &userID

	s.broadcaster.Broadcast(EventNewBid, NewBidPayload{
		MemeID:  memeID,
		UserID:  userID,
		Credits: credits,
	})
	return meme, nil
}

// RegenerateCaption regenerates and persists caption and vibe for an existing
// meme. The cache is repopulated with fresh results but deliberately not
// consulted, so the endpoint always produces new text.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - memeID: meme to regenerate.
// Returns:
//   - *domain.Meme: meme with the new caption and vibe.
//   - error: domain.ErrMemeNotFound or a store error.
func (s *MemeService) RegenerateCaption(ctx context.Context, memeID string) (*domain.Meme, error) {
	meme, err := s.memes.GetByID(ctx, memeID)
	if err != nil {
		return nil, err
	}

	caption, err := s.generator.GenerateCaption(ctx, meme.Title, meme.Tags)
	if err != nil || caption == "" {
		if err != nil {
			logger.CtxWarn(ctx, "Caption regeneration failed, using fallback: %v", err)
		}
		caption = prompts.FallbackCaption
	} else {
		s.cache.Set(CaptionKey(meme.Title, meme.Tags), caption)
	}

	vibe, err := s.generator.GenerateVibe(ctx, meme.Tags)
	if err != nil || vibe == "" {
		if err != nil {
			logger.CtxWarn(ctx, "Vibe regeneration failed, using fallback: %v", err)
		}
		vibe = prompts.FallbackVibe
	} else {
		s.cache.Set(VibeKey(meme.Tags), vibe)
	}

	if err := s.memes.UpdateCaption(ctx, memeID, caption, vibe); err != nil {
		return nil, err
	}

	meme.Caption = caption
	meme.Vibe = vibe
	return meme, nil
}

// List returns all memes, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.Meme: meme records.
//   - error: non-nil if the store read fails.
func (s *MemeService) List(ctx context.Context) ([]domain.Meme, error) {
	return s.memes.List(ctx)
}

// Leaderboard returns the projection so transports can serve Get reads.
// Parameters: none.
// Returns:
//   - *Leaderboard: the leaderboard projection.
func (s *MemeService) Leaderboard() *Leaderboard {
	return s.leaderboard
}
