package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/memehustle/backend/internal/domain"
	"github.com/memehustle/backend/internal/logger"
	"github.com/memehustle/backend/internal/service"
)

// MemeHandler handles meme endpoints: listing, creation, votes, bids, and
// caption regeneration. It is the REST fallback for the realtime channel and
// shares the same mutation service, so both paths produce identical effects.
type MemeHandler struct {
	memeService *service.MemeService
}

// NewMemeHandler creates a new meme handler.
// Parameters:
//   - memeService: shared mutation service.
// Returns:
//   - *MemeHandler: initialized handler.
func NewMemeHandler(memeService *service.MemeService) *MemeHandler {
	return &MemeHandler{
		memeService: memeService,
	}
}

type createMemeRequest struct {
	Title    string   `json:"title" binding:"required"`
	ImageURL string   `json:"imageUrl"`
	Tags     []string `json:"tags"`
}

type voteRequest struct {
	VoteType string `json:"voteType"`
}

type bidRequest struct {
	UserID  string `json:"userId" binding:"required"`
	Credits int    `json:"credits"`
}

// ListMemes handles GET /api/memes.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *MemeHandler) ListMemes(c *gin.Context) {
	memes, err := h.memeService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch memes: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, memes)
}

// CreateMeme handles POST /api/memes.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *MemeHandler) CreateMeme(c *gin.Context) {
	var req createMemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	meme, err := h.memeService.Create(c.Request.Context(), req.Title, req.ImageURL, req.Tags)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create meme: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, meme)
}

// Vote handles POST /api/memes/:id/vote, the REST fallback for the vote
// channel event.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *MemeHandler) Vote(c *gin.Context) {
	memeID := c.Param("id")

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx := logger.SetMemeID(c.Request.Context(), memeID)
	upvotes, err := h.memeService.Vote(ctx, memeID, req.VoteType)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Meme not found"})
		case errors.Is(err, domain.ErrInvalidVote):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "upvotes": upvotes})
}

// Bid handles POST /api/memes/:id/bid, the REST fallback for the place_bid
// channel event.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *MemeHandler) Bid(c *gin.Context) {
	memeID := c.Param("id")

	var req bidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx := logger.SetMemeID(c.Request.Context(), memeID)
	ctx = logger.SetUserID(ctx, req.UserID)
	meme, err := h.memeService.PlaceBid(ctx, memeID, req.UserID, req.Credits)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Meme not found"})
		case errors.Is(err, domain.ErrBidTooLow):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bid must be higher than the current highest bid."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "meme": meme})
}

// RegenerateCaption handles POST /api/memes/:id/caption.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *MemeHandler) RegenerateCaption(c *gin.Context) {
	memeID := c.Param("id")

	ctx := logger.SetMemeID(c.Request.Context(), memeID)
	meme, err := h.memeService.RegenerateCaption(ctx, memeID)
	if err != nil {
		if errors.Is(err, domain.ErrMemeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Meme not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, meme)
}
