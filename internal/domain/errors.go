package domain

import "errors"

// Sentinel errors for the mutation protocol. Handlers map these to HTTP
// statuses (404 / 400) and the realtime channel maps them to error events;
// anything else is an upstream failure and surfaces as a 500.
var (
	// ErrMemeNotFound indicates the referenced meme does not exist.
	ErrMemeNotFound = errors.New("meme not found")

	// ErrBidTooLow indicates a bid that does not exceed the current highest bid.
	ErrBidTooLow = errors.New("bid must be higher than the current highest bid")

	// ErrInvalidVote indicates a vote direction other than "up" or "down".
	ErrInvalidVote = errors.New("vote type must be \"up\" or \"down\"")
)
