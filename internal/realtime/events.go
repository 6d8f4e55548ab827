package realtime

import "encoding/json"

// Client-to-server event names. Server-to-client names live in the service
// package next to the payloads they carry.
const (
	EventPlaceBid = "place_bid"
	EventVote     = "vote"
	EventError    = "error"
)

// Envelope is the wire format for every message on the realtime channel,
// in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// BidRequest is the payload of a place_bid event.
type BidRequest struct {
	MemeID  string `json:"memeId"`
	UserID  string `json:"userId"`
	Credits int    `json:"credits"`
}

// VoteRequest is the payload of a vote event.
type VoteRequest struct {
	MemeID   string `json:"memeId"`
	VoteType string `json:"voteType"`
}

// ErrorPayload is the payload of an error event, delivered only to the client
// whose operation was rejected.
type ErrorPayload struct {
	Message string `json:"message"`
}

// encodeEvent marshals an event and payload into a wire frame.
func encodeEvent(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
