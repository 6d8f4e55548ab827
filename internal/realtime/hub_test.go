package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/memehustle/backend/internal/domain"
)

func recvFrame(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case frame, ok := <-ch:
		if !ok {
			t.Fatal("send channel closed unexpectedly")
		}
		return frame
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

// TestHubBroadcastReachesAllClients verifies fan-out includes every connected
// client and frames decode back to the emitted event.
func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := &Client{id: "a", hub: hub, send: make(chan []byte, 8)}
	b := &Client{id: "b", hub: hub, send: make(chan []byte, 8)}
	hub.register <- a
	hub.register <- b

	hub.Broadcast("vote_update", map[string]interface{}{"memeId": "m1", "upvotes": 3})

	for _, client := range []*Client{a, b} {
		frame := recvFrame(t, client.send)
		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("client %s frame unmarshal: %v", client.id, err)
		}
		if env.Event != "vote_update" {
			t.Errorf("client %s event = %q, want vote_update", client.id, env.Event)
		}
	}
}

// TestHubBroadcastOrdering verifies frames reach one client in emission order.
func TestHubBroadcastOrdering(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{id: "a", hub: hub, send: make(chan []byte, 16)}
	hub.register <- client

	for i := 0; i < 5; i++ {
		hub.Broadcast("vote_update", map[string]interface{}{"seq": i})
	}

	for i := 0; i < 5; i++ {
		frame := recvFrame(t, client.send)
		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("frame %d unmarshal: %v", i, err)
		}
		var payload struct {
			Seq int `json:"seq"`
		}
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			t.Fatalf("payload %d unmarshal: %v", i, err)
		}
		if payload.Seq != i {
			t.Errorf("frame %d carries seq %d", i, payload.Seq)
		}
	}
}

// TestHubDropsSlowConsumer verifies a client with a full send buffer is
// disconnected instead of blocking the hub.
func TestHubDropsSlowConsumer(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{id: "slow", hub: hub, send: make(chan []byte, 1)}
	fast := &Client{id: "fast", hub: hub, send: make(chan []byte, 8)}
	hub.register <- slow
	hub.register <- fast

	hub.Broadcast("new_meme", map[string]interface{}{"n": 1}) // fills slow's buffer
	hub.Broadcast("new_meme", map[string]interface{}{"n": 2}) // drops slow

	recvFrame(t, fast.send)
	recvFrame(t, fast.send)

	recvFrame(t, slow.send) // buffered first frame
	select {
	case _, ok := <-slow.send:
		if ok {
			t.Error("slow client received a frame past its buffer instead of being dropped")
		}
	case <-time.After(time.Second):
		t.Error("slow client send channel was not closed")
	}
}

// TestRejectionAfterSlowDrop verifies a rejection arriving after the hub has
// dropped a client is discarded instead of panicking on the closed send
// channel. The read goroutine keeps dispatching until the connection dies, so
// this interleaving occurs in normal operation.
func TestRejectionAfterSlowDrop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	mutator := &stubMutator{bidErr: domain.ErrBidTooLow}
	client := &Client{id: "slow", hub: hub, send: make(chan []byte, 1), mutator: mutator}
	hub.register <- client

	hub.Broadcast("new_meme", map[string]interface{}{"n": 1}) // fills the buffer
	hub.Broadcast("new_meme", map[string]interface{}{"n": 2}) // drops the client

	recvFrame(t, client.send) // buffered first frame
	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatal("expected send channel to be closed after the drop")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}

	client.dispatch(mustEnvelope(t, EventPlaceBid, BidRequest{MemeID: "m1", UserID: "u1", Credits: 100}))

	if len(mutator.bids) != 1 {
		t.Errorf("dispatched bids = %d, want 1", len(mutator.bids))
	}
}

// stubMutator records dispatched operations and returns configured errors.
type stubMutator struct {
	voteErr error
	bidErr  error
	votes   []VoteRequest
	bids    []BidRequest
}

func (m *stubMutator) Vote(ctx context.Context, memeID, voteType string) (int, error) {
	m.votes = append(m.votes, VoteRequest{MemeID: memeID, VoteType: voteType})
	return 1, m.voteErr
}

func (m *stubMutator) PlaceBid(ctx context.Context, memeID, userID string, credits int) (*domain.Meme, error) {
	m.bids = append(m.bids, BidRequest{MemeID: memeID, UserID: userID, Credits: credits})
	if m.bidErr != nil {
		return nil, m.bidErr
	}
	return &domain.Meme{ID: memeID}, nil
}

func mustEnvelope(t *testing.T, event string, data interface{}) *Envelope {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &Envelope{Event: event, Data: raw}
}

// TestDispatchPlaceBid verifies inbound bids reach the mutator with their
// payload intact and emit nothing to the client on success.
func TestDispatchPlaceBid(t *testing.T) {
	mutator := &stubMutator{}
	client := &Client{id: "c", send: make(chan []byte, 4), mutator: mutator}

	client.dispatch(mustEnvelope(t, EventPlaceBid, BidRequest{MemeID: "m1", UserID: "u1", Credits: 150}))

	if len(mutator.bids) != 1 || mutator.bids[0].Credits != 150 {
		t.Fatalf("dispatched bids = %+v", mutator.bids)
	}
	select {
	case frame := <-client.send:
		t.Errorf("unexpected frame on success: %s", frame)
	default:
	}
}

// TestDispatchErrorsGoToOriginatorOnly verifies rejections come back as error
// events with the protocol's messages.
func TestDispatchErrorsGoToOriginatorOnly(t *testing.T) {
	testCases := []struct {
		name    string
		mutator *stubMutator
		env     func(t *testing.T) *Envelope
		wantMsg string
	}{
		{
			name:    "bid too low",
			mutator: &stubMutator{bidErr: domain.ErrBidTooLow},
			env: func(t *testing.T) *Envelope {
				return mustEnvelope(t, EventPlaceBid, BidRequest{MemeID: "m1", UserID: "u1", Credits: 100})
			},
			wantMsg: "Bid must be higher than the current highest bid.",
		},
		{
			name:    "vote on unknown meme",
			mutator: &stubMutator{voteErr: domain.ErrMemeNotFound},
			env: func(t *testing.T) *Envelope {
				return mustEnvelope(t, EventVote, VoteRequest{MemeID: "gone", VoteType: "up"})
			},
			wantMsg: "Meme not found",
		},
		{
			name:    "store failure stays generic",
			mutator: &stubMutator{voteErr: errors.New("connection reset")},
			env: func(t *testing.T) *Envelope {
				return mustEnvelope(t, EventVote, VoteRequest{MemeID: "m1", VoteType: "up"})
			},
			wantMsg: "Failed to register vote",
		},
		{
			name:    "unknown event",
			mutator: &stubMutator{},
			env: func(t *testing.T) *Envelope {
				return &Envelope{Event: "shrug"}
			},
			wantMsg: "Unknown event: shrug",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := &Client{id: "c", send: make(chan []byte, 4), mutator: tc.mutator}
			client.dispatch(tc.env(t))

			frame := recvFrame(t, client.send)
			var env Envelope
			if err := json.Unmarshal(frame, &env); err != nil {
				t.Fatalf("frame unmarshal: %v", err)
			}
			if env.Event != EventError {
				t.Fatalf("event = %q, want error", env.Event)
			}
			var payload ErrorPayload
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				t.Fatalf("payload unmarshal: %v", err)
			}
			if payload.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", payload.Message, tc.wantMsg)
			}
		})
	}
}
