package logger

import (
	"context"
	"testing"
)

// TestFieldSettersRoundTrip verifies the standard tracing setters store fields
// retrievable from the context's logger.
func TestFieldSettersRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = SetRequestID(ctx, "req-1")
	ctx = SetMemeID(ctx, "meme-1")
	ctx = SetUserID(ctx, "user-1")

	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("request ID = %q, want req-1", got)
	}
	if got := GetFieldString(ctx, FieldMemeID); got != "meme-1" {
		t.Errorf("meme ID = %q, want meme-1", got)
	}
	if got := GetFieldString(ctx, FieldUserID); got != "user-1" {
		t.Errorf("user ID = %q, want user-1", got)
	}
}

// TestFieldsAccumulate verifies setters layer onto the same logger instead of
// replacing earlier fields.
func TestFieldsAccumulate(t *testing.T) {
	ctx := SetMemeID(context.Background(), "meme-1")
	ctx = SetUserID(ctx, "user-1")

	fields := GetFields(ctx)
	if fields[FieldMemeID] != "meme-1" || fields[FieldUserID] != "user-1" {
		t.Errorf("fields = %v, want both meme_id and user_id present", fields)
	}
}

// TestFromContextFallsBackToDefault verifies a bare context yields the default
// logger rather than nil.
func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext returned nil for a bare context")
	}
	if FromContext(nil) == nil {
		t.Fatal("FromContext returned nil for a nil context")
	}
}
