package redis

import (
	"context"
	"testing"
)

func TestRevocationStore_Key(t *testing.T) {
	s := NewRevocationStore(nil)
	if got := s.key("abc"); got != "revoked:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestRevocationStore_ExpiredTokenIsNoop(t *testing.T) {
	// A nil client would panic if the store tried to reach Redis.
	s := NewRevocationStore(nil)
	if err := s.Revoke(context.Background(), "abc", 0); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}
