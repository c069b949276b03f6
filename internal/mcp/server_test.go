package mcp

import (
	"context"
	"testing"
)

// TestUserIDFromContextDefault verifies the default user ID ("local") when
// no value is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != "local" {
		t.Errorf("UserIDFromContext(empty) = %q, want %q", id, "local")
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), "alice@example.com")
	if id := UserIDFromContext(ctx); id != "alice@example.com" {
		t.Errorf("UserIDFromContext = %q, want %q", id, "alice@example.com")
	}
}

// TestUserIDFromContextEmptyString verifies an empty stored value falls back
// to the default.
func TestUserIDFromContextEmptyString(t *testing.T) {
	ctx := WithUserID(context.Background(), "")
	if id := UserIDFromContext(ctx); id != "local" {
		t.Errorf("UserIDFromContext = %q, want %q", id, "local")
	}
}
