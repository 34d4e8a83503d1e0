package claims

import (
	"context"
	"errors"
	"testing"
)

func TestClaims(t *testing.T) {
	ctx := context.Background()

	if _, err := Get(ctx); !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
	if IsUser(ctx, "1") {
		t.Fatal("anonymous context matched a user")
	}

	ctx = Set(ctx, Claims{UserID: "1", Name: "John Smith"})
	c, err := Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "John Smith" {
		t.Fatalf("unexpected name %q", c.Name)
	}
	if !IsUser(ctx, "1") || IsUser(ctx, "2") {
		t.Fatal("IsUser compared the wrong id")
	}
}
