package postgres

import (
	"context"
	"testing"
)

func TestNewPool_BadURL(t *testing.T) {
	if _, err := NewPool(context.Background(), "postgres://:badport/db"); err == nil {
		t.Fatal("expected parse error")
	}
}
