// ABOUTME: Tests for MCP server creation and validation.
// ABOUTME: Verifies the server requires a tracker and honours its options.
package mcp

import (
	"testing"

	"github.com/2389-research/munch/internal/config"
)

func TestNewServerRequiresTracker(t *testing.T) {
	_, err := NewServer(nil)
	if err == nil {
		t.Error("expected error when tracker is nil")
	}
}

func TestNewServerSuccess(t *testing.T) {
	server, err := NewServer(makeTracker(t))
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	if server == nil {
		t.Fatal("expected non-nil server")
	}
	if server.topK != config.DefaultTopK {
		t.Errorf("expected default top_k %d, got %d", config.DefaultTopK, server.topK)
	}
}

func TestNewServerWithDefaultTopK(t *testing.T) {
	server, err := NewServer(makeTracker(t), WithDefaultTopK(7))
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	if server.topK != 7 {
		t.Errorf("expected top_k 7, got %d", server.topK)
	}

	server, err = NewServer(makeTracker(t), WithDefaultTopK(0))
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	if server.topK != config.DefaultTopK {
		t.Errorf("expected non-positive top_k to be ignored, got %d", server.topK)
	}
}
