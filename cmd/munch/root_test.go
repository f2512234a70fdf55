// ABOUTME: Tests for CLI startup wiring of catalog, store, and tracker.
// ABOUTME: Covers the happy path and closing the store when the tracker fails to start.
package main

import (
	"errors"
	"testing"

	"github.com/2389-research/munch/internal/config"
	"github.com/2389-research/munch/internal/models"
	"github.com/2389-research/munch/internal/storage"
)

// brokenStore fails to list custom foods and records whether it was closed.
type brokenStore struct {
	closed bool
}

func (s *brokenStore) AppendEntry(*models.FoodEntry) error { return nil }
func (s *brokenStore) ListEntries() ([]*models.FoodEntry, error) { return nil, nil }
func (s *brokenStore) SaveCustomFood(models.FoodItem) error { return nil }
func (s *brokenStore) ListCustomFoods() ([]models.FoodItem, error) { return nil, errors.New("disk on fire") }
func (s *brokenStore) Close() error {
	s.closed = true
	return nil
}

func TestOpenTracker(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{DataDir: t.TempDir()}}

	store, tr, err := openTracker(cfg)
	if err != nil {
		t.Fatalf("openTracker error: %v", err)
	}
	defer func() { _ = store.Close() }()

	if len(tr.KnownItems()) == 0 {
		t.Error("expected built-in catalog to be loaded")
	}
}

func TestOpenTrackerClosesStoreOnFailure(t *testing.T) {
	broken := &brokenStore{}
	orig := openStore
	openStore = func(string, string) (storage.EntryStore, error) { return broken, nil }
	defer func() { openStore = orig }()

	cfg := &config.Config{Storage: config.StorageConfig{DataDir: t.TempDir()}}
	store, tr, err := openTracker(cfg)
	if err == nil {
		t.Fatal("expected error when the tracker cannot load custom foods")
	}
	if store != nil || tr != nil {
		t.Error("expected no store or tracker on failure")
	}
	if !broken.closed {
		t.Error("expected the store to be closed when the tracker fails to start")
	}
}
