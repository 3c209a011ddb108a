// ABOUTME: Tests for recent topics management
// ABOUTME: Validates persistence, max limit, and deduplication

package recenttopics

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/markalston/study-tracker/internal/storage"
)

func TestLoadEmpty(t *testing.T) {
	rt := New(storage.NewMemory())

	topics, err := rt.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(topics) != 0 {
		t.Errorf("expected empty list, got %v", topics)
	}
}

func TestAddMoveToFront(t *testing.T) {
	rt := New(storage.NewMemory())

	rt.Add("Math")
	rt.Add("Physics")
	rt.Add("math ")

	topics := rt.List()
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %v", topics)
	}
	if topics[0] != "math" || topics[1] != "Physics" {
		t.Errorf("expected [math Physics], got %v", topics)
	}
}

func TestMaxLimit(t *testing.T) {
	rt := New(storage.NewMemory())

	for i := 0; i < MaxRecentTopics+3; i++ {
		rt.Add(fmt.Sprintf("topic-%d", i))
	}

	topics := rt.List()
	if len(topics) != MaxRecentTopics {
		t.Fatalf("expected %d topics, got %d", MaxRecentTopics, len(topics))
	}
	if topics[0] != fmt.Sprintf("topic-%d", MaxRecentTopics+2) {
		t.Errorf("expected newest first, got %s", topics[0])
	}
}

func TestIgnoresBlank(t *testing.T) {
	rt := New(storage.NewMemory())
	rt.Add("  ")
	if len(rt.List()) != 0 {
		t.Errorf("expected blank topic ignored, got %v", rt.List())
	}
}

func TestPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	if err := New(storage.NewFile(path)).Add("Chemistry"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	topics, err := New(storage.NewFile(path)).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(topics) != 1 || topics[0] != "Chemistry" {
		t.Errorf("expected [Chemistry], got %v", topics)
	}
}

func TestInvalidDataStartsFresh(t *testing.T) {
	s := storage.NewMemory()
	s.SetItem(StorageKey, "not json")

	topics, err := New(s).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(topics) != 0 {
		t.Errorf("expected empty list, got %v", topics)
	}
}

func TestMatch(t *testing.T) {
	rt := New(storage.NewMemory())
	rt.Add("Linear algebra")
	rt.Add("Go concurrency")
	rt.Add("Algorithms")

	if got := rt.Match(""); len(got) != 3 {
		t.Errorf("expected all topics for empty query, got %v", got)
	}

	got := rt.Match("alg")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %v", got)
	}
	if got[0] != "Algorithms" {
		t.Errorf("expected closest match first, got %v", got)
	}

	if got := rt.Match("xyz"); len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}
